package encoding

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-sqisign/pkg/sqisign"
)

func compressedBundle() *Bundle {
	return &Bundle{
		Params:    sqisign.DefaultParams(),
		PublicKey: sqisign.PublicKey{A: sqisign.NewElement(6, 0)},
		Message:   []byte("Hello, world!"),
		Compressed: &sqisign.CompressedSignature{
			Blocks: []sqisign.CompressedBlock{
				{Swap: false, Scalar: big.NewInt(12345)},
				{Swap: true, Scalar: new(big.Int).Lsh(big.NewInt(1), 127)},
			},
			Commitment: sqisign.NewElement(17, 4),
		},
	}
}

func uncompressedBundle() *Bundle {
	return &Bundle{
		Params:    sqisign.DefaultParams(),
		PublicKey: sqisign.PublicKey{A: sqisign.NewElement(6, 0)},
		Message:   []byte{0x00, 0xff, 0x10},
		Uncompressed: &sqisign.UncompressedSignature{
			Kernels:    []sqisign.Element{sqisign.NewElement(1, 2), sqisign.NewElement(0, 0)},
			Commitment: sqisign.NewElement(17, 4),
		},
	}
}

func assertIntEqual(t *testing.T, want, got *big.Int) {
	t.Helper()
	require.NotNil(t, got)
	assert.Zero(t, want.Cmp(got), "want %v, got %v", want, got)
}

func assertElementEqual(t *testing.T, want, got sqisign.Element) {
	t.Helper()
	assertIntEqual(t, want.Re, got.Re)
	assertIntEqual(t, want.Im, got.Im)
}

func assertBundleEqual(t *testing.T, want, got *Bundle) {
	t.Helper()
	assertIntEqual(t, want.Params.Cofactor, got.Params.Cofactor)
	assert.Equal(t, want.Params.F, got.Params.F)
	assertElementEqual(t, want.PublicKey.A, got.PublicKey.A)
	assert.Equal(t, want.Message, got.Message)

	if want.Compressed != nil {
		require.NotNil(t, got.Compressed)
		assert.Nil(t, got.Uncompressed)
		assertElementEqual(t, want.Compressed.Commitment, got.Compressed.Commitment)
		require.Len(t, got.Compressed.Blocks, len(want.Compressed.Blocks))
		for i, blk := range want.Compressed.Blocks {
			assert.Equal(t, blk.Swap, got.Compressed.Blocks[i].Swap)
			assertIntEqual(t, blk.Scalar, got.Compressed.Blocks[i].Scalar)
		}
		return
	}
	require.NotNil(t, got.Uncompressed)
	assert.Nil(t, got.Compressed)
	assertElementEqual(t, want.Uncompressed.Commitment, got.Uncompressed.Commitment)
	require.Len(t, got.Uncompressed.Kernels, len(want.Uncompressed.Kernels))
	for i, k := range want.Uncompressed.Kernels {
		assertElementEqual(t, k, got.Uncompressed.Kernels[i])
	}
}

func TestRoundTrip(t *testing.T) {
	codecs := []struct {
		name      string
		marshal   func(*Bundle) ([]byte, error)
		unmarshal func([]byte) (*Bundle, error)
	}{
		{"yaml", MarshalYAML, UnmarshalYAML},
		{"binary", MarshalBinary, UnmarshalBinary},
		{"yaml sniffed", MarshalYAML, Decode},
		{"binary sniffed", MarshalBinary, Decode},
	}
	bundles := map[string]*Bundle{
		"compressed":   compressedBundle(),
		"uncompressed": uncompressedBundle(),
	}
	for _, c := range codecs {
		for name, b := range bundles {
			t.Run(c.name+"/"+name, func(t *testing.T) {
				data, err := c.marshal(b)
				require.NoError(t, err)
				got, err := c.unmarshal(data)
				require.NoError(t, err)
				assertBundleEqual(t, b, got)
			})
		}
	}
}

func TestUnmarshalYAML(t *testing.T) {
	doc := `
public_key: {re: "6", im: "0"}
message: "Hello, world!"
compressed: true
signature:
  commitment: {re: "0x11", im: "4"}
  blocks:
    - {swap: false, scalar: "12345"}
    - {swap: true, scalar: "0x80"}
`
	b, err := UnmarshalYAML([]byte(doc))
	require.NoError(t, err)

	assertIntEqual(t, sqisign.DefaultParams().Cofactor, b.Params.Cofactor)
	assert.Equal(t, sqisign.DefaultTorsionExponent, b.Params.F)
	assert.Equal(t, []byte("Hello, world!"), b.Message)
	require.NotNil(t, b.Compressed)
	assertElementEqual(t, sqisign.NewElement(17, 4), b.Compressed.Commitment)
	require.Len(t, b.Compressed.Blocks, 2)
	assert.True(t, b.Compressed.Blocks[1].Swap)
	assertIntEqual(t, big.NewInt(128), b.Compressed.Blocks[1].Scalar)
}

func TestUnmarshalYAMLRejects(t *testing.T) {
	tests := map[string]string{
		"not yaml":        "{{{",
		"bad integer":     `public_key: {re: "six", im: "0"}`,
		"negative":        `public_key: {re: "-6", im: "0"}`,
		"missing im":      `public_key: {re: "6"}`,
		"mixed signature": "public_key: {re: \"6\", im: \"0\"}\nsignature:\n  commitment: {re: \"1\", im: \"1\"}\n  blocks: [{scalar: \"1\"}]\n",
		"bad params":      "params: {cofactor: \"4\", f: 128}\npublic_key: {re: \"6\", im: \"0\"}\nsignature:\n  commitment: {re: \"1\", im: \"1\"}\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := UnmarshalYAML([]byte(doc))
			require.Error(t, err)
			k := sqisign.KindOf(err)
			assert.Contains(t, []sqisign.Kind{sqisign.KindEncoding, sqisign.KindConstruction}, k)
		})
	}
}

func TestUnmarshalBinaryRejects(t *testing.T) {
	good, err := MarshalBinary(compressedBundle())
	require.NoError(t, err)

	_, err = UnmarshalBinary(good[:len(good)-1])
	assert.ErrorIs(t, err, sqisign.ErrInvalidEncoding)

	_, err = UnmarshalBinary(append(append([]byte{}, good...), 0))
	assert.ErrorIs(t, err, sqisign.ErrInvalidEncoding)

	_, err = UnmarshalBinary([]byte("SQI\x02"))
	assert.ErrorIs(t, err, sqisign.ErrInvalidEncoding)

	_, err = UnmarshalBinary(nil)
	assert.ErrorIs(t, err, sqisign.ErrInvalidEncoding)
}

func TestMarshalRejectsIncompleteBundle(t *testing.T) {
	b := compressedBundle()
	b.Uncompressed = uncompressedBundle().Uncompressed
	_, err := MarshalBinary(b)
	assert.ErrorIs(t, err, sqisign.ErrInvalidEncoding)

	b = compressedBundle()
	b.Compressed = nil
	_, err = MarshalYAML(b)
	assert.ErrorIs(t, err, sqisign.ErrInvalidEncoding)

	b = compressedBundle()
	b.Compressed.Blocks[0].Scalar = nil
	_, err = MarshalYAML(b)
	assert.ErrorIs(t, err, sqisign.ErrInvalidEncoding)
}

func FuzzUnmarshalBinary(f *testing.F) {
	for _, b := range []*Bundle{compressedBundle(), uncompressedBundle()} {
		data, err := MarshalBinary(b)
		if err != nil {
			f.Fatal(err)
		}
		f.Add(data)
	}
	f.Add([]byte("SQI\x01"))

	f.Fuzz(func(t *testing.T, data []byte) {
		b, err := UnmarshalBinary(data)
		if err != nil {
			return
		}
		again, err := MarshalBinary(b)
		if err != nil {
			t.Fatalf("re-encoding a decoded bundle failed: %v", err)
		}
		b2, err := UnmarshalBinary(again)
		if err != nil {
			t.Fatalf("decoding a re-encoded bundle failed: %v", err)
		}
		assertBundleEqual(t, b, b2)
	})
}
