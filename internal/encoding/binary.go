package encoding

import (
	"math/big"

	"github.com/pkg/errors"
	"golang.org/x/crypto/cryptobyte"

	"github.com/smallyu/go-sqisign/pkg/sqisign"
)

// Binary layout, all integers big-endian:
//
//	magic      "SQI" 0x01
//	params     u16-prefixed cofactor, u16 f
//	public key element
//	message    u32-prefixed bytes
//	kind       u8: 1 compressed, 2 uncompressed
//	commitment element
//	body       u16-prefixed list of blocks (u8 swap, u16-prefixed scalar)
//	           or of kernel elements
//
// An element is two u16-prefixed residues, real part first.
var magic = []byte{'S', 'Q', 'I', 0x01}

const (
	kindCompressed   uint8 = 1
	kindUncompressed uint8 = 2
)

func addInt(b *cryptobyte.Builder, n *big.Int) {
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(n.Bytes())
	})
}

func addElement(b *cryptobyte.Builder, e sqisign.Element) {
	addInt(b, e.Re)
	addInt(b, e.Im)
}

// MarshalBinary writes b in the binary format.
func MarshalBinary(b *Bundle) ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if b.Params.F > 0xffff {
		return nil, errors.Wrapf(sqisign.ErrInvalidEncoding, "torsion exponent %d does not fit", b.Params.F)
	}

	var builder cryptobyte.Builder
	builder.AddBytes(magic)
	addInt(&builder, b.Params.Cofactor)
	builder.AddUint16(uint16(b.Params.F))
	addElement(&builder, b.PublicKey.A)
	builder.AddUint32LengthPrefixed(func(child *cryptobyte.Builder) {
		child.AddBytes(b.Message)
	})

	if sig := b.Compressed; sig != nil {
		builder.AddUint8(kindCompressed)
		addElement(&builder, sig.Commitment)
		builder.AddUint16LengthPrefixed(func(child *cryptobyte.Builder) {
			for _, blk := range sig.Blocks {
				var swap uint8
				if blk.Swap {
					swap = 1
				}
				child.AddUint8(swap)
				addInt(child, blk.Scalar)
			}
		})
	} else {
		sig := b.Uncompressed
		builder.AddUint8(kindUncompressed)
		addElement(&builder, sig.Commitment)
		builder.AddUint16LengthPrefixed(func(child *cryptobyte.Builder) {
			for _, k := range sig.Kernels {
				addElement(child, k)
			}
		})
	}

	out, err := builder.Bytes()
	if err != nil {
		return nil, errors.Wrap(sqisign.ErrInvalidEncoding, err.Error())
	}
	return out, nil
}

func readInt(s *cryptobyte.String, what string) (*big.Int, error) {
	var raw cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&raw) {
		return nil, errors.Wrapf(sqisign.ErrInvalidEncoding, "truncated %s", what)
	}
	return new(big.Int).SetBytes(raw), nil
}

func readElement(s *cryptobyte.String, what string) (sqisign.Element, error) {
	re, err := readInt(s, what)
	if err != nil {
		return sqisign.Element{}, err
	}
	im, err := readInt(s, what)
	if err != nil {
		return sqisign.Element{}, err
	}
	return sqisign.Element{Re: re, Im: im}, nil
}

// UnmarshalBinary reads a bundle in the binary format.
func UnmarshalBinary(data []byte) (*Bundle, error) {
	s := cryptobyte.String(data)

	var head []byte
	if !s.ReadBytes(&head, len(magic)) || string(head) != string(magic) {
		return nil, errors.Wrap(sqisign.ErrInvalidEncoding, "bad magic")
	}

	b := &Bundle{}
	cof, err := readInt(&s, "cofactor")
	if err != nil {
		return nil, err
	}
	var f uint16
	if !s.ReadUint16(&f) {
		return nil, errors.Wrap(sqisign.ErrInvalidEncoding, "truncated torsion exponent")
	}
	b.Params = sqisign.Params{Cofactor: cof, F: int(f)}

	if b.PublicKey.A, err = readElement(&s, "public key"); err != nil {
		return nil, err
	}

	var msg cryptobyte.String
	if !s.ReadUint32LengthPrefixed(&msg) {
		return nil, errors.Wrap(sqisign.ErrInvalidEncoding, "truncated message")
	}
	b.Message = append([]byte{}, msg...)

	var kind uint8
	if !s.ReadUint8(&kind) {
		return nil, errors.Wrap(sqisign.ErrInvalidEncoding, "truncated signature kind")
	}
	commitment, err := readElement(&s, "commitment")
	if err != nil {
		return nil, err
	}
	var body cryptobyte.String
	if !s.ReadUint16LengthPrefixed(&body) {
		return nil, errors.Wrap(sqisign.ErrInvalidEncoding, "truncated signature body")
	}
	if !s.Empty() {
		return nil, errors.Wrap(sqisign.ErrInvalidEncoding, "trailing data")
	}

	switch kind {
	case kindCompressed:
		sig := &sqisign.CompressedSignature{Commitment: commitment}
		for !body.Empty() {
			var swap uint8
			if !body.ReadUint8(&swap) || swap > 1 {
				return nil, errors.Wrap(sqisign.ErrInvalidEncoding, "bad swap flag")
			}
			scalar, err := readInt(&body, "scalar")
			if err != nil {
				return nil, err
			}
			sig.Blocks = append(sig.Blocks, sqisign.CompressedBlock{Swap: swap == 1, Scalar: scalar})
		}
		b.Compressed = sig
	case kindUncompressed:
		sig := &sqisign.UncompressedSignature{Commitment: commitment}
		for !body.Empty() {
			k, err := readElement(&body, "kernel")
			if err != nil {
				return nil, err
			}
			sig.Kernels = append(sig.Kernels, k)
		}
		b.Uncompressed = sig
	default:
		return nil, errors.Wrapf(sqisign.ErrInvalidEncoding, "unknown signature kind %d", kind)
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}
