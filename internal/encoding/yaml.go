package encoding

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/smallyu/go-sqisign/pkg/sqisign"
)

// Integers are written as 0x-prefixed hex strings. Decimal is accepted on input.

type paramsDoc struct {
	Cofactor string `yaml:"cofactor"`
	F        int    `yaml:"f"`
}

type elementDoc struct {
	Re string `yaml:"re"`
	Im string `yaml:"im"`
}

type blockDoc struct {
	Swap   bool   `yaml:"swap"`
	Scalar string `yaml:"scalar"`
}

type signatureDoc struct {
	Commitment elementDoc   `yaml:"commitment"`
	Blocks     []blockDoc   `yaml:"blocks,omitempty"`
	Kernels    []elementDoc `yaml:"kernels,omitempty"`
}

type bundleDoc struct {
	Params     *paramsDoc   `yaml:"params,omitempty"`
	PublicKey  elementDoc   `yaml:"public_key"`
	Message    string       `yaml:"message"`
	Compressed bool         `yaml:"compressed"`
	Signature  signatureDoc `yaml:"signature"`
}

func formatInt(n *big.Int) string {
	if n == nil {
		return ""
	}
	return fmt.Sprintf("%#x", n)
}

func parseInt(s, what string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(s, 0)
	if !ok || n.Sign() < 0 {
		return nil, errors.Wrapf(sqisign.ErrInvalidEncoding, "%s: %q is not a non-negative integer", what, s)
	}
	return n, nil
}

func toElementDoc(e sqisign.Element) elementDoc {
	return elementDoc{Re: formatInt(e.Re), Im: formatInt(e.Im)}
}

func (d elementDoc) element(what string) (sqisign.Element, error) {
	re, err := parseInt(d.Re, what+".re")
	if err != nil {
		return sqisign.Element{}, err
	}
	im, err := parseInt(d.Im, what+".im")
	if err != nil {
		return sqisign.Element{}, err
	}
	return sqisign.Element{Re: re, Im: im}, nil
}

// MarshalYAML writes b as a YAML document.
func MarshalYAML(b *Bundle) ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	doc := bundleDoc{
		Params: &paramsDoc{
			Cofactor: formatInt(b.Params.Cofactor),
			F:        b.Params.F,
		},
		PublicKey: toElementDoc(b.PublicKey.A),
		Message:   string(b.Message),
	}
	if sig := b.Compressed; sig != nil {
		doc.Compressed = true
		doc.Signature.Commitment = toElementDoc(sig.Commitment)
		for _, blk := range sig.Blocks {
			doc.Signature.Blocks = append(doc.Signature.Blocks, blockDoc{Swap: blk.Swap, Scalar: formatInt(blk.Scalar)})
		}
	} else {
		sig := b.Uncompressed
		doc.Signature.Commitment = toElementDoc(sig.Commitment)
		for _, k := range sig.Kernels {
			doc.Signature.Kernels = append(doc.Signature.Kernels, toElementDoc(k))
		}
	}
	return yaml.Marshal(&doc)
}

// UnmarshalYAML reads a YAML bundle. A missing params section selects
// sqisign.DefaultParams.
func UnmarshalYAML(data []byte) (*Bundle, error) {
	var doc bundleDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(sqisign.ErrInvalidEncoding, "yaml: %v", err)
	}

	b := &Bundle{
		Params:  sqisign.DefaultParams(),
		Message: []byte(doc.Message),
	}
	if doc.Params != nil {
		cof, err := parseInt(doc.Params.Cofactor, "params.cofactor")
		if err != nil {
			return nil, err
		}
		b.Params = sqisign.Params{Cofactor: cof, F: doc.Params.F}
	}

	var err error
	if b.PublicKey.A, err = doc.PublicKey.element("public_key"); err != nil {
		return nil, err
	}
	commitment, err := doc.Signature.Commitment.element("signature.commitment")
	if err != nil {
		return nil, err
	}

	if doc.Compressed {
		if len(doc.Signature.Kernels) > 0 {
			return nil, errors.Wrap(sqisign.ErrInvalidEncoding, "compressed signature lists kernels")
		}
		sig := &sqisign.CompressedSignature{Commitment: commitment}
		for i, blk := range doc.Signature.Blocks {
			s, err := parseInt(blk.Scalar, fmt.Sprintf("signature.blocks[%d].scalar", i))
			if err != nil {
				return nil, err
			}
			sig.Blocks = append(sig.Blocks, sqisign.CompressedBlock{Swap: blk.Swap, Scalar: s})
		}
		b.Compressed = sig
	} else {
		if len(doc.Signature.Blocks) > 0 {
			return nil, errors.Wrap(sqisign.ErrInvalidEncoding, "uncompressed signature lists blocks")
		}
		sig := &sqisign.UncompressedSignature{Commitment: commitment}
		for i, k := range doc.Signature.Kernels {
			e, err := k.element(fmt.Sprintf("signature.kernels[%d]", i))
			if err != nil {
				return nil, err
			}
			sig.Kernels = append(sig.Kernels, e)
		}
		b.Uncompressed = sig
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}
