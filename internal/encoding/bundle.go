// Package encoding reads and writes signature bundles: a parameter set,
// a public key, a message and one signature, either as a YAML document or
// in a compact binary form.
package encoding

import (
	"bytes"

	"github.com/pkg/errors"

	"github.com/smallyu/go-sqisign/pkg/sqisign"
)

// Bundle is everything needed to verify one signature.
// Exactly one of Compressed and Uncompressed is set.
type Bundle struct {
	Params       sqisign.Params
	PublicKey    sqisign.PublicKey
	Message      []byte
	Compressed   *sqisign.CompressedSignature
	Uncompressed *sqisign.UncompressedSignature
}

// Validate checks that the bundle is complete.
func (b *Bundle) Validate() error {
	if err := b.Params.Validate(); err != nil {
		return err
	}
	if !complete(b.PublicKey.A) {
		return errors.Wrap(sqisign.ErrInvalidEncoding, "public key")
	}
	switch {
	case b.Compressed != nil && b.Uncompressed != nil:
		return errors.Wrap(sqisign.ErrInvalidEncoding, "bundle carries both signature forms")
	case b.Compressed != nil:
		if !complete(b.Compressed.Commitment) {
			return errors.Wrap(sqisign.ErrInvalidEncoding, "commitment")
		}
		for i, blk := range b.Compressed.Blocks {
			if blk.Scalar == nil || blk.Scalar.Sign() < 0 {
				return errors.Wrapf(sqisign.ErrInvalidEncoding, "block %d: scalar", i)
			}
		}
	case b.Uncompressed != nil:
		if !complete(b.Uncompressed.Commitment) {
			return errors.Wrap(sqisign.ErrInvalidEncoding, "commitment")
		}
		for i, k := range b.Uncompressed.Kernels {
			if !complete(k) {
				return errors.Wrapf(sqisign.ErrInvalidEncoding, "kernel %d", i)
			}
		}
	default:
		return errors.Wrap(sqisign.ErrInvalidEncoding, "bundle carries no signature")
	}
	return nil
}

func complete(e sqisign.Element) bool {
	return e.Re != nil && e.Im != nil && e.Re.Sign() >= 0 && e.Im.Sign() >= 0
}

// Decode reads a bundle in either format, telling them apart by the
// binary magic.
func Decode(data []byte) (*Bundle, error) {
	if bytes.HasPrefix(data, magic) {
		return UnmarshalBinary(data)
	}
	return UnmarshalYAML(data)
}
