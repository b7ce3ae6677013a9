// Package verify checks SQISign-style signatures: it recomputes the
// response isogeny from the signature and the challenge isogeny from the
// commitment curve and the message, and compares their codomains.
package verify

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/smallyu/go-sqisign/internal/crypto/challenge"
	"github.com/smallyu/go-sqisign/internal/crypto/curves"
	"github.com/smallyu/go-sqisign/internal/crypto/field"
	"github.com/smallyu/go-sqisign/internal/crypto/isogeny"
	"github.com/smallyu/go-sqisign/internal/crypto/kernel"
	"github.com/smallyu/go-sqisign/pkg/sqisign"
)

var nopLogger = zerolog.Nop()

// Verifier holds everything shared by verifications under one parameter set.
// It is immutable and safe for concurrent use.
type Verifier struct {
	params   sqisign.Params
	field    *field.Field
	strategy isogeny.Strategy
	workers  int
	log      *zerolog.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLogger sets the logger. Per-block progress is logged at debug level.
func WithLogger(log *zerolog.Logger) Option {
	return func(v *Verifier) {
		if log != nil {
			v.log = log
		}
	}
}

// WithStrategy sets the isogeny chain strategy.
func WithStrategy(s isogeny.Strategy) Option {
	return func(v *Verifier) {
		if s != nil {
			v.strategy = s
		}
	}
}

// WithCounter reports every field operation to c. The counter is shared by
// concurrent verifications and must be safe for concurrent use.
func WithCounter(c field.Counter) Option {
	return func(v *Verifier) {
		v.field = v.field.WithCounter(c)
	}
}

// WithWorkers bounds the number of concurrent verifications in VerifyBatch.
func WithWorkers(n int) Option {
	return func(v *Verifier) {
		if n > 0 {
			v.workers = n
		}
	}
}

// New creates a Verifier for the parameter set.
func New(params sqisign.Params, opts ...Option) (*Verifier, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	f, err := field.New(params.Prime())
	if err != nil {
		return nil, errors.Wrapf(err, "parameter set %v", params)
	}

	v := &Verifier{
		params: sqisign.Params{
			Cofactor: params.Cofactor,
			F:        params.F,
		},
		field:    f,
		strategy: isogeny.DefaultStrategy,
		workers:  defaultWorkers(),
		log:      &nopLogger,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Params returns the parameter set.
func (v *Verifier) Params() sqisign.Params {
	return v.params
}

// Field returns GF(p^2) for the parameter set.
func (v *Verifier) Field() *field.Field {
	return v.field
}

// Curve binds a wire-level Montgomery coefficient to the field.
func (v *Verifier) Curve(a sqisign.Element) (*curves.Curve, error) {
	x, err := v.field.FromWire(a)
	if err != nil {
		return nil, err
	}
	return curves.NewCurve(x)
}

// HashMessage derives the challenge kernel on e: P + H(msg)*Q over the
// canonical torsion basis of e.
func (v *Verifier) HashMessage(e *curves.Curve, msg []byte) (*curves.Point, error) {
	p, q, err := kernel.TwoTorsionBasis(e, v.params)
	if err != nil {
		return nil, err
	}
	s := challenge.HashToInteger(msg, v.params.F)
	return kernel.KernelPoint(p, q, s)
}

// walk follows the 2^f-isogeny with kernel <k> and returns its codomain.
func (v *Verifier) walk(k *curves.Point) (*curves.Curve, error) {
	chain, err := isogeny.NewChain(k, v.params.F, v.strategy)
	if err != nil {
		return nil, err
	}
	return chain.Codomain(), nil
}

// ComputeUncompressedResponse walks from e along one 2^f-isogeny per
// kernel x-coordinate and returns the final curve.
func (v *Verifier) ComputeUncompressedResponse(e *curves.Curve, kernels []sqisign.Element) (*curves.Curve, error) {
	for i, w := range kernels {
		x, err := v.field.FromWire(w)
		if err != nil {
			return nil, errors.Wrapf(err, "block %d", i)
		}
		k, err := e.Affine(x)
		if err != nil {
			return nil, errors.Wrapf(err, "block %d", i)
		}
		if e, err = v.walk(k); err != nil {
			return nil, errors.Wrapf(err, "block %d", i)
		}
		v.log.Debug().Int("block", i).Str("curve", e.A().String()).Msg("uncompressed response block")
	}
	return e, nil
}

// ComputeCompressedResponse walks from e along one 2^f-isogeny per block,
// with kernel P + s*Q over the torsion basis of the current curve
// (Q + s*P when the block is swapped).
func (v *Verifier) ComputeCompressedResponse(e *curves.Curve, blocks []sqisign.CompressedBlock) (*curves.Curve, error) {
	for i, b := range blocks {
		if b.Scalar == nil {
			return nil, errors.Wrapf(sqisign.ErrInvalidEncoding, "block %d: missing scalar", i)
		}
		p, q, err := kernel.TwoTorsionBasis(e, v.params)
		if err != nil {
			return nil, errors.Wrapf(err, "block %d", i)
		}
		if b.Swap {
			p, q = q, p
		}
		k, err := kernel.KernelPoint(p, q, b.Scalar)
		if err != nil {
			return nil, errors.Wrapf(err, "block %d", i)
		}
		if e, err = v.walk(k); err != nil {
			return nil, errors.Wrapf(err, "block %d", i)
		}
		v.log.Debug().Int("block", i).Bool("swap", b.Swap).Str("curve", e.A().String()).Msg("compressed response block")
	}
	return e, nil
}

// RecomputeChallenge returns the codomain of the challenge isogeny from e.
func (v *Verifier) RecomputeChallenge(e *curves.Curve, msg []byte) (*curves.Curve, error) {
	k, err := v.HashMessage(e, msg)
	if err != nil {
		return nil, errors.Wrap(err, "challenge kernel")
	}
	c, err := v.walk(k)
	if err != nil {
		return nil, errors.Wrap(err, "challenge isogeny")
	}
	return c, nil
}

// mismatch reports response failures of a well-formed signature checked
// against a key it was not made for: a kernel that does not have order 2^f
// on the current curve, or a point difference that does not exist.
func mismatch(err error) bool {
	return errors.Is(err, sqisign.ErrKernelOrder) || errors.Is(err, sqisign.ErrNotSquare)
}

// response computes the response codomain from the public curve.
type response func(pk *curves.Curve) (*curves.Curve, error)

func (v *Verifier) verify(kind string, pk sqisign.PublicKey, commitment sqisign.Element, msg []byte, respond response) (bool, error) {
	ea, err := v.Curve(pk.A)
	if err != nil {
		return false, errors.Wrap(err, "public key")
	}
	e1, err := v.Curve(commitment)
	if err != nil {
		return false, errors.Wrap(err, "commitment")
	}

	resp, err := respond(ea)
	if err != nil {
		if !mismatch(err) {
			return false, errors.Wrap(err, "response")
		}
		v.log.Debug().Err(err).Str("signature", kind).Bool("valid", false).Msg("response does not fit the public key")
		return false, nil
	}
	chall, err := v.RecomputeChallenge(e1, msg)
	if err != nil {
		return false, err
	}

	// coefficient equality, not isomorphism
	ok := resp.Equal(chall)
	v.log.Debug().Str("signature", kind).Bool("valid", ok).Msg("verification finished")
	return ok, nil
}

// VerifyUncompressed reports whether sig is a valid signature on msg under pk.
// Malformed input (missing components, singular curves, no torsion basis)
// yields an error. A signature that does not match yields false, including
// kernels that do not have order 2^f on the curve they are applied to.
func (v *Verifier) VerifyUncompressed(pk sqisign.PublicKey, sig sqisign.UncompressedSignature, msg []byte) (bool, error) {
	return v.verify("uncompressed", pk, sig.Commitment, msg, func(e *curves.Curve) (*curves.Curve, error) {
		return v.ComputeUncompressedResponse(e, sig.Kernels)
	})
}

// VerifyCompressed is VerifyUncompressed for compressed signatures.
func (v *Verifier) VerifyCompressed(pk sqisign.PublicKey, sig sqisign.CompressedSignature, msg []byte) (bool, error) {
	return v.verify("compressed", pk, sig.Commitment, msg, func(e *curves.Curve) (*curves.Curve, error) {
		return v.ComputeCompressedResponse(e, sig.Blocks)
	})
}
