package sqisign

import (
	"errors"
	"fmt"
)

// Common errors returned by the verification core.
var (
	// Construction and domain errors
	ErrInvalidModulus = errors.New("modulus must be a prime congruent to 3 mod 4")
	ErrInvalidParams  = errors.New("invalid parameter set")
	ErrSingularCurve  = errors.New("curve is singular")
	ErrInvalidPoint   = errors.New("projective point (0:0) is invalid")
	ErrKernelOrder    = errors.New("kernel point does not have the required order")
	ErrNoTorsionBasis = errors.New("no 2-power torsion basis found")

	// Arithmetic errors
	ErrDivisionByZero = errors.New("division by zero")
	ErrNotSquare      = errors.New("not a square")

	// Cross-domain errors
	ErrFieldMismatch = errors.New("elements belong to distinct fields")
	ErrCurveMismatch = errors.New("points lie on distinct curves")

	// Precondition errors
	ErrNotAffine = errors.New("point is not affine (z != 1)")

	ErrInvalidEncoding = errors.New("invalid encoding")
)

// Kind groups errors by the way a caller has to react to them.
// None of them is transient, so none is worth retrying.
type Kind int

const (
	KindUnknown Kind = iota
	KindConstruction
	KindArithmetic
	KindCrossDomain
	KindPrecondition
	KindEncoding
)

func (k Kind) String() string {
	switch k {
	case KindConstruction:
		return "construction"
	case KindArithmetic:
		return "arithmetic"
	case KindCrossDomain:
		return "cross-domain"
	case KindPrecondition:
		return "precondition"
	case KindEncoding:
		return "encoding"
	default:
		return "unknown"
	}
}

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrInvalidModulus, KindConstruction},
	{ErrInvalidParams, KindConstruction},
	{ErrSingularCurve, KindConstruction},
	{ErrInvalidPoint, KindConstruction},
	{ErrKernelOrder, KindConstruction},
	{ErrNoTorsionBasis, KindConstruction},
	{ErrDivisionByZero, KindArithmetic},
	{ErrNotSquare, KindArithmetic},
	{ErrFieldMismatch, KindCrossDomain},
	{ErrCurveMismatch, KindCrossDomain},
	{ErrNotAffine, KindPrecondition},
	{ErrInvalidEncoding, KindEncoding},
}

// KindOf classifies err by the first sentinel it wraps.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}

// OpError records the operation that failed.
// It unwraps to one of the sentinel errors above.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// NewOpError creates a new OpError.
func NewOpError(op string, err error) *OpError {
	return &OpError{
		Op:  op,
		Err: err,
	}
}
