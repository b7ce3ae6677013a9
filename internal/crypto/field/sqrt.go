package field

import (
	"math/big"

	"github.com/smallyu/go-sqisign/pkg/sqisign"
)

// IsSquare reports whether a is a square in GF(p^2). Zero is a square.
//
// a is a square iff a^((p^2-1)/2) = 1, and a^((p^2-1)/2) = N(a)^((p-1)/2)
// where N is the norm to GF(p), so the test is a Legendre symbol in GF(p).
func (a Element) IsSquare() bool {
	a.f.count(OpIsSquare)
	return a.isSquare()
}

func (a Element) isSquare() bool {
	if a.IsZero() {
		return true
	}
	return new(big.Int).Exp(a.norm(), a.f.e1, a.f.p).Cmp(one) == 0
}

// Sqrt returns a square root of a, or ErrNotSquare.
//
// The root is deterministic: with e1 = (p-1)/2 and e2 = (p+1)/4, let
// u = i if a^e1 = -1 and u = (1 + a^e1)^e1 otherwise; the root is u*a^e2.
// The result is squared back before being returned.
func (a Element) Sqrt() (Element, error) {
	a.f.count(OpSqrt)
	return a.sqrt()
}

func (a Element) sqrt() (Element, error) {
	f := a.f
	a1 := a.pow(f.e1, false)

	var u Element
	if a1.Equal(f.One().Neg()) {
		u = f.I()
	} else {
		u = a1.add(f.One()).pow(f.e1, false)
	}

	r := u.mul(a.pow(f.e2, false))
	if !r.square().Equal(a) {
		return Element{}, sqisign.NewOpError("sqrt", sqisign.ErrNotSquare)
	}
	return r, nil
}
