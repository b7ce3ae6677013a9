package field

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-sqisign/pkg/sqisign"
)

// Element is an element re + im*i of GF(p^2). Elements are immutable values:
// every operation returns a fresh Element and never aliases its operands.
//
// The zero Element is not usable; obtain elements from a Field.
type Element struct {
	f  *Field
	re *big.Int
	im *big.Int
}

// checkField panics when b does not belong to the field of a.
func checkField(op string, a, b Element) {
	if a.f == b.f {
		return
	}
	if !a.f.Equal(b.f) {
		panic(sqisign.NewOpError(op, sqisign.ErrFieldMismatch))
	}
}

func (a Element) with(re, im *big.Int) Element {
	return Element{f: a.f, re: re.Mod(re, a.f.p), im: im.Mod(im, a.f.p)}
}

// Field returns the field the element belongs to.
func (a Element) Field() *Field {
	return a.f
}

// Re returns a copy of the real part.
func (a Element) Re() *big.Int {
	return new(big.Int).Set(a.re)
}

// Im returns a copy of the imaginary part.
func (a Element) Im() *big.Int {
	return new(big.Int).Set(a.im)
}

// Wire returns the element as a wire-level value.
func (a Element) Wire() sqisign.Element {
	return sqisign.Element{Re: a.Re(), Im: a.Im()}
}

func (a Element) IsZero() bool {
	return a.re.Sign() == 0 && a.im.Sign() == 0
}

func (a Element) IsOne() bool {
	return a.re.Cmp(one) == 0 && a.im.Sign() == 0
}

// Equal reports whether a and b are the same element of the same field.
// Elements of different fields are never equal.
func (a Element) Equal(b Element) bool {
	if !a.f.Equal(b.f) {
		return false
	}
	return a.re.Cmp(b.re) == 0 && a.im.Cmp(b.im) == 0
}

func (a Element) Add(b Element) Element {
	checkField("add", a, b)
	a.f.count(OpAdd)
	return a.add(b)
}

func (a Element) add(b Element) Element {
	return a.with(new(big.Int).Add(a.re, b.re), new(big.Int).Add(a.im, b.im))
}

func (a Element) Sub(b Element) Element {
	checkField("sub", a, b)
	a.f.count(OpAdd)
	return a.sub(b)
}

func (a Element) sub(b Element) Element {
	return a.with(new(big.Int).Sub(a.re, b.re), new(big.Int).Sub(a.im, b.im))
}

func (a Element) Neg() Element {
	return a.with(new(big.Int).Neg(a.re), new(big.Int).Neg(a.im))
}

func (a Element) Mul(b Element) Element {
	checkField("mul", a, b)
	a.f.count(OpMul)
	return a.mul(b)
}

// mul uses the three-multiplication Karatsuba form:
// (a+bi)(c+di) = (ac-bd) + ((a+b)(c+d)-ac-bd)i.
func (a Element) mul(b Element) Element {
	ac := new(big.Int).Mul(a.re, b.re)
	bd := new(big.Int).Mul(a.im, b.im)

	im := new(big.Int).Add(a.re, a.im)
	im.Mul(im, new(big.Int).Add(b.re, b.im))
	im.Sub(im, ac)
	im.Sub(im, bd)

	return a.with(ac.Sub(ac, bd), im)
}

func (a Element) Square() Element {
	a.f.count(OpSquare)
	return a.square()
}

// square computes (a+bi)^2 = (a+b)(a-b) + 2ab*i.
func (a Element) square() Element {
	re := new(big.Int).Add(a.re, a.im)
	re.Mul(re, new(big.Int).Sub(a.re, a.im))

	im := new(big.Int).Mul(a.re, a.im)
	im.Lsh(im, 1)

	return a.with(re, im)
}

// MulInt64 multiplies by a small integer constant. It is counted as an addition.
func (a Element) MulInt64(k int64) Element {
	a.f.count(OpAdd)
	n := big.NewInt(k)
	return a.with(new(big.Int).Mul(a.re, n), new(big.Int).Mul(a.im, n))
}

// norm returns re^2 + im^2 mod p, the norm from GF(p^2) down to GF(p).
func (a Element) norm() *big.Int {
	n := new(big.Int).Mul(a.re, a.re)
	n.Add(n, new(big.Int).Mul(a.im, a.im))
	return n.Mod(n, a.f.p)
}

// Inverse returns 1/a, computed as conj(a)/N(a).
func (a Element) Inverse() (Element, error) {
	a.f.count(OpInverse)
	return a.inverse()
}

func (a Element) inverse() (Element, error) {
	n := a.norm()
	if n.Sign() == 0 {
		return Element{}, sqisign.NewOpError("inverse", sqisign.ErrDivisionByZero)
	}
	s := new(big.Int).ModInverse(n, a.f.p)
	re := new(big.Int).Mul(a.re, s)
	im := new(big.Int).Mul(a.im, s)
	return a.with(re, im.Neg(im)), nil
}

// Div returns a/b.
func (a Element) Div(b Element) (Element, error) {
	checkField("div", a, b)
	inv, err := b.Inverse()
	if err != nil {
		return Element{}, err
	}
	a.f.count(OpMul)
	return a.mul(inv), nil
}

// Pow returns a^e. Negative exponents go through the inverse, which fails for zero.
func (a Element) Pow(e *big.Int) (Element, error) {
	switch {
	case e.Sign() == 0:
		return a.f.One(), nil
	case e.IsInt64() && e.Int64() == 1:
		return a, nil
	case e.IsInt64() && e.Int64() == -1:
		return a.Inverse()
	case e.IsInt64() && e.Int64() == 2:
		return a.Square(), nil
	case e.Sign() < 0:
		inv, err := a.Inverse()
		if err != nil {
			return Element{}, err
		}
		return inv.pow(new(big.Int).Neg(e), true), nil
	}
	return a.pow(e, true), nil
}

// pow is left-to-right square-and-multiply for e >= 0.
func (a Element) pow(e *big.Int, counted bool) Element {
	r := a.f.One()
	for i := e.BitLen() - 1; i >= 0; i-- {
		if counted {
			a.f.count(OpSquare)
		}
		r = r.square()
		if e.Bit(i) == 1 {
			if counted {
				a.f.count(OpMul)
			}
			r = r.mul(a)
		}
	}
	return r
}

func (a Element) String() string {
	switch {
	case a.im.Sign() == 0:
		return a.re.String()
	case a.re.Sign() == 0 && a.im.Cmp(one) == 0:
		return "i"
	case a.re.Sign() == 0:
		return fmt.Sprintf("%v*i", a.im)
	case a.im.Cmp(one) == 0:
		return fmt.Sprintf("%v+i", a.re)
	}
	return fmt.Sprintf("%v+%v*i", a.re, a.im)
}
