package curves

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-sqisign/internal/crypto/field"
)

// Point is an element (X : Z) of the Kummer line of a Montgomery curve,
// i.e. a point up to sign given by its x-coordinate X/Z.
// Z = 0 is the identity. (0 : 0) is never constructed.
type Point struct {
	curve *Curve
	x, z  field.Element
}

func (p *Point) Curve() *Curve {
	return p.curve
}

func (p *Point) X() field.Element {
	return p.x
}

func (p *Point) Z() field.Element {
	return p.z
}

func (p *Point) IsInfinity() bool {
	return p.z.IsZero()
}

// IsAffine reports whether Z = 1.
func (p *Point) IsAffine() bool {
	return p.z.IsOne()
}

// Equal compares projectively: X1*Z2 = X2*Z1.
// Points on different curves are never equal.
func (p *Point) Equal(q *Point) bool {
	if p == nil || q == nil {
		return p == q
	}
	if !p.curve.Equal(q.curve) {
		return false
	}
	return p.x.Mul(q.z).Equal(q.x.Mul(p.z))
}

func (p *Point) Clone() *Point {
	c := *p
	return &c
}

// Normalize scales p in place to (X/Z : 1), or to (1 : 0) for the identity.
// It returns p for chaining.
func (p *Point) Normalize() *Point {
	f := p.curve.Field()
	if p.z.IsOne() || (p.IsInfinity() && p.x.IsOne()) {
		return p
	}
	if p.IsInfinity() {
		p.x = f.One()
		return p
	}
	// z is non-zero, so the inverse exists
	inv, _ := p.z.Inverse()
	p.x = p.x.Mul(inv)
	p.z = f.One()
	return p
}

// AffineX returns X/Z.
func (p *Point) AffineX() (field.Element, error) {
	return p.x.Div(p.z)
}

// Double returns 2^k * p.
func (p *Point) Double(k int) *Point {
	r := p
	for i := 0; i < k; i++ {
		r = p.curve.xdbl(r)
	}
	if r == p {
		return p.Clone()
	}
	return r
}

// Mul returns |n| * p using the Montgomery ladder.
//
// Every bit costs one conditional swap, one xADD and one xDBL, so the
// sequence of field operations depends only on the bit length of n.
func (p *Point) Mul(n *big.Int) *Point {
	c := p.curve
	if p.IsInfinity() || n.Sign() == 0 {
		return c.Infinity()
	}
	k := new(big.Int).Abs(n)

	// invariant: R1 - R0 = p
	r0, r1 := c.Infinity(), p
	for i := k.BitLen() - 1; i >= 0; i-- {
		b := k.Bit(i)
		r0, r1 = cswap(r0, r1, b)
		r1 = c.xadd(r0, r1, p)
		r0 = c.xdbl(r0)
		r0, r1 = cswap(r0, r1, b)
	}
	return r0
}

// MulInt64 returns |n| * p.
func (p *Point) MulInt64(n int64) *Point {
	return p.Mul(big.NewInt(n))
}

func cswap(a, b *Point, bit uint) (*Point, *Point) {
	if bit == 1 {
		return b, a
	}
	return a, b
}

func (p *Point) String() string {
	if p.IsInfinity() {
		return "(1 : 0)"
	}
	x, err := p.AffineX()
	if err != nil {
		return fmt.Sprintf("(%v : %v)", p.x, p.z)
	}
	return fmt.Sprintf("(%v : 1)", x)
}
