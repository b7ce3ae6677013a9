package curves

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/smallyu/go-sqisign/internal/crypto/field"
	"github.com/smallyu/go-sqisign/pkg/sqisign"
)

// Curve is the Montgomery curve y^2 = x^3 + A*x^2 + x over GF(p^2).
//
// Curves are immutable. Two curves are equal iff their coefficients are,
// so isomorphic curves with different A are distinct.
type Curve struct {
	a   field.Element
	a24 field.Element // (A+2)/4
}

// NewCurve returns the Montgomery curve with coefficient a.
// The singular coefficients A = 2 and A = -2 are rejected.
func NewCurve(a field.Element) (*Curve, error) {
	f := a.Field()
	two := f.ElementInt64(2, 0)
	if a.Equal(two) || a.Equal(two.Neg()) {
		return nil, fmt.Errorf("%w: A = %v", sqisign.ErrSingularCurve, a)
	}

	inv4, err := f.ElementInt64(4, 0).Inverse()
	if err != nil {
		return nil, err
	}
	return &Curve{
		a:   a,
		a24: a.Add(two).Mul(inv4),
	}, nil
}

// A returns the Montgomery coefficient.
func (c *Curve) A() field.Element {
	return c.a
}

// Field returns the field the curve is defined over.
func (c *Curve) Field() *field.Field {
	return c.a.Field()
}

// Equal reports coefficient equality.
func (c *Curve) Equal(other *Curve) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	return c.a.Equal(other.a)
}

func (c *Curve) String() string {
	if c.a.IsZero() {
		return "y^2 = x^3 + x"
	}
	return fmt.Sprintf("y^2 = x^3 + (%v)x^2 + x", c.a)
}

// IsXCoordinate reports whether some y in GF(p^2) satisfies the curve
// equation at x, that is whether x^3 + A*x^2 + x is a square.
func (c *Curve) IsXCoordinate(x field.Element) bool {
	f := c.Field()
	return x.Mul(f.One().Add(x.Mul(c.a.Add(x)))).IsSquare()
}

// Point returns the projective point (x : z) on c.
func (c *Curve) Point(x, z field.Element) (*Point, error) {
	if !x.Field().Equal(c.Field()) || !z.Field().Equal(c.Field()) {
		return nil, sqisign.NewOpError("point", sqisign.ErrFieldMismatch)
	}
	if x.IsZero() && z.IsZero() {
		return nil, sqisign.NewOpError("point", sqisign.ErrInvalidPoint)
	}
	return &Point{curve: c, x: x, z: z}, nil
}

// Affine returns the point (x : 1).
func (c *Curve) Affine(x field.Element) (*Point, error) {
	return c.Point(x, c.Field().One())
}

// Infinity returns the identity (1 : 0).
func (c *Curve) Infinity() *Point {
	f := c.Field()
	return &Point{curve: c, x: f.One(), z: f.Zero()}
}

// Random samples affine points until one lies on the curve.
func (c *Curve) Random(random io.Reader) (*Point, error) {
	if random == nil {
		random = rand.Reader
	}
	for {
		x, err := c.Field().Random(random)
		if err != nil {
			return nil, err
		}
		if c.IsXCoordinate(x) {
			return &Point{curve: c, x: x, z: c.Field().One()}, nil
		}
	}
}

func (c *Curve) check(op string, points ...*Point) error {
	for _, p := range points {
		if p == nil || !c.Equal(p.curve) {
			return sqisign.NewOpError(op, sqisign.ErrCurveMismatch)
		}
	}
	return nil
}

// XDBL returns x(2P).
func (c *Curve) XDBL(p *Point) (*Point, error) {
	if err := c.check("xDBL", p); err != nil {
		return nil, err
	}
	return c.xdbl(p), nil
}

// XADD returns x(P+Q) given x(P), x(Q) and x(P-Q).
func (c *Curve) XADD(p, q, pmq *Point) (*Point, error) {
	if err := c.check("xADD", p, q, pmq); err != nil {
		return nil, err
	}
	return c.xadd(p, q, pmq), nil
}

// xdbl computes
//
//	t1 = (X+Z)^2, t2 = (X-Z)^2, t3 = t1 - t2
//	X' = t1*t2,   Z' = t3*(t2 + a24*t3)
//
// The identity and the 2-torsion points map to (0 : 0) scaled, which is
// reported as the identity.
func (c *Curve) xdbl(p *Point) *Point {
	t1 := p.x.Add(p.z).Square()
	t2 := p.x.Sub(p.z).Square()
	t3 := t1.Sub(t2)

	x := t1.Mul(t2)
	z := t3.Mul(t2.Add(c.a24.Mul(t3)))
	if z.IsZero() {
		return c.Infinity()
	}
	return &Point{curve: c, x: x, z: z}
}

// xadd computes the differential addition
//
//	v1 = (XP-ZP)(XQ+ZQ), v2 = (XP+ZP)(XQ-ZQ)
//	X' = Zd*(v1+v2)^2,   Z' = Xd*(v1-v2)^2
//
// where (Xd : Zd) = x(P-Q). The formula breaks down when one of the inputs
// is the identity or when x(P-Q) = 0, so those cases are handled first.
func (c *Curve) xadd(p, q, pmq *Point) *Point {
	switch {
	case p.IsInfinity():
		return q.Clone()
	case q.IsInfinity():
		return p.Clone()
	case pmq.IsInfinity():
		return c.xdbl(p)
	case pmq.x.IsZero():
		// P = Q + (0,0), so P+Q = 2Q + (0,0) and x(R + (0,0)) = 1/x(R).
		r := c.xdbl(q)
		return &Point{curve: c, x: r.z, z: r.x}
	}

	v1 := p.x.Sub(p.z).Mul(q.x.Add(q.z))
	v2 := p.x.Add(p.z).Mul(q.x.Sub(q.z))

	x := pmq.z.Mul(v1.Add(v2).Square())
	z := pmq.x.Mul(v1.Sub(v2).Square())
	if x.IsZero() && z.IsZero() {
		return c.Infinity()
	}
	return &Point{curve: c, x: x, z: z}
}
