// Package kernel derives kernel points of 2^f-isogenies from a torsion
// basis and a scalar, using x-only arithmetic throughout.
package kernel

import (
	"fmt"
	"math/big"

	"github.com/smallyu/go-sqisign/internal/crypto/curves"
	"github.com/smallyu/go-sqisign/pkg/sqisign"
)

func checkAffine(op string, points ...*curves.Point) error {
	for _, p := range points {
		if p == nil || !p.IsAffine() {
			return sqisign.NewOpError(op, sqisign.ErrNotAffine)
		}
	}
	return nil
}

// PointDifference returns x(P-Q) or x(P+Q) for affine x(P) and x(Q).
// Which of the two is returned is determined by the square root and cannot
// be controlled from x-coordinates alone.
func PointDifference(p, q *curves.Point) (*curves.Point, error) {
	if err := checkAffine("point difference", p, q); err != nil {
		return nil, err
	}
	e := p.Curve()
	if !e.Equal(q.Curve()) {
		return nil, sqisign.NewOpError("point difference", sqisign.ErrCurveMismatch)
	}
	f := e.Field()
	xp, xq := p.X(), q.X()

	// 1. Z = (xP - xQ)^2, t0 = ((xP - xQ)(xP*xQ - 1))^2
	d := xp.Sub(xq)
	t2 := xp.Mul(xq)
	t0 := d.Mul(t2.Sub(f.One())).Square()
	z := d.Square()

	// 2. t1 = (xP*xQ + 1)(xP + xQ) + 2A*xP*xQ
	t1 := t2.Add(f.One()).Mul(xp.Add(xq)).Add(e.A().Mul(t2).MulInt64(2))

	// 3. X = t1 + sqrt(t1^2 - t0)
	root, err := t1.Square().Sub(t0).Sqrt()
	if err != nil {
		return nil, fmt.Errorf("point difference: %w", err)
	}
	x, err := root.Add(t1).Div(z)
	if err != nil {
		return nil, fmt.Errorf("point difference: %w", err)
	}
	return e.Affine(x)
}

// ThreePointLadder returns x(P + s*Q) given affine x(P), x(Q) and x(P-Q).
//
// The scalar is consumed from its least significant bit. Round i keeps
// P0 = 2^i*Q, P1 = P + (s mod 2^i)*Q and P2 = P1 - P0, which is what makes
// both differential additions well defined.
func ThreePointLadder(p, q, pmq *curves.Point, s *big.Int) (*curves.Point, error) {
	if err := checkAffine("three point ladder", p, q, pmq); err != nil {
		return nil, err
	}
	if s == nil || s.Sign() < 0 {
		return nil, fmt.Errorf("%w: ladder scalar must be non-negative", sqisign.ErrInvalidParams)
	}
	e := p.Curve()

	p0, p1, p2 := q, p, pmq
	var err error
	for i := 0; i < s.BitLen(); i++ {
		if s.Bit(i) == 1 {
			p1, err = e.XADD(p0, p1, p2)
		} else {
			p2, err = e.XADD(p0, p2, p1)
		}
		if err != nil {
			return nil, err
		}
		if p0, err = e.XDBL(p0); err != nil {
			return nil, err
		}
	}
	return p1.Clone(), nil
}

// KernelPoint returns K = P + s*Q. The inputs are not modified.
func KernelPoint(p, q *curves.Point, s *big.Int) (*curves.Point, error) {
	if p == nil || q == nil {
		return nil, sqisign.NewOpError("kernel point", sqisign.ErrInvalidPoint)
	}
	p = p.Clone().Normalize()
	q = q.Clone().Normalize()

	pmq, err := PointDifference(p, q)
	if err != nil {
		return nil, err
	}
	return ThreePointLadder(p, q, pmq, s)
}
