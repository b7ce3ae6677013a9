package isogeny

import (
	"fmt"

	"github.com/smallyu/go-sqisign/internal/crypto/curves"
	"github.com/smallyu/go-sqisign/internal/crypto/field"
	"github.com/smallyu/go-sqisign/pkg/sqisign"
)

// kernelKind selects the formula of a 2-isogeny.
type kernelKind int

const (
	// kernel (alpha : 1) with alpha a root of x^2 + A*x + 1
	kernelRoot kernelKind = iota
	// kernel (0 : 1), evaluated as X^2 + t*X*Z + Z^2 : c*X*Z
	kernelZero
)

func (k kernelKind) String() string {
	if k == kernelRoot {
		return "root"
	}
	return "zero"
}

// TwoIsogeny is an isogeny of degree 2 between Montgomery curves.
type TwoIsogeny struct {
	domain   *curves.Curve
	codomain *curves.Curve
	kernel   *curves.Point
	kind     kernelKind

	alpha field.Element // kernelRoot

	t, c field.Element // kernelZero
}

// NewTwoIsogeny returns the 2-isogeny with kernel <K>.
// K must be a point of exact order 2.
func NewTwoIsogeny(k *curves.Point) (*TwoIsogeny, error) {
	if k == nil || k.IsInfinity() {
		return nil, fmt.Errorf("%w: kernel of a 2-isogeny is the identity", sqisign.ErrKernelOrder)
	}
	k = k.Clone().Normalize()

	e := k.Curve()
	a := e.A()
	f := e.Field()
	x := k.X()

	// x^3 + A*x^2 + x = 0 exactly on the 2-torsion
	if !x.Mul(f.One().Add(x.Mul(a.Add(x)))).IsZero() {
		return nil, fmt.Errorf("%w: %v is not a point of order 2", sqisign.ErrKernelOrder, k)
	}

	phi := &TwoIsogeny{
		domain: e,
		kernel: k,
	}

	var (
		codomain field.Element
		err      error
	)
	if x.IsZero() {
		phi.kind = kernelZero
		codomain, err = phi.zeroModel()
	} else {
		// A' = 2(1 - 2*alpha^2)
		phi.kind = kernelRoot
		phi.alpha = x
		codomain = f.One().Sub(x.Square().MulInt64(2)).MulInt64(2)
	}
	if err != nil {
		return nil, err
	}

	phi.codomain, err = curves.NewCurve(codomain)
	if err != nil {
		return nil, err
	}
	return phi, nil
}

// zeroModel picks the evaluation map for the kernel (0 : 1). The map
// x -> (x^2 + t*x + 1)/(c*x) lands on y^2 = x^3 + A'x^2 + x with
// A' = (3r - 2A)/c and r = A - t whenever c^2 = 4(A+2), 4(2-A) or A^2-4
// for t = -2, 2 or A respectively. The first model whose square root
// exists is used. The three radicands multiply to a square times -1, and
// -1 is a square in GF(p^2), so one of them is always a square.
func (phi *TwoIsogeny) zeroModel() (field.Element, error) {
	a := phi.domain.A()
	f := a.Field()
	two := f.ElementInt64(2, 0)

	models := []struct {
		t        field.Element
		radicand field.Element
		scale    int64
	}{
		{two.Neg(), a.Add(two), 2},
		{two, two.Sub(a), 2},
		{a, a.Square().Sub(f.ElementInt64(4, 0)), 1},
	}
	for _, m := range models {
		if !m.radicand.IsSquare() {
			continue
		}
		root, err := m.radicand.Sqrt()
		if err != nil {
			return field.Element{}, err
		}
		phi.t = m.t
		phi.c = root.MulInt64(m.scale)

		r := a.Sub(m.t)
		return r.MulInt64(3).Sub(a.MulInt64(2)).Div(phi.c)
	}
	return field.Element{}, sqisign.NewOpError("2-isogeny", sqisign.ErrNotSquare)
}

func (phi *TwoIsogeny) Domain() *curves.Curve {
	return phi.domain
}

func (phi *TwoIsogeny) Codomain() *curves.Curve {
	return phi.codomain
}

// Kernel returns the normalized kernel generator.
func (phi *TwoIsogeny) Kernel() *curves.Point {
	return phi.kernel.Clone()
}

// Eval maps a point of the domain to the codomain.
func (phi *TwoIsogeny) Eval(p *curves.Point) (*curves.Point, error) {
	if p == nil || !p.Curve().Equal(phi.domain) {
		return nil, sqisign.NewOpError("2-isogeny", sqisign.ErrCurveMismatch)
	}
	x, z := p.X(), p.Z()

	switch phi.kind {
	case kernelRoot:
		// (X(alpha*X - Z) : Z(X - alpha*Z))
		return phi.codomain.Point(
			x.Mul(phi.alpha.Mul(x).Sub(z)),
			z.Mul(x.Sub(phi.alpha.Mul(z))),
		)
	default:
		xz := x.Mul(z)
		return phi.codomain.Point(
			x.Square().Add(phi.t.Mul(xz)).Add(z.Square()),
			phi.c.Mul(xz),
		)
	}
}

func (phi *TwoIsogeny) String() string {
	return fmt.Sprintf("%v --2--> %v", phi.domain, phi.codomain)
}
