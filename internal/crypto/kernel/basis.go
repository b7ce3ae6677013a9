package kernel

import (
	"fmt"

	"github.com/smallyu/go-sqisign/internal/crypto/curves"
	"github.com/smallyu/go-sqisign/pkg/sqisign"
)

// MaxBasisCandidates bounds the search in TwoTorsionBasis.
const MaxBasisCandidates = 512

// TwoTorsionBasis returns the canonical basis (P, Q) of E[2^f] for the
// parameter set. Both points are affine.
//
// Candidates are x = re + im*i with re, im >= 1, taken by increasing
// re + im and then by increasing im: 1+i, 2+i, 1+2i, 3+i, 2+2i, ...
// A candidate x on E yields R = cofactor*(x : 1), which is kept if it has
// order exactly 2^f. The first kept point is P; Q is the next one whose
// 2^(f-1) multiple differs from that of P, so P and Q generate the whole
// 2^f-torsion.
//
// The image 2^(f-1)*R depends on the square classes of x - x(T) for the
// 2-torsion points T, so both coordinates have to vary: along x = k + i on
// y^2 = x^3 + x, x - i stays in GF(p) and every image is (i : 1).
func TwoTorsionBasis(e *curves.Curve, params sqisign.Params) (*curves.Point, *curves.Point, error) {
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}
	f := e.Field()
	if f.Modulus().Cmp(params.Prime()) != 0 {
		return nil, nil, fmt.Errorf("%w: curve is not defined over GF(%v^2)", sqisign.ErrNoTorsionBasis, params.Prime())
	}

	var (
		p  *curves.Point
		tp *curves.Point // 2^(f-1) * P
	)
	next := candidates()
	for n := 0; n < MaxBasisCandidates; n++ {
		x := f.ElementInt64(next())
		if !e.IsXCoordinate(x) {
			continue
		}
		r, err := e.Affine(x)
		if err != nil {
			return nil, nil, err
		}
		r = r.Mul(params.Cofactor)

		// exact order 2^f
		t := r.Double(params.F - 1)
		if t.IsInfinity() || !t.Double(1).IsInfinity() {
			continue
		}

		switch {
		case p == nil:
			p, tp = r, t
		case !t.Equal(tp):
			return p.Normalize(), r.Normalize(), nil
		}
	}
	return nil, nil, fmt.Errorf("%w: after %d candidates", sqisign.ErrNoTorsionBasis, MaxBasisCandidates)
}

// candidates walks the pairs (re, im) along the diagonals re + im = 2, 3, ...
func candidates() func() (int64, int64) {
	sum, im := int64(2), int64(0)
	return func() (int64, int64) {
		im++
		if im >= sum {
			sum, im = sum+1, 1
		}
		return sum - im, im
	}
}
