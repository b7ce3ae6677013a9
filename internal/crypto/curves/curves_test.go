package curves

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-sqisign/internal/crypto/field"
	"github.com/smallyu/go-sqisign/pkg/sqisign"
)

func mersenne(n uint) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), n)
	return m.Sub(m, big.NewInt(1))
}

func newTestCurve(t testing.TB, p *big.Int, a int64) *Curve {
	t.Helper()
	f, err := field.New(p)
	require.NoError(t, err)
	c, err := NewCurve(f.ElementInt64(a, 0))
	require.NoError(t, err)
	return c
}

func point(t testing.TB, c *Curve, x, z int64) *Point {
	t.Helper()
	f := c.Field()
	p, err := c.Point(f.ElementInt64(x, 0), f.ElementInt64(z, 0))
	require.NoError(t, err)
	return p
}

func TestNewCurve(t *testing.T) {
	f := field.MustNew(mersenne(61))

	for _, a := range []int64{2, -2} {
		_, err := NewCurve(f.ElementInt64(a, 0))
		assert.ErrorIs(t, err, sqisign.ErrSingularCurve)
	}

	c, err := NewCurve(f.ElementInt64(42, 0))
	require.NoError(t, err)
	assert.Equal(t, "y^2 = x^3 + (42)x^2 + x", c.String())

	d, err := NewCurve(f.ElementInt64(42, 0))
	require.NoError(t, err)
	assert.True(t, c.Equal(d))

	e, err := NewCurve(f.Zero())
	require.NoError(t, err)
	assert.False(t, c.Equal(e))
	assert.Equal(t, "y^2 = x^3 + x", e.String())
}

func TestPointConstruction(t *testing.T) {
	c := newTestCurve(t, mersenne(61), 42)
	f := c.Field()

	_, err := c.Point(f.Zero(), f.Zero())
	assert.ErrorIs(t, err, sqisign.ErrInvalidPoint)

	g := field.MustNew(big.NewInt(7))
	_, err = c.Point(g.One(), f.One())
	assert.ErrorIs(t, err, sqisign.ErrFieldMismatch)

	assert.True(t, c.Infinity().IsInfinity())
	assert.True(t, c.Infinity().Equal(point(t, c, 5, 0)))
}

func TestXDBLAndXADD(t *testing.T) {
	c := newTestCurve(t, mersenne(61), 42)

	p := point(t, c, 1463231399, 340844173)
	r := point(t, c, 12270276136, 8839223951)
	got, err := c.XDBL(p)
	require.NoError(t, err)
	assert.True(t, got.Equal(r), "xDBL = %v", got)

	q := point(t, c, 2121144403, 924364499)
	pmq := point(t, c, 733275521, 967273905)
	s := point(t, c, 1665137133, 121917320)
	got, err = c.XADD(p, q, pmq)
	require.NoError(t, err)
	assert.True(t, got.Equal(s), "xADD = %v", got)
}

func TestCurveMismatch(t *testing.T) {
	c := newTestCurve(t, mersenne(61), 42)
	d := newTestCurve(t, mersenne(61), 7)
	p := point(t, c, 3, 1)
	q := point(t, d, 3, 1)

	_, err := d.XDBL(p)
	assert.ErrorIs(t, err, sqisign.ErrCurveMismatch)
	_, err = c.XADD(p, q, p)
	assert.ErrorIs(t, err, sqisign.ErrCurveMismatch)
	assert.False(t, p.Equal(q))
}

func TestTwoTorsion(t *testing.T) {
	c := newTestCurve(t, mersenne(31), 42)

	for _, p := range []*Point{
		point(t, c, 1058574377, 1),
		point(t, c, 1, 1058574377),
		point(t, c, 0, 1),
	} {
		d, err := c.XDBL(p)
		require.NoError(t, err)
		assert.True(t, d.IsInfinity(), "2*%v = %v", p, d)
	}

	d, err := c.XDBL(c.Infinity())
	require.NoError(t, err)
	assert.True(t, d.IsInfinity())

	// n*T = (0:1)
	tp := point(t, c, 123, 1)
	assert.True(t, tp.MulInt64(268427273).Equal(point(t, c, 0, 1)))
}

func TestXADDDegenerate(t *testing.T) {
	c := newTestCurve(t, mersenne(31), 42)
	rng := rand.New(rand.NewSource(4))
	p, err := c.Random(rng)
	require.NoError(t, err)
	t0 := point(t, c, 0, 1)

	got, err := c.XADD(c.Infinity(), p, p)
	require.NoError(t, err)
	assert.True(t, got.Equal(p))

	got, err = c.XADD(p, c.Infinity(), p)
	require.NoError(t, err)
	assert.True(t, got.Equal(p))

	got, err = c.XADD(p, p, c.Infinity())
	require.NoError(t, err)
	assert.True(t, got.Equal(p.MulInt64(2)))

	// P + T0 has x-coordinate 1/x(P)
	x, err := p.AffineX()
	require.NoError(t, err)
	inv, err := x.Inverse()
	require.NoError(t, err)
	pt0, err := c.Affine(inv)
	require.NoError(t, err)

	// (P + T0) + P = 2P + T0
	d := p.Double(1)
	want, err := c.Point(d.Z(), d.X())
	require.NoError(t, err)
	got, err = c.XADD(pt0, p, t0)
	require.NoError(t, err)
	assert.True(t, got.Equal(want), "got %v", got)
}

func TestLadder(t *testing.T) {
	c := newTestCurve(t, mersenne(31), 42)
	rng := rand.New(rand.NewSource(5))
	p, err := c.Random(rng)
	require.NoError(t, err)

	assert.True(t, p.MulInt64(0).IsInfinity())
	assert.True(t, p.MulInt64(1).Equal(p))
	assert.True(t, p.MulInt64(2).Equal(p.Double(1)))
	assert.True(t, p.MulInt64(8).Equal(p.Double(3)))
	assert.True(t, p.MulInt64(-5).Equal(p.MulInt64(5)))
	assert.True(t, c.Infinity().MulInt64(12345).IsInfinity())

	// 3P via the differential addition P + 2P with difference P
	three, err := c.XADD(p.Double(1), p, p)
	require.NoError(t, err)
	assert.True(t, p.MulInt64(3).Equal(three))

	limit := new(big.Int).Lsh(big.NewInt(1), 99)
	for i := 0; i < 5; i++ {
		a := new(big.Int).Rand(rng, limit)
		b := new(big.Int).Rand(rng, limit)
		ab := new(big.Int).Mul(a, b)

		assert.True(t, p.Mul(a).Mul(b).Equal(p.Mul(b).Mul(a)))
		assert.True(t, p.Mul(a).Mul(b).Equal(p.Mul(ab)))
	}
}

func TestNormalize(t *testing.T) {
	c := newTestCurve(t, mersenne(31), 42)
	p := point(t, c, 6, 3)
	q := p.Clone().Normalize()

	assert.True(t, q.IsAffine())
	assert.True(t, q.Equal(p))
	assert.True(t, q.X().Equal(c.Field().ElementInt64(2, 0)))
	assert.False(t, p.IsAffine(), "Normalize works on the receiver only")

	again := q.Clone().Normalize()
	assert.True(t, again.X().Equal(q.X()))
	assert.True(t, again.Z().Equal(q.Z()))

	inf := point(t, c, 9, 0).Normalize()
	assert.True(t, inf.X().IsOne())
	assert.True(t, inf.Z().IsZero())

	assert.Equal(t, "(2 : 1)", p.String())
	assert.Equal(t, "(1 : 0)", inf.String())
}

func TestIsXCoordinate(t *testing.T) {
	c := newTestCurve(t, mersenne(31), 42)
	rng := rand.New(rand.NewSource(6))
	for i := 0; i < 10; i++ {
		p, err := c.Random(rng)
		require.NoError(t, err)
		assert.True(t, c.IsXCoordinate(p.X()))
		assert.True(t, p.IsAffine())
	}
	assert.True(t, c.IsXCoordinate(c.Field().Zero()))
}
