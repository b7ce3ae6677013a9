package metrics

import (
	"errors"
	"math/big"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-sqisign/internal/crypto/field"
)

func TestCount(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	f := field.MustNew(big.NewInt(2147483647), field.WithCounter(m))
	a := f.ElementInt64(3, 5)
	a.Mul(a).Add(a)
	_, err = a.Inverse()
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.fieldOps.WithLabelValues("mul")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fieldOps.WithLabelValues("add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fieldOps.WithLabelValues("inv")))
	assert.Equal(t, map[field.Op]float64{field.OpMul: 1, field.OpAdd: 1, field.OpInverse: 1}, m.Operations())
	assert.InDelta(t, 1+0.05+95, m.Cost(), 1e-9)

	m.Count(field.Op(-1))
	assert.InDelta(t, 1+0.05+95, m.Cost(), 1e-9)
}

func TestObserveVerification(t *testing.T) {
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.ObserveVerification(true, nil)
	m.ObserveVerification(true, nil)
	m.ObserveVerification(false, nil)
	m.ObserveVerification(false, errors.New("bad input"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.verifications.WithLabelValues("valid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues("error")))
}

func TestDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}
