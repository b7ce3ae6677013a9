package sqisign

import (
	"fmt"
	"math/big"
)

// DefaultTorsionExponent is the 2-power torsion exponent f of the default
// parameter set. The challenge isogeny has degree 2^f as well.
const DefaultTorsionExponent = 128

// defaultCofactor is the odd cofactor c of p = c*2^f - 1.
var defaultCofactor, _ = new(big.Int).SetString("b34281e63cfdf2985b9f1f5de85f0f51", 16)

// Params holds the protocol-wide parameter set.
type Params struct {
	Cofactor *big.Int // Odd cofactor c
	F        int      // Torsion exponent f, the field characteristic is p = c*2^f - 1
}

// DefaultParams returns the parameter set used by the reference signatures.
func DefaultParams() Params {
	return Params{
		Cofactor: new(big.Int).Set(defaultCofactor),
		F:        DefaultTorsionExponent,
	}
}

// Prime returns p = c*2^f - 1.
func (p Params) Prime() *big.Int {
	q := new(big.Int).Lsh(p.Cofactor, uint(p.F))
	return q.Sub(q, big.NewInt(1))
}

// TorsionOrder returns 2^f.
func (p Params) TorsionOrder() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(p.F))
}

// Validate checks the shape of the parameter set. Primality of the resulting
// characteristic is checked when the field is constructed.
func (p Params) Validate() error {
	if p.Cofactor == nil || p.Cofactor.Sign() <= 0 {
		return fmt.Errorf("%w: cofactor must be positive", ErrInvalidParams)
	}
	if p.Cofactor.Bit(0) == 0 {
		return fmt.Errorf("%w: cofactor must be odd", ErrInvalidParams)
	}
	if p.F < 2 {
		return fmt.Errorf("%w: torsion exponent must be at least 2, got %d", ErrInvalidParams, p.F)
	}
	return nil
}

func (p Params) String() string {
	return fmt.Sprintf("p = 0x%x * 2^%d - 1", p.Cofactor, p.F)
}
