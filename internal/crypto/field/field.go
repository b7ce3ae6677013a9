package field

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/smallyu/go-sqisign/pkg/sqisign"
)

var (
	zero  = big.NewInt(0)
	one   = big.NewInt(1)
	three = big.NewInt(3)
	four  = big.NewInt(4)
)

// Field represents the quadratic extension GF(p^2) = GF(p)(i) with i^2 = -1.
// It requires p = 3 mod 4, so that -1 is not a square in GF(p).
//
// A Field is immutable once constructed. Two fields are equal iff they share
// the modulus, regardless of the attached counter.
type Field struct {
	p *big.Int // the prime modulus

	e1 *big.Int // (p-1)/2, Euler exponent of GF(p)
	e2 *big.Int // (p+1)/4, square root exponent of GF(p)

	byteLen int
	counter Counter
}

// Option configures a Field at construction.
type Option func(*Field)

// WithCounter attaches a diagnostic operation counter. A nil counter disables counting.
func WithCounter(c Counter) Option {
	return func(f *Field) {
		f.counter = c
	}
}

// New creates the field GF(p^2) for a prime p = 3 mod 4.
func New(p *big.Int, opts ...Option) (*Field, error) {
	if p == nil || p.Cmp(three) < 0 || !p.ProbablyPrime(32) {
		return nil, fmt.Errorf("%w: %v is not a prime", sqisign.ErrInvalidModulus, p)
	}
	if new(big.Int).Mod(p, four).Cmp(three) != 0 {
		return nil, fmt.Errorf("%w: %v is not congruent to 3 mod 4", sqisign.ErrInvalidModulus, p)
	}

	f := &Field{
		p:       new(big.Int).Set(p),
		byteLen: (p.BitLen() + 7) / 8,
	}

	f.e1 = new(big.Int).Sub(p, one)
	f.e1.Rsh(f.e1, 1)

	f.e2 = new(big.Int).Add(p, one)
	f.e2.Rsh(f.e2, 2)

	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// MustNew is like New but panics on an invalid modulus.
// It is intended for package-level parameter sets and tests.
func MustNew(p *big.Int, opts ...Option) *Field {
	f, err := New(p, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// WithCounter returns a copy of the field that reports to c.
// The copy is Equal to f and its elements combine freely with those of f.
func (f *Field) WithCounter(c Counter) *Field {
	g := *f
	g.counter = c
	return &g
}

// Counter returns the attached counter, or nil.
func (f *Field) Counter() Counter {
	return f.counter
}

func (f *Field) count(op Op) {
	if f.counter != nil {
		f.counter.Count(op)
	}
}

// Modulus returns a copy of p.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.p)
}

// ByteLen returns the number of bytes needed to hold a residue mod p.
func (f *Field) ByteLen() int {
	return f.byteLen
}

// Equal reports whether both fields have the same modulus.
func (f *Field) Equal(g *Field) bool {
	if f == g {
		return true
	}
	if f == nil || g == nil {
		return false
	}
	return f.p.Cmp(g.p) == 0
}

func (f *Field) String() string {
	return fmt.Sprintf("GF(%v)[sqrt(-1)]", f.p)
}

// Zero returns the additive identity.
func (f *Field) Zero() Element {
	return Element{f: f, re: zero, im: zero}
}

// One returns the multiplicative identity.
func (f *Field) One() Element {
	return Element{f: f, re: one, im: zero}
}

// I returns the square root of -1 used to build the extension.
func (f *Field) I() Element {
	return Element{f: f, re: zero, im: one}
}

// Element returns re + im*i, reducing both parts modulo p.
func (f *Field) Element(re, im *big.Int) Element {
	return Element{f: f, re: f.reduce(re), im: f.reduce(im)}
}

// ElementInt64 is a convenience wrapper around Element.
func (f *Field) ElementInt64(re, im int64) Element {
	return f.Element(big.NewInt(re), big.NewInt(im))
}

// Random returns a uniformly random element.
func (f *Field) Random(random io.Reader) (Element, error) {
	if random == nil {
		random = rand.Reader
	}
	re, err := rand.Int(random, f.p)
	if err != nil {
		return Element{}, err
	}
	im, err := rand.Int(random, f.p)
	if err != nil {
		return Element{}, err
	}
	return Element{f: f, re: re, im: im}, nil
}

// FromWire binds a wire-level element to this field.
func (f *Field) FromWire(w sqisign.Element) (Element, error) {
	if w.Re == nil || w.Im == nil {
		return Element{}, fmt.Errorf("%w: missing field element component", sqisign.ErrInvalidEncoding)
	}
	return f.Element(w.Re, w.Im), nil
}

func (f *Field) reduce(x *big.Int) *big.Int {
	if x == nil {
		return zero
	}
	return new(big.Int).Mod(x, f.p)
}
