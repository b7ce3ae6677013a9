package field

import (
	"fmt"
	"sync/atomic"
)

// Op identifies a counted field operation.
type Op int

const (
	OpAdd Op = iota
	OpMul
	OpSquare
	OpInverse
	OpIsSquare
	OpSqrt

	numOps
)

var opNames = [numOps]string{"add", "mul", "sq", "inv", "issq", "sqrt"}

// Ops lists every counted operation.
func Ops() []Op {
	ops := make([]Op, numOps)
	for i := range ops {
		ops[i] = Op(i)
	}
	return ops
}

func (o Op) String() string {
	if o < 0 || o >= numOps {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opNames[o]
}

// Weight is the relative cost of an operation, with one multiplication as unit.
func (o Op) Weight() float64 {
	switch o {
	case OpAdd:
		return 0.05
	case OpMul:
		return 1
	case OpSquare:
		return 0.8
	case OpInverse:
		return 95
	case OpIsSquare:
		return 110
	case OpSqrt:
		return 800
	}
	return 0
}

// Counter observes field operations. Implementations must be safe for
// concurrent use when a Field is shared between goroutines.
type Counter interface {
	Count(op Op)
}

// Tally is a Counter keeping in-memory totals.
type Tally struct {
	counts [numOps]atomic.Int64
}

var _ Counter = (*Tally)(nil)

func (t *Tally) Count(op Op) {
	if op >= 0 && op < numOps {
		t.counts[op].Add(1)
	}
}

// Get returns the current total for op.
func (t *Tally) Get(op Op) int64 {
	if op < 0 || op >= numOps {
		return 0
	}
	return t.counts[op].Load()
}

// Snapshot returns the totals of all operations seen so far.
func (t *Tally) Snapshot() map[Op]int64 {
	s := make(map[Op]int64, numOps)
	for _, op := range Ops() {
		if n := t.Get(op); n > 0 {
			s[op] = n
		}
	}
	return s
}

// Cost returns the weighted total in multiplication units.
func (t *Tally) Cost() float64 {
	var c float64
	for _, op := range Ops() {
		c += float64(t.Get(op)) * op.Weight()
	}
	return c
}

func (t *Tally) Reset() {
	for i := range t.counts {
		t.counts[i].Store(0)
	}
}

func (t *Tally) String() string {
	return fmt.Sprintf("%v cost=%.2f", t.Snapshot(), t.Cost())
}
