package isogeny

import (
	"fmt"

	"github.com/smallyu/go-sqisign/internal/crypto/curves"
)

// Chain is a 2^n-isogeny given as n consecutive 2-isogenies.
// Its kernel is generated by the point it was built from.
type Chain struct {
	steps []*TwoIsogeny
}

// NewChain builds the 2^n-isogeny with kernel <K>, where K has order 2^n.
// A nil strategy selects DefaultStrategy. A kernel of the wrong order is
// reported by the step where it is detected.
func NewChain(k *curves.Point, n int, strategy Strategy) (*Chain, error) {
	if strategy == nil {
		strategy = DefaultStrategy
	}
	steps, err := strategy.Steps(k, n)
	if err != nil {
		return nil, err
	}
	return &Chain{steps: steps}, nil
}

// Steps returns the 2-isogenies in evaluation order.
func (c *Chain) Steps() []*TwoIsogeny {
	return append([]*TwoIsogeny(nil), c.steps...)
}

func (c *Chain) Len() int {
	return len(c.steps)
}

func (c *Chain) Domain() *curves.Curve {
	return c.steps[0].Domain()
}

func (c *Chain) Codomain() *curves.Curve {
	return c.steps[len(c.steps)-1].Codomain()
}

// Eval pushes p through every step.
func (c *Chain) Eval(p *curves.Point) (*curves.Point, error) {
	var err error
	for _, phi := range c.steps {
		if p, err = phi.Eval(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (c *Chain) String() string {
	return fmt.Sprintf("%v --2^%d--> %v", c.Domain(), len(c.steps), c.Codomain())
}
