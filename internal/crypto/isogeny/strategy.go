package isogeny

import (
	"fmt"

	"github.com/smallyu/go-sqisign/internal/crypto/curves"
	"github.com/smallyu/go-sqisign/pkg/sqisign"
)

// Relative costs of one xDBL (3M + 2S) and of pushing a point through
// a 2-isogeny (4M), in multiplications.
const (
	DefaultDoublingCost   = 4.6
	DefaultEvaluationCost = 4.0
)

// Strategy decomposes the 2^n-isogeny with kernel <K> into n 2-isogenies.
// All strategies must produce the same sequence of steps.
type Strategy interface {
	Steps(k *curves.Point, n int) ([]*TwoIsogeny, error)
}

// DefaultStrategy is used when no strategy is given.
var DefaultStrategy Strategy = Balanced{}

// Naive recomputes the kernel of every step from the running point,
// which costs n(n-1)/2 doublings.
type Naive struct{}

func (Naive) Steps(k *curves.Point, n int) ([]*TwoIsogeny, error) {
	if err := checkLength(k, n); err != nil {
		return nil, err
	}

	steps := make([]*TwoIsogeny, 0, n)
	r := k
	for j := 0; j < n; j++ {
		phi, err := NewTwoIsogeny(r.Double(n - j - 1))
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", j, err)
		}
		steps = append(steps, phi)

		if j == n-1 {
			break
		}
		if r, err = phi.Eval(r); err != nil {
			return nil, err
		}
	}
	return steps, nil
}

func (Naive) String() string {
	return "naive"
}

// Balanced traverses the tree of multiples of K along a cost-optimal
// schedule, keeping intermediate multiples on a stack and pushing them
// through every new step instead of doubling from scratch.
type Balanced struct {
	DoublingCost   float64
	EvaluationCost float64
}

func (b Balanced) costs() (float64, float64) {
	p, q := b.DoublingCost, b.EvaluationCost
	if p <= 0 {
		p = DefaultDoublingCost
	}
	if q <= 0 {
		q = DefaultEvaluationCost
	}
	return p, q
}

// Schedule returns split such that for every 2 <= h <= n, a subtree of
// height h is best handled by doubling split[h] times first. It minimizes
//
//	cost[h] = cost[h-s] + cost[s] + s*p + (h-s)*q
//
// over 1 <= s < h, with cost[1] = 0, p the doubling and q the evaluation cost.
func (b Balanced) Schedule(n int) []int {
	p, q := b.costs()
	if n < 1 {
		return nil
	}

	cost := make([]float64, n+1)
	split := make([]int, n+1)
	for h := 2; h <= n; h++ {
		best := -1.0
		for s := 1; s < h; s++ {
			c := cost[h-s] + cost[s] + float64(s)*p + float64(h-s)*q
			if best < 0 || c < best {
				best = c
				split[h] = s
			}
		}
		cost[h] = best
	}
	return split
}

type pending struct {
	point  *curves.Point
	height int
}

func (b Balanced) Steps(k *curves.Point, n int) ([]*TwoIsogeny, error) {
	if err := checkLength(k, n); err != nil {
		return nil, err
	}
	split := b.Schedule(n)

	steps := make([]*TwoIsogeny, 0, n)
	stack := []pending{{k, n}}
	for len(steps) < n {
		// descend to a point of order 2
		top := stack[len(stack)-1]
		for top.height > 1 {
			s := split[top.height]
			top = pending{top.point.Double(s), top.height - s}
			stack = append(stack, top)
		}

		phi, err := NewTwoIsogeny(top.point)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", len(steps), err)
		}
		steps = append(steps, phi)
		stack = stack[:len(stack)-1]

		for i := range stack {
			if stack[i].point, err = phi.Eval(stack[i].point); err != nil {
				return nil, err
			}
			stack[i].height--
		}
	}
	return steps, nil
}

func (b Balanced) String() string {
	p, q := b.costs()
	return fmt.Sprintf("balanced(p=%.2f, q=%.2f)", p, q)
}

func checkLength(k *curves.Point, n int) error {
	if k == nil {
		return sqisign.NewOpError("isogeny chain", sqisign.ErrInvalidPoint)
	}
	if n < 1 {
		return fmt.Errorf("%w: chain length %d", sqisign.ErrKernelOrder, n)
	}
	return nil
}
