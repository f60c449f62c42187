package particle

import (
	"fmt"

	"github.com/phil-mansfield/gopic/rand"
)

type PolicyKind int

const (
	// Zero, One and Const fill a new attribute with a fixed value. Uniform
	// samples it from [Low, High).
	Zero PolicyKind = iota
	One
	Const
	Uniform
)

// Policy is the default-initialization rule applied to one attribute of a
// newly created particle.
type Policy struct {
	Kind      PolicyKind
	Low, High float64
}

// ConstPolicy returns a policy which fills an attribute with val.
func ConstPolicy(val float64) Policy {
	return Policy{Kind: Const, Low: val}
}

// UniformPolicy returns a policy which samples an attribute from [low, high).
func UniformPolicy(low, high float64) Policy {
	return Policy{Kind: Uniform, Low: low, High: high}
}

// ParsePolicy converts a config string ("zero", "one", "const 5",
// "uniform 0 1") into a Policy.
func ParsePolicy(words []string) (Policy, error) {
	if len(words) == 0 {
		return Policy{}, fmt.Errorf("Empty attribute policy.")
	}
	switch words[0] {
	case "zero":
		return Policy{Kind: Zero}, nil
	case "one":
		return Policy{Kind: One}, nil
	case "const":
		if len(words) != 2 {
			return Policy{}, fmt.Errorf("'const' policy needs one value.")
		}
		var val float64
		if _, err := fmt.Sscan(words[1], &val); err != nil {
			return Policy{}, err
		}
		return ConstPolicy(val), nil
	case "uniform":
		if len(words) != 3 {
			return Policy{}, fmt.Errorf("'uniform' policy needs two values.")
		}
		var low, high float64
		if _, err := fmt.Sscan(words[1], &low); err != nil {
			return Policy{}, err
		}
		if _, err := fmt.Sscan(words[2], &high); err != nil {
			return Policy{}, err
		}
		return UniformPolicy(low, high), nil
	}
	return Policy{}, fmt.Errorf("Unrecognized attribute policy '%s'.", words[0])
}

// Real evaluates the policy for a real-valued attribute.
func (pol Policy) Real(gen *rand.Generator) float64 {
	switch pol.Kind {
	case Zero:
		return 0
	case One:
		return 1
	case Const:
		return pol.Low
	case Uniform:
		return gen.Uniform(pol.Low, pol.High)
	}
	panic("Unrecognized PolicyKind")
}

// Int evaluates the policy for an integer-valued attribute. Uniform policies
// are rejected at schema-definition time and cannot reach this point.
func (pol Policy) Int() int64 {
	switch pol.Kind {
	case Zero:
		return 0
	case One:
		return 1
	case Const:
		return int64(pol.Low)
	}
	panic("Unrecognized PolicyKind")
}
