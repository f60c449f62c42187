package collide

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/gopic/phys"
	"github.com/phil-mansfield/gopic/rand"
	"github.com/phil-mansfield/gopic/xsec"
)

// ProcessType names the reaction sub-channels a species pair can undergo.
type ProcessType int

const (
	Elastic ProcessType = iota
	BackScatter
	ChargeExchange
	Fusion
)

// ParseProcessType converts a config name to a ProcessType. Unknown names
// are a setup error, surfaced before any step runs.
func ParseProcessType(name string) (ProcessType, error) {
	switch name {
	case "elastic":
		return Elastic, nil
	case "back":
		return BackScatter, nil
	case "charge_exchange":
		return ChargeExchange, nil
	case "fusion":
		return Fusion, nil
	}
	return 0, fmt.Errorf("Unrecognized scattering process '%s'.", name)
}

// Process is one sub-channel: a process type plus its cross-section table.
type Process struct {
	Type  ProcessType
	Sigma *xsec.Table
}

// Selection is the policy for choosing among sub-channels that are
// simultaneously eligible on the same pair. The rule is declared per
// reaction family in the config; there is no single global law.
type Selection int

const (
	// Combined makes a single draw against the summed probability of all
	// channels and then picks the channel in proportion to its share of the
	// total cross section.
	Combined Selection = iota
	// Independent makes an independent draw per channel, in declaration
	// order, and the first channel that fires wins.
	Independent
)

// ParseSelection converts a config name to a Selection policy.
func ParseSelection(name string) (Selection, error) {
	switch name {
	case "", "combined":
		return Combined, nil
	case "independent":
		return Independent, nil
	}
	return 0, fmt.Errorf("Unrecognized channel selection policy '%s'.", name)
}

// Reactants packs the per-pair inputs handed to a filter: normalized momenta
// u = gamma*v, masses, and split contributed weights.
type Reactants struct {
	Ux1, Uy1, Uz1 float64
	Ux2, Uy2, Uz2 float64
	M1, M2        float64
	W1, W2        float64
}

// cmEnergy returns the total kinetic energy available in the pair's
// center-of-mass frame, the energy at which cross sections are evaluated.
func (r *Reactants) cmEnergy() float64 {
	e1 := phys.Energy(r.Ux1, r.Uy1, r.Uz1, r.M1)
	e2 := phys.Energy(r.Ux2, r.Uy2, r.Uz2, r.M2)
	px := r.M1*r.Ux1 + r.M2*r.Ux2
	py := r.M1*r.Uy1 + r.M2*r.Uy2
	pz := r.M1*r.Uz1 + r.M2*r.Uz2
	s := (e1+e2)*(e1+e2) - (px*px+py*py+pz*pz)*phys.CSq
	if s <= 0 {
		return 0
	}
	eCM := math.Sqrt(s) - (r.M1+r.M2)*phys.CSq
	if eCM < 0 {
		return 0
	}
	return eCM
}

// Context is the local plasma state of one cell, supplied by an external
// estimator. Filters which do not depend on it ignore it.
type Context struct {
	N1, N2 float64 // densities
	T1, T2 float64 // temperatures
}

// Filter decides, for one pair, whether a reaction occurs. Implementations
// read particle state through r and write only the pair's outcome slot; no
// particle field is ever mutated here. maxN is the larger of the two cell
// population sizes, which corrects the per-pair probability for the fact
// that each particle of the larger population appears in exactly one of the
// maxN pairs.
type Filter interface {
	Pair(
		r *Reactants, ctx *Context, dt, dV float64, maxN int,
		slot int, o *Outcome, gen *rand.Generator,
	)
}

// DSMCFilter performs multi-channel direct-simulation Monte Carlo decisions.
// Each channel's event rate for a pair is sigma(E) * vrel * wmax * maxN / dV,
// and the no-event survival over dt is exponential.
type DSMCFilter struct {
	Processes []Process
	Select    Selection
}

func (f *DSMCFilter) Pair(
	r *Reactants, _ *Context, dt, dV float64, maxN int,
	slot int, o *Outcome, gen *rand.Generator,
) {
	vrel := phys.RelativeSpeed(r.Ux1, r.Uy1, r.Uz1, r.Ux2, r.Uy2, r.Uz2)
	if vrel == 0 {
		return
	}
	e := r.cmEnergy()
	wMin, wMax := r.W1, r.W2
	if wMin > wMax {
		wMin, wMax = wMax, wMin
	}
	rate := vrel * wMax * float64(maxN) * dt / dV

	switch f.Select {
	case Combined:
		sigmaTot := 0.0
		for i := range f.Processes {
			sigmaTot += f.Processes[i].Sigma.Eval(e)
		}
		if sigmaTot == 0 {
			return
		}
		if gen.Next() >= -math.Expm1(-sigmaTot*rate) {
			return
		}
		// The event happened: pick the channel in proportion to its share
		// of the total cross section.
		target := gen.Uniform(0, sigmaTot)
		sum := 0.0
		for i := range f.Processes {
			sum += f.Processes[i].Sigma.Eval(e)
			if target < sum || i == len(f.Processes)-1 {
				o.Mask[slot] = i + 1
				o.Weight[slot] = wMin
				return
			}
		}
	case Independent:
		for i := range f.Processes {
			p := -math.Expm1(-f.Processes[i].Sigma.Eval(e) * rate)
			if gen.Next() < p {
				o.Mask[slot] = i + 1
				o.Weight[slot] = wMin
				return
			}
		}
	}
}

// FusionFilter performs single-channel reactive decisions with a probability
// multiplier. Fusion cross sections are small enough that unboosted events
// would almost never fire, so the probability is multiplied by Multiplier
// and the reaction weight divided by it, leaving the expected produced
// weight unchanged.
type FusionFilter struct {
	Sigma      *xsec.Table
	Multiplier float64
}

func (f *FusionFilter) Pair(
	r *Reactants, _ *Context, dt, dV float64, maxN int,
	slot int, o *Outcome, gen *rand.Generator,
) {
	vrel := phys.RelativeSpeed(r.Ux1, r.Uy1, r.Uz1, r.Ux2, r.Uy2, r.Uz2)
	if vrel == 0 {
		return
	}
	wMin, wMax := r.W1, r.W2
	if wMin > wMax {
		wMin, wMax = wMax, wMin
	}
	sigma := f.Sigma.Eval(r.cmEnergy())
	p := f.Multiplier * sigma * vrel * wMax * float64(maxN) * dt / dV
	if p > 1 {
		// Saturated probability: the event fires every time and the excess
		// is folded into the reaction weight instead.
		o.Mask[slot] = 1
		o.Weight[slot] = wMin / f.Multiplier * p
		return
	}
	if gen.Next() < p {
		o.Mask[slot] = 1
		o.Weight[slot] = wMin / f.Multiplier
	}
}
