package collide

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phil-mansfield/gopic/phys"
	"github.com/phil-mansfield/gopic/rand"
	"github.com/phil-mansfield/gopic/xsec"
)

func filterReactants(w1, w2 float64) *Reactants {
	return &Reactants{
		Ux1: 2e5, Uy1: -1e5, Uz1: 5e4,
		Ux2: -1e5, Uy2: 3e4, Uz2: -2e4,
		M1: 2 * phys.MU, M2: 3 * phys.MU,
		W1: w1, W2: w2,
	}
}

func runFilter(f Filter, r *Reactants, n int, seed uint64) *Outcome {
	o := &Outcome{}
	o.resize(n)
	gen := rand.New(rand.Xorshift, seed)
	for slot := 0; slot < n; slot++ {
		f.Pair(r, &Context{}, 1e-6, 1e-12, 10, slot, o, gen)
	}
	return o
}

func TestDSMCCertainEvent(t *testing.T) {
	f := &DSMCFilter{
		Processes: []Process{{Type: Elastic, Sigma: xsec.Constant(1e-8)}},
		Select:    Combined,
	}
	r := filterReactants(2.0, 5.0)
	o := runFilter(f, r, 50, 1)
	for slot := 0; slot < 50; slot++ {
		assert.Equal(t, 1, o.Mask[slot])
		// The reaction weight is the smaller contributed weight.
		assert.Equal(t, 2.0, o.Weight[slot])
	}
}

func TestDSMCZeroCrossSection(t *testing.T) {
	for _, sel := range []Selection{Combined, Independent} {
		f := &DSMCFilter{
			Processes: []Process{{Type: Elastic, Sigma: xsec.Constant(0)}},
			Select:    sel,
		}
		o := runFilter(f, filterReactants(1, 1), 50, 2)
		for slot := 0; slot < 50; slot++ {
			assert.Equal(t, 0, o.Mask[slot])
		}
	}
}

func TestDSMCZeroRelativeSpeed(t *testing.T) {
	f := &DSMCFilter{
		Processes: []Process{{Type: Elastic, Sigma: xsec.Constant(1e-8)}},
	}
	r := &Reactants{
		Ux1: 1e5, Uy1: 2e5, Uz1: 3e5,
		Ux2: 1e5, Uy2: 2e5, Uz2: 3e5,
		M1: phys.MU, M2: phys.MU, W1: 1, W2: 1,
	}
	o := runFilter(f, r, 20, 3)
	for slot := 0; slot < 20; slot++ {
		assert.Equal(t, 0, o.Mask[slot])
	}
}

func TestDSMCCombinedChannelShares(t *testing.T) {
	// Channel 2's cross section is 3x channel 1's, so with a certain event
	// it should fire about 3x as often.
	f := &DSMCFilter{
		Processes: []Process{
			{Type: Elastic, Sigma: xsec.Constant(2.5e-9)},
			{Type: ChargeExchange, Sigma: xsec.Constant(7.5e-9)},
		},
		Select: Combined,
	}
	o := runFilter(f, filterReactants(1, 1), 4000, 4)

	counts := [3]int{}
	for slot := range o.Mask {
		counts[o.Mask[slot]]++
	}
	assert.Equal(t, 0, counts[0])
	total := float64(counts[1] + counts[2])
	assert.InDelta(t, 0.25, float64(counts[1])/total, 0.03)
	assert.InDelta(t, 0.75, float64(counts[2])/total, 0.03)
}

func TestDSMCIndependentFirstWins(t *testing.T) {
	// The first channel always fires, so the second never gets a draw even
	// though it would also always fire.
	f := &DSMCFilter{
		Processes: []Process{
			{Type: Elastic, Sigma: xsec.Constant(1e-8)},
			{Type: ChargeExchange, Sigma: xsec.Constant(1e-8)},
		},
		Select: Independent,
	}
	o := runFilter(f, filterReactants(1, 1), 50, 5)
	for slot := 0; slot < 50; slot++ {
		assert.Equal(t, 1, o.Mask[slot])
	}
}

func TestFusionSaturatedProbability(t *testing.T) {
	f := &FusionFilter{Sigma: xsec.Constant(1.0), Multiplier: 10}
	r := filterReactants(1.0, 4.0)
	o := runFilter(f, r, 20, 6)

	vrel := phys.RelativeSpeed(r.Ux1, r.Uy1, r.Uz1, r.Ux2, r.Uy2, r.Uz2)
	p := 10 * 1.0 * vrel * 4.0 * 10 * 1e-6 / 1e-12
	assert.True(t, p > 1)
	for slot := 0; slot < 20; slot++ {
		assert.Equal(t, 1, o.Mask[slot])
		// The excess probability folds into the reaction weight, keeping the
		// expected produced weight unchanged.
		assert.InDelta(t, 1.0/10*p, o.Weight[slot], 1e-9*p)
	}
}

func TestFusionMultiplierPreservesExpectedWeight(t *testing.T) {
	// Pick sigma so the boosted probability stays below 1, then check that
	// the mean accepted weight matches the unboosted expectation.
	f1 := &FusionFilter{Sigma: xsec.Constant(5e-15), Multiplier: 1}
	f2 := &FusionFilter{Sigma: xsec.Constant(5e-15), Multiplier: 40}

	r := filterReactants(1.0, 1.0)
	const n = 40000
	sum1, sum2 := 0.0, 0.0
	o := runFilter(f1, r, n, 7)
	for slot := range o.Mask {
		if o.Mask[slot] != 0 {
			sum1 += o.Weight[slot]
		}
	}
	o = runFilter(f2, r, n, 8)
	for slot := range o.Mask {
		if o.Mask[slot] != 0 {
			sum2 += o.Weight[slot]
		}
	}
	assert.True(t, sum1 > 0)
	assert.InDelta(t, 1.0, sum2/sum1, 0.25)
}

func TestDSMCProbabilityMonotonic(t *testing.T) {
	// A larger cross section can only raise the acceptance rate.
	r := filterReactants(1, 1)
	events := func(sigma float64) int {
		f := &DSMCFilter{
			Processes: []Process{{Type: Elastic, Sigma: xsec.Constant(sigma)}},
		}
		o := runFilter(f, r, 4000, 9)
		n := 0
		for slot := range o.Mask {
			if o.Mask[slot] != 0 {
				n++
			}
		}
		return n
	}

	n1 := events(2e-15)
	n2 := events(8e-15)
	n3 := events(3e-14)
	assert.True(t, n1 > 0)
	assert.True(t, n1 < n2, "n1 = %d, n2 = %d", n1, n2)
	assert.True(t, n2 < n3, "n2 = %d, n3 = %d", n2, n3)
}

func TestParseProcessType(t *testing.T) {
	for name, want := range map[string]ProcessType{
		"elastic": Elastic, "back": BackScatter,
		"charge_exchange": ChargeExchange, "fusion": Fusion,
	} {
		got, err := ParseProcessType(name)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseProcessType("coulomb")
	assert.Error(t, err)
}

func TestParseSelection(t *testing.T) {
	sel, err := ParseSelection("")
	assert.NoError(t, err)
	assert.Equal(t, Combined, sel)
	sel, err = ParseSelection("independent")
	assert.NoError(t, err)
	assert.Equal(t, Independent, sel)
	_, err = ParseSelection("priority")
	assert.Error(t, err)
}
