package collide

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phil-mansfield/gopic/phys"
	"github.com/phil-mansfield/gopic/rand"
)

func momentum(u Vec, m float64) Vec {
	return Vec{m * u[0], m * u[1], m * u[2]}
}

func add(vs ...Vec) Vec {
	sum := Vec{}
	for _, v := range vs {
		sum[0] += v[0]
		sum[1] += v[1]
		sum[2] += v[2]
	}
	return sum
}

func norm(v Vec) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

func TestProductMomentaConservation(t *testing.T) {
	gen := rand.New(rand.Xorshift, 7)

	for trial := 0; trial < 100; trial++ {
		m1 := gen.Uniform(1, 5) * phys.MU
		m2 := gen.Uniform(1, 5) * phys.MU
		// Product masses sum to the reactant masses, so the released energy
		// shows up unmodified in the products' total energy.
		frac := gen.Uniform(0.2, 0.8)
		mA, mB := frac*(m1+m2), (1-frac)*(m1+m2)
		eRelease := gen.Uniform(0, 1e-12)

		r := &Reactants{M1: m1, M2: m2}
		r.Ux1 = gen.Uniform(-0.3, 0.3) * phys.C
		r.Uy1 = gen.Uniform(-0.3, 0.3) * phys.C
		r.Uz1 = gen.Uniform(-0.3, 0.3) * phys.C
		r.Ux2 = gen.Uniform(-0.3, 0.3) * phys.C
		r.Uy2 = gen.Uniform(-0.3, 0.3) * phys.C
		r.Uz2 = gen.Uniform(-0.3, 0.3) * phys.C

		uA, uB := ProductMomenta(r, mA, mB, eRelease, gen)

		pIn := add(
			momentum(Vec{r.Ux1, r.Uy1, r.Uz1}, m1),
			momentum(Vec{r.Ux2, r.Uy2, r.Uz2}, m2),
		)
		pOut := add(momentum(uA, mA), momentum(uB, mB))
		scale := norm(pIn) + norm(momentum(uA, mA))
		for k := 0; k < 3; k++ {
			assert.InDelta(t, pIn[k], pOut[k], 1e-6*scale)
		}
	}
}

func TestProductMomentaEnergyConservation(t *testing.T) {
	// The released energy is defined in the center-of-mass frame, so the
	// lab-frame energy budget only matches it to O(gamma - 1). Plasma-scale
	// velocities keep that correction far below the tolerance.
	gen := rand.New(rand.Xorshift, 11)

	for trial := 0; trial < 100; trial++ {
		m1 := gen.Uniform(1, 5) * phys.MU
		m2 := gen.Uniform(1, 5) * phys.MU
		frac := gen.Uniform(0.2, 0.8)
		mA, mB := frac*(m1+m2), (1-frac)*(m1+m2)
		eRelease := gen.Uniform(0, 1e-12)

		r := &Reactants{M1: m1, M2: m2}
		r.Ux1 = gen.Uniform(-3e5, 3e5)
		r.Uy1 = gen.Uniform(-3e5, 3e5)
		r.Uz1 = gen.Uniform(-3e5, 3e5)
		r.Ux2 = gen.Uniform(-3e5, 3e5)
		r.Uy2 = gen.Uniform(-3e5, 3e5)
		r.Uz2 = gen.Uniform(-3e5, 3e5)

		uA, uB := ProductMomenta(r, mA, mB, eRelease, gen)

		eIn := phys.Energy(r.Ux1, r.Uy1, r.Uz1, m1) +
			phys.Energy(r.Ux2, r.Uy2, r.Uz2, m2) + eRelease
		eOut := phys.Energy(uA[0], uA[1], uA[2], mA) +
			phys.Energy(uB[0], uB[1], uB[2], mB)
		assert.InDelta(t, eIn, eOut, 1e-6*eIn)
	}
}

func TestProductMomentaAtRest(t *testing.T) {
	// Reactants at relative rest: the lab frame is the center-of-mass
	// frame, the boost is skipped, and the products come out back to back.
	gen := rand.New(rand.Tausworthe, 3)
	m := 2 * phys.MU
	r := &Reactants{M1: m, M2: m}
	eRelease := 1e-13

	uA, uB := ProductMomenta(r, m, m, eRelease, gen)

	pA, pB := momentum(uA, m), momentum(uB, m)
	for k := 0; k < 3; k++ {
		assert.InDelta(t, -pA[k], pB[k], 1e-9*norm(pA))
	}
	eOut := phys.Energy(uA[0], uA[1], uA[2], m) +
		phys.Energy(uB[0], uB[1], uB[2], m)
	eIn := 2*m*phys.CSq + eRelease
	assert.InDelta(t, eIn, eOut, 1e-9*eIn)
}

func TestBackScatterDirection(t *testing.T) {
	// Equal masses approaching head on: back scattering swaps the two
	// momenta.
	m := phys.MProton
	r := &Reactants{M1: m, M2: m, Ux1: 1e5, Ux2: -1e5}

	d := cmDirection(r)
	uA, uB := productMomentaDir(r, m, m, 0, Vec{-d[0], -d[1], -d[2]})

	assert.InDelta(t, r.Ux2, uA[0], 1e-6*1e5)
	assert.InDelta(t, r.Ux1, uB[0], 1e-6*1e5)
	assert.InDelta(t, 0, uA[1], 1e-6)
	assert.InDelta(t, 0, uA[2], 1e-6)
}

func TestTwoStepConservation(t *testing.T) {
	// A sequential-decay reaction with masses balanced so that both release
	// energies appear unmodified in the product energies: the intermediate
	// splits exactly into its two decay products, and the first step's
	// products sum to the reactant masses.
	gen := rand.New(rand.Xorshift, 12)
	ts := &TwoStep{
		MA:     1.0 * phys.MU,
		MInt:   3.0 * phys.MU,
		MB:     1.5 * phys.MU,
		EStep1: 2e-13,
		EStep2: 5e-14,
	}
	m1, m2 := 2.0*phys.MU, 2.0*phys.MU

	for trial := 0; trial < 50; trial++ {
		r := &Reactants{M1: m1, M2: m2}
		r.Ux1 = gen.Uniform(-1e5, 1e5)
		r.Uy1 = gen.Uniform(-1e5, 1e5)
		r.Uz1 = gen.Uniform(-1e5, 1e5)
		r.Ux2 = gen.Uniform(-1e5, 1e5)
		r.Uy2 = gen.Uniform(-1e5, 1e5)
		r.Uz2 = gen.Uniform(-1e5, 1e5)

		uA, uB1, uB2 := ts.Products(r, gen)

		pIn := add(
			momentum(Vec{r.Ux1, r.Uy1, r.Uz1}, m1),
			momentum(Vec{r.Ux2, r.Uy2, r.Uz2}, m2),
		)
		pOut := add(
			momentum(uA, ts.MA),
			momentum(uB1, ts.MB),
			momentum(uB2, ts.MB),
		)
		scale := norm(momentum(uA, ts.MA)) + norm(momentum(uB1, ts.MB))
		for k := 0; k < 3; k++ {
			assert.InDelta(t, pIn[k], pOut[k], 1e-6*scale)
		}

		eIn := phys.Energy(r.Ux1, r.Uy1, r.Uz1, m1) +
			phys.Energy(r.Ux2, r.Uy2, r.Uz2, m2) +
			ts.EStep1 + ts.EStep2
		eOut := phys.Energy(uA[0], uA[1], uA[2], ts.MA) +
			phys.Energy(uB1[0], uB1[1], uB1[2], ts.MB) +
			phys.Energy(uB2[0], uB2[1], uB2[2], ts.MB)
		assert.InDelta(t, eIn, eOut, 1e-6*eIn)
	}
}

func TestProtonBoronMomentum(t *testing.T) {
	// A 500 keV proton on boron at rest. The released energies dwarf the
	// incoming kinetic energy, but momentum must balance regardless.
	gen := rand.New(rand.Xorshift, 5)
	ts := ProtonBoron()
	m1 := phys.MProton
	m2 := phys.MProton * 11.00930536
	u := math.Sqrt(2 * 500e3 * phys.EV / m1)
	r := &Reactants{M1: m1, M2: m2, Ux1: u}

	uA, uB1, uB2 := ts.Products(r, gen)

	pIn := momentum(Vec{r.Ux1, 0, 0}, m1)
	pOut := add(
		momentum(uA, ts.MA),
		momentum(uB1, ts.MB),
		momentum(uB2, ts.MB),
	)
	scale := norm(momentum(uA, ts.MA)) + norm(momentum(uB1, ts.MB))
	for k := 0; k < 3; k++ {
		assert.InDelta(t, pIn[k], pOut[k], 1e-6*scale)
	}
	// All three alphas should be emitted with MeV-scale energies.
	for _, uP := range []Vec{uA, uB1, uB2} {
		ke := phys.KineticEnergy(uP[0], uP[1], uP[2], ts.MA)
		assert.True(t, ke > 0.1*phys.MeV, "alpha kinetic energy %g J", ke)
	}
}
