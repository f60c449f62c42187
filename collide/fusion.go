package collide

import (
	"math"

	"github.com/phil-mansfield/gopic/phys"
	"github.com/phil-mansfield/gopic/rand"
)

// TwoStep describes a reaction which proceeds through an unstable
// intermediate: the reactants first fuse into product A plus the
// intermediate, releasing EStep1 of kinetic energy, and the intermediate
// then decays into two B products, releasing EStep2. Emission is isotropic
// in the center-of-mass frame of each step: the reactants' frame for step
// one, the intermediate's rest frame for step two.
type TwoStep struct {
	MA, MInt, MB   float64
	EStep1, EStep2 float64
}

// ProtonBoron returns the dominant channel of p + B11 -> 3 alpha: the proton
// and boron fuse into Be8 plus an alpha (8.59009 MeV), and the Be8 decays
// into two more alphas (91.8984 keV). Cf. Becker et al., Z. Phys. A 327,
// 341-355 (1987).
func ProtonBoron() *TwoStep {
	return &TwoStep{
		MA:     phys.MU * 4.00260325413,
		MInt:   phys.MProton * 7.94748,
		MB:     phys.MU * 4.00260325413,
		EStep1: 8.59009 * phys.MeV,
		EStep2: 0.0918984 * phys.MeV,
	}
}

// Products computes the three distinct product momenta of a two-step
// reaction: uA from the first step, and uB1, uB2 from the intermediate's
// decay, all as lab-frame normalized momenta. Momentum is conserved exactly
// at each step; the intermediate itself never materializes as a particle.
func (ts *TwoStep) Products(
	r *Reactants, gen *rand.Generator,
) (uA, uB1, uB2 Vec) {
	uA, uInt := ProductMomenta(r, ts.MA, ts.MInt, ts.EStep1, gen)

	pInt := Vec{ts.MInt * uInt[0], ts.MInt * uInt[1], ts.MInt * uInt[2]}

	// Momentum magnitude of each decay product in the intermediate's rest
	// frame. The factor 0.5 is there because each product carries half the
	// decay energy.
	gammaStar := 1 + 0.5*ts.EStep2/(ts.MB*phys.CSq)
	pStar := ts.MB * phys.C * math.Sqrt(gammaStar*gammaStar-1)
	nx, ny, nz := gen.Sphere()
	pB1Star := Vec{pStar * nx, pStar * ny, pStar * nz}

	// The intermediate's lab velocity; if it is numerically zero the rest
	// frame already coincides with the lab frame and boost is a no-op.
	pIntSq := pInt[0]*pInt[0] + pInt[1]*pInt[1] + pInt[2]*pInt[2]
	gammaInt := math.Sqrt(1 + pIntSq/(ts.MInt*ts.MInt*phys.CSq))
	mg := ts.MInt * gammaInt
	vInt := Vec{pInt[0] / mg, pInt[1] / mg, pInt[2] / mg}

	pB1 := boost(pB1Star, gammaStar*ts.MB*phys.CSq, vInt, gammaInt)
	// The second decay product carries whatever momentum is left.
	pB2 := Vec{pInt[0] - pB1[0], pInt[1] - pB1[1], pInt[2] - pB1[2]}

	uB1 = Vec{pB1[0] / ts.MB, pB1[1] / ts.MB, pB1[2] / ts.MB}
	uB2 = Vec{pB2[0] / ts.MB, pB2[1] / ts.MB, pB2[2] / ts.MB}
	return uA, uB1, uB2
}
