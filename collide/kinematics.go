package collide

import (
	"math"

	"github.com/phil-mansfield/gopic/phys"
	"github.com/phil-mansfield/gopic/rand"
)

// Vec is a lab-frame momentum or velocity triple.
type Vec [3]float64

// boost transforms a momentum p with energy e from a frame moving at
// velocity v (with Lorentz factor gamma) into the lab frame, using the
// vector form of the Lorentz transformation (Perez et al.,
// Phys. Plasmas 19, 083104 (2012), eq. 13). When v is numerically zero the
// two frames coincide and p is returned untouched.
func boost(p Vec, e float64, v Vec, gamma float64) Vec {
	vSq := v[0]*v[0] + v[1]*v[1] + v[2]*v[2]
	if vSq <= math.SmallestNonzeroFloat64 {
		return p
	}
	vDotP := v[0]*p[0] + v[1]*p[1] + v[2]*p[2]
	factor := (gamma-1)/vSq*vDotP + gamma*e/phys.CSq
	return Vec{
		p[0] + v[0]*factor,
		p[1] + v[1]*factor,
		p[2] + v[2]*factor,
	}
}

// ProductMomenta computes lab-frame normalized momenta u = gamma*v for the
// two products of a binary reaction, assuming isotropic emission in the
// reactants' center-of-mass frame. mA and mB are the product masses and
// eRelease the kinetic energy released by the reaction (zero for elastic
// scattering). By construction the products' total momentum equals the
// reactants' and their total energy equals the reactants' plus eRelease plus
// the rest-mass difference.
func ProductMomenta(
	r *Reactants, mA, mB, eRelease float64, gen *rand.Generator,
) (uA, uB Vec) {
	nx, ny, nz := gen.Sphere()
	return productMomentaDir(r, mA, mB, eRelease, Vec{nx, ny, nz})
}

// productMomentaDir is ProductMomenta with the center-of-mass emission
// direction of product A supplied by the caller.
func productMomentaDir(
	r *Reactants, mA, mB, eRelease float64, n Vec,
) (uA, uB Vec) {
	e1 := phys.Energy(r.Ux1, r.Uy1, r.Uz1, r.M1)
	e2 := phys.Energy(r.Ux2, r.Uy2, r.Uz2, r.M2)
	eLab := e1 + e2
	pLab := Vec{
		r.M1*r.Ux1 + r.M2*r.Ux2,
		r.M1*r.Uy1 + r.M2*r.Uy2,
		r.M1*r.Uz1 + r.M2*r.Uz2,
	}

	// Center-of-mass velocity and invariant total energy.
	vCM := Vec{
		pLab[0] * phys.CSq / eLab,
		pLab[1] * phys.CSq / eLab,
		pLab[2] * phys.CSq / eLab,
	}
	pLabSq := pLab[0]*pLab[0] + pLab[1]*pLab[1] + pLab[2]*pLab[2]
	eCM := math.Sqrt(eLab*eLab - pLabSq*phys.CSq)
	gammaCM := eLab / eCM

	// Total product energy in the center-of-mass frame: the reactants'
	// kinetic energy there, plus the released energy, on top of the product
	// rest masses.
	eTot := eCM - (r.M1+r.M2)*phys.CSq + eRelease + (mA+mB)*phys.CSq

	// Energy split from two-body energy-momentum conservation.
	mAcSq := mA * phys.CSq
	mBcSq := mB * phys.CSq
	eA := (eTot*eTot + mAcSq*mAcSq - mBcSq*mBcSq) / (2 * eTot)
	eB := eTot - eA
	pStarSq := (eA*eA - mAcSq*mAcSq) / phys.CSq
	if pStarSq < 0 {
		pStarSq = 0
	}
	pStar := math.Sqrt(pStarSq)

	pA := Vec{pStar * n[0], pStar * n[1], pStar * n[2]}
	pB := Vec{-pA[0], -pA[1], -pA[2]}

	pA = boost(pA, eA, vCM, gammaCM)
	pB = boost(pB, eB, vCM, gammaCM)

	return Vec{pA[0] / mA, pA[1] / mA, pA[2] / mA},
		Vec{pB[0] / mB, pB[1] / mB, pB[2] / mB}
}

// cmDirection returns the unit direction of reactant 1's momentum in the
// pair's center-of-mass frame, the reference axis for anisotropic channels
// like back scattering. For a pair at relative rest any fixed axis will do.
func cmDirection(r *Reactants) Vec {
	e1 := phys.Energy(r.Ux1, r.Uy1, r.Uz1, r.M1)
	e2 := phys.Energy(r.Ux2, r.Uy2, r.Uz2, r.M2)
	eLab := e1 + e2
	p1 := Vec{r.M1 * r.Ux1, r.M1 * r.Uy1, r.M1 * r.Uz1}
	pLab := Vec{
		p1[0] + r.M2*r.Ux2,
		p1[1] + r.M2*r.Uy2,
		p1[2] + r.M2*r.Uz2,
	}
	pLabSq := pLab[0]*pLab[0] + pLab[1]*pLab[1] + pLab[2]*pLab[2]
	eCM := math.Sqrt(eLab*eLab - pLabSq*phys.CSq)
	gammaCM := eLab / eCM
	vCM := Vec{
		-pLab[0] * phys.CSq / eLab,
		-pLab[1] * phys.CSq / eLab,
		-pLab[2] * phys.CSq / eLab,
	}

	pStar := boost(p1, e1, vCM, gammaCM)
	norm := math.Sqrt(
		pStar[0]*pStar[0] + pStar[1]*pStar[1] + pStar[2]*pStar[2],
	)
	if norm == 0 {
		return Vec{1, 0, 0}
	}
	return Vec{pStar[0] / norm, pStar[1] / norm, pStar[2] / norm}
}
