package phys

import (
	"math"
)

// Gamma returns the Lorentz factor of a particle with normalized momentum
// u = gamma*v, in m/s.
func Gamma(ux, uy, uz float64) float64 {
	return math.Sqrt(1 + (ux*ux+uy*uy+uz*uz)/CSq)
}

// Energy returns the total relativistic energy of a particle with normalized
// momentum u = gamma*v and mass m.
func Energy(ux, uy, uz, m float64) float64 {
	return Gamma(ux, uy, uz) * m * CSq
}

// KineticEnergy returns the relativistic kinetic energy of a particle with
// normalized momentum u = gamma*v and mass m. The expression is the
// (gamma - 1)*(gamma + 1)/(gamma + 1) reduction, which avoids catastrophic
// cancellation at small u.
func KineticEnergy(ux, uy, uz, m float64) float64 {
	u2 := ux*ux + uy*uy + uz*uz
	gamma := math.Sqrt(1 + u2/CSq)
	return m * u2 / (1 + gamma)
}

// RelativeSpeed returns the Moller relative speed of two particles with
// normalized momenta u1 and u2. This is the speed that makes the product
// n*sigma*vrel the correct invariant collision rate.
func RelativeSpeed(
	u1x, u1y, u1z, u2x, u2y, u2z float64,
) float64 {
	g1 := Gamma(u1x, u1y, u1z)
	g2 := Gamma(u2x, u2y, u2z)
	v1x, v1y, v1z := u1x/g1, u1y/g1, u1z/g1
	v2x, v2y, v2z := u2x/g2, u2y/g2, u2z/g2

	dx, dy, dz := v1x-v2x, v1y-v2y, v1z-v2z
	cx := v1y*v2z - v1z*v2y
	cy := v1z*v2x - v1x*v2z
	cz := v1x*v2y - v1y*v2x

	num := dx*dx + dy*dy + dz*dz - (cx*cx+cy*cy+cz*cz)/CSq
	if num <= 0 {
		return 0
	}
	dot := v1x*v2x + v1y*v2y + v1z*v2z
	return math.Sqrt(num) / (1 - dot/CSq)
}
