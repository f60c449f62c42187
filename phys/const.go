/*package phys holds physical constants and the small relativistic algorithms
shared by the collision engine. All quantities are SI.
*/
package phys

const (
	// C is the speed of light in m/s.
	C   = 299792458.0
	CSq = C * C

	// QE is the elementary charge in C.
	QE = 1.602176634e-19
	// EV is one electron volt in J.
	EV  = QE
	MeV = 1e6 * EV

	// MElectron, MProton and MU are the electron mass, proton mass and
	// atomic mass unit in kg.
	MElectron = 9.1093837015e-31
	MProton   = 1.67262192369e-27
	MU        = 1.66053906660e-27

	// KB is the Boltzmann constant in J/K.
	KB = 1.380649e-23
)
