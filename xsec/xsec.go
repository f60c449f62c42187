/*package xsec reads and evaluates tabulated collision cross sections. Tables
are plain-text files with an energy column and a cross-section column,
linearly interpolated at lookup time. Below the lowest tabulated energy the
cross section is zero (sub-threshold), above the highest it is clamped to the
last tabulated value.
*/
package xsec

import (
	"fmt"
	"sort"

	"github.com/phil-mansfield/gopic/phys"
	"github.com/phil-mansfield/table"
)

// Table is a tabulated cross section, sigma(E), with E in J and sigma in m^2.
type Table struct {
	energies, sigmas []float64
}

// New creates a Table from strictly increasing energies, in J, and the
// corresponding cross sections, in m^2.
func New(energies, sigmas []float64) (*Table, error) {
	if len(energies) != len(sigmas) {
		return nil, fmt.Errorf(
			"Cross-section table has %d energies, but %d values.",
			len(energies), len(sigmas),
		)
	}
	if len(energies) < 2 {
		return nil, fmt.Errorf(
			"Cross-section table needs at least two points, got %d.",
			len(energies),
		)
	}
	for i := 1; i < len(energies); i++ {
		if energies[i] <= energies[i-1] {
			return nil, fmt.Errorf(
				"Cross-section table energies are not strictly increasing "+
					"at row %d.", i,
			)
		}
	}
	return &Table{energies, sigmas}, nil
}

// Constant creates a Table which evaluates to sigma at every energy.
func Constant(sigma float64) *Table {
	return &Table{[]float64{0, 1}, []float64{sigma, sigma}}
}

// Read parses a two-column text file with energies in eV and cross sections
// in m^2, the standard layout of published cross-section sets.
func Read(file string) (*Table, error) {
	cols, err := table.ReadTable(file, []int{0, 1}, nil)
	if err != nil {
		return nil, err
	}
	energies, sigmas := cols[0], cols[1]
	for i := range energies {
		energies[i] *= phys.EV
	}
	return New(energies, sigmas)
}

// Eval returns the cross section at energy e, in J.
func (t *Table) Eval(e float64) float64 {
	es := t.energies
	if e < es[0] {
		return 0
	}
	if e >= es[len(es)-1] {
		return t.sigmas[len(es)-1]
	}

	i2 := sort.SearchFloat64s(es, e)
	if es[i2] == e {
		return t.sigmas[i2]
	}
	i1 := i2 - 1
	x1, x2 := es[i1], es[i2]
	v1, v2 := t.sigmas[i1], t.sigmas[i2]
	return ((v2-v1)/(x2-x1))*(e-x1) + v1
}

// Max returns the largest tabulated cross section. The engine uses it for
// probability sanity checks at setup.
func (t *Table) Max() float64 {
	max := t.sigmas[0]
	for _, s := range t.sigmas[1:] {
		if s > max {
			max = s
		}
	}
	return max
}
