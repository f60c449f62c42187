/*package particle implements macro-particle storage. A population stores its
particles as parallel arenas, one contiguous slice per attribute, so a
particle is nothing more than a slot index. Each population carries the fixed
components every species has (position, normalized momentum, weight) plus a
schema of named runtime attributes fixed when the population is defined.
*/
package particle

import (
	"fmt"
)

// The fixed real components of every population, in storage order. Runtime
// real attributes are indexed starting at FixedComps.
const (
	CompX = iota
	CompY
	CompZ
	CompUx
	CompUy
	CompUz
	CompW
	FixedComps
)

var fixedNames = [FixedComps]string{"x", "y", "z", "ux", "uy", "uz", "w"}

// Population is the storage for all macro-particles of one species.
type Population struct {
	Name         string
	Mass, Charge float64

	// Fixed real components. Weight is > 0 for every live particle.
	X, Y, Z    []float64
	Ux, Uy, Uz []float64
	W          []float64

	// Identity: unique ID and owning partition. A dead particle has its ID
	// negated in place.
	ID  []int64
	Cpu []int32

	runtimeReal [][]float64
	runtimeInt  [][]int64

	// Schema tables, immutable once particles exist. realNames covers the
	// fixed components followed by the runtime real attributes.
	realNames  []string
	intNames   []string
	realPolicy []Policy
	intPolicy  []Policy

	nextID int64
	frozen bool
}

// NewPopulation creates an empty population with only the fixed components.
// Weight defaults to zero so that uninitialized slots are never mistaken for
// live particles.
func NewPopulation(name string, mass, charge float64) *Population {
	p := &Population{Name: name, Mass: mass, Charge: charge, nextID: 1}
	p.realNames = append([]string{}, fixedNames[:]...)
	p.realPolicy = make([]Policy, FixedComps)
	return p
}

// AddReal adds a named runtime real attribute with the given default policy.
// The schema is frozen by the first Append.
func (p *Population) AddReal(name string, pol Policy) error {
	if err := p.checkAdd(name); err != nil {
		return err
	}
	p.realNames = append(p.realNames, name)
	p.realPolicy = append(p.realPolicy, pol)
	p.runtimeReal = append(p.runtimeReal, nil)
	return nil
}

// AddInt adds a named runtime integer attribute with the given default
// policy. Uniform policies are real-valued only.
func (p *Population) AddInt(name string, pol Policy) error {
	if err := p.checkAdd(name); err != nil {
		return err
	}
	if pol.Kind == Uniform {
		return fmt.Errorf(
			"Attribute '%s.%s': integer attributes cannot use the "+
				"'uniform' policy.", p.Name, name,
		)
	}
	p.intNames = append(p.intNames, name)
	p.intPolicy = append(p.intPolicy, pol)
	p.runtimeInt = append(p.runtimeInt, nil)
	return nil
}

func (p *Population) checkAdd(name string) error {
	if p.frozen {
		return fmt.Errorf(
			"Population '%s' already has particles: its schema is frozen.",
			p.Name,
		)
	}
	for _, n := range p.realNames {
		if n == name {
			return fmt.Errorf(
				"Population '%s' already has an attribute '%s'.",
				p.Name, name,
			)
		}
	}
	for _, n := range p.intNames {
		if n == name {
			return fmt.Errorf(
				"Population '%s' already has an attribute '%s'.",
				p.Name, name,
			)
		}
	}
	return nil
}

func (p *Population) Len() int { return len(p.W) }

// RealComps returns the number of real components, fixed plus runtime.
func (p *Population) RealComps() int { return len(p.realNames) }

// IntComps returns the number of runtime integer components.
func (p *Population) IntComps() int { return len(p.intNames) }

// RealComp returns the component index of a named real attribute.
func (p *Population) RealComp(name string) (comp int, ok bool) {
	for i, n := range p.realNames {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

// IntComp returns the component index of a named integer attribute.
func (p *Population) IntComp(name string) (comp int, ok bool) {
	for i, n := range p.intNames {
		if n == name {
			return i, true
		}
	}
	return -1, false
}

// RealData returns the arena backing one real component. The slice is only
// valid until the next Append.
func (p *Population) RealData(comp int) []float64 {
	switch comp {
	case CompX:
		return p.X
	case CompY:
		return p.Y
	case CompZ:
		return p.Z
	case CompUx:
		return p.Ux
	case CompUy:
		return p.Uy
	case CompUz:
		return p.Uz
	case CompW:
		return p.W
	}
	return p.runtimeReal[comp-FixedComps]
}

// IntData returns the arena backing one runtime integer component.
func (p *Population) IntData(comp int) []int64 { return p.runtimeInt[comp] }

// RealPolicy returns the default-initialization policy of one real component.
func (p *Population) RealPolicy(comp int) Policy { return p.realPolicy[comp] }

// IntPolicy returns the default-initialization policy of one integer
// component.
func (p *Population) IntPolicy(comp int) Policy { return p.intPolicy[comp] }

// Append grows every arena by n slots and returns the index range of the new
// slots. The slots are uninitialized: weight zero, ID zero. This is the only
// point where particle storage grows.
func (p *Population) Append(n int) (start, end int) {
	p.frozen = true
	start = p.Len()
	end = start + n

	p.X = append(p.X, make([]float64, n)...)
	p.Y = append(p.Y, make([]float64, n)...)
	p.Z = append(p.Z, make([]float64, n)...)
	p.Ux = append(p.Ux, make([]float64, n)...)
	p.Uy = append(p.Uy, make([]float64, n)...)
	p.Uz = append(p.Uz, make([]float64, n)...)
	p.W = append(p.W, make([]float64, n)...)
	p.ID = append(p.ID, make([]int64, n)...)
	p.Cpu = append(p.Cpu, make([]int32, n)...)
	for i := range p.runtimeReal {
		p.runtimeReal[i] = append(p.runtimeReal[i], make([]float64, n)...)
	}
	for i := range p.runtimeInt {
		p.runtimeInt[i] = append(p.runtimeInt[i], make([]int64, n)...)
	}
	return start, end
}

// NewID reserves and returns the next unique particle ID.
func (p *Population) NewID() int64 {
	id := p.nextID
	p.nextID++
	return id
}

// Kill marks the particle in slot i dead: weight zero, ID negated.
func (p *Population) Kill(i int) {
	p.W[i] = 0
	if p.ID[i] > 0 {
		p.ID[i] = -p.ID[i]
	}
}

// Live reports whether slot i holds a live particle.
func (p *Population) Live(i int) bool { return p.ID[i] > 0 && p.W[i] > 0 }

// Registry maps species names to their populations.
type Registry struct {
	pops  map[string]*Population
	Names []string
}

func NewRegistry() *Registry {
	return &Registry{pops: map[string]*Population{}}
}

// Add inserts a population into the registry. Duplicate names are a setup
// error.
func (reg *Registry) Add(p *Population) error {
	if _, ok := reg.pops[p.Name]; ok {
		return fmt.Errorf("Species '%s' is defined twice.", p.Name)
	}
	reg.pops[p.Name] = p
	reg.Names = append(reg.Names, p.Name)
	return nil
}

// Get looks a population up by species name.
func (reg *Registry) Get(name string) (*Population, error) {
	p, ok := reg.pops[name]
	if !ok {
		return nil, fmt.Errorf("Unknown species '%s'.", name)
	}
	return p, nil
}
