/*package io reads gopic configuration files and assembles the simulation
objects they describe. Config files use gcfg (INI-style) syntax, one
[Species "name"] section per population and one [Collision "name"] section
per reaction channel set. All validation happens here: a config error is
fatal before any step runs.
*/
package io

import (
	"fmt"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/gopic/collide"
	"github.com/phil-mansfield/gopic/particle"
	"github.com/phil-mansfield/gopic/phys"
	"github.com/phil-mansfield/gopic/rand"
	"github.com/phil-mansfield/gopic/xsec"
)

const ExampleConfigFile = `[Setup]

# Geometry may be "cartesian" or "cylindrical". Cylindrical runs require
# every colliding species to carry a "theta" attribute.
Geometry = cartesian

# Generator selects the random generator backend: xorshift, tausworthe or
# golang. Runs with the same seed and worker count are reproducible.
Generator = xorshift
Seed = 42

# Number of simulation steps, the time step in seconds, the number of cells,
# and the volume of a single cell in m^3.
Steps = 100
Dt = 1e-12
Cells = 16
CellVolume = 1e-15

[Species "deuterium"]

# Mass in kg, or MassAMU in atomic mass units. Charge in units of e.
MassAMU = 2.0141
Charge = 1

# Initial loading: macro-particle count, weight (physical particles per
# macro-particle) and thermal momentum spread (gamma*v, in m/s).
Count = 10000
Weight = 1e10
UThermal = 1e6

# Optional runtime attributes with their default-initialization policies:
# "zero", "one", "const <v>" or "uniform <low> <high>".
# RealAttr = opticalDepth uniform 0 1
# IntAttr = tag zero

[Collision "dsmc"]

# Type is one of "dsmc", "fusion" or "protonboron".
Type = dsmc
Species = deuterium
Species = deuterium

# One Process line per sub-channel: a process name (elastic, back,
# charge_exchange) followed by a cross-section source, either a two-column
# file of (energy in eV, sigma in m^2) or "const <sigma>".
Process = elastic xsec/d_elastic.dat
Process = back const 1e-20

# Selection chooses among simultaneously eligible sub-channels: "combined"
# (one draw over the summed probability) or "independent" (one draw per
# channel, first fires wins). Default is combined.
Selection = combined

[Collision "fusion"]

Type = protonboron
Species = protons
Species = boron11
Product = alphas
CrossSection = xsec/pb11.dat

# Rare-reaction probability multiplier. Product weights are divided by the
# same factor, so the expected produced weight is unchanged.
Multiplier = 1e8`

type SetupConfig struct {
	Geometry   string
	Generator  string
	Seed       int64
	Steps      int
	Dt         float64
	Cells      int
	CellVolume float64
}

type SpeciesConfig struct {
	Mass     float64
	MassAMU  float64
	Charge   float64
	Count    int
	Weight   float64
	UThermal float64
	RealAttr []string
	IntAttr  []string
}

type CollisionConfig struct {
	Type         string
	Species      []string
	Product      string
	Process      []string
	Selection    string
	CrossSection string
	Multiplier   float64
	ProductMass  []float64
	ReleaseMeV   float64
}

type ConfigFile struct {
	Setup     SetupConfig
	Species   map[string]*SpeciesConfig
	Collision map[string]*CollisionConfig
}

// ReadConfig parses a config file without validating it.
func ReadConfig(file string) (*ConfigFile, error) {
	cfg := &ConfigFile{}
	if err := gcfg.ReadFileInto(cfg, file); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Geometry converts the Setup geometry name.
func (cfg *ConfigFile) Geometry() (collide.Geometry, error) {
	switch cfg.Setup.Geometry {
	case "", "cartesian":
		return collide.Cartesian, nil
	case "cylindrical":
		return collide.Cylindrical, nil
	}
	return 0, fmt.Errorf("Unrecognized geometry '%s'.", cfg.Setup.Geometry)
}

// GeneratorType converts the Setup generator name.
func (cfg *ConfigFile) GeneratorType() (rand.GeneratorType, error) {
	switch cfg.Setup.Generator {
	case "", "xorshift":
		return rand.Xorshift, nil
	case "tausworthe":
		return rand.Tausworthe, nil
	case "golang":
		return rand.Golang, nil
	}
	return 0, fmt.Errorf(
		"Unrecognized generator '%s'.", cfg.Setup.Generator,
	)
}

// BuildSpecies creates the particle registry described by the config. The
// populations come back empty: loading particles is the caller's job.
func (cfg *ConfigFile) BuildSpecies() (*particle.Registry, error) {
	reg := particle.NewRegistry()
	for name, sc := range cfg.Species {
		mass := sc.Mass
		if mass == 0 {
			mass = sc.MassAMU * phys.MU
		}
		if mass <= 0 {
			return nil, fmt.Errorf(
				"Species '%s' needs a positive Mass or MassAMU.", name,
			)
		}
		p := particle.NewPopulation(name, mass, sc.Charge*phys.QE)
		for _, line := range sc.RealAttr {
			if err := addAttr(p, line, false); err != nil {
				return nil, fmt.Errorf("Species '%s': %s", name, err.Error())
			}
		}
		for _, line := range sc.IntAttr {
			if err := addAttr(p, line, true); err != nil {
				return nil, fmt.Errorf("Species '%s': %s", name, err.Error())
			}
		}
		if err := reg.Add(p); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func addAttr(p *particle.Population, line string, isInt bool) error {
	words := strings.Fields(line)
	if len(words) < 2 {
		return fmt.Errorf(
			"Attribute line '%s' needs a name and a policy.", line,
		)
	}
	pol, err := particle.ParsePolicy(words[1:])
	if err != nil {
		return err
	}
	if isInt {
		return p.AddInt(words[0], pol)
	}
	return p.AddReal(words[0], pol)
}

// BuildColliders assembles the configured colliders against an existing
// registry.
func (cfg *ConfigFile) BuildColliders(
	reg *particle.Registry,
) ([]*collide.Collider, error) {
	geom, err := cfg.Geometry()
	if err != nil {
		return nil, err
	}

	colliders := []*collide.Collider{}
	for name, cc := range cfg.Collision {
		c, err := buildCollider(name, cc, reg, geom)
		if err != nil {
			return nil, err
		}
		colliders = append(colliders, c)
	}
	return colliders, nil
}

func buildCollider(
	name string, cc *CollisionConfig,
	reg *particle.Registry, geom collide.Geometry,
) (*collide.Collider, error) {
	if len(cc.Species) != 2 {
		return nil, fmt.Errorf(
			"Collision '%s' needs exactly two Species lines, got %d.",
			name, len(cc.Species),
		)
	}
	pop1, err := reg.Get(cc.Species[0])
	if err != nil {
		return nil, fmt.Errorf("Collision '%s': %s", name, err.Error())
	}
	pop2, err := reg.Get(cc.Species[1])
	if err != nil {
		return nil, fmt.Errorf("Collision '%s': %s", name, err.Error())
	}

	var filter collide.Filter
	var prod *collide.ProductSpec

	switch cc.Type {
	case "dsmc":
		sel, err := collide.ParseSelection(cc.Selection)
		if err != nil {
			return nil, fmt.Errorf("Collision '%s': %s", name, err.Error())
		}
		if len(cc.Process) == 0 {
			return nil, fmt.Errorf(
				"Collision '%s' has no Process lines.", name,
			)
		}
		procs := make([]collide.Process, len(cc.Process))
		for i, line := range cc.Process {
			procs[i], err = parseProcess(line)
			if err != nil {
				return nil, fmt.Errorf(
					"Collision '%s': %s", name, err.Error(),
				)
			}
		}
		filter = &collide.DSMCFilter{Processes: procs, Select: sel}

	case "fusion", "protonboron":
		sigma, err := readSigma(cc.CrossSection)
		if err != nil {
			return nil, fmt.Errorf("Collision '%s': %s", name, err.Error())
		}
		mult := cc.Multiplier
		if mult == 0 {
			mult = 1
		}
		filter = &collide.FusionFilter{Sigma: sigma, Multiplier: mult}

		prodPop, err := reg.Get(cc.Product)
		if err != nil {
			return nil, fmt.Errorf("Collision '%s': %s", name, err.Error())
		}
		if cc.Type == "protonboron" {
			prod = &collide.ProductSpec{
				Pop: prodPop, TwoStep: collide.ProtonBoron(),
			}
		} else {
			if len(cc.ProductMass) != 2 {
				return nil, fmt.Errorf(
					"Collision '%s' needs two ProductMass lines (kg).", name,
				)
			}
			prod = &collide.ProductSpec{
				Pop:      prodPop,
				MA:       cc.ProductMass[0],
				MB:       cc.ProductMass[1],
				ERelease: cc.ReleaseMeV * phys.MeV,
			}
		}

	default:
		return nil, fmt.Errorf(
			"Collision '%s' has unrecognized Type '%s'.", name, cc.Type,
		)
	}

	return collide.NewCollider(name, pop1, pop2, filter, geom, prod)
}

// parseProcess parses one "Process = <name> <source>" line, where source is
// a cross-section file or "const <sigma>".
func parseProcess(line string) (collide.Process, error) {
	words := strings.Fields(line)
	if len(words) < 2 {
		return collide.Process{}, fmt.Errorf(
			"Process line '%s' needs a name and a cross-section source.",
			line,
		)
	}
	pt, err := collide.ParseProcessType(words[0])
	if err != nil {
		return collide.Process{}, err
	}
	sigma, err := readSigma(strings.Join(words[1:], " "))
	if err != nil {
		return collide.Process{}, err
	}
	return collide.Process{Type: pt, Sigma: sigma}, nil
}

func readSigma(source string) (*xsec.Table, error) {
	words := strings.Fields(source)
	if len(words) == 0 {
		return nil, fmt.Errorf("Missing cross-section source.")
	}
	if words[0] == "const" {
		if len(words) != 2 {
			return nil, fmt.Errorf(
				"'const' cross section needs one value, got '%s'.", source,
			)
		}
		var sigma float64
		if _, err := fmt.Sscan(words[1], &sigma); err != nil {
			return nil, err
		}
		return xsec.Constant(sigma), nil
	}
	return xsec.Read(words[0])
}
