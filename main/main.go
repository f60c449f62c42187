package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	"github.com/phil-mansfield/gopic/collide"
	"github.com/phil-mansfield/gopic/io"
	"github.com/phil-mansfield/gopic/particle"
	"github.com/phil-mansfield/gopic/rand"
)

func main() {
	var (
		config        string
		exampleConfig bool
	)
	flag.StringVar(&config, "Config", "", "Path to a gopic config file.")
	flag.BoolVar(&exampleConfig, "ExampleConfig", false,
		"Print an example config file and exit.")
	flag.Parse()

	if exampleConfig {
		fmt.Println(io.ExampleConfigFile)
		return
	}
	if config == "" {
		log.Fatalf("No config file given. Use -Config or -ExampleConfig.")
	}

	cfg, err := io.ReadConfig(config)
	if err != nil {
		log.Fatalf(err.Error())
	}
	reg, err := cfg.BuildSpecies()
	if err != nil {
		log.Fatalf(err.Error())
	}
	colliders, err := cfg.BuildColliders(reg)
	if err != nil {
		log.Fatalf(err.Error())
	}
	gt, err := cfg.GeneratorType()
	if err != nil {
		log.Fatalf(err.Error())
	}

	setup := &cfg.Setup
	if setup.Cells <= 0 || setup.Steps <= 0 {
		log.Fatalf("Setup needs positive Cells and Steps.")
	}
	if setup.Dt <= 0 || setup.CellVolume <= 0 {
		log.Fatalf("Setup needs positive Dt and CellVolume.")
	}

	workers := runtime.NumCPU()
	runtime.GOMAXPROCS(workers)
	gens := rand.Split(gt, uint64(setup.Seed), workers+1)
	loadGen := gens[workers]
	gens = gens[:workers]

	for name, sc := range cfg.Species {
		pop, err := reg.Get(name)
		if err != nil {
			log.Fatalf(err.Error())
		}
		loadSpecies(pop, sc, setup.Cells, loadGen)
		log.Printf("Loaded %7d particles of species %s", pop.Len(), name)
	}

	ms := runtime.MemStats{}
	for step := 0; step < setup.Steps; step++ {
		for _, c := range colliders {
			b1 := bin(c.Pop1, setup.Cells)
			b2 := b1
			if !c.SameSpecies {
				b2 = bin(c.Pop2, setup.Cells)
			}
			ctx := contexts(b1, b2, c, setup.CellVolume)

			counts, created, err := c.Step(
				b1, b2, ctx, setup.Dt, setup.CellVolume, gens,
			)
			if err != nil {
				log.Fatalf(err.Error())
			}
			log.Printf(
				"step %4d %-12s pairs: %8d events: %6d created: %6d",
				step, c.Name, counts.TotalPairs, counts.TotalEvents, created,
			)
		}
	}

	runtime.ReadMemStats(&ms)
	log.Printf(
		"Alloc: %5d MB, Sys: %5d MB", ms.Alloc>>20, ms.Sys>>20,
	)
}

// loadSpecies fills a population with its initial particles: positions
// uniform over the cell row, momenta uniform within the configured thermal
// spread, weight and remaining attributes from the population's policies.
func loadSpecies(
	pop *particle.Population, sc *io.SpeciesConfig,
	cells int, gen *rand.Generator,
) {
	start, end := pop.Append(sc.Count)
	create := particle.NewCreate(pop)
	for i := start; i < end; i++ {
		x := gen.Uniform(0, float64(cells))
		y := gen.Uniform(0, 1)
		z := gen.Uniform(0, 1)
		create.Init(i, x, y, z, pop.NewID(), 0, gen)

		pop.W[i] = sc.Weight
		pop.Ux[i] = gen.Uniform(-sc.UThermal, sc.UThermal)
		pop.Uy[i] = gen.Uniform(-sc.UThermal, sc.UThermal)
		pop.Uz[i] = gen.Uniform(-sc.UThermal, sc.UThermal)
	}
}

// bin sorts a population's live particle indices into cells along x. This
// stands in for the simulation's spatial binner, which in a full PIC loop
// runs once per step for all particle operations, not just collisions.
func bin(pop *particle.Population, cells int) *collide.Binning {
	counts := make([]int, cells)
	cellOf := make([]int, pop.Len())
	n := 0
	for i := 0; i < pop.Len(); i++ {
		if !pop.Live(i) {
			cellOf[i] = -1
			continue
		}
		c := int(pop.X[i])
		if c < 0 {
			c = 0
		}
		if c >= cells {
			c = cells - 1
		}
		cellOf[i] = c
		counts[c]++
		n++
	}

	b := &collide.Binning{
		Idx:   make([]int, n),
		Start: make([]int, cells+1),
	}
	for c := 0; c < cells; c++ {
		b.Start[c+1] = b.Start[c] + counts[c]
	}
	next := append([]int{}, b.Start[:cells]...)
	for i := 0; i < pop.Len(); i++ {
		if cellOf[i] < 0 {
			continue
		}
		b.Idx[next[cellOf[i]]] = i
		next[cellOf[i]]++
	}
	return b
}

// contexts estimates each cell's local plasma state from the binned weights.
func contexts(
	b1, b2 *collide.Binning, c *collide.Collider, dV float64,
) []collide.Context {
	ctx := make([]collide.Context, b1.Cells())
	for i := range ctx {
		n1 := 0.0
		for _, j := range b1.Cell(i) {
			n1 += c.Pop1.W[j]
		}
		n2 := 0.0
		for _, j := range b2.Cell(i) {
			n2 += c.Pop2.W[j]
		}
		ctx[i] = collide.Context{N1: n1 / dV, N2: n2 / dV}
	}
	return ctx
}
