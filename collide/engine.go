package collide

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/gopic/particle"
	"github.com/phil-mansfield/gopic/rand"
)

type Geometry int

const (
	Cartesian Geometry = iota
	// Cylindrical cells are azimuthal rings: before a pair interacts, the
	// first particle's planar momentum is rotated into the second's plane,
	// and product momenta are rotated back afterwards.
	Cylindrical
)

// Binning is one population's decomposition into cells: Idx lists the live
// particle slots sorted by cell id, and Start[i]:Start[i+1] bounds cell i's
// range. The external binner guarantees the bounds are monotonic and cover
// every live slot exactly once.
type Binning struct {
	Idx   []int
	Start []int
}

func (b *Binning) Cells() int       { return len(b.Start) - 1 }
func (b *Binning) Cell(i int) []int { return b.Idx[b.Start[i]:b.Start[i+1]] }

// ProductSpec describes the particles an accepted reactive pair creates.
// With TwoStep set, each event creates six product particles, three at each
// reactant's position, in the manner of a sequential-decay fusion reaction.
// Otherwise each event creates two products of masses MA and MB, one at each
// reactant's position, sharing ERelease of kinetic energy.
type ProductSpec struct {
	Pop      *particle.Population
	TwoStep  *TwoStep
	MA, MB   float64
	ERelease float64
}

// PerEvent returns the number of product slots one accepted pair consumes.
func (ps *ProductSpec) PerEvent() int {
	if ps.TwoStep != nil {
		return 6
	}
	return 2
}

// Counts reports what one decision pass produced, per cell and in total.
type Counts struct {
	Pairs, Events           []int
	TotalPairs, TotalEvents int
}

// Collider runs binary collisions for one (population, population, reaction
// family) triple. Its Execute method is the decision phase plus the sizing
// barrier; CreateProducts is the creation phase. Neither allocates inside
// the parallel region: all outcome buffers are sized up front.
type Collider struct {
	Name        string
	Pop1, Pop2  *particle.Population
	SameSpecies bool
	Filter      Filter
	Geom        Geometry
	Product     *ProductSpec
	// Rank is the owning-partition id stamped on created particles.
	Rank int32

	copy1, copy2 particle.Copy
	theta1Comp   int
	theta2Comp   int

	out          Outcome
	counts       Counts
	cellStart    []int
	offsets      []int
	totalEvents  int
	productStart int
	dt, dV       float64
	executed     bool
}

// NewCollider validates and assembles a collider. All configuration errors
// surface here, before any step runs.
func NewCollider(
	name string, pop1, pop2 *particle.Population,
	filter Filter, geom Geometry, prod *ProductSpec,
) (*Collider, error) {
	if filter == nil {
		return nil, fmt.Errorf("Collision '%s' has no reaction filter.", name)
	}
	c := &Collider{
		Name: name, Pop1: pop1, Pop2: pop2,
		SameSpecies: pop1 == pop2,
		Filter:      filter, Geom: geom, Product: prod,
	}

	if geom == Cylindrical {
		var ok bool
		if c.theta1Comp, ok = pop1.RealComp("theta"); !ok {
			return nil, fmt.Errorf(
				"Collision '%s': species '%s' has no 'theta' attribute, "+
					"required in cylindrical geometry.", name, pop1.Name,
			)
		}
		if c.theta2Comp, ok = pop2.RealComp("theta"); !ok {
			return nil, fmt.Errorf(
				"Collision '%s': species '%s' has no 'theta' attribute, "+
					"required in cylindrical geometry.", name, pop2.Name,
			)
		}
	}

	if prod != nil {
		if prod.Pop == nil {
			return nil, fmt.Errorf(
				"Collision '%s' has a product spec with no product species.",
				name,
			)
		}
		if prod.TwoStep == nil && (prod.MA <= 0 || prod.MB <= 0) {
			return nil, fmt.Errorf(
				"Collision '%s': two-body product masses must be positive.",
				name,
			)
		}
		c.copy1 = particle.NewCopy(pop1, prod.Pop)
		c.copy2 = particle.NewCopy(pop2, prod.Pop)
	}
	return c, nil
}

// Execute is the decision phase plus the sizing barrier. It shuffles each
// cell, generates the stride pairs, runs the reaction filter over them in
// parallel across cells, and then sequentially counts the accepted pairs and
// grows product storage exactly once. ctx supplies each cell's local plasma
// state and gens one independent generator per worker.
//
// When the collider pairs a population with itself, b1 and b2 must be the
// same binning; each cell is split in disjoint halves after shuffling so no
// particle is paired with itself.
func (c *Collider) Execute(
	b1, b2 *Binning, ctx []Context, dt, dV float64, gens []*rand.Generator,
) (*Counts, error) {
	nCells := b1.Cells()
	if b2.Cells() != nCells {
		return nil, fmt.Errorf(
			"Collision '%s': binnings have %d and %d cells.",
			c.Name, nCells, b2.Cells(),
		)
	}
	if len(ctx) != nCells {
		return nil, fmt.Errorf(
			"Collision '%s': %d cells but %d cell contexts.",
			c.Name, nCells, len(ctx),
		)
	}
	if len(gens) == 0 {
		return nil, fmt.Errorf("Collision '%s': no generators.", c.Name)
	}
	c.dt, c.dV = dt, dV

	// Reserve the outcome slots: every cell's pair region starts at the
	// running total of the worst-case pair counts.
	if cap(c.cellStart) < nCells+1 {
		c.cellStart = make([]int, nCells+1)
		c.counts.Pairs = make([]int, nCells)
		c.counts.Events = make([]int, nCells)
	}
	c.cellStart = c.cellStart[:nCells+1]
	c.counts.Pairs = c.counts.Pairs[:nCells]
	c.counts.Events = c.counts.Events[:nCells]

	total := 0
	for i := 0; i < nCells; i++ {
		c.cellStart[i] = total
		n1, n2 := len(b1.Cell(i)), len(b2.Cell(i))
		if c.SameSpecies {
			n := n1
			n1, n2 = (n+1)/2, n/2
		}
		np := PairCount(n1, n2)
		c.counts.Pairs[i] = np
		total += np
	}
	c.cellStart[nCells] = total
	c.counts.TotalPairs = total
	c.out.resize(total)

	workers := len(gens)
	if workers > nCells {
		workers = nCells
	}
	if workers > 0 {
		done := make(chan int, workers)
		for id := 0; id < workers-1; id++ {
			go c.executeCells(id, workers, b1, b2, ctx, gens[id], done)
		}
		c.executeCells(workers-1, workers, b1, b2, ctx, gens[workers-1], done)
		for i := 0; i < workers; i++ {
			<-done
		}
	}

	// The barrier: a prefix sum over the mask fixes each accepted pair's
	// product slots, and storage grows in a single Append.
	c.offsets, c.totalEvents = c.out.accepted(c.offsets)
	c.counts.TotalEvents = c.totalEvents
	for i := 0; i < nCells; i++ {
		events := 0
		for slot := c.cellStart[i]; slot < c.cellStart[i+1]; slot++ {
			if c.out.Mask[slot] != 0 {
				events++
			}
		}
		c.counts.Events[i] = events
	}

	if c.Product != nil && c.totalEvents > 0 {
		c.productStart, _ = c.Product.Pop.Append(
			c.totalEvents * c.Product.PerEvent(),
		)
	}
	c.executed = true
	return &c.counts, nil
}

// executeCells is one worker of the decision phase. Worker id handles cells
// id, id+workers, id+2*workers, ... so that cells are spread evenly and each
// cell's particles are touched by exactly one worker.
func (c *Collider) executeCells(
	id, workers int, b1, b2 *Binning, ctx []Context,
	gen *rand.Generator, done chan<- int,
) {
	w1, w2 := c.Pop1.W, c.Pop2.W
	u1x, u1y, u1z := c.Pop1.Ux, c.Pop1.Uy, c.Pop1.Uz
	u2x, u2y, u2z := c.Pop2.Ux, c.Pop2.Uy, c.Pop2.Uz
	var th1, th2 []float64
	if c.Geom == Cylindrical {
		th1 = c.Pop1.RealData(c.theta1Comp)
		th2 = c.Pop2.RealData(c.theta2Comp)
	}

	r := &Reactants{M1: c.Pop1.Mass, M2: c.Pop2.Mass}

	for cell := id; cell < b1.Cells(); cell += workers {
		var idx1, idx2 []int
		if c.SameSpecies {
			whole := b1.Cell(cell)
			Shuffle(whole, gen)
			h := (len(whole) + 1) / 2
			idx1, idx2 = whole[:h], whole[h:]
		} else {
			idx1, idx2 = b1.Cell(cell), b2.Cell(cell)
			Shuffle(idx1, gen)
			Shuffle(idx2, gen)
		}

		maxN := PairCount(len(idx1), len(idx2))
		minN := len(idx1)
		if len(idx2) < minN {
			minN = len(idx2)
		}
		cellCtx := &ctx[cell]
		cellStartPair := c.cellStart[cell]

		for collIdx := 0; collIdx < minN; collIdx++ {
			EachPair(
				idx1, idx2, w1, w2, collIdx, cellStartPair,
				func(p *Pair) {
					r.Ux1, r.Uy1, r.Uz1 = u1x[p.I1], u1y[p.I1], u1z[p.I1]
					r.Ux2, r.Uy2, r.Uz2 = u2x[p.I2], u2y[p.I2], u2z[p.I2]
					r.W1, r.W2 = p.W1, p.W2

					if c.Geom == Cylindrical {
						// Rotate particle 1's planar momentum into particle
						// 2's plane. Only the local copy is touched, so the
						// round trip leaves the particle itself unchanged.
						theta := th2[p.I2] - th1[p.I1]
						sin, cos := math.Sin(theta), math.Cos(theta)
						r.Ux1, r.Uy1 = rotate(r.Ux1, r.Uy1, cos, sin)
					}

					c.out.I1[p.Slot], c.out.I2[p.Slot] = p.I1, p.I2
					c.Filter.Pair(
						r, cellCtx, c.dt, c.dV, maxN, p.Slot, &c.out, gen,
					)
				},
			)
		}
	}
	done <- id
}

func rotate(x, y, cos, sin float64) (float64, float64) {
	return x*cos - y*sin, x*sin + y*cos
}

// CreateProducts is the creation phase: for accepted pairs only, it computes
// product momenta, initializes the pre-grown product slots through the
// population's copy tables, and depletes the reactants' weights. It returns
// the number of particles created. Execute must run first.
func (c *Collider) CreateProducts(gen *rand.Generator) (int, error) {
	if !c.executed {
		return 0, fmt.Errorf(
			"Collision '%s': CreateProducts called before Execute.", c.Name,
		)
	}
	c.executed = false

	var th1, th2 []float64
	if c.Geom == Cylindrical {
		th1 = c.Pop1.RealData(c.theta1Comp)
		th2 = c.Pop2.RealData(c.theta2Comp)
	}

	r := &Reactants{M1: c.Pop1.Mass, M2: c.Pop2.Mass}
	created := 0

	for slot, mask := range c.out.Mask {
		if mask == 0 {
			continue
		}
		i1, i2 := c.out.I1[slot], c.out.I2[slot]
		w := c.out.Weight[slot]

		r.Ux1, r.Uy1, r.Uz1 = c.Pop1.Ux[i1], c.Pop1.Uy[i1], c.Pop1.Uz[i1]
		r.Ux2, r.Uy2, r.Uz2 = c.Pop2.Ux[i2], c.Pop2.Uy[i2], c.Pop2.Uz[i2]
		r.W1, r.W2 = c.Pop1.W[i1], c.Pop2.W[i2]

		var theta, sin, cos float64
		if c.Geom == Cylindrical {
			theta = th2[i2] - th1[i1]
			sin, cos = math.Sin(theta), math.Cos(theta)
			r.Ux1, r.Uy1 = rotate(r.Ux1, r.Uy1, cos, sin)
		}

		if c.Product == nil {
			c.scatter(mask, i1, i2, r, w, sin, cos, gen)
			continue
		}

		created += c.create(slot, i1, i2, r, w, sin, cos, gen)
	}
	return created, nil
}

// scatter applies an in-place scattering channel to the reactants. Each
// reactant's momentum is updated with probability w/weight so that unequal
// weights relax at the correct rate.
func (c *Collider) scatter(
	mask int, i1, i2 int, r *Reactants, w, sin, cos float64,
	gen *rand.Generator,
) {
	var uA, uB Vec
	process := Elastic
	if f, ok := c.Filter.(*DSMCFilter); ok {
		process = f.Processes[mask-1].Type
	}

	switch process {
	case ChargeExchange:
		// Identity exchange: the colliding pair swaps velocities. Exact for
		// an ion and its parent neutral, where the masses match.
		uA = Vec{r.Ux2, r.Uy2, r.Uz2}
		uB = Vec{r.Ux1, r.Uy1, r.Uz1}
	case BackScatter:
		d := cmDirection(r)
		uA, uB = productMomentaDir(
			r, c.Pop1.Mass, c.Pop2.Mass, 0,
			Vec{-d[0], -d[1], -d[2]},
		)
	default:
		uA, uB = ProductMomenta(r, c.Pop1.Mass, c.Pop2.Mass, 0, gen)
	}

	if gen.Next() < w/c.Pop1.W[i1] {
		if c.Geom == Cylindrical {
			uA[0], uA[1] = rotate(uA[0], uA[1], cos, -sin)
		}
		c.Pop1.Ux[i1], c.Pop1.Uy[i1], c.Pop1.Uz[i1] = uA[0], uA[1], uA[2]
	}
	if gen.Next() < w/c.Pop2.W[i2] {
		c.Pop2.Ux[i2], c.Pop2.Uy[i2], c.Pop2.Uz[i2] = uB[0], uB[1], uB[2]
	}
}

// create fills the product slots of one accepted reactive pair and depletes
// the reactants.
func (c *Collider) create(
	slot, i1, i2 int, r *Reactants, w, sin, cos float64,
	gen *rand.Generator,
) int {
	prod := c.Product
	perEvent := prod.PerEvent()
	base := c.productStart + c.offsets[slot]*perEvent

	var mom [3]Vec
	var weights [3]float64
	if prod.TwoStep != nil {
		uA, uB1, uB2 := prod.TwoStep.Products(r, gen)
		mom = [3]Vec{uA, uB1, uB2}
		// Each computed momentum is used twice, once at each reactant's
		// position, so each product carries half the reaction weight.
		weights = [3]float64{w / 2, w / 2, w / 2}
	} else {
		uA, uB := ProductMomenta(r, prod.MA, prod.MB, prod.ERelease, gen)
		mom = [3]Vec{uA, uB, {}}
		weights = [3]float64{w, w, 0}
	}

	dst := prod.Pop
	for j := 0; j < perEvent; j++ {
		i := base + j
		var u Vec
		var pw float64
		if prod.TwoStep != nil {
			// Slots 0-2 copy reactant 1, slots 3-5 copy reactant 2; the
			// momentum ordering repeats on each side.
			if j < 3 {
				c.copy1.Do(i1, i, gen)
			} else {
				c.copy2.Do(i2, i, gen)
			}
			u, pw = mom[j%3], weights[j%3]
			if c.Geom == Cylindrical && j < 3 {
				u[0], u[1] = rotate(u[0], u[1], cos, -sin)
			}
		} else {
			if j == 0 {
				c.copy1.Do(i1, i, gen)
			} else {
				c.copy2.Do(i2, i, gen)
			}
			u, pw = mom[j], weights[j]
			if c.Geom == Cylindrical && j == 0 {
				u[0], u[1] = rotate(u[0], u[1], cos, -sin)
			}
		}
		dst.Ux[i], dst.Uy[i], dst.Uz[i] = u[0], u[1], u[2]
		dst.W[i] = pw
		dst.ID[i] = dst.NewID()
		dst.Cpu[i] = c.Rank
	}

	// Reactant depletion: the reacted weight disappears from both sides.
	if nw := c.Pop1.W[i1] - w; nw > 0 {
		c.Pop1.W[i1] = nw
	} else {
		c.Pop1.Kill(i1)
	}
	if nw := c.Pop2.W[i2] - w; nw > 0 {
		c.Pop2.W[i2] = nw
	} else {
		c.Pop2.Kill(i2)
	}
	return perEvent
}

// Step runs both phases back to back: the parallel decision pass, the sizing
// barrier, and the sequential creation pass.
func (c *Collider) Step(
	b1, b2 *Binning, ctx []Context, dt, dV float64, gens []*rand.Generator,
) (*Counts, int, error) {
	counts, err := c.Execute(b1, b2, ctx, dt, dV, gens)
	if err != nil {
		return nil, 0, err
	}
	created, err := c.CreateProducts(gens[0])
	if err != nil {
		return nil, 0, err
	}
	return counts, created, nil
}
