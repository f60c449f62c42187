package collide

// Outcome holds the phase-1 effect descriptors: one slot per potential pair,
// written exactly once by a filter during the decision phase and read exactly
// once by the creation phase. The arrays are sized for the maximum possible
// pair count before any worker launches, so the parallel region never
// allocates.
type Outcome struct {
	// Mask is 0 when no reaction occurred, or 1+channel for the sub-channel
	// that fired.
	Mask []int
	// Weight is the reaction weight of an accepted pair.
	Weight []float64
	// I1, I2 are the paired particles' slot indices.
	I1, I2 []int
}

// resize grows the outcome buffers to n pair slots, reusing capacity, and
// clears the mask.
func (o *Outcome) resize(n int) {
	if cap(o.Mask) < n {
		o.Mask = make([]int, n)
		o.Weight = make([]float64, n)
		o.I1 = make([]int, n)
		o.I2 = make([]int, n)
	}
	o.Mask = o.Mask[:n]
	o.Weight = o.Weight[:n]
	o.I1 = o.I1[:n]
	o.I2 = o.I2[:n]
	for i := range o.Mask {
		o.Mask[i] = 0
	}
}

// accepted returns, for each pair slot, the running count of accepted pairs
// before it, along with the total. This prefix sum is the sequential barrier
// between the decision and creation phases: it fixes each accepted pair's
// product slots so that storage can grow exactly once.
func (o *Outcome) accepted(offsets []int) ([]int, int) {
	if cap(offsets) < len(o.Mask) {
		offsets = make([]int, len(o.Mask))
	}
	offsets = offsets[:len(o.Mask)]
	total := 0
	for i, m := range o.Mask {
		offsets[i] = total
		if m != 0 {
			total++
		}
	}
	return offsets, total
}
