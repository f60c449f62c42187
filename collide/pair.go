package collide

// Pair is one stride pairing between two particles, along with the split
// weights each contributes to this particular pairing and the pre-reserved
// outcome slot it writes to. Pairs are transient: they are regenerated every
// step and never stored.
type Pair struct {
	// I1, I2 are absolute slot indices into the two populations.
	I1, I2 int
	// W1, W2 are the particles' weights divided by their replication counts
	// in this pairing, so that summing a particle's contributed weight over
	// all its pairings recovers its true weight exactly.
	W1, W2 float64
	// Slot is the pair's reserved outcome slot.
	Slot int
}

// EachPair generates the stride pairs between two (already shuffled) cell
// index ranges, starting from channel offset collIdx, and calls f once per
// pair. With n1 and n2 particles, every particle of the larger range appears
// in exactly one pair across offsets 0..min(n1,n2)-1, and each particle of
// the smaller range is replicated between floor(max/min) and ceil(max/min)
// times, with the extra pairings spread evenly over the offsets rather than
// piled onto the first indices.
//
// Outcome slots advance from cellStartPair+collIdx in strides of min(n1,n2),
// so concurrent offsets of the same cell never collide.
//
// Returns the number of pairs generated. Either range being empty generates
// none. When pairing a population against itself the caller must hand in two
// disjoint halves of the shuffled cell so no particle pairs with itself.
func EachPair(
	idx1, idx2 []int, w1, w2 []float64,
	collIdx, cellStartPair int, f func(p *Pair),
) int {
	n1, n2 := len(idx1), len(idx2)
	if n1 == 0 || n2 == 0 {
		return 0
	}

	maxN, minN := n1, n2
	if n2 > n1 {
		maxN, minN = n2, n1
	}
	if collIdx >= minN {
		return 0
	}

	// c1 is the minimum number of times a particle of range 1 is paired with
	// a particle of range 2; c2 the reverse.
	c1, c2 := n2/n1, n1/n2
	if c1 < 1 {
		c1 = 1
	}
	if c2 < 1 {
		c2 = 1
	}

	i1, i2 := collIdx, collIdx
	slot := cellStartPair + collIdx
	count := 0
	p := &Pair{}

	for k := collIdx; k < maxN; k += minN {
		// c1k: how many times the current particle of range 1 appears over
		// the full pairing pass. The k%n < maxN%n comparison hands the +1
		// replications out round-robin.
		c1k, c2k := c1, c2
		if k%n1 < maxN%n1 {
			c1k++
		}
		if k%n2 < maxN%n2 {
			c2k++
		}

		p.I1, p.I2 = idx1[i1], idx2[i2]
		p.W1 = w1[p.I1] / float64(c1k)
		p.W2 = w2[p.I2] / float64(c2k)
		p.Slot = slot
		f(p)

		if maxN == n1 {
			i1 += minN
		}
		if maxN == n2 {
			i2 += minN
		}
		slot += minN
		count++
	}
	return count
}

// PairCount returns the total number of pairs one cell generates over all
// channel offsets: max(n1, n2), or zero if either range is empty.
func PairCount(n1, n2 int) int {
	if n1 == 0 || n2 == 0 {
		return 0
	}
	if n1 > n2 {
		return n1
	}
	return n2
}
