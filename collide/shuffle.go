/*package collide implements the binary collision engine: per-cell particle
shuffling, stride pairing with weight splitting, stochastic per-pair reaction
decisions, relativistic product kinematics, and two-phase product creation.
*/
package collide

import (
	"github.com/phil-mansfield/gopic/rand"
)

// Shuffle applies an in-place Fisher-Yates permutation to one cell's index
// range. It consumes one generator draw per swap, so a fixed generator state
// gives a reproducible permutation. Disjoint cells may be shuffled
// concurrently as long as each cell uses its own generator.
func Shuffle(idx []int, gen *rand.Generator) {
	for i := len(idx) - 1; i > 0; i-- {
		j := gen.UniformInt(i + 1)
		idx[i], idx[j] = idx[j], idx[i]
	}
}
