package particle

import (
	"github.com/phil-mansfield/gopic/rand"
)

// Create initializes brand-new particles from nothing but explicit arguments
// and the destination population's policy table: position, ID and owning
// partition come from the caller, every other attribute from its policy.
type Create struct {
	dst *Population
}

func NewCreate(dst *Population) Create { return Create{dst} }

// Init fills slot i of the destination.
func (c Create) Init(
	i int, x, y, z float64, id int64, cpu int32, gen *rand.Generator,
) {
	dst := c.dst
	dst.X[i], dst.Y[i], dst.Z[i] = x, y, z
	dst.ID[i], dst.Cpu[i] = id, cpu

	for comp := CompUx; comp < dst.RealComps(); comp++ {
		dst.RealData(comp)[i] = dst.realPolicy[comp].Real(gen)
	}
	for comp := 0; comp < dst.IntComps(); comp++ {
		dst.IntData(comp)[i] = dst.intPolicy[comp].Int()
	}
}

// Copy initializes new particles derived from a source particle in a
// possibly different population. Every destination attribute is first set
// from the destination's policy table, so attributes the source lacks still
// end up fully defined. Attributes whose names appear in both schemas are
// then overwritten with the exact source values. Position and identity are
// always copied.
//
// The name-match tables are computed once per (src, dst) pair by NewCopy and
// reused for every particle.
type Copy struct {
	src, dst         *Population
	srcReal, dstReal []int
	srcInt, dstInt   []int
}

func NewCopy(src, dst *Population) Copy {
	c := Copy{src: src, dst: dst}
	for srcComp, name := range src.realNames {
		if dstComp, ok := dst.RealComp(name); ok {
			c.srcReal = append(c.srcReal, srcComp)
			c.dstReal = append(c.dstReal, dstComp)
		}
	}
	for srcComp, name := range src.intNames {
		if dstComp, ok := dst.IntComp(name); ok {
			c.srcInt = append(c.srcInt, srcComp)
			c.dstInt = append(c.dstInt, dstComp)
		}
	}
	return c
}

// Do copies the particle in source slot iSrc into destination slot iDst.
func (c Copy) Do(iSrc, iDst int, gen *rand.Generator) {
	src, dst := c.src, c.dst

	for comp := 0; comp < dst.RealComps(); comp++ {
		dst.RealData(comp)[iDst] = dst.realPolicy[comp].Real(gen)
	}
	for comp := 0; comp < dst.IntComps(); comp++ {
		dst.IntData(comp)[iDst] = dst.intPolicy[comp].Int()
	}

	for j := range c.srcReal {
		dst.RealData(c.dstReal[j])[iDst] = src.RealData(c.srcReal[j])[iSrc]
	}
	for j := range c.srcInt {
		dst.IntData(c.dstInt[j])[iDst] = src.IntData(c.srcInt[j])[iSrc]
	}

	dst.X[iDst], dst.Y[iDst], dst.Z[iDst] = src.X[iSrc], src.Y[iSrc], src.Z[iSrc]
	dst.ID[iDst], dst.Cpu[iDst] = src.ID[iSrc], src.Cpu[iSrc]
}
