/*package rand supplies the random generators used by the collision engine.
Every stochastic routine takes an explicit *Generator handle so that each
worker can own an independent stream. There is no package-level generator.
*/
package rand

import (
	"math"
	golangRand "math/rand"
	"time"
)

type GeneratorType int

const (
	Xorshift GeneratorType = iota
	Tausworthe
	Golang

	Default = Xorshift
)

type backend interface {
	// Next returns a uniform value in [0, 1).
	Next() float64
	init(seed uint64)
}

// Generator is a single stream of uniform random values. It is not safe for
// concurrent use. Use Split to derive independent per-worker streams.
type Generator struct {
	backend
}

// New creates a Generator of the given type from a seed.
func New(gt GeneratorType, seed uint64) *Generator {
	var b backend
	switch gt {
	case Xorshift:
		b = &xorshiftGenerator{}
	case Tausworthe:
		b = &tauswortheGenerator{}
	case Golang:
		b = &golangGenerator{}
	default:
		panic("Unrecognized GeneratorType")
	}
	b.init(seed)
	return &Generator{b}
}

// NewTimeSeed creates a Generator seeded off the current time.
func NewTimeSeed(gt GeneratorType) *Generator {
	return New(gt, uint64(time.Now().UnixNano()))
}

// Split derives n generators of the same type with seeds drawn from gen.
// The derived streams are what the engine hands to its workers.
func Split(gt GeneratorType, seed uint64, n int) []*Generator {
	src := New(gt, seed)
	gens := make([]*Generator, n)
	for i := range gens {
		s := uint64(src.Next() * math.MaxUint32)
		gens[i] = New(gt, s*0x9e3779b97f4a7c15+uint64(i)+1)
	}
	return gens
}

// Uniform returns a uniform value in [low, high).
func (gen *Generator) Uniform(low, high float64) float64 {
	return low + (high-low)*gen.Next()
}

// UniformInt returns a uniform integer in [0, n).
func (gen *Generator) UniformInt(n int) int {
	return int(gen.Next() * float64(n))
}

// Sphere returns a direction drawn uniformly from the unit sphere.
func (gen *Generator) Sphere() (x, y, z float64) {
	z = gen.Uniform(-1, 1)
	phi := gen.Uniform(0, 2*math.Pi)
	sin := math.Sqrt(1 - z*z)
	return sin * math.Cos(phi), sin * math.Sin(phi), z
}

type xorshiftGenerator struct {
	state uint64
}

func (gen *xorshiftGenerator) init(seed uint64) {
	if seed == 0 {
		seed = 0x2545f4914f6cdd1d
	}
	gen.state = seed
}

// xorshift64* (Vigna 2016).
func (gen *xorshiftGenerator) Next() float64 {
	x := gen.state
	x ^= x >> 12
	x ^= x << 25
	x ^= x >> 27
	gen.state = x
	return float64(x*0x2545f4914f6cdd1d>>11) / float64(1<<53)
}

type tauswortheGenerator struct {
	s1, s2, s3 uint32
}

func (gen *tauswortheGenerator) init(seed uint64) {
	// The three components need seeds above small per-component minima.
	gen.s1 = uint32(seed) | 0x100
	gen.s2 = uint32(seed>>24) | 0x1000
	gen.s3 = uint32(seed>>40) | 0x100000
	for i := 0; i < 8; i++ {
		gen.Next()
	}
}

// taus88 (L'Ecuyer 1996).
func (gen *tauswortheGenerator) Next() float64 {
	b := ((gen.s1 << 13) ^ gen.s1) >> 19
	gen.s1 = ((gen.s1 & 0xfffffffe) << 12) ^ b
	b = ((gen.s2 << 2) ^ gen.s2) >> 25
	gen.s2 = ((gen.s2 & 0xfffffff8) << 4) ^ b
	b = ((gen.s3 << 3) ^ gen.s3) >> 11
	gen.s3 = ((gen.s3 & 0xfffffff0) << 17) ^ b
	return float64(gen.s1^gen.s2^gen.s3) / float64(1<<32)
}

type golangGenerator struct {
	gen *golangRand.Rand
}

func (gen *golangGenerator) init(seed uint64) {
	gen.gen = golangRand.New(golangRand.NewSource(int64(seed)))
}

func (gen *golangGenerator) Next() float64 { return gen.gen.Float64() }
