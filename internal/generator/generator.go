// Package generator produces synthetic domain records for demo data and tests.
// Values are drawn uniformly from fixed pools; supply a seeded Source for
// reproducible output.
package generator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"
)

// Source is the random source a Generator draws from. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// Generator builds synthetic records
type Generator struct {
	src Source
	now func() time.Time
}

// Option configures a Generator
type Option func(*Generator)

// WithSource sets the random source
func WithSource(src Source) Option {
	return func(g *Generator) {
		g.src = src
	}
}

// WithClock sets the reference clock for generated dates
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// New creates a Generator. Without options it is unseeded and uses the wall clock.
func New(opts ...Option) *Generator {
	g := &Generator{
		now: time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.src == nil {
		g.src = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return g
}

// NewSeeded creates a Generator whose output is reproducible for a seed
func NewSeeded(seed uint64, opts ...Option) *Generator {
	return New(append([]Option{WithSource(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))}, opts...)...)
}

// SequentialID formats the n-th id with a prefix, e.g. EXP-0001
func SequentialID(prefix string, n int) string {
	return fmt.Sprintf("%s-%04d", prefix, n)
}

func (g *Generator) pick(pool []string) string {
	return pool[g.src.IntN(len(pool))]
}

// intBetween returns a uniform integer in [lo, hi]
func (g *Generator) intBetween(lo, hi int) int {
	return lo + g.src.IntN(hi-lo+1)
}

// floatBetween returns a uniform amount in [lo, hi) rounded to cents
func (g *Generator) floatBetween(lo, hi float64) float64 {
	return roundCents(lo + g.src.Float64()*(hi-lo))
}

func (g *Generator) chance(oneIn int) bool {
	return g.src.IntN(oneIn) == 0
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
