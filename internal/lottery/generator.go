package lottery

import (
	"math/rand/v2"
	"slices"
	"sort"
	"sync"
	"time"
)

// DefaultOversample is how many raw weighted samples are drawn per ticket
// slot before deduplication.
const DefaultOversample = 2

// Generator produces weighted, duplicate-free tickets. It is safe for
// concurrent use.
type Generator struct {
	mu         sync.Mutex
	rng        *rand.Rand
	oversample int
}

type GeneratorOption func(*Generator)

// WithSeed makes the generator reproducible.
func WithSeed(seed uint64) GeneratorOption {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithSource uses src as the random source.
func WithSource(src rand.Source) GeneratorOption {
	return func(g *Generator) {
		g.rng = rand.New(src)
	}
}

// WithOversample overrides DefaultOversample. Values below 1 are ignored.
func WithOversample(factor int) GeneratorOption {
	return func(g *Generator) {
		if factor >= 1 {
			g.oversample = factor
		}
	}
}

func NewGenerator(opts ...GeneratorOption) *Generator {
	now := uint64(time.Now().UnixNano())
	g := &Generator{
		rng:        rand.New(rand.NewPCG(now, now>>1)),
		oversample: DefaultOversample,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns count tickets of size distinct numbers each, biased toward
// the numbers that are frequent in freq. Tickets in one batch may repeat.
func (g *Generator) Generate(count, size int, freq FrequencyTable) ([]Ticket, error) {
	if count <= 0 {
		return nil, newConfigurationError("ticket count", count, "must be positive")
	}
	if size <= 0 || size > UniverseSize {
		return nil, newConfigurationError("ticket size", size, "must be within [1,%d]", UniverseSize)
	}
	if freq == nil {
		freq = NewFrequencyTable()
	}

	universe := Universe()
	cumulative := cumulativeWeights(universe, freq)

	g.mu.Lock()
	defer g.mu.Unlock()

	tickets := make([]Ticket, 0, count)
	for range count {
		tickets = append(tickets, g.ticket(universe, cumulative, size))
	}
	return tickets, nil
}

func (g *Generator) ticket(universe, cumulative []int, size int) Ticket {
	seen := make(map[int]struct{}, size)
	picked := make([]int, 0, size)

	for range size * g.oversample {
		n := universe[g.weightedIndex(cumulative)]
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		picked = append(picked, n)
		if len(picked) == size {
			break
		}
	}

	if missing := size - len(picked); missing > 0 {
		rest := make([]int, 0, len(universe)-len(picked))
		for _, n := range universe {
			if _, ok := seen[n]; !ok {
				rest = append(rest, n)
			}
		}
		g.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
		picked = append(picked, rest[:missing]...)
	}

	slices.Sort(picked)
	return Ticket(picked)
}

// weightedIndex draws one index with probability proportional to its weight.
func (g *Generator) weightedIndex(cumulative []int) int {
	total := cumulative[len(cumulative)-1]
	roll := g.rng.IntN(total)
	return sort.Search(len(cumulative), func(i int) bool { return cumulative[i] > roll })
}

func cumulativeWeights(universe []int, freq FrequencyTable) []int {
	cumulative := make([]int, len(universe))
	total := 0
	for i, n := range universe {
		total += freq.Weight(n)
		cumulative[i] = total
	}
	return cumulative
}
