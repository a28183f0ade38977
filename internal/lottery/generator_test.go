package lottery

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertValidTicket(t *testing.T, ticket Ticket, size int) {
	t.Helper()
	require.Len(t, ticket, size)
	for i, n := range ticket {
		assert.True(t, InUniverse(n), "number %d out of universe", n)
		if i > 0 {
			assert.Less(t, ticket[i-1], n, "ticket must be strictly ascending: %v", ticket)
		}
	}
}

func TestGenerate_ShapeForAllValidParameters(t *testing.T) {
	g := NewGenerator(WithSeed(42))
	freq := Aggregate([]Draw{
		NewDraw(1, "", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}),
		NewDraw(2, "", []int{2, 4, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24, 25, 23, 21}),
	})

	for size := MinTicketSize; size <= MaxTicketSize; size++ {
		for _, count := range []int{1, 7, 50} {
			tickets, err := g.Generate(count, size, freq)
			require.NoError(t, err)
			require.Len(t, tickets, count)
			for _, ticket := range tickets {
				assertValidTicket(t, ticket, size)
			}
		}
	}
}

func TestGenerate_FullUniverse(t *testing.T) {
	g := NewGenerator(WithSeed(7))

	tickets, err := g.Generate(3, UniverseSize, nil)
	require.NoError(t, err)
	for _, ticket := range tickets {
		assert.Equal(t, Universe(), []int(ticket))
	}
}

func TestGenerate_FillsRemainderWhenOversamplingFallsShort(t *testing.T) {
	// One overwhelming weight makes almost every raw sample the same number,
	// so most of the ticket comes from the uniform fill step.
	freq := NewFrequencyTable()
	freq[7] = 1_000_000
	g := NewGenerator(WithSeed(1), WithOversample(1))

	tickets, err := g.Generate(20, 20, freq)
	require.NoError(t, err)
	for _, ticket := range tickets {
		assertValidTicket(t, ticket, 20)
		assert.Contains(t, ticket, 7)
	}
}

func TestGenerate_InvalidParameters(t *testing.T) {
	g := NewGenerator()

	cases := []struct {
		name  string
		count int
		size  int
	}{
		{"zero size", 1, 0},
		{"negative size", 1, -1},
		{"size above universe", 1, UniverseSize + 1},
		{"zero count", 0, 15},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.Generate(tc.count, tc.size, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration))

			var cfgErr *ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestGenerate_SeededIsReproducible(t *testing.T) {
	freq := FrequencyTable{1: 5, 9: 3}

	a, err := NewGenerator(WithSeed(99)).Generate(5, 15, freq)
	require.NoError(t, err)
	b, err := NewGenerator(WithSeed(99)).Generate(5, 15, freq)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerate_FrequentNumberIsFavoured(t *testing.T) {
	// {1:5, others:0}: number 1 has weight 6 against 1 for everybody else.
	freq := NewFrequencyTable()
	freq[1] = 5
	g := NewGenerator(WithSeed(2024))

	const trials = 2000
	tickets, err := g.Generate(trials, 15, freq)
	require.NoError(t, err)

	hits := map[int]int{}
	for _, ticket := range tickets {
		assertValidTicket(t, ticket, 15)
		for _, n := range ticket {
			hits[n]++
		}
	}

	baseline := 0
	for n := 2; n <= MaxNumber; n++ {
		baseline += hits[n]
	}
	avgOthers := float64(baseline) / float64(UniverseSize-1)

	assert.Greater(t, float64(hits[1]), avgOthers, "number 1 should be picked more often than average")
}

func TestGenerate_UniformWhenTableIsEmpty(t *testing.T) {
	g := NewGenerator(WithSeed(3))
	tickets, err := g.Generate(2000, 15, NewFrequencyTable())
	require.NoError(t, err)

	hits := map[int]int{}
	for _, ticket := range tickets {
		for _, n := range ticket {
			hits[n]++
		}
	}

	// Expected 2000*15/25 = 1200 per number.
	for n := MinNumber; n <= MaxNumber; n++ {
		assert.InDelta(t, 1200, hits[n], 200, "number %d", n)
	}
}

func TestCumulativeWeights(t *testing.T) {
	cumulative := cumulativeWeights(Universe(), FrequencyTable{1: 5})

	assert.Equal(t, 6, cumulative[0])
	assert.Equal(t, 7, cumulative[1])
	assert.Equal(t, 6+UniverseSize-1, cumulative[len(cumulative)-1])
}
