package lottery

// FrequencyTable maps every number of the universe to how often it was drawn.
// Tables built with NewFrequencyTable or Aggregate are fully populated; Count
// treats missing keys as zero either way.
type FrequencyTable map[int]int

func NewFrequencyTable() FrequencyTable {
	table := make(FrequencyTable, UniverseSize)
	for n := MinNumber; n <= MaxNumber; n++ {
		table[n] = 0
	}
	return table
}

func (f FrequencyTable) Count(n int) int {
	return f[n]
}

// Weight is the sampling weight of n. The +1 keeps numbers that were never
// drawn selectable.
func (f FrequencyTable) Weight(n int) int {
	count := f.Count(n)
	if count < 0 {
		count = 0
	}
	return count + 1
}

// Total is the sum of all counts in the universe.
func (f FrequencyTable) Total() int {
	total := 0
	for n := MinNumber; n <= MaxNumber; n++ {
		total += f.Count(n)
	}
	return total
}

// Aggregate counts how often each number of the universe appears across draws.
// Values outside the universe are ignored.
func Aggregate(draws []Draw) FrequencyTable {
	table := NewFrequencyTable()
	for _, draw := range draws {
		for _, n := range draw.Numbers {
			if InUniverse(n) {
				table[n]++
			}
		}
	}
	return table
}
