package lottery

import (
	"slices"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const (
	// MinNumber and MaxNumber bound the universe of selectable numbers.
	MinNumber = 1
	MaxNumber = 25

	UniverseSize = MaxNumber - MinNumber + 1

	// NumbersPerDraw is how many numbers the official draw picks.
	NumbersPerDraw = 15

	// Bounds for tickets accepted from the outside world.
	MinTicketSize = 15
	MaxTicketSize = 20
)

// Draw is one historical contest result.
type Draw struct {
	Contest            int             `json:"concurso"`
	Date               string          `json:"data"`
	Numbers            []int           `json:"dezenas"`
	NextContestDate    string          `json:"data_proximo_concurso,omitempty"`
	Accumulated        bool            `json:"acumulado"`
	EstimatedNextPrize decimal.Decimal `json:"valor_estimado_proximo_concurso"`
	Prizes             []PrizeTier     `json:"premiacoes,omitempty"`
}

// PrizeTier is one row of the official prize breakdown.
type PrizeTier struct {
	Tier        int             `json:"faixa"`
	Description string          `json:"descricao"`
	Winners     int             `json:"ganhadores"`
	Amount      decimal.Decimal `json:"valor_premio"`
}

// Ticket is a sorted set of distinct numbers from the universe.
type Ticket []int

// Universe returns every selectable number in ascending order.
func Universe() []int {
	return lo.RangeFrom(MinNumber, UniverseSize)
}

// InUniverse reports whether n is a selectable number.
func InUniverse(n int) bool {
	return n >= MinNumber && n <= MaxNumber
}

// NormalizeNumbers drops values outside the universe, removes duplicates and
// sorts ascending. The input is not modified.
func NormalizeNumbers(numbers []int) []int {
	out := lo.Uniq(lo.Filter(numbers, func(n int, _ int) bool { return InUniverse(n) }))
	slices.Sort(out)
	return out
}

// NewDraw builds a Draw with normalized numbers.
func NewDraw(contest int, date string, numbers []int) Draw {
	return Draw{
		Contest: contest,
		Date:    date,
		Numbers: NormalizeNumbers(numbers),
	}
}
