package lottery

// Reference sets on the 5x5 Lotofácil card.
var (
	Primes    = newSet(2, 3, 5, 7, 11, 13, 17, 19, 23)
	Fibonacci = newSet(1, 2, 3, 5, 8, 13, 21)
	Edges     = newSet(
		1, 2, 3, 4, 5,
		6, 10,
		11, 15,
		16, 20,
		21, 22, 23, 24, 25,
	)
)

// LowThreshold is the highest number counted as low.
const LowThreshold = 13

type set map[int]struct{}

func newSet(values ...int) set {
	s := make(set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s set) Has(n int) bool {
	_, ok := s[n]
	return ok
}

// TicketAnalysis holds descriptive counts for one ticket.
// Even+Odd and Low+High both equal the ticket size.
type TicketAnalysis struct {
	Even      int `json:"pares"`
	Odd       int `json:"impares"`
	Primes    int `json:"primos"`
	Fibonacci int `json:"fibonacci"`
	Edge      int `json:"borda"`
	Low       int `json:"baixos"`
	High      int `json:"altos"`
}

func Analyze(ticket Ticket) TicketAnalysis {
	var a TicketAnalysis
	for _, n := range ticket {
		if n%2 == 0 {
			a.Even++
		} else {
			a.Odd++
		}
		if Primes.Has(n) {
			a.Primes++
		}
		if Fibonacci.Has(n) {
			a.Fibonacci++
		}
		if Edges.Has(n) {
			a.Edge++
		}
		if n <= LowThreshold {
			a.Low++
		} else {
			a.High++
		}
	}
	return a
}

// Analyze is a convenience for Analyze(t).
func (t Ticket) Analyze() TicketAnalysis {
	return Analyze(t)
}
