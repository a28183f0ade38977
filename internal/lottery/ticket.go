package lottery

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// NewTicket validates numbers submitted from outside and returns them as a
// sorted Ticket. Numbers must be distinct, inside the universe and the
// ticket size must be within [MinTicketSize, MaxTicketSize].
func NewTicket(numbers []int) (Ticket, error) {
	if len(numbers) < MinTicketSize || len(numbers) > MaxTicketSize {
		return nil, newConfigurationError("ticket size", len(numbers), "must be within [%d,%d]", MinTicketSize, MaxTicketSize)
	}
	seen := make(map[int]struct{}, len(numbers))
	for _, n := range numbers {
		if !InUniverse(n) {
			return nil, newConfigurationError("number", n, "must be within [%d,%d]", MinNumber, MaxNumber)
		}
		if _, dup := seen[n]; dup {
			return nil, newConfigurationError("number", n, "appears more than once")
		}
		seen[n] = struct{}{}
	}
	ticket := slices.Clone(numbers)
	slices.Sort(ticket)
	return Ticket(ticket), nil
}

// ParseTicket parses numbers separated by commas, semicolons or whitespace,
// e.g. "01,02,03" or "1 2 3". A leading sign is part of the number, so "-5"
// is rejected as out of range.
func ParseTicket(raw string) (Ticket, error) {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
	numbers := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, newConfigurationError("number", f, "not an integer")
		}
		numbers = append(numbers, n)
	}
	return NewTicket(numbers)
}

// String renders the ticket as zero-padded two-digit numbers joined by commas.
func (t Ticket) String() string {
	parts := make([]string, len(t))
	for i, n := range t {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, ",")
}
