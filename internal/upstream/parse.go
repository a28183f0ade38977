package upstream

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// parseInt accepts JSON integers and numeric strings such as "07".
func parseInt(r gjson.Result) (int, bool) {
	switch r.Type {
	case gjson.Number:
		if r.Num != math.Trunc(r.Num) {
			return 0, false
		}
		return int(r.Num), true
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(r.Str))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// parseNumbers reads a JSON array of draw numbers, skipping entries that are
// not integers. It also reports how many entries were skipped.
func parseNumbers(r gjson.Result) (numbers []int, skipped int) {
	if !r.IsArray() {
		return nil, 0
	}
	for _, item := range r.Array() {
		n, ok := parseInt(item)
		if !ok {
			skipped++
			continue
		}
		numbers = append(numbers, n)
	}
	return numbers, skipped
}

// parseDecimal reads a money value that may be a JSON number or a string.
// Missing or unparsable values are zero.
func parseDecimal(r gjson.Result) decimal.Decimal {
	var raw string
	switch r.Type {
	case gjson.Number:
		raw = r.Raw
	case gjson.String:
		raw = strings.TrimSpace(r.Str)
	default:
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}
