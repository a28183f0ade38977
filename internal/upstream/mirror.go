package upstream

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/fystack/lottery-genius/internal/lottery"
	"github.com/fystack/lottery-genius/pkg/common/logger"
	"github.com/tidwall/gjson"
)

// MirrorSource reads a community-maintained JSON document keyed by contest
// number. Entries may be a bare array of numbers or an object carrying
// "dezenas" (or "numbers") and an optional "data" (or "date").
type MirrorSource struct {
	client *Client
}

func NewMirrorSource(client *Client) *MirrorSource {
	return &MirrorSource{client: client}
}

func (s *MirrorSource) Name() string { return s.client.Source() }

func (s *MirrorSource) Stats() map[string]any { return s.client.Stats() }

func (s *MirrorSource) Latest(ctx context.Context) (lottery.Draw, error) {
	draws, err := s.all(ctx, "latest")
	if err != nil {
		return lottery.Draw{}, err
	}
	return draws[len(draws)-1], nil
}

func (s *MirrorSource) Contest(ctx context.Context, contest int) (lottery.Draw, error) {
	op := "contest " + strconv.Itoa(contest)
	draws, err := s.all(ctx, op)
	if err != nil {
		return lottery.Draw{}, err
	}
	idx, found := slices.BinarySearchFunc(draws, contest, func(d lottery.Draw, n int) int { return d.Contest - n })
	if !found {
		return lottery.Draw{}, &UpstreamError{Source: s.Name(), Op: op, Err: fmt.Errorf("contest %d not found", contest)}
	}
	return draws[idx], nil
}

// Range serves the whole window from a single download.
func (s *MirrorSource) Range(ctx context.Context, first, last int) ([]lottery.Draw, error) {
	draws, err := s.all(ctx, fmt.Sprintf("range %d-%d", first, last))
	if err != nil {
		return nil, err
	}
	out := make([]lottery.Draw, 0, max(0, last-first+1))
	for _, d := range draws {
		if d.Contest >= first && d.Contest <= last {
			out = append(out, d)
		}
	}
	return out, nil
}

// all downloads the document and returns every parsable contest sorted by
// contest number.
func (s *MirrorSource) all(ctx context.Context, op string) ([]lottery.Draw, error) {
	data, err := s.client.Get(ctx, op, "")
	if err != nil {
		return nil, err
	}
	return parseMirrorDocument(s.Name(), op, data)
}

func parseMirrorDocument(source, op string, data []byte) ([]lottery.Draw, error) {
	if !gjson.ValidBytes(data) {
		return nil, malformed(source, op, "invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, malformed(source, op, "expected an object keyed by contest number")
	}

	var draws []lottery.Draw
	skippedEntries := 0
	doc.ForEach(func(key, value gjson.Result) bool {
		contest, err := strconv.Atoi(strings.TrimSpace(key.String()))
		if err != nil || contest <= 0 {
			skippedEntries++
			return true
		}

		raw, date := value, ""
		if value.IsObject() {
			raw = value.Get("dezenas")
			if !raw.Exists() {
				raw = value.Get("numbers")
			}
			date = value.Get("data").String()
			if date == "" {
				date = value.Get("date").String()
			}
		}

		numbers, _ := parseNumbers(raw)
		if len(numbers) == 0 {
			skippedEntries++
			return true
		}
		draws = append(draws, lottery.NewDraw(contest, date, numbers))
		return true
	})

	if skippedEntries > 0 {
		logger.Debug("Skipped malformed mirror entries", "source", source, "skipped", skippedEntries)
	}
	if len(draws) == 0 {
		return nil, malformed(source, op, "no contests found")
	}

	slices.SortFunc(draws, func(a, b lottery.Draw) int { return a.Contest - b.Contest })
	return draws, nil
}
