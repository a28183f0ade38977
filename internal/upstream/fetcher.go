package upstream

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/fystack/lottery-genius/internal/lottery"
	"github.com/fystack/lottery-genius/pkg/common/config"
	"github.com/fystack/lottery-genius/pkg/common/constant"
	"github.com/fystack/lottery-genius/pkg/common/logger"
	"github.com/fystack/lottery-genius/pkg/common/types"
	"github.com/fystack/lottery-genius/pkg/retry"
	"golang.org/x/sync/errgroup"
)

// Fetcher wraps a Source with a fixed-delay retry policy. Only transient
// failures are retried; malformed payloads and client errors fail at once.
type Fetcher struct {
	source      Source
	attempts    int
	delay       time.Duration
	concurrency int
}

func NewFetcher(source Source, cfg config.ClientConfig) *Fetcher {
	f := &Fetcher{
		source:      source,
		attempts:    cfg.MaxRetries,
		delay:       cfg.RetryDelay,
		concurrency: cfg.Concurrency,
	}
	if f.attempts <= 0 {
		f.attempts = constant.DefaultRetryAttempts
	}
	if f.delay < 0 {
		f.delay = 0
	}
	if f.concurrency <= 0 {
		f.concurrency = 1
	}
	return f
}

func (f *Fetcher) Source() string { return f.source.Name() }

// Stats reports node health and rate limiter state when the source exposes them.
func (f *Fetcher) Stats() map[string]any {
	if s, ok := f.source.(interface{ Stats() map[string]any }); ok {
		return s.Stats()
	}
	return nil
}

// FetchLatest returns the most recent contest.
func (f *Fetcher) FetchLatest(ctx context.Context) (lottery.Draw, error) {
	var draw lottery.Draw
	err := f.do(ctx, "latest", func() error {
		d, err := f.source.Latest(ctx)
		if err != nil {
			return err
		}
		draw = d
		return nil
	})
	return draw, err
}

// FetchContest returns a single contest.
func (f *Fetcher) FetchContest(ctx context.Context, contest int) (lottery.Draw, error) {
	var draw lottery.Draw
	err := f.do(ctx, fmt.Sprintf("contest %d", contest), func() error {
		d, err := f.source.Contest(ctx, contest)
		if err != nil {
			return err
		}
		draw = d
		return nil
	})
	return draw, err
}

// FetchRange returns the contests in [first, last] ordered by contest.
// Contests that cannot be fetched are skipped; an error is returned only when
// nothing could be fetched.
func (f *Fetcher) FetchRange(ctx context.Context, first, last int) ([]lottery.Draw, error) {
	if first < 1 || first > last {
		return nil, &lottery.ConfigurationError{
			Field:  "range",
			Value:  fmt.Sprintf("%d..%d", first, last),
			Reason: "first must be >= 1 and <= last",
		}
	}

	if rs, ok := f.source.(RangeSource); ok {
		var draws []lottery.Draw
		err := f.do(ctx, fmt.Sprintf("range %d-%d", first, last), func() error {
			d, err := rs.Range(ctx, first, last)
			if err != nil {
				return err
			}
			draws = d
			return nil
		})
		return draws, err
	}

	results := make([]*lottery.Draw, last-first+1)
	errs := &types.MultiError{}

	var g errgroup.Group
	g.SetLimit(f.concurrency)
	for contest := first; contest <= last; contest++ {
		g.Go(func() error {
			draw, err := f.FetchContest(ctx, contest)
			if err != nil {
				errs.Add(err)
				return nil
			}
			results[contest-first] = &draw
			return nil
		})
	}
	_ = g.Wait()

	draws := make([]lottery.Draw, 0, len(results))
	for _, d := range results {
		if d != nil {
			draws = append(draws, *d)
		}
	}

	if !errs.IsEmpty() {
		logger.Warn("Skipped contests that could not be fetched",
			"source", f.Source(),
			"first", first,
			"last", last,
			"failed", errs.Len(),
			"err", errs,
		)
	}
	if len(draws) == 0 && !errs.IsEmpty() {
		return nil, errs.Errors[0]
	}

	slices.SortFunc(draws, func(a, b lottery.Draw) int { return a.Contest - b.Contest })
	return draws, nil
}

func (f *Fetcher) do(ctx context.Context, op string, fn func() error) error {
	err := retry.Constant(ctx, func() error {
		err := fn()
		if err != nil && !IsTransient(err) {
			return retry.Permanent(err)
		}
		return err
	}, f.delay, f.attempts, func(err error, next time.Duration) {
		logger.Warn("Upstream request failed, retrying",
			"source", f.Source(),
			"op", op,
			"next", next,
			"err", err,
		)
	})
	if err == nil {
		return nil
	}

	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue
	}
	return &UpstreamError{Source: f.Source(), Op: op, Err: err}
}
