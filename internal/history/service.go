// Package history loads the latest draw and a window of recent contests,
// caches them, and derives the frequency table used by the generator.
package history

import (
	"context"
	"sync"
	"time"

	"github.com/fystack/lottery-genius/internal/cache"
	"github.com/fystack/lottery-genius/internal/events"
	"github.com/fystack/lottery-genius/internal/lottery"
	"github.com/fystack/lottery-genius/pkg/common/logger"
)

// Snapshot is the cached view of recent results.
type Snapshot struct {
	Latest      lottery.Draw           `json:"ultimo_resultado"`
	Draws       []lottery.Draw         `json:"concursos"`
	Frequencies lottery.FrequencyTable `json:"frequencias"`
	Window      int                    `json:"janela"`
	Source      string                 `json:"fonte"`
	FetchedAt   time.Time              `json:"atualizado_em"`
}

// DrawFetcher is satisfied by *upstream.Fetcher.
type DrawFetcher interface {
	Source() string
	FetchLatest(ctx context.Context) (lottery.Draw, error)
	FetchRange(ctx context.Context, first, last int) ([]lottery.Draw, error)
}

type Service struct {
	fetcher DrawFetcher
	slot    *cache.Slot[Snapshot]
	window  int
	emitter events.Emitter
	clock   cache.Clock

	mu          sync.Mutex
	lastContest int
}

func NewService(fetcher DrawFetcher, slot *cache.Slot[Snapshot], window int, emitter events.Emitter) *Service {
	if window < 1 {
		window = 1
	}
	if emitter == nil {
		emitter = events.Noop{}
	}
	return &Service{
		fetcher: fetcher,
		slot:    slot,
		window:  window,
		emitter: emitter,
		clock:   cache.SystemClock,
	}
}

// Snapshot returns the cached snapshot, loading it when stale.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	return s.slot.GetOrFetch(ctx, s.load)
}

// Latest returns the most recent draw.
func (s *Service) Latest(ctx context.Context) (lottery.Draw, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return lottery.Draw{}, err
	}
	return snap.Latest, nil
}

// Frequencies returns the frequency table of the recent window and the latest
// draw. When the upstream is unavailable it logs a warning and returns an
// all-zero table and a nil draw, so generation falls back to uniform weights.
func (s *Service) Frequencies(ctx context.Context) (lottery.FrequencyTable, *lottery.Draw) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		logger.Warn("History unavailable, using uniform weights", "source", s.fetcher.Source(), "err", err)
		return lottery.NewFrequencyTable(), nil
	}
	latest := snap.Latest
	return snap.Frequencies, &latest
}

// Refresh drops the cached snapshot and loads a new one.
func (s *Service) Refresh(ctx context.Context) (Snapshot, error) {
	s.slot.Invalidate()
	return s.Snapshot(ctx)
}

func (s *Service) load(ctx context.Context) (Snapshot, error) {
	latest, err := s.fetcher.FetchLatest(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	draws := []lottery.Draw{latest}
	if s.window > 1 && latest.Contest > 1 {
		first := max(1, latest.Contest-s.window+1)
		window, err := s.fetcher.FetchRange(ctx, first, latest.Contest)
		if err != nil {
			logger.Warn("Failed to load history window, using latest draw only",
				"first", first,
				"last", latest.Contest,
				"err", err,
			)
		} else {
			draws = mergeLatest(window, latest)
		}
	}

	snap := Snapshot{
		Latest:      latest,
		Draws:       draws,
		Frequencies: lottery.Aggregate(draws),
		Window:      s.window,
		Source:      s.fetcher.Source(),
		FetchedAt:   s.clock.Now().UTC(),
	}
	logger.Info("History snapshot loaded",
		"source", snap.Source,
		"latest", latest.Contest,
		"draws", len(draws),
	)

	s.announce(latest)
	return snap, nil
}

// mergeLatest makes sure the freshly fetched latest draw is part of the
// window exactly once.
func mergeLatest(window []lottery.Draw, latest lottery.Draw) []lottery.Draw {
	out := make([]lottery.Draw, 0, len(window)+1)
	for _, d := range window {
		if d.Contest != latest.Contest {
			out = append(out, d)
		}
	}
	return append(out, latest)
}

// announce emits draws newer than any seen before by this process.
func (s *Service) announce(latest lottery.Draw) {
	s.mu.Lock()
	if latest.Contest <= s.lastContest {
		s.mu.Unlock()
		return
	}
	s.lastContest = latest.Contest
	s.mu.Unlock()

	if err := s.emitter.EmitDraw(latest); err != nil {
		logger.Warn("Failed to emit draw event", "contest", latest.Contest, "err", err)
	}
}
