// Package cache holds the single-slot result cache shared by the HTTP handlers.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/fystack/lottery-genius/pkg/common/logger"
	"github.com/fystack/lottery-genius/pkg/infra"
	"golang.org/x/sync/singleflight"
)

// Clock supplies the current time. Tests inject a fake one.
type Clock interface {
	Now() time.Time
}

type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// Entry is a cached payload and the time it was fetched.
type Entry[T any] struct {
	Payload   T         `json:"payload"`
	FetchedAt time.Time `json:"fetched_at"`
}

type Options struct {
	Clock Clock
	// Store is an optional second level shared with other processes.
	Store infra.KVStore
	// Key names the entry inside Store.
	Key string
	// FetchTimeout bounds a shared fetch. Defaults to DefaultFetchTimeout.
	FetchTimeout time.Duration
}

// DefaultFetchTimeout bounds a fetch that is no longer tied to the caller
// that started it.
const DefaultFetchTimeout = 2 * time.Minute

// Slot caches the result of one fetch for TTL. Failed fetches are never
// stored, and concurrent misses share a single fetch.
type Slot[T any] struct {
	mu    sync.Mutex
	entry *Entry[T]
	ttl   time.Duration
	clock Clock
	store infra.KVStore
	key   string
	group singleflight.Group

	fetchTimeout time.Duration
}

func NewSlot[T any](ttl time.Duration, opts Options) *Slot[T] {
	s := &Slot[T]{
		ttl:   ttl,
		clock: opts.Clock,
		store: opts.Store,
		key:   opts.Key,

		fetchTimeout: opts.FetchTimeout,
	}
	if s.fetchTimeout <= 0 {
		s.fetchTimeout = DefaultFetchTimeout
	}
	if s.clock == nil {
		s.clock = SystemClock
	}
	if s.key == "" {
		s.key = "slot"
	}
	return s
}

// GetOrFetch returns the cached payload while it is fresh, otherwise calls
// fetch and stores its result. The fetch is shared by every concurrent caller
// and outlives the cancellation of any one of them; each caller stops waiting
// when its own ctx is done.
func (s *Slot[T]) GetOrFetch(ctx context.Context, fetch func(context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := s.fresh(); ok {
		return v, nil
	}

	ch := s.group.DoChan(s.key, func() (any, error) {
		if v, ok := s.fresh(); ok {
			return v, nil
		}
		if e, ok := s.loadShared(); ok {
			s.put(e)
			return e.Payload, nil
		}

		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()

		v, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		e := Entry[T]{Payload: v, FetchedAt: s.clock.Now()}
		s.put(e)
		s.saveShared(e)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Entry returns the local entry, fresh or not.
func (s *Slot[T]) Entry() (Entry[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entry == nil {
		return Entry[T]{}, false
	}
	return *s.entry, true
}

// Invalidate drops the entry locally and from the shared store.
func (s *Slot[T]) Invalidate() {
	s.mu.Lock()
	s.entry = nil
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Delete(s.key); err != nil {
			logger.Warn("Failed to drop shared cache entry", "store", s.store.GetName(), "key", s.key, "err", err)
		}
	}
}

func (s *Slot[T]) fresh() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entry != nil && s.isFresh(s.entry.FetchedAt) {
		return s.entry.Payload, true
	}
	var zero T
	return zero, false
}

func (s *Slot[T]) isFresh(fetchedAt time.Time) bool {
	return s.clock.Now().Sub(fetchedAt) < s.ttl
}

func (s *Slot[T]) put(e Entry[T]) {
	s.mu.Lock()
	s.entry = &e
	s.mu.Unlock()
}

// loadShared reads a fresh entry from the shared store. Store errors count as
// a miss.
func (s *Slot[T]) loadShared() (Entry[T], bool) {
	var e Entry[T]
	if s.store == nil {
		return e, false
	}
	found, err := s.store.GetAny(s.key, &e)
	if err != nil {
		logger.Warn("Failed to read shared cache entry", "store", s.store.GetName(), "key", s.key, "err", err)
		return e, false
	}
	if !found || !s.isFresh(e.FetchedAt) {
		return e, false
	}
	return e, true
}

func (s *Slot[T]) saveShared(e Entry[T]) {
	if s.store == nil {
		return
	}
	if err := s.store.SetAny(s.key, e, s.ttl); err != nil {
		logger.Warn("Failed to write shared cache entry", "store", s.store.GetName(), "key", s.key, "err", err)
	}
}
