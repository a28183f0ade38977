package constant

import "time"

const (
	ServiceName = "lottery-genius"

	DefaultUpstreamTimeout = 10 * time.Second
	DefaultRetryAttempts   = 3
	DefaultRetryDelay      = 2 * time.Second
	DefaultHistoryWindow   = 10
	DefaultCacheTTL        = 5 * time.Minute

	SnapshotCacheKey = "snapshot/latest"

	// NATS subject suffixes appended to the configured prefix.
	SubjectDrawLatest       = "draw.latest"
	SubjectTicketsGenerated = "tickets.generated"
)
