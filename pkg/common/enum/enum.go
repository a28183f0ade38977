package enum

type SourceType string
type CacheBackend string

const (
	// Official lottery-authority API.
	SourceTypeCaixa SourceType = "caixa"
	// Community JSON mirror keyed by contest number.
	SourceTypeMirror SourceType = "mirror"
)

const (
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendBadger CacheBackend = "badger"
	CacheBackendRedis  CacheBackend = "redis"
)
