package infra

import (
	"encoding/json"
	"time"
)

// KVStore is a byte store shared by the processes of one deployment.
// Implementations: badger (in memory unless a directory is configured) and redis.
type KVStore interface {
	GetName() string
	Set(k string, v []byte, ttl time.Duration) error
	Get(k string) ([]byte, error)
	// SetAny encodes v with the store codec. A ttl <= 0 never expires.
	SetAny(k string, v any, ttl time.Duration) error
	GetAny(k string, v any) (found bool, err error)
	Delete(k string) error
	Close() error
}

// Codec encodes/decodes Go values to/from slices of bytes.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSON is the codec used for cached snapshots.
var JSON = JSONcodec{}

type JSONcodec struct{}

func (c JSONcodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (c JSONcodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
