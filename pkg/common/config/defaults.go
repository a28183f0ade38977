package config

import (
	"time"

	"github.com/fystack/lottery-genius/pkg/common/constant"
	"github.com/fystack/lottery-genius/pkg/common/enum"
)

const (
	CaixaLotofacilURL  = "https://servicebus2.caixa.gov.br/portaldeloterias/api/lotofacil"
	MirrorLotofacilURL = "https://raw.githubusercontent.com/guilhermeasn/loteria.json/master/data/lotofacil.json"

	// The official API rejects requests without browser-like headers.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
)

// Default returns the configuration used for every field the file leaves empty.
func Default() Config {
	return Config{
		Environment: DevEnv,
		Version:     "1.0.0",
		Log:         LogConfig{Level: "info"},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Source: SourceConfig{
			Type: enum.SourceTypeCaixa,
			Caixa: EndpointConfig{Nodes: []Node{{
				URL: CaixaLotofacilURL,
				Headers: map[string]string{
					"accept":     "application/json",
					"user-agent": browserUserAgent,
				},
			}}},
			Mirror: EndpointConfig{Nodes: []Node{{
				URL:     MirrorLotofacilURL,
				Headers: map[string]string{"accept": "application/json"},
			}}},
			Client: ClientConfig{
				Timeout:      constant.DefaultUpstreamTimeout,
				MaxRetries:   constant.DefaultRetryAttempts,
				RetryDelay:   constant.DefaultRetryDelay,
				NodeCooldown: 30 * time.Second,
				Concurrency:  4,
				Throttle:     ThrottleCfg{RPS: 5, Burst: 5},
			},
		},
		History: HistoryConfig{Window: constant.DefaultHistoryWindow},
		Generator: GeneratorConfig{
			DefaultTickets:  10,
			DownloadTickets: 20,
			DefaultSize:     15,
			Oversample:      2,
		},
		Cache: CacheConfig{
			Backend: enum.CacheBackendMemory,
			TTL:     constant.DefaultCacheTTL,
			Key:     constant.SnapshotCacheKey,
			Prefix:  constant.ServiceName,
		},
		Nats: NatsConfig{
			URL:           "nats://127.0.0.1:4222",
			SubjectPrefix: "lotofacil",
		},
	}
}
