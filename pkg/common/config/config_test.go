package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fystack/lottery-genius/pkg/common/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_EmptyUsesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("env: dev\n"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, enum.SourceTypeCaixa, cfg.Source.Type)
	assert.Equal(t, 10*time.Second, cfg.Source.Client.Timeout)
	assert.Equal(t, 3, cfg.Source.Client.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Source.Client.RetryDelay)
	assert.Equal(t, 10, cfg.History.Window)
	assert.Equal(t, enum.CacheBackendMemory, cfg.Cache.Backend)
	assert.Equal(t, []string{CaixaLotofacilURL}, cfg.Source.Active().URLs())
	assert.Equal(t, "application/json", cfg.Source.Caixa.Headers(CaixaLotofacilURL)["accept"])
	assert.NotEmpty(t, cfg.Source.Caixa.Headers(CaixaLotofacilURL)["user-agent"])
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("MIRROR_TOKEN", "s3cr3t")

	raw := `
env: prod
server:
  port: 9090
source:
  type: mirror
  mirror:
    nodes:
      - url: https://mirror.example.com/lotofacil.json/
        headers:
          Authorization: "Bearer ${MIRROR_TOKEN}"
        query:
          ref: main
  client:
    timeout: 3s
    max_retries: 5
history:
  window: 25
cache:
  backend: badger
  ttl: 1m
`
	cfg, err := Parse([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, ProdEnv, cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, enum.SourceTypeMirror, cfg.Source.Type)

	nodes := cfg.Source.Active().Nodes
	require.Len(t, nodes, 1)
	assert.Equal(t, "https://mirror.example.com/lotofacil.json?ref=main", nodes[0].URL)
	assert.Equal(t, "Bearer s3cr3t", nodes[0].Headers["authorization"])

	assert.Equal(t, 3*time.Second, cfg.Source.Client.Timeout)
	assert.Equal(t, 5, cfg.Source.Client.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Source.Client.RetryDelay, "unset fields keep defaults")
	assert.Equal(t, 25, cfg.History.Window)
	assert.Equal(t, enum.CacheBackendBadger, cfg.Cache.Backend)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)
}

func TestParse_ExplicitZeroIsKept(t *testing.T) {
	raw := `
env: dev
source:
  client:
    retry_delay: 0s
cache:
  ttl: 0s
`
	cfg, err := Parse([]byte(raw))
	require.NoError(t, err)

	assert.Zero(t, cfg.Source.Client.RetryDelay)
	assert.Zero(t, cfg.Cache.TTL)
	assert.Equal(t, 3, cfg.Source.Client.MaxRetries)
	assert.Equal(t, []string{CaixaLotofacilURL}, cfg.Source.Active().URLs())
}

func TestFinalize_FillsZeroFields(t *testing.T) {
	cfg, err := Finalize(Config{Server: ServerConfig{Port: 9000}})
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, DevEnv, cfg.Environment)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 2*time.Second, cfg.Source.Client.RetryDelay)
}

func TestParse_ValidationErrors(t *testing.T) {
	cases := map[string]string{
		"bad env":         "env: qa\n",
		"bad source":      "env: dev\nsource:\n  type: ftp\n",
		"bad port":        "env: dev\nserver:\n  port: 70000\n",
		"bad node url":    "env: dev\nsource:\n  caixa:\n    nodes:\n      - url: not-a-url\n",
		"redis no url":    "env: dev\ncache:\n  backend: redis\n",
		"bad ticket size": "env: dev\ngenerator:\n  default_size: 30\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: stag\nserver:\n  port: 8181\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StgEnv, cfg.Environment)
	assert.Equal(t, 8181, cfg.Server.Port)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
