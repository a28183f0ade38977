package upstream

import (
	"context"
	"fmt"

	"github.com/fystack/lottery-genius/internal/lottery"
	"github.com/fystack/lottery-genius/pkg/common/config"
	"github.com/fystack/lottery-genius/pkg/common/enum"
)

// Source adapts one remote data provider to the internal Draw schema.
type Source interface {
	Name() string
	Latest(ctx context.Context) (lottery.Draw, error)
	Contest(ctx context.Context, contest int) (lottery.Draw, error)
}

// RangeSource is implemented by sources that serve many contests in one
// response. Range returns the contests in [first, last] it knows about,
// ordered by contest.
type RangeSource interface {
	Source
	Range(ctx context.Context, first, last int) ([]lottery.Draw, error)
}

// NewSource builds the adapter selected by cfg.Type.
func NewSource(cfg config.SourceConfig) (Source, error) {
	switch cfg.Type {
	case enum.SourceTypeCaixa:
		return NewCaixaSource(NewClient(string(enum.SourceTypeCaixa), cfg.Caixa, cfg.Client)), nil
	case enum.SourceTypeMirror:
		return NewMirrorSource(NewClient(string(enum.SourceTypeMirror), cfg.Mirror, cfg.Client)), nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", cfg.Type)
	}
}
