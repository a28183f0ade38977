// Package events publishes draw and ticket activity to NATS for downstream
// consumers. Nothing in the request path depends on delivery.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fystack/lottery-genius/internal/lottery"
	"github.com/fystack/lottery-genius/pkg/common/config"
	"github.com/fystack/lottery-genius/pkg/common/constant"
	"github.com/fystack/lottery-genius/pkg/infra"
)

const (
	TypeDrawLatest       = "draw.latest"
	TypeTicketsGenerated = "tickets.generated"
)

type Event struct {
	Type      string `json:"type"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

// TicketBatch describes one generation request.
type TicketBatch struct {
	Contest int              `json:"concurso"`
	Size    int              `json:"dezenas_por_jogo"`
	Tickets []lottery.Ticket `json:"jogos"`
	Channel string           `json:"canal"`
}

type Emitter interface {
	EmitDraw(draw lottery.Draw) error
	EmitTickets(batch TicketBatch) error
	Close()
}

// Publisher is the subset of *nats.Conn the emitter uses.
type Publisher interface {
	Publish(subject string, data []byte) error
	Close()
}

type emitter struct {
	pub           Publisher
	subjectPrefix string
	now           func() time.Time
}

func NewEmitter(pub Publisher, subjectPrefix string) Emitter {
	return &emitter{pub: pub, subjectPrefix: subjectPrefix, now: time.Now}
}

// NewFromConfig connects to NATS when enabled and returns a no-op emitter
// otherwise.
func NewFromConfig(cfg config.NatsConfig) (Emitter, error) {
	if !cfg.Enabled {
		return Noop{}, nil
	}
	conn, err := infra.GetNATSConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return NewEmitter(conn, cfg.SubjectPrefix), nil
}

func (e *emitter) EmitDraw(draw lottery.Draw) error {
	return e.emit(constant.SubjectDrawLatest, Event{
		Type:      TypeDrawLatest,
		Data:      draw,
		Timestamp: e.now().UTC().Unix(),
	})
}

func (e *emitter) EmitTickets(batch TicketBatch) error {
	return e.emit(constant.SubjectTicketsGenerated, Event{
		Type:      TypeTicketsGenerated,
		Data:      batch,
		Timestamp: e.now().UTC().Unix(),
	})
}

func (e *emitter) emit(suffix string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return e.pub.Publish(Subject(e.subjectPrefix, suffix), data)
}

func (e *emitter) Close() {
	if e.pub != nil {
		e.pub.Close()
	}
}

// Subject joins the configured prefix and an event suffix.
func Subject(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	return prefix + "." + suffix
}

// Noop drops every event.
type Noop struct{}

func (Noop) EmitDraw(lottery.Draw) error    { return nil }
func (Noop) EmitTickets(TicketBatch) error { return nil }
func (Noop) Close()                        {}
