package events

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fystack/lottery-genius/internal/lottery"
	"github.com/fystack/lottery-genius/pkg/common/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	msgs   []published
	err    error
	closed bool
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, published{subject: subject, data: data})
	return nil
}

func (f *fakePublisher) Close() { f.closed = true }

func fixedEmitter(pub Publisher, prefix string) *emitter {
	e := NewEmitter(pub, prefix).(*emitter)
	e.now = func() time.Time { return time.Unix(1705435200, 0) }
	return e
}

func TestEmitDraw(t *testing.T) {
	pub := &fakePublisher{}
	e := fixedEmitter(pub, "lotofacil")

	draw := lottery.NewDraw(3000, "16/01/2024", lottery.Universe()[:15])
	require.NoError(t, e.EmitDraw(draw))

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "lotofacil.draw.latest", pub.msgs[0].subject)

	var event struct {
		Type      string       `json:"type"`
		Data      lottery.Draw `json:"data"`
		Timestamp int64        `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(pub.msgs[0].data, &event))
	assert.Equal(t, TypeDrawLatest, event.Type)
	assert.Equal(t, 3000, event.Data.Contest)
	assert.Equal(t, draw.Numbers, event.Data.Numbers)
	assert.Equal(t, int64(1705435200), event.Timestamp)
}

func TestEmitTickets(t *testing.T) {
	pub := &fakePublisher{}
	e := fixedEmitter(pub, "")

	batch := TicketBatch{Contest: 3000, Size: 15, Tickets: []lottery.Ticket{lottery.Universe()[:15]}, Channel: "http"}
	require.NoError(t, e.EmitTickets(batch))

	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "tickets.generated", pub.msgs[0].subject)
	assert.Contains(t, string(pub.msgs[0].data), `"canal":"http"`)
}

func TestEmit_PublishError(t *testing.T) {
	boom := errors.New("nats: connection closed")
	e := NewEmitter(&fakePublisher{err: boom}, "x")
	assert.ErrorIs(t, e.EmitDraw(lottery.Draw{}), boom)
}

func TestClose(t *testing.T) {
	pub := &fakePublisher{}
	NewEmitter(pub, "x").Close()
	assert.True(t, pub.closed)
}

func TestNewFromConfig_Disabled(t *testing.T) {
	e, err := NewFromConfig(config.NatsConfig{Enabled: false})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, e)
	assert.NoError(t, e.EmitDraw(lottery.Draw{}))
	assert.NoError(t, e.EmitTickets(TicketBatch{}))
	e.Close()
}
