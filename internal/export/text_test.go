package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fystack/lottery-genius/internal/lottery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTickets(t *testing.T) {
	tickets := []lottery.Ticket{
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
		{3, 5, 7, 9, 11, 13, 15, 17, 19, 20, 21, 22, 23, 24, 25},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTickets(&buf, tickets))

	want := "Lottery Genius - Jogos gerados\n\n" +
		"Jogo 01: 01,02,03,04,05,06,07,08,09,10,11,12,13,14,15\n" +
		"Jogo 02: 03,05,07,09,11,13,15,17,19,20,21,22,23,24,25\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTickets_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTickets(&buf, nil))
	assert.Equal(t, "Lottery Genius - Jogos gerados\n\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteTickets_WriterError(t *testing.T) {
	err := WriteTickets(failingWriter{}, []lottery.Ticket{{1}})
	assert.EqualError(t, err, "disk full")
}

func TestContentDisposition(t *testing.T) {
	assert.Equal(t, "attachment; filename=jogos_lottery_genius.txt", ContentDisposition())
}
