// Package export renders generated tickets for download.
package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fystack/lottery-genius/internal/lottery"
)

const (
	TextHeader      = "Lottery Genius - Jogos gerados"
	TextFilename    = "jogos_lottery_genius.txt"
	TextContentType = "text/plain; charset=utf-8"
)

// WriteTickets writes the header, a blank line and one "Jogo NN: 01,02,..."
// line per ticket.
func WriteTickets(w io.Writer, tickets []lottery.Ticket) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s\n\n", TextHeader); err != nil {
		return err
	}
	for i, t := range tickets {
		if _, err := fmt.Fprintf(bw, "Jogo %02d: %s\n", i+1, t); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ContentDisposition is the header value that makes browsers save the file.
func ContentDisposition() string {
	return fmt.Sprintf("attachment; filename=%s", TextFilename)
}
