package upstream

import (
	"context"
	"strconv"

	"github.com/fystack/lottery-genius/internal/lottery"
	"github.com/fystack/lottery-genius/pkg/common/logger"
	"github.com/tidwall/gjson"
)

// CaixaSource reads the official lottery-authority API:
// GET {base} for the latest contest and GET {base}/{n} for contest n.
type CaixaSource struct {
	client *Client
}

func NewCaixaSource(client *Client) *CaixaSource {
	return &CaixaSource{client: client}
}

func (s *CaixaSource) Name() string { return s.client.Source() }

func (s *CaixaSource) Stats() map[string]any { return s.client.Stats() }

func (s *CaixaSource) Latest(ctx context.Context) (lottery.Draw, error) {
	data, err := s.client.Get(ctx, "latest", "")
	if err != nil {
		return lottery.Draw{}, err
	}
	return parseCaixaDraw(s.Name(), "latest", data)
}

func (s *CaixaSource) Contest(ctx context.Context, contest int) (lottery.Draw, error) {
	op := "contest " + strconv.Itoa(contest)
	data, err := s.client.Get(ctx, op, strconv.Itoa(contest))
	if err != nil {
		return lottery.Draw{}, err
	}
	return parseCaixaDraw(s.Name(), op, data)
}

func parseCaixaDraw(source, op string, data []byte) (lottery.Draw, error) {
	if !gjson.ValidBytes(data) {
		return lottery.Draw{}, malformed(source, op, "invalid JSON")
	}
	doc := gjson.ParseBytes(data)

	contest, ok := parseInt(doc.Get("numero"))
	if !ok || contest <= 0 {
		return lottery.Draw{}, malformed(source, op, "missing contest number")
	}

	raw := doc.Get("listaDezenas")
	if len(raw.Array()) == 0 {
		raw = doc.Get("dezenasSorteadasOrdemSorteio")
	}
	numbers, skipped := parseNumbers(raw)
	if skipped > 0 {
		logger.Debug("Skipped malformed draw numbers", "source", source, "contest", contest, "skipped", skipped)
	}
	if len(numbers) == 0 {
		return lottery.Draw{}, malformed(source, op, "contest %d has no numbers", contest)
	}

	draw := lottery.NewDraw(contest, doc.Get("dataApuracao").String(), numbers)
	draw.NextContestDate = doc.Get("dataProximoConcurso").String()
	draw.Accumulated = doc.Get("acumulado").Bool()
	draw.EstimatedNextPrize = parseDecimal(doc.Get("valorEstimadoProximoConcurso"))

	doc.Get("listaRateioPremio").ForEach(func(_, tier gjson.Result) bool {
		faixa, _ := parseInt(tier.Get("faixa"))
		winners, _ := parseInt(tier.Get("numeroDeGanhadores"))
		draw.Prizes = append(draw.Prizes, lottery.PrizeTier{
			Tier:        faixa,
			Description: tier.Get("descricaoFaixa").String(),
			Winners:     winners,
			Amount:      parseDecimal(tier.Get("valorPremio")),
		})
		return true
	})

	return draw, nil
}
