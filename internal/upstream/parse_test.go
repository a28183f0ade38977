package upstream

import (
	"errors"
	"testing"

	"github.com/fystack/lottery-genius/internal/lottery"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const caixaPayload = `{
	"numero": 3000,
	"dataApuracao": "16/01/2024",
	"listaDezenas": ["01","02","03","04","05","06","07","08","09","10","11","12","13","14","xx", 25],
	"acumulado": true,
	"dataProximoConcurso": "17/01/2024",
	"valorEstimadoProximoConcurso": 1700000.0,
	"listaRateioPremio": [
		{"faixa": 1, "descricaoFaixa": "15 acertos", "numeroDeGanhadores": 2, "valorPremio": 850000.55},
		{"faixa": 2, "descricaoFaixa": "14 acertos", "numeroDeGanhadores": 310, "valorPremio": "1520.10"}
	]
}`

func TestParseCaixaDraw(t *testing.T) {
	draw, err := parseCaixaDraw("caixa", "latest", []byte(caixaPayload))
	require.NoError(t, err)

	assert.Equal(t, 3000, draw.Contest)
	assert.Equal(t, "16/01/2024", draw.Date)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 25}, draw.Numbers)
	assert.True(t, draw.Accumulated)
	assert.Equal(t, "17/01/2024", draw.NextContestDate)
	assert.True(t, draw.EstimatedNextPrize.Equal(decimal.NewFromInt(1700000)))

	require.Len(t, draw.Prizes, 2)
	assert.Equal(t, 1, draw.Prizes[0].Tier)
	assert.Equal(t, 2, draw.Prizes[0].Winners)
	assert.True(t, draw.Prizes[0].Amount.Equal(decimal.RequireFromString("850000.55")))
	assert.True(t, draw.Prizes[1].Amount.Equal(decimal.RequireFromString("1520.10")))
}

func TestParseCaixaDraw_FallsBackToDrawOrder(t *testing.T) {
	payload := `{"numero": 12, "dezenasSorteadasOrdemSorteio": ["15","03","09","01","02","04","05","06","07","08","10","11","12","13","14"]}`

	draw, err := parseCaixaDraw("caixa", "contest 12", []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, lottery.Universe()[:15], draw.Numbers)
	assert.Empty(t, draw.Date)
	assert.True(t, draw.EstimatedNextPrize.IsZero())
}

func TestParseCaixaDraw_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":       `<html>blocked</html>`,
		"missing number": `{"listaDezenas": ["01"]}`,
		"no numbers":     `{"numero": 10, "listaDezenas": ["a", "b"]}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseCaixaDraw("caixa", "latest", []byte(payload))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUpstream))
			assert.False(t, IsTransient(err))
		})
	}
}

func TestParseMirrorDocument(t *testing.T) {
	payload := `{
		"1": [2,3,5,6,9,10,11,13,14,16,18,20,23,24,25],
		"3": {"dezenas": ["01","04","05","06","07","09","11","12","13","15","16","19","20","23","24"], "data": "05/10/2003"},
		"2": [1,2,3,4,5,6,7,8,9,10,11,12,13,14,"bad"],
		"x": [1,2,3],
		"4": []
	}`

	draws, err := parseMirrorDocument("mirror", "latest", []byte(payload))
	require.NoError(t, err)
	require.Len(t, draws, 3)

	assert.Equal(t, []int{1, 2, 3}, []int{draws[0].Contest, draws[1].Contest, draws[2].Contest})
	assert.Len(t, draws[1].Numbers, 14)
	assert.Equal(t, "05/10/2003", draws[2].Date)
	assert.Empty(t, draws[0].Date)
}

func TestParseMirrorDocument_Malformed(t *testing.T) {
	for _, payload := range []string{`[1,2,3]`, `{}`, `oops`} {
		_, err := parseMirrorDocument("mirror", "latest", []byte(payload))
		assert.ErrorIs(t, err, ErrUpstream, payload)
	}
}
