package keiba

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Seletores da página de resultado.
const (
	selPayBlock = "dl.pay_block"
	selTable    = "table"
	selRow      = "tr"
	selHeader   = "th"
	selCell     = "td"
)

// Extractor lê a tabela de pagamentos de uma corrida.
type Extractor struct {
	Source Source
	Parse  ParseFunc
	Log    *zap.Logger
}

func NewExtractor(src Source, parse ParseFunc, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{Source: src, Parse: parse, Log: log}
}

// Extract busca o documento da corrida e devolve os registros em ordem de documento.
// Ausência do bloco de pagamentos não é erro: a corrida pode ainda não ter resultado.
func (x *Extractor) Extract(ctx context.Context, p RaceParams) ([]PayoutRecord, error) {
	raceID, err := p.RaceID()
	if err != nil {
		return nil, err
	}

	body, err := x.Source.Fetch(ctx, raceID)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	root, err := x.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse race document %s: %w", raceID, err)
	}

	records, err := ExtractRecords(root)
	if err != nil {
		return nil, err
	}
	if records == nil {
		x.Log.Warn("no payout block found", zap.String("race_id", raceID))
		return []PayoutRecord{}, nil
	}
	x.Log.Debug("payouts extracted", zap.String("race_id", raceID), zap.Int("records", len(records)))
	return records, nil
}

// ExtractRecords percorre o bloco de pagamentos de um documento já parseado.
// Retorna nil (sem erro) quando o bloco não existe.
func ExtractRecords(root Element) ([]PayoutRecord, error) {
	block, ok := root.First(selPayBlock)
	if !ok {
		return nil, nil
	}

	out := []PayoutRecord{}
	for _, table := range block.Find(selTable) {
		for _, row := range table.Find(selRow) {
			th, ok := row.First(selHeader)
			if !ok {
				continue // linha decorativa
			}
			betType := strings.TrimSpace(th.Text())

			cols := row.Find(selCell)
			if len(cols) < 2 {
				continue
			}

			var combos, amounts []string
			switch {
			case betType == Trifecta:
				combos = cols[0].Lines()
				for i, c := range combos {
					c = strings.ReplaceAll(c, " ", "")
					combos[i] = strings.ReplaceAll(c, "-", arrow)
				}
				amounts = cols[1].Lines()
			case multiLine(betType):
				combos = cols[0].Lines()
				amounts = cols[1].Lines()
			default:
				combos = []string{strings.TrimSpace(cols[0].Text())}
				amounts = []string{strings.TrimSpace(cols[1].Text())}
			}

			// pares sem correspondente posicional são descartados
			n := len(combos)
			if len(amounts) < n {
				n = len(amounts)
			}
			for i := 0; i < n; i++ {
				if strings.TrimSpace(combos[i]) == "" || strings.TrimSpace(amounts[i]) == "" {
					continue
				}
				amt, err := ParseAmount(amounts[i])
				if err != nil {
					return nil, &ParseError{BetType: betType, Text: amounts[i], Err: err}
				}
				out = append(out, PayoutRecord{
					BetType:     betType,
					Combination: strings.TrimSpace(combos[i]),
					Amount:      amt,
				})
			}
		}
	}
	return out, nil
}

var amountCleaner = strings.NewReplacer(",", "", "¥", "", "￥", "", "円", "", " ", "", "\u00a0", "")

// ParseAmount converte "1,230円" / "¥1,230" em 1230. Pagamentos são sempre positivos.
func ParseAmount(s string) (int64, error) {
	n, err := strconv.ParseInt(amountCleaner.Replace(strings.TrimSpace(s)), 10, 64)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("non-positive amount %d", n)
	}
	return n, nil
}
