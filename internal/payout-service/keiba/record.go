package keiba

import (
	"fmt"
	"strconv"
	"strings"
)

// PayoutRecord é uma linha da tabela oficial de pagamentos.
type PayoutRecord struct {
	BetType     string `json:"bet_type"`
	Combination string `json:"combination"` // texto como aparece na tabela
	Amount      int64  `json:"amount"`      // pagamento para 100 ienes
}

// RaceParams identifica uma corrida como o cliente envia (ex: round "3回", dayCount "2日").
type RaceParams struct {
	Year     string
	Venue    string
	Round    string
	DayCount string
	Race     string
}

// RaceID monta o identificador canônico {year}{venue:2}{round:2}{day:2}{race:2}.
func (p RaceParams) RaceID() (string, error) {
	year, err := digits("year", p.Year)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(year)
	for _, f := range []struct{ name, v string }{
		{"venue", p.Venue},
		{"round", p.Round},
		{"dayCount", p.DayCount},
		{"race", p.Race},
	} {
		d, err := digits(f.name, f.v)
		if err != nil {
			return "", err
		}
		n, err := strconv.Atoi(d)
		if err != nil {
			return "", fmt.Errorf("%w: %s=%q", ErrInvalidRace, f.name, f.v)
		}
		fmt.Fprintf(&b, "%02d", n)
	}
	return b.String(), nil
}

func digits(name, s string) (string, error) {
	out := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		// dígitos de largura total ("３回")
		if r >= '０' && r <= '９' {
			return '0' + (r - '０')
		}
		return -1
	}, s)
	if out == "" {
		return "", fmt.Errorf("%w: %s=%q", ErrInvalidRace, name, s)
	}
	return out, nil
}
