package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/radieske/race-payout-reconciler/internal/payout-service/keiba"
)

// CheckPayoutRequest é o payload de POST /api/check_payout.
type CheckPayoutRequest struct {
	Year         FlexString    `json:"year"`
	UserID       FlexString    `json:"userId"`
	DayCount     FlexString    `json:"dayCount"`
	Place        FlexString    `json:"place"` // código do hipódromo
	Race         FlexString    `json:"race"`
	Round        FlexString    `json:"round"`
	Combinations []Combination `json:"combinations"` // [["4","1","5"], ...] ou ["5", ...]
	Name         string        `json:"name"`         // tipo de aposta, ex: "三連単"
	Amounts      []Stake       `json:"amounts"`      // [500, 1000, ...]
}

// RaceParams extrai os parâmetros da corrida.
func (r CheckPayoutRequest) RaceParams() keiba.RaceParams {
	return keiba.RaceParams{
		Year:     string(r.Year),
		Venue:    string(r.Place),
		Round:    string(r.Round),
		DayCount: string(r.DayCount),
		Race:     string(r.Race),
	}
}

func (r CheckPayoutRequest) KeibaCombinations() []keiba.Combination {
	out := make([]keiba.Combination, len(r.Combinations))
	for i, c := range r.Combinations {
		out[i] = keiba.Combination(c)
	}
	return out
}

func (r CheckPayoutRequest) Stakes() []int64 {
	out := make([]int64, len(r.Amounts))
	for i, a := range r.Amounts {
		out[i] = int64(a)
	}
	return out
}

// FlexString aceita string ou número no JSON.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = FlexString(n.String())
	return nil
}

// Combination aceita "5", 5, "4-1-5", "4 → 1 → 5" ou ["4","1","5"] / [4,1,5].
type Combination []string

func (c *Combination) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*c = nil
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var raw []FlexString
		if err := json.Unmarshal(b, &raw); err != nil {
			return fmt.Errorf("combination: %w", err)
		}
		out := make(Combination, 0, len(raw))
		for _, r := range raw {
			if s := strings.TrimSpace(string(r)); s != "" {
				out = append(out, s)
			}
		}
		*c = out
		return nil
	}
	var s FlexString
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("combination: %w", err)
	}
	*c = keiba.SplitCombination(string(s))
	return nil
}

// Stake aceita número inteiro ou string numérica ("500").
type Stake int64

func (s *Stake) UnmarshalJSON(b []byte) error {
	var f FlexString
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	v := strings.TrimSpace(string(f))
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		// aceita 500.0 vindo de clientes JS
		fl, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil || fl != float64(int64(fl)) {
			return fmt.Errorf("amount %q: not an integer", v)
		}
		n = int64(fl)
	}
	*s = Stake(n)
	return nil
}
