package keiba

import (
	"errors"
	"fmt"
)

var ErrInvalidRace = errors.New("invalid race parameters")

// FetchError indica resposta não-2xx da fonte de resultados.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch race data: status code %d", e.StatusCode)
}

// ParseError indica um valor numérico malformado na tabela de pagamentos.
type ParseError struct {
	BetType string
	Text    string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse payout amount %q (%s): %v", e.Text, e.BetType, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// WarningKind classifica condições não fatais da reconciliação.
type WarningKind string

const (
	WarnAlignment        WarningKind = "alignment"
	WarnEmptyCombination WarningKind = "empty_combination"
	WarnUnknownBetType   WarningKind = "unknown_bet_type"
	WarnNoRecords        WarningKind = "no_records"
)

type Warning struct {
	Kind   WarningKind `json:"kind"`
	Index  int         `json:"index"`
	Detail string      `json:"detail,omitempty"`
}
