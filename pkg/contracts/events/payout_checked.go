package events

import "time"

// Evento publicado no tópico "payout_checked" após uma reconciliação com sucesso.
type PayoutChecked struct {
	CheckID      string    `json:"check_id"`
	UserID       string    `json:"user_id"`
	RaceID       string    `json:"race_id"`
	BetType      string    `json:"bet_type"`
	Payout       string    `json:"payout"` // decimal em string, sem perda
	TotalStake   string    `json:"total_stake"`
	ProfitOrLoss string    `json:"profit_or_loss"`
	Matched      int       `json:"matched"`
	Ts           time.Time `json:"ts"`
}

// Won indica se alguma combinação foi paga.
func (e PayoutChecked) Won() bool { return e.Matched > 0 }
