package dto

import "time"

// CheckPayoutResponse segue o contrato do cliente: success + totais ou error.
type CheckPayoutResponse struct {
	Success        bool     `json:"success"`
	Payout         *float64 `json:"payout,omitempty"`
	TotalBetAmount *float64 `json:"total_bet_amount,omitempty"`
	ProfitOrLoss   *float64 `json:"profit_or_loss,omitempty"`
	Error          string   `json:"error,omitempty"`
}

type DailyProfit struct {
	Date              string  `json:"date"` // YYYY-MM-DD
	TotalPayout       float64 `json:"total_payout"`
	TotalProfitOrLoss float64 `json:"total_profit_or_loss"`
	Bets              int     `json:"bets"`
}

type DailyProfitResponse struct {
	UserID string        `json:"userId"`
	Days   []DailyProfit `json:"days"`
}

type BetHistoryItem struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Amount       float64   `json:"amount"`
	ProfitOrLoss float64   `json:"profit_or_loss"`
	DateInfo     string    `json:"date_info"`
	Location     string    `json:"location"`
	RaceNumber   string    `json:"race_number"`
	Round        string    `json:"round"`
	CreatedAt    time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
