package repo

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bet é o registro de reconciliação persistido no Postgres.
type Bet struct {
	ID           string
	UserID       string
	Name         string          // tipo de aposta
	Amount       decimal.Decimal // pagamento total
	Comment      string
	ProfitOrLoss decimal.Decimal
	DateInfo     string
	Location     string
	RaceNumber   string
	Round        string
	CreatedAt    time.Time
}

// DailyProfit agrega as reconciliações de um usuário por dia.
type DailyProfit struct {
	Day          time.Time
	Payout       decimal.Decimal
	ProfitOrLoss decimal.Decimal
	Bets         int
}
