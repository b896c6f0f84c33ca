package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Postgres implementa a persistência do histórico de apostas
type Postgres struct{ db *sql.DB }

// NewPostgres retorna uma instância do repositório de apostas
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// SaveBet insere um registro de reconciliação e devolve o id gerado
func (p *Postgres) SaveBet(ctx context.Context, b *Bet) (string, error) {
	id := uuid.NewString()
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO bets (id,user_id,name,amount,comment,profit_or_loss,date_info,location,race_number,round)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		id, b.UserID, b.Name, b.Amount.String(), b.Comment, b.ProfitOrLoss.String(),
		b.DateInfo, b.Location, b.RaceNumber, b.Round,
	)
	if err != nil {
		return "", fmt.Errorf("insert bet: %w", err)
	}
	return id, nil
}

// ListBets retorna os registros mais recentes de um usuário
func (p *Postgres) ListBets(ctx context.Context, userID string, limit int) ([]Bet, error) {
	const q = `
		SELECT id, user_id, name, amount, COALESCE(comment,''), profit_or_loss,
		       COALESCE(date_info,''), COALESCE(location,''), COALESCE(race_number,''), COALESCE(round,''), created_at
		FROM bets
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := p.db.QueryContext(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Bet
	for rows.Next() {
		var b Bet
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.Comment, &b.ProfitOrLoss,
			&b.DateInfo, &b.Location, &b.RaceNumber, &b.Round, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// DailyProfit soma pagamento e lucro/prejuízo por dia no intervalo [from, to)
func (p *Postgres) DailyProfit(ctx context.Context, userID string, from, to time.Time) ([]DailyProfit, error) {
	const q = `
		SELECT date_trunc('day', created_at) AS day,
		       COALESCE(SUM(amount),0), COALESCE(SUM(profit_or_loss),0), COUNT(*)
		FROM bets
		WHERE user_id = $1 AND created_at >= $2 AND created_at < $3
		GROUP BY day
		ORDER BY day
	`
	rows, err := p.db.QueryContext(ctx, q, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DailyProfit
	for rows.Next() {
		var d DailyProfit
		if err := rows.Scan(&d.Day, &d.Payout, &d.ProfitOrLoss, &d.Bets); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
