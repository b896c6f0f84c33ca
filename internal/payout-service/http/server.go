package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/radieske/race-payout-reconciler/internal/payout-service/checker"
	"github.com/radieske/race-payout-reconciler/internal/payout-service/dto"
	"github.com/radieske/race-payout-reconciler/internal/payout-service/keiba"
	"github.com/radieske/race-payout-reconciler/internal/payout-service/repo"
)

// Checker executa a reconciliação de uma aposta.
type Checker interface {
	Check(ctx context.Context, req dto.CheckPayoutRequest) (*checker.Outcome, error)
}

// History é o lado de leitura do histórico de apostas.
type History interface {
	ListBets(ctx context.Context, userID string, limit int) ([]repo.Bet, error)
	DailyProfit(ctx context.Context, userID string, from, to time.Time) ([]repo.DailyProfit, error)
}

// ProfitCache guarda respostas de /daily_profit.
type ProfitCache interface {
	Get(ctx context.Context, userID, rangeKey string, dst any) (bool, error)
	Set(ctx context.Context, userID, rangeKey string, v any) error
}

type Server struct {
	log            *zap.Logger
	checker        Checker
	history        History
	cache          ProfitCache
	ws             http.Handler
	allowedOrigins []string
}

func NewServer(log *zap.Logger, c Checker, h History, pc ProfitCache, ws http.Handler, origins []string) *Server {
	return &Server{log: log, checker: c, history: h, cache: pc, ws: ws, allowedOrigins: origins}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/health", s.health)
		r.Post("/check_payout", s.checkPayout)
		r.Get("/daily_profit", s.dailyProfit)
		r.Get("/bets", s.listBets)
	})
	if s.ws != nil {
		r.Handle("/ws", s.ws)
	}
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) checkPayout(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckPayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "bad json: " + err.Error()})
		return
	}

	out, err := s.checker.Check(r.Context(), req)
	if err != nil {
		writeJSON(w, statusFor(err), dto.ErrorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, dto.CheckPayoutResponse{
		Success:        true,
		Payout:         checker.Float(out.Result.TotalPayout),
		TotalBetAmount: checker.Float(out.Result.TotalStake),
		ProfitOrLoss:   checker.Float(out.Result.ProfitOrLoss),
	})
}

// statusFor mapeia erros fatais para o status HTTP
func statusFor(err error) int {
	var fe *keiba.FetchError
	switch {
	case errors.Is(err, checker.ErrInvalidInput), errors.Is(err, keiba.ErrInvalidRace):
		return http.StatusBadRequest
	case errors.As(err, &fe):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

const dateLayout = "2006-01-02"

func (s *Server) dailyProfit(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "userId required"})
		return
	}

	// intervalo padrão: últimos 30 dias
	to := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	from := to.AddDate(0, 0, -30)
	var err error
	if v := r.URL.Query().Get("from"); v != "" {
		if from, err = time.Parse(dateLayout, v); err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid from"})
			return
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid to"})
			return
		}
		to = t.AddDate(0, 0, 1) // inclusivo
	}

	rangeKey := from.Format(dateLayout) + ":" + to.Format(dateLayout)
	var cached dto.DailyProfitResponse
	if s.cache != nil {
		ok, err := s.cache.Get(r.Context(), userID, rangeKey, &cached)
		if err != nil {
			s.log.Warn("profit cache get", zap.String("user_id", userID), zap.Error(err))
		} else if ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	days, err := s.history.DailyProfit(r.Context(), userID, from, to)
	if err != nil {
		s.log.Error("daily profit", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	resp := dto.DailyProfitResponse{UserID: userID, Days: make([]dto.DailyProfit, 0, len(days))}
	for _, d := range days {
		resp.Days = append(resp.Days, dto.DailyProfit{
			Date:              d.Day.Format(dateLayout),
			TotalPayout:       d.Payout.InexactFloat64(),
			TotalProfitOrLoss: d.ProfitOrLoss.InexactFloat64(),
			Bets:              d.Bets,
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(r.Context(), userID, rangeKey, resp); err != nil {
			s.log.Warn("profit cache set", zap.String("user_id", userID), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listBets(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "userId required"})
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}

	bets, err := s.history.ListBets(r.Context(), userID, limit)
	if err != nil {
		s.log.Error("list bets", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	out := make([]dto.BetHistoryItem, 0, len(bets))
	for _, b := range bets {
		out = append(out, dto.BetHistoryItem{
			ID:           b.ID,
			Name:         b.Name,
			Amount:       b.Amount.InexactFloat64(),
			ProfitOrLoss: b.ProfitOrLoss.InexactFloat64(),
			DateInfo:     b.DateInfo,
			Location:     b.Location,
			RaceNumber:   b.RaceNumber,
			Round:        b.Round,
			CreatedAt:    b.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
