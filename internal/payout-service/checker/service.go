package checker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/race-payout-reconciler/internal/payout-service/dto"
	"github.com/radieske/race-payout-reconciler/internal/payout-service/keiba"
	"github.com/radieske/race-payout-reconciler/internal/payout-service/metrics"
	"github.com/radieske/race-payout-reconciler/internal/payout-service/repo"
	"github.com/radieske/race-payout-reconciler/pkg/contracts/events"
)

// ErrInvalidInput indica payload inconsistente (campos obrigatórios ausentes).
var ErrInvalidInput = errors.New("invalid input data")

// Extractor produz a tabela de pagamentos de uma corrida.
type Extractor interface {
	Extract(ctx context.Context, p keiba.RaceParams) ([]keiba.PayoutRecord, error)
}

// BetStore é o destino da persistência após uma reconciliação bem-sucedida.
type BetStore interface {
	SaveBet(ctx context.Context, b *repo.Bet) (string, error)
}

type Publisher interface {
	PublishPayoutChecked(ctx context.Context, e events.PayoutChecked) error
}

// CacheInvalidator descarta resumos de lucro em cache de um usuário.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// Service executa o fluxo: extrair -> reconciliar -> persistir -> publicar.
type Service struct {
	log        *zap.Logger
	extractor  Extractor
	reconciler *keiba.Reconciler
	store      BetStore
	publ       Publisher
	cache      CacheInvalidator
	metrics    *metrics.Metrics
}

// Option configura dependências opcionais do Service.
type Option func(*Service)

func WithPublisher(p Publisher) Option { return func(s *Service) { s.publ = p } }

func WithCache(c CacheInvalidator) Option { return func(s *Service) { s.cache = c } }

func WithMetrics(m *metrics.Metrics) Option { return func(s *Service) { s.metrics = m } }

func New(log *zap.Logger, x Extractor, store BetStore, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		log:        log,
		extractor:  x,
		reconciler: keiba.NewReconciler(log),
		store:      store,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Outcome é o resultado de Check, pronto para persistência/resposta.
type Outcome struct {
	RaceID string
	BetID  string
	Result keiba.Result
}

// Check reconcilia a aposta com a tabela oficial e persiste o registro.
// Qualquer erro retornado é fatal: nada é persistido nem publicado.
func (s *Service) Check(ctx context.Context, req dto.CheckPayoutRequest) (*Outcome, error) {
	if req.UserID == "" || req.Name == "" {
		return nil, s.fail(fmt.Errorf("%w: userId and name are required", ErrInvalidInput))
	}

	params := req.RaceParams()
	raceID, err := params.RaceID()
	if err != nil {
		return nil, s.fail(err)
	}

	records, err := s.extractor.Extract(ctx, params)
	if err != nil {
		var fe *keiba.FetchError
		if errors.As(err, &fe) && s.metrics != nil {
			s.metrics.FetchFailures.Inc()
		}
		return nil, s.fail(err)
	}
	if s.metrics != nil {
		s.metrics.Records.Observe(float64(len(records)))
	}

	res := s.reconciler.Reconcile(records, req.Name, req.KeibaCombinations(), req.Stakes())
	s.log.Info("payout calculated",
		zap.String("race_id", raceID),
		zap.String("user_id", string(req.UserID)),
		zap.String("bet_type", req.Name),
		zap.String("payout", res.TotalPayout.String()),
		zap.String("total_bet", res.TotalStake.String()),
		zap.String("profit_or_loss", res.ProfitOrLoss.String()),
	)

	betID, err := s.store.SaveBet(ctx, &repo.Bet{
		UserID:       string(req.UserID),
		Name:         req.Name,
		Amount:       res.TotalPayout,
		Comment:      fmt.Sprintf("収支計算: %s円", res.ProfitOrLoss.String()),
		ProfitOrLoss: res.ProfitOrLoss,
		DateInfo:     string(req.DayCount),
		Location:     string(req.Place),
		RaceNumber:   string(req.Race),
		Round:        string(req.Round),
	})
	if err != nil {
		return nil, s.fail(err)
	}

	s.afterSave(ctx, betID, raceID, string(req.UserID), req.Name, res)

	if s.metrics != nil {
		result := "lost"
		if res.Matched > 0 {
			result = "won"
		}
		s.metrics.Checks.WithLabelValues(result).Inc()
		s.metrics.PayoutTotal.Add(res.TotalPayout.InexactFloat64())
	}
	return &Outcome{RaceID: raceID, BetID: betID, Result: res}, nil
}

// afterSave executa os efeitos best-effort; falhas são apenas logadas.
func (s *Service) afterSave(ctx context.Context, betID, raceID, userID, betType string, res keiba.Result) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.log.Warn("profit cache invalidate", zap.Error(err))
		}
	}

	ev := events.PayoutChecked{
		CheckID:      betID,
		UserID:       userID,
		RaceID:       raceID,
		BetType:      betType,
		Payout:       res.TotalPayout.String(),
		TotalStake:   res.TotalStake.String(),
		ProfitOrLoss: res.ProfitOrLoss.String(),
		Matched:      res.Matched,
		Ts:           time.Now().UTC(),
	}
	if s.publ != nil {
		if err := s.publ.PublishPayoutChecked(ctx, ev); err != nil {
			s.log.Warn("publish payout_checked", zap.String("check_id", betID), zap.Error(err))
		}
	}
}

func (s *Service) fail(err error) error {
	s.log.Error("check payout", zap.Error(err))
	if s.metrics != nil {
		s.metrics.Checks.WithLabelValues("error").Inc()
	}
	return err
}

// Float converte um decimal para o JSON de resposta.
func Float(d decimal.Decimal) *float64 {
	f := d.InexactFloat64()
	return &f
}
