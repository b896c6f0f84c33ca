package keiba

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Combination é uma entrada da aposta: um ou mais números de cavalo.
type Combination []string

// Result agrega o resultado de uma reconciliação.
type Result struct {
	TotalPayout  decimal.Decimal
	TotalStake   decimal.Decimal
	ProfitOrLoss decimal.Decimal
	Matched      int
	Warnings     []Warning
}

// Reconciler compara as combinações apostadas com os registros oficiais.
type Reconciler struct {
	Log *zap.Logger
}

func NewReconciler(log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{Log: log}
}

// Reconcile soma pagamento e valor apostado. amounts[i] é o valor em combinations[i];
// entradas sem par são ignoradas. Cada registro que casar contribui (soma, não primeiro match).
func (r *Reconciler) Reconcile(records []PayoutRecord, betType string, combinations []Combination, amounts []int64) Result {
	betType = strings.TrimSpace(betType)
	res := Result{TotalPayout: decimal.Zero, TotalStake: decimal.Zero}

	var filtered []PayoutRecord
	for _, rec := range records {
		if rec.BetType == betType {
			filtered = append(filtered, rec)
		}
	}

	rule, known := RuleFor(betType)
	if !known {
		res.warn(r.Log, Warning{Kind: WarnUnknownBetType, Index: -1, Detail: betType})
	}
	if len(filtered) == 0 {
		res.warn(r.Log, Warning{Kind: WarnNoRecords, Index: -1, Detail: betType})
	}

	// forma canônica dos registros calculada uma vez
	canon := make([]string, len(filtered))
	if known {
		for i, rec := range filtered {
			canon[i] = rule.NormalizeText(rec.Combination)
		}
	}

	if len(combinations) != len(amounts) {
		res.warn(r.Log, Warning{
			Kind:   WarnAlignment,
			Index:  min(len(combinations), len(amounts)),
			Detail: "combinations and amounts differ in length",
		})
	}

	for i, combo := range combinations {
		if i >= len(amounts) {
			break
		}
		if len(combo) == 0 {
			res.warn(r.Log, Warning{Kind: WarnEmptyCombination, Index: i})
			continue
		}

		stake := decimal.NewFromInt(amounts[i])
		res.TotalStake = res.TotalStake.Add(stake)
		if !known {
			continue
		}

		key := rule.Normalize(combo)
		if key == "" {
			continue
		}
		for j, rec := range filtered {
			if canon[j] != key {
				continue
			}
			contrib := decimal.NewFromInt(rec.Amount).Mul(stake).Div(decimal.NewFromInt(unitStake))
			res.TotalPayout = res.TotalPayout.Add(contrib)
			res.Matched++
			r.Log.Debug("payout matched",
				zap.String("bet_type", betType),
				zap.String("combination", key),
				zap.String("contribution", contrib.String()),
			)
		}
	}

	res.ProfitOrLoss = res.TotalPayout.Sub(res.TotalStake)
	return res
}

func (res *Result) warn(log *zap.Logger, w Warning) {
	res.Warnings = append(res.Warnings, w)
	log.Warn("reconcile warning",
		zap.String("kind", string(w.Kind)),
		zap.Int("index", w.Index),
		zap.String("detail", w.Detail),
	)
}
