package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/race-payout-reconciler/internal/payout-service/keiba"
	"github.com/radieske/race-payout-reconciler/internal/payout-service/netkeiba"
	"github.com/radieske/race-payout-reconciler/internal/shared/logger"
)

// payout-check calcula o pagamento de uma aposta sem persistir nada.
//
//	payout-check -year 2024 -place 05 -round 3回 -day 2日 -race 11 -type 三連単 -combo 4-1-5 -combo 1-4-5 -amounts 100,100
func main() {
	var (
		year    = flag.String("year", "", "ano da corrida")
		place   = flag.String("place", "", "código do hipódromo")
		round   = flag.String("round", "", "rodada (ex: 3回)")
		day     = flag.String("day", "", "dia (ex: 2日)")
		race    = flag.String("race", "", "número da corrida")
		betType = flag.String("type", "", "tipo de aposta (ex: 単勝, 三連単)")
		amounts = flag.String("amounts", "", "valores apostados separados por vírgula")
		base    = flag.String("base-url", netkeiba.DefaultBaseURL, "URL base da fonte de resultados")
		timeout = flag.Duration("timeout", 15*time.Second, "timeout da busca")
		records = flag.Bool("records", false, "apenas lista a tabela de pagamentos")
		combos  multiFlag
	)
	flag.Var(&combos, "combo", "combinação (repetível), ex: 4-1-5")
	flag.Parse()

	log, err := logger.New("payout-check", "local")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	x := keiba.NewExtractor(netkeiba.New(*base, *timeout), netkeiba.Parse, log)
	recs, err := x.Extract(ctx, keiba.RaceParams{
		Year: *year, Venue: *place, Round: *round, DayCount: *day, Race: *race,
	})
	if err != nil {
		log.Fatal("extract", zap.Error(err))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if *records {
		_ = enc.Encode(recs)
		return
	}

	stakes, err := parseStakes(*amounts)
	if err != nil {
		log.Fatal("amounts", zap.Error(err))
	}
	cs := make([]keiba.Combination, len(combos))
	for i, c := range combos {
		cs[i] = keiba.SplitCombination(c)
	}

	res := keiba.NewReconciler(log).Reconcile(recs, *betType, cs, stakes)
	_ = enc.Encode(map[string]any{
		"payout":           res.TotalPayout.InexactFloat64(),
		"total_bet_amount": res.TotalStake.InexactFloat64(),
		"profit_or_loss":   res.ProfitOrLoss.InexactFloat64(),
		"matched":          res.Matched,
		"warnings":         res.Warnings,
	})
}

type multiFlag []string

func (m *multiFlag) String() string     { return strings.Join(*m, ",") }
func (m *multiFlag) Set(v string) error { *m = append(*m, v); return nil }

func parseStakes(s string) ([]int64, error) {
	var out []int64
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("amount %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}
