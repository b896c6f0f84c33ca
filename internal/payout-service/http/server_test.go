package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/radieske/race-payout-reconciler/internal/payout-service/checker"
	"github.com/radieske/race-payout-reconciler/internal/payout-service/dto"
	"github.com/radieske/race-payout-reconciler/internal/payout-service/keiba"
	"github.com/radieske/race-payout-reconciler/internal/payout-service/repo"
)

type stubChecker struct {
	out *checker.Outcome
	err error
	got dto.CheckPayoutRequest
}

func (s *stubChecker) Check(_ context.Context, req dto.CheckPayoutRequest) (*checker.Outcome, error) {
	s.got = req
	return s.out, s.err
}

type stubHistory struct {
	bets     []repo.Bet
	days     []repo.DailyProfit
	dayCalls int
	limit    int
}

func (s *stubHistory) ListBets(_ context.Context, _ string, limit int) ([]repo.Bet, error) {
	s.limit = limit
	return s.bets, nil
}

func (s *stubHistory) DailyProfit(_ context.Context, _ string, _, _ time.Time) ([]repo.DailyProfit, error) {
	s.dayCalls++
	return s.days, nil
}

type memCache struct{ m map[string][]byte }

func (c *memCache) Get(_ context.Context, userID, rangeKey string, dst any) (bool, error) {
	b, ok := c.m[userID+"|"+rangeKey]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) Set(_ context.Context, userID, rangeKey string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.m[userID+"|"+rangeKey] = b
	return nil
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string, string, any) (bool, error) {
	return false, errors.New("redis: connection refused")
}

func (brokenCache) Set(context.Context, string, string, any) error {
	return errors.New("redis: connection refused")
}

func newTestServer(c checker.Outcome, err error, h *stubHistory) (*httptest.Server, *stubChecker) {
	sc := &stubChecker{out: &c, err: err}
	if err != nil {
		sc.out = nil
	}
	s := NewServer(zap.NewNop(), sc, h, &memCache{m: map[string][]byte{}}, nil, []string{"http://localhost:3000"})
	return httptest.NewServer(s.Router()), sc
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestCheckPayoutOK(t *testing.T) {
	t.Parallel()

	srv, sc := newTestServer(checker.Outcome{Result: keiba.Result{
		TotalPayout:  decimal.NewFromInt(12340),
		TotalStake:   decimal.NewFromInt(100),
		ProfitOrLoss: decimal.NewFromInt(12240),
	}}, nil, &stubHistory{})
	defer srv.Close()

	body := `{"year":"2024","userId":"u-1","dayCount":"9日","place":"05","race":"11","round":"4回",
		"combinations":[["4","1","5"]],"name":"三連単","amounts":[100]}`
	resp, err := http.Post(srv.URL+"/api/check_payout", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode(t, resp)
	require.Equal(t, true, out["success"])
	require.Equal(t, 12340.0, out["payout"])
	require.Equal(t, 100.0, out["total_bet_amount"])
	require.Equal(t, 12240.0, out["profit_or_loss"])
	require.NotContains(t, out, "error")
	require.Equal(t, keiba.Trifecta, sc.got.Name)
}

func TestCheckPayoutErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"fetch", &keiba.FetchError{StatusCode: 404}, http.StatusBadGateway},
		{"invalid race", keiba.ErrInvalidRace, http.StatusBadRequest},
		{"invalid input", checker.ErrInvalidInput, http.StatusBadRequest},
		{"parse", &keiba.ParseError{BetType: keiba.Win, Text: "x", Err: errors.New("bad")}, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, _ := newTestServer(checker.Outcome{}, tc.err, &stubHistory{})
			defer srv.Close()

			resp, err := http.Post(srv.URL+"/api/check_payout", "application/json",
				strings.NewReader(`{"userId":"u-1","name":"単勝"}`))
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)

			out := decode(t, resp)
			require.Equal(t, false, out["success"])
			require.Equal(t, tc.err.Error(), out["error"])
			require.NotContains(t, out, "payout")
		})
	}
}

func TestCheckPayoutBadJSON(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(checker.Outcome{}, nil, &stubHistory{})
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/check_payout", "application/json", strings.NewReader(`{"amounts":[1.5]}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, false, decode(t, resp)["success"])
}

func TestDailyProfitCached(t *testing.T) {
	t.Parallel()

	h := &stubHistory{days: []repo.DailyProfit{{
		Day:          time.Date(2024, 10, 27, 0, 0, 0, 0, time.UTC),
		Payout:       decimal.NewFromInt(12600),
		ProfitOrLoss: decimal.NewFromInt(10100),
		Bets:         5,
	}}}
	srv, _ := newTestServer(checker.Outcome{}, nil, h)
	defer srv.Close()

	url := srv.URL + "/api/daily_profit?userId=u-1&from=2024-10-01&to=2024-10-31"
	for i := 0; i < 2; i++ {
		resp, err := http.Get(url)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out dto.DailyProfitResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		resp.Body.Close()
		require.Equal(t, "u-1", out.UserID)
		require.Equal(t, []dto.DailyProfit{{Date: "2024-10-27", TotalPayout: 12600, TotalProfitOrLoss: 10100, Bets: 5}}, out.Days)
	}
	require.Equal(t, 1, h.dayCalls)

	resp, err := http.Get(srv.URL + "/api/daily_profit?userId=u-1&from=ontem")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDailyProfitCacheFailureLogged(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	h := &stubHistory{}
	s := NewServer(zap.New(core), &stubChecker{}, h, brokenCache{}, nil, nil)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/daily_profit?userId=u-1")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, h.dayCalls)

	require.Equal(t, 1, logs.FilterMessage("profit cache get").Len())
	require.Equal(t, 1, logs.FilterMessage("profit cache set").Len())
}

func TestListBets(t *testing.T) {
	t.Parallel()

	h := &stubHistory{bets: []repo.Bet{{ID: "b-1", Name: "馬連", Amount: decimal.NewFromInt(1020), ProfitOrLoss: decimal.NewFromInt(920)}}}
	srv, _ := newTestServer(checker.Outcome{}, nil, h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/bets?userId=u-1")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out []dto.BetHistoryItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()
	require.Len(t, out, 1)
	require.Equal(t, 920.0, out[0].ProfitOrLoss)
	require.Equal(t, 50, h.limit)

	resp, err = http.Get(srv.URL + "/api/bets")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/bets?userId=u-1&limit=9999")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthAndCORS(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(checker.Outcome{}, nil, &stubHistory{})
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "ok", decode(t, resp)["status"])
}
