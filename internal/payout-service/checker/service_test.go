package checker

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/radieske/race-payout-reconciler/internal/payout-service/dto"
	"github.com/radieske/race-payout-reconciler/internal/payout-service/keiba"
	"github.com/radieske/race-payout-reconciler/internal/payout-service/metrics"
	"github.com/radieske/race-payout-reconciler/internal/payout-service/repo"
	"github.com/radieske/race-payout-reconciler/pkg/contracts/events"
)

type fakeExtractor struct {
	records []keiba.PayoutRecord
	err     error
	calls   int
}

func (f *fakeExtractor) Extract(_ context.Context, _ keiba.RaceParams) ([]keiba.PayoutRecord, error) {
	f.calls++
	return f.records, f.err
}

type fakeStore struct {
	saved []*repo.Bet
	err   error
}

func (f *fakeStore) SaveBet(_ context.Context, b *repo.Bet) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.saved = append(f.saved, b)
	return "bet-1", nil
}

type fakePublisher struct{ events []events.PayoutChecked }

func (f *fakePublisher) PublishPayoutChecked(_ context.Context, e events.PayoutChecked) error {
	f.events = append(f.events, e)
	return nil
}

type fakeCache struct{ invalidated []string }

func (f *fakeCache) Invalidate(_ context.Context, userID string) error {
	f.invalidated = append(f.invalidated, userID)
	return nil
}

func winRequest() dto.CheckPayoutRequest {
	return dto.CheckPayoutRequest{
		Year: "2024", UserID: "u-1", DayCount: "2日", Place: "05", Race: "11", Round: "3回",
		Name:         keiba.Win,
		Combinations: []dto.Combination{{"5"}},
		Amounts:      []dto.Stake{100},
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	x := &fakeExtractor{records: []keiba.PayoutRecord{{BetType: keiba.Win, Combination: "05", Amount: 260}}}
	store := &fakeStore{}
	pub := &fakePublisher{}
	cache := &fakeCache{}
	m := metrics.New()

	svc := New(nil, x, store, WithPublisher(pub), WithCache(cache), WithMetrics(m))
	out, err := svc.Check(context.Background(), winRequest())
	require.NoError(t, err)

	require.Equal(t, "202405030211", out.RaceID)
	require.Equal(t, "bet-1", out.BetID)
	require.Equal(t, "260", out.Result.TotalPayout.String())
	require.Equal(t, "100", out.Result.TotalStake.String())
	require.Equal(t, "160", out.Result.ProfitOrLoss.String())

	require.Len(t, store.saved, 1)
	saved := store.saved[0]
	require.Equal(t, "u-1", saved.UserID)
	require.Equal(t, keiba.Win, saved.Name)
	require.Equal(t, "260", saved.Amount.String())
	require.Equal(t, "収支計算: 160円", saved.Comment)
	require.Equal(t, "05", saved.Location)
	require.Equal(t, "11", saved.RaceNumber)

	require.Equal(t, []string{"u-1"}, cache.invalidated)
	require.Len(t, pub.events, 1)
	require.Equal(t, "bet-1", pub.events[0].CheckID)
	require.Equal(t, "202405030211", pub.events[0].RaceID)
	require.True(t, pub.events[0].Won())

	require.Equal(t, 1.0, testutil.ToFloat64(m.Checks.WithLabelValues("won")))
	require.Equal(t, 260.0, testutil.ToFloat64(m.PayoutTotal))
}

func TestCheckFetchFailureWritesNothing(t *testing.T) {
	t.Parallel()

	x := &fakeExtractor{err: &keiba.FetchError{StatusCode: 500}}
	store := &fakeStore{}
	pub := &fakePublisher{}
	m := metrics.New()

	out, err := New(nil, x, store, WithPublisher(pub), WithMetrics(m)).Check(context.Background(), winRequest())
	require.Nil(t, out)
	require.ErrorContains(t, err, "status code 500")
	require.Empty(t, store.saved)
	require.Empty(t, pub.events)
	require.Equal(t, 1.0, testutil.ToFloat64(m.FetchFailures))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Checks.WithLabelValues("error")))
}

func TestCheckInvalidInput(t *testing.T) {
	t.Parallel()

	x := &fakeExtractor{}
	store := &fakeStore{}
	svc := New(nil, x, store)

	req := winRequest()
	req.UserID = ""
	_, err := svc.Check(context.Background(), req)
	require.ErrorIs(t, err, ErrInvalidInput)

	req = winRequest()
	req.Place = "東京"
	_, err = svc.Check(context.Background(), req)
	require.ErrorIs(t, err, keiba.ErrInvalidRace)

	require.Zero(t, x.calls)
	require.Empty(t, store.saved)
}

func TestCheckStoreFailure(t *testing.T) {
	t.Parallel()

	x := &fakeExtractor{records: []keiba.PayoutRecord{{BetType: keiba.Win, Combination: "5", Amount: 260}}}
	pub := &fakePublisher{}
	boom := errors.New("insert bet: connection refused")

	_, err := New(nil, x, &fakeStore{err: boom}, WithPublisher(pub)).Check(context.Background(), winRequest())
	require.ErrorIs(t, err, boom)
	require.Empty(t, pub.events)
}

func TestCheckLost(t *testing.T) {
	t.Parallel()

	x := &fakeExtractor{records: []keiba.PayoutRecord{{BetType: keiba.Win, Combination: "3", Amount: 410}}}
	store := &fakeStore{}
	pub := &fakePublisher{}

	req := winRequest()
	req.Amounts = []dto.Stake{500}
	out, err := New(nil, x, store, WithPublisher(pub)).Check(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, "0", out.Result.TotalPayout.String())
	require.Equal(t, "-500", out.Result.ProfitOrLoss.String())
	require.Equal(t, "収支計算: -500円", store.saved[0].Comment)
	require.False(t, pub.events[0].Won())
}
