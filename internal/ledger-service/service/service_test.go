package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/sportsbook-ledger/internal/domain"
	"github.com/radieske/sportsbook-ledger/internal/ledger-service/repo"
	"github.com/radieske/sportsbook-ledger/pkg/contracts/events"
	"github.com/radieske/sportsbook-ledger/pkg/money"
)

// fakeEvents responde aberto/fechado por evento e registra as marcações
// de liquidação.
type fakeEvents struct {
	closed  map[string]bool
	missing map[string]bool
	odds    map[string]string // "eventId/selection" -> odd corrente
	settled []string
}

func (f *fakeEvents) IsOpen(_ context.Context, eventID string) (bool, error) {
	if f.missing[eventID] {
		return false, domain.ErrEventNotFound
	}
	return !f.closed[eventID], nil
}

func (f *fakeEvents) CurrentOdds(_ context.Context, eventID, selection string) (string, error) {
	return f.odds[eventID+"/"+selection], nil
}

func (f *fakeEvents) MarkSettled(_ context.Context, eventID string) error {
	f.settled = append(f.settled, eventID)
	return nil
}

type fakePublisher struct {
	placed  []events.BetPlaced
	settled []events.BetSettled
}

func (f *fakePublisher) PublishBetPlaced(_ context.Context, e events.BetPlaced) error {
	f.placed = append(f.placed, e)
	return nil
}

func (f *fakePublisher) PublishBetSettled(_ context.Context, e events.BetSettled) error {
	f.settled = append(f.settled, e)
	return nil
}

func newTestService(t *testing.T) (*Service, *repo.Memory, *fakeEvents, *fakePublisher) {
	t.Helper()
	store := repo.NewMemory()
	evs := &fakeEvents{closed: map[string]bool{}, missing: map[string]bool{}, odds: map[string]string{}}
	publ := &fakePublisher{}
	svc := New(zap.NewNop(), store, nil, evs, publ)
	return svc, store, evs, publ
}

func fundedAccount(t *testing.T, svc *Service, amount string) *domain.Account {
	t.Helper()
	ctx := context.Background()
	acc, err := svc.CreateAccount(ctx)
	require.NoError(t, err)
	acc, err = svc.Deposit(ctx, acc.ID, money.MustFromString(amount))
	require.NoError(t, err)
	return acc
}

func leg(eventID, selection, odds string) domain.Leg {
	return domain.Leg{EventID: eventID, Selection: selection, Odds: decimal.RequireFromString(odds)}
}

func TestPlaceBetReservesAndPublishes(t *testing.T) {
	svc, store, _, publ := newTestService(t)
	ctx := context.Background()
	acc := fundedAccount(t, svc, "100.00")

	b, err := svc.PlaceBet(ctx, PlaceBetInput{
		AccountID: acc.ID,
		Type:      domain.BetStraight,
		Stake:     money.MustFromString("10.00"),
		Legs:      []domain.Leg{leg("ev-1", "HOME", "2.00")},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.BetPending, b.Status)
	assert.Equal(t, "20.00", b.PotentialPayout.String())

	got, err := store.GetAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "90.00", got.Balance.String())
	assert.Equal(t, "10.00", got.PendingBalance.String())

	require.Len(t, publ.placed, 1)
	assert.Equal(t, b.ID, publ.placed[0].BetID)
	assert.Equal(t, []string{"ev-1"}, publ.placed[0].EventIDs)
}

func TestPlaceBetRejectsClosedEvent(t *testing.T) {
	svc, store, evs, _ := newTestService(t)
	ctx := context.Background()
	acc := fundedAccount(t, svc, "100.00")
	evs.closed["ev-x"] = true

	_, err := svc.PlaceBet(ctx, PlaceBetInput{
		AccountID: acc.ID,
		Type:      domain.BetStraight,
		Stake:     money.MustFromString("10.00"),
		Legs:      []domain.Leg{leg("ev-x", "HOME", "2.00")},
	})
	assert.ErrorIs(t, err, domain.ErrEventNotOpen)

	// nada reservado
	got, err := store.GetAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", got.Balance.String())
	assert.True(t, got.PendingBalance.IsZero())
}

func TestPlaceBetRejectsChangedOdds(t *testing.T) {
	svc, _, evs, _ := newTestService(t)
	ctx := context.Background()
	acc := fundedAccount(t, svc, "100.00")
	evs.odds["ev-1/HOME"] = "1.85"

	_, err := svc.PlaceBet(ctx, PlaceBetInput{
		AccountID: acc.ID,
		Type:      domain.BetStraight,
		Stake:     money.MustFromString("10.00"),
		Legs:      []domain.Leg{leg("ev-1", "HOME", "2.00")},
	})
	assert.ErrorIs(t, err, domain.ErrOddsChanged)
}

func TestPlaceBetRejectsSuspendedAccount(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	acc := fundedAccount(t, svc, "100.00")
	require.NoError(t, svc.SuspendAccount(ctx, acc.ID))

	_, err := svc.PlaceBet(ctx, PlaceBetInput{
		AccountID: acc.ID,
		Type:      domain.BetStraight,
		Stake:     money.MustFromString("10.00"),
		Legs:      []domain.Leg{leg("ev-1", "HOME", "2.00")},
	})
	assert.ErrorIs(t, err, domain.ErrAccountSuspended)
}

func TestPlaceBetRejectsInsufficientFunds(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()
	acc := fundedAccount(t, svc, "5.00")

	_, err := svc.PlaceBet(ctx, PlaceBetInput{
		AccountID: acc.ID,
		Type:      domain.BetStraight,
		Stake:     money.MustFromString("10.00"),
		Legs:      []domain.Leg{leg("ev-1", "HOME", "2.00")},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

func TestSettleEventStraightWin(t *testing.T) {
	svc, store, evs, publ := newTestService(t)
	ctx := context.Background()
	acc := fundedAccount(t, svc, "100.00")

	b, err := svc.PlaceBet(ctx, PlaceBetInput{
		AccountID: acc.ID,
		Type:      domain.BetStraight,
		Stake:     money.MustFromString("10.00"),
		Legs:      []domain.Leg{leg("ev-1", "HOME", "2.00")},
	})
	require.NoError(t, err)

	report, err := svc.SettleEvent(ctx, events.EventSettled{EventID: "ev-1", WinningSelection: "HOME"})
	require.NoError(t, err)
	assert.Equal(t, 1, report.BetsResolved)
	assert.Equal(t, 1, report.BetsWon)
	assert.Equal(t, int64(2000), report.TotalCreditedCents)
	assert.Empty(t, report.Errors)

	got, err := store.GetAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "110.00", got.Balance.String())
	assert.True(t, got.PendingBalance.IsZero())
	assert.Equal(t, "10.00", got.TotalWinnings.String())

	settled, err := store.GetBet(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BetWon, settled.Status)
	assert.Equal(t, "20.00", settled.RealizedPayout.String())

	require.Len(t, publ.settled, 1)
	assert.Equal(t, b.ID, publ.settled[0].BetID)
	assert.Equal(t, "WON", publ.settled[0].Status)
	assert.Equal(t, []string{"ev-1"}, evs.settled)
}

func TestSettleEventIsIdempotent(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := context.Background()
	acc := fundedAccount(t, svc, "100.00")

	_, err := svc.PlaceBet(ctx, PlaceBetInput{
		AccountID: acc.ID,
		Type:      domain.BetStraight,
		Stake:     money.MustFromString("10.00"),
		Legs:      []domain.Leg{leg("ev-1", "HOME", "2.00")},
	})
	require.NoError(t, err)

	ev := events.EventSettled{EventID: "ev-1", WinningSelection: "HOME"}
	first, err := svc.SettleEvent(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, 1, first.BetsResolved)

	// reentrega da mesma mensagem: nada a fazer, saldo intacto
	second, err := svc.SettleEvent(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, 0, second.BetsResolved)
	assert.Empty(t, second.Errors)

	got, err := store.GetAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "110.00", got.Balance.String())
}

func TestSettleEventUnknownEvent(t *testing.T) {
	svc, _, evs, _ := newTestService(t)
	evs.missing["ev-fantasma"] = true

	_, err := svc.SettleEvent(context.Background(), events.EventSettled{EventID: "ev-fantasma", WinningSelection: "HOME"})
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestSettleEventVoidRefundsStake(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := context.Background()
	acc := fundedAccount(t, svc, "100.00")

	_, err := svc.PlaceBet(ctx, PlaceBetInput{
		AccountID: acc.ID,
		Type:      domain.BetStraight,
		Stake:     money.MustFromString("10.00"),
		Legs:      []domain.Leg{leg("ev-1", "HOME", "2.00")},
	})
	require.NoError(t, err)

	report, err := svc.SettleEvent(ctx, events.EventSettled{EventID: "ev-1", Void: true})
	require.NoError(t, err)
	assert.Equal(t, 1, report.BetsVoided)

	got, err := store.GetAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", got.Balance.String())
	assert.True(t, got.PendingBalance.IsZero())
	assert.True(t, got.TotalWinnings.IsZero())
}

func TestSettleEventParlayWaitsForAllLegs(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := context.Background()
	acc := fundedAccount(t, svc, "100.00")

	b, err := svc.PlaceBet(ctx, PlaceBetInput{
		AccountID: acc.ID,
		Type:      domain.BetParlay,
		Stake:     money.MustFromString("10.00"),
		Legs: []domain.Leg{
			leg("ev-1", "HOME", "2.00"),
			leg("ev-2", "AWAY", "1.50"),
		},
	})
	require.NoError(t, err)

	first, err := svc.SettleEvent(ctx, events.EventSettled{EventID: "ev-1", WinningSelection: "HOME"})
	require.NoError(t, err)
	assert.Equal(t, 0, first.BetsResolved)

	mid, err := store.GetBet(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BetPending, mid.Status)
	assert.Equal(t, domain.OutcomeWin, mid.Legs[0].Outcome)
	assert.Equal(t, domain.OutcomeUnset, mid.Legs[1].Outcome)

	second, err := svc.SettleEvent(ctx, events.EventSettled{EventID: "ev-2", WinningSelection: "AWAY"})
	require.NoError(t, err)
	assert.Equal(t, 1, second.BetsResolved)
	assert.Equal(t, 1, second.BetsWon)

	got, err := store.GetAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "120.00", got.Balance.String()) // 90 + 10*2.00*1.50
}

// failingStore injeta falha de SettleBet para uma aposta específica.
type failingStore struct {
	*repo.Memory
	failBetID string
}

var errBoom = errors.New("boom")

func (f *failingStore) SettleBet(ctx context.Context, b *domain.Bet, status domain.BetStatus, payoutAmt money.Money) error {
	if b.ID == f.failBetID {
		return errBoom
	}
	return f.Memory.SettleBet(ctx, b, status, payoutAmt)
}

func TestSettleEventIsolatesPerBetFailures(t *testing.T) {
	mem := repo.NewMemory()
	store := &failingStore{Memory: mem}
	evs := &fakeEvents{closed: map[string]bool{}, odds: map[string]string{}}
	svc := New(zap.NewNop(), store, nil, evs, nil)
	ctx := context.Background()
	acc := fundedAccount(t, svc, "100.00")

	bad, err := svc.PlaceBet(ctx, PlaceBetInput{
		AccountID: acc.ID,
		Type:      domain.BetStraight,
		Stake:     money.MustFromString("10.00"),
		Legs:      []domain.Leg{leg("ev-1", "HOME", "2.00")},
	})
	require.NoError(t, err)
	good, err := svc.PlaceBet(ctx, PlaceBetInput{
		AccountID: acc.ID,
		Type:      domain.BetStraight,
		Stake:     money.MustFromString("5.00"),
		Legs:      []domain.Leg{leg("ev-1", "AWAY", "3.00")},
	})
	require.NoError(t, err)
	store.failBetID = bad.ID

	report, err := svc.SettleEvent(ctx, events.EventSettled{EventID: "ev-1", WinningSelection: "AWAY"})
	require.NoError(t, err)
	assert.Equal(t, 1, report.BetsResolved)
	assert.Equal(t, 1, report.BetsWon)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, bad.ID, report.Errors[0].BetID)

	gotGood, err := store.GetBet(ctx, good.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BetWon, gotGood.Status)

	// a aposta com falha continua PENDING para reprocessamento
	gotBad, err := store.GetBet(ctx, bad.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BetPending, gotBad.Status)
}
