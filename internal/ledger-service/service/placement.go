package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/radieske/sportsbook-ledger/internal/domain"
	"github.com/radieske/sportsbook-ledger/internal/shared/metrics"
	"github.com/radieske/sportsbook-ledger/pkg/contracts/events"
	"github.com/radieske/sportsbook-ledger/pkg/money"
)

// PlaceBetInput é o pedido de aposta já desserializado pelo transporte.
type PlaceBetInput struct {
	AccountID    string
	Type         domain.BetType
	Stake        money.Money
	Legs         []domain.Leg
	TeaserPoints decimal.Decimal
}

// PlaceBet valida, confere os eventos, monta a aposta com o pagamento
// potencial e persiste tudo com a reserva do stake numa transação só.
// Qualquer falha deixa os saldos exatamente como estavam.
func (s *Service) PlaceBet(ctx context.Context, in PlaceBetInput) (*domain.Bet, error) {
	b, err := domain.NewBet(in.AccountID, in.Type, in.Stake, in.Legs, in.TeaserPoints)
	if err != nil {
		metrics.BetsRejected.WithLabelValues("validation").Inc()
		return nil, err
	}

	// Checa cada evento antes de qualquer mutação
	for _, l := range b.Legs {
		open, err := s.evs.IsOpen(ctx, l.EventID)
		if err != nil {
			metrics.BetsRejected.WithLabelValues("event_not_found").Inc()
			return nil, err
		}
		if !open {
			metrics.BetsRejected.WithLabelValues("event_closed").Inc()
			return nil, domain.ErrEventNotOpen
		}
		// se há odd corrente no cache e ela divergiu da cotada, recusa
		cur, err := s.evs.CurrentOdds(ctx, l.EventID, l.Selection)
		if err == nil && cur != "" {
			d, derr := decimal.NewFromString(cur)
			if derr == nil && !d.Equal(l.Odds) {
				metrics.BetsRejected.WithLabelValues("odds_changed").Inc()
				return nil, domain.ErrOddsChanged
			}
		}
	}

	potential, err := s.calc.Potential(b.Type, b.Stake, b.Legs, b.TeaserPoints)
	if err != nil {
		metrics.BetsRejected.WithLabelValues("validation").Inc()
		return nil, err
	}
	b.PotentialPayout = potential

	if err := s.store.PlaceBet(ctx, b); err != nil {
		metrics.BetsRejected.WithLabelValues("ledger").Inc()
		return nil, err
	}

	metrics.BetsPlaced.WithLabelValues(string(b.Type)).Inc()
	s.log.Info("bet placed",
		zap.String("betId", b.ID),
		zap.String("accountId", b.AccountID),
		zap.String("type", string(b.Type)),
		zap.String("stake", b.Stake.String()),
		zap.String("potential", b.PotentialPayout.String()),
	)

	if s.publ != nil {
		ids := make([]string, 0, len(b.Legs))
		for _, l := range b.Legs {
			ids = append(ids, l.EventID)
		}
		// publicação é melhor esforço; a aposta já está firme no banco
		if err := s.publ.PublishBetPlaced(ctx, events.BetPlaced{
			BetID:                b.ID,
			AccountID:            b.AccountID,
			Type:                 string(b.Type),
			StakeCents:           b.Stake.Cents(),
			PotentialPayoutCents: b.PotentialPayout.Cents(),
			EventIDs:             ids,
			TsUnixMs:             time.Now().UnixMilli(),
		}); err != nil {
			s.log.Warn("publish bet_placed", zap.Error(err))
		}
	}

	return b, nil
}

func (s *Service) GetBet(ctx context.Context, id string) (*domain.Bet, error) {
	return s.store.GetBet(ctx, id)
}
