package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/sportsbook-ledger/internal/domain"
	"github.com/radieske/sportsbook-ledger/internal/shared/metrics"
	"github.com/radieske/sportsbook-ledger/pkg/contracts/events"
	"github.com/radieske/sportsbook-ledger/pkg/money"
)

// BetError registra uma aposta que falhou durante a liquidação de um
// evento. As demais apostas do lote seguem normalmente.
type BetError struct {
	BetID  string `json:"betId"`
	Reason string `json:"reason"`
}

// SettlementReport resume o processamento de um evento liquidado.
type SettlementReport struct {
	EventID            string     `json:"eventId"`
	BetsResolved       int        `json:"betsResolved"`
	BetsWon            int        `json:"betsWon"`
	BetsLost           int        `json:"betsLost"`
	BetsVoided         int        `json:"betsVoided"`
	TotalCreditedCents int64      `json:"totalCreditedCents"`
	Errors             []BetError `json:"errors,omitempty"`
}

// SettleEvent aplica o desfecho de um evento sobre todas as apostas
// PENDING que o referenciam. Pernas de outros eventos ficam intactas;
// apostas só transitam quando todas as pernas têm resultado. Reprocessar
// o mesmo evento é inócuo: apostas já terminais não voltam do store e
// pernas já resolvidas não mudam.
func (s *Service) SettleEvent(ctx context.Context, ev events.EventSettled) (*SettlementReport, error) {
	// evento precisa existir no provedor de estado; o aberto/fechado não
	// importa aqui, um evento já fechado ainda liquida
	if _, err := s.evs.IsOpen(ctx, ev.EventID); err != nil {
		return nil, err
	}

	report := &SettlementReport{EventID: ev.EventID}

	bets, err := s.store.PendingBetsByEvent(ctx, ev.EventID)
	if err != nil {
		return nil, err
	}

	for _, b := range bets {
		resolveLegs(b, ev)

		if !b.FullyResolved() {
			// guarda o resultado parcial; a aposta liquida quando o
			// último evento dela chegar
			if err := s.store.SaveLegOutcomes(ctx, b); err != nil {
				s.recordError(report, b.ID, err)
			}
			continue
		}

		res, err := s.calc.Realized(b)
		if err != nil {
			s.recordError(report, b.ID, err)
			continue
		}

		if err := s.store.SettleBet(ctx, b, res.Status, res.Payout); err != nil {
			s.recordError(report, b.ID, err)
			continue
		}

		report.BetsResolved++
		switch res.Status {
		case domain.BetWon:
			report.BetsWon++
		case domain.BetLost:
			report.BetsLost++
		case domain.BetVoid:
			report.BetsVoided++
		}
		report.TotalCreditedCents += res.Payout.Cents()

		metrics.BetsSettled.WithLabelValues(string(res.Status)).Inc()
		metrics.CreditedCents.Add(float64(res.Payout.Cents()))

		s.log.Info("bet settled",
			zap.String("betId", b.ID),
			zap.String("eventId", ev.EventID),
			zap.String("status", string(res.Status)),
			zap.String("payout", res.Payout.String()),
		)

		if s.publ != nil {
			msg := events.BetSettled{
				BetID:               b.ID,
				AccountID:           b.AccountID,
				EventID:             ev.EventID,
				Status:              string(res.Status),
				RealizedPayoutCents: res.Payout.Cents(),
				Ts:                  time.Now().UTC(),
			}
			if err := s.publ.PublishBetSettled(ctx, msg); err != nil {
				s.log.Warn("publish bet_settled failed", zap.String("betId", b.ID), zap.Error(err))
			}
		}
	}

	if err := s.evs.MarkSettled(ctx, ev.EventID); err != nil {
		s.log.Warn("mark event settled", zap.String("eventId", ev.EventID), zap.Error(err))
	}

	s.log.Info("event settlement finished",
		zap.String("eventId", ev.EventID),
		zap.Int("betsResolved", report.BetsResolved),
		zap.Int("errors", len(report.Errors)),
		zap.String("totalCredited", money.FromCents(report.TotalCreditedCents).String()),
	)
	return report, nil
}

func (s *Service) recordError(report *SettlementReport, betID string, err error) {
	metrics.SettlementErrors.Inc()
	s.log.Error("settlement failed for bet", zap.String("betId", betID), zap.Error(err))
	report.Errors = append(report.Errors, BetError{BetID: betID, Reason: err.Error()})
}

// resolveLegs marca as pernas do evento liquidado. Evento void empurra
// todas as suas pernas para PUSH independente da seleção.
func resolveLegs(b *domain.Bet, ev events.EventSettled) {
	for i := range b.Legs {
		l := &b.Legs[i]
		if l.EventID != ev.EventID || l.Outcome != domain.OutcomeUnset {
			continue
		}
		switch {
		case ev.Void:
			l.Outcome = domain.OutcomePush
		case l.Selection == ev.WinningSelection:
			l.Outcome = domain.OutcomeWin
		default:
			l.Outcome = domain.OutcomeLose
		}
	}
}
