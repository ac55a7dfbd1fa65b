package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Métricas de negócio do núcleo de apostas/liquidação.
var (
	BetsPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportsbook_bets_placed_total",
		Help: "Apostas aceitas, por tipo",
	}, []string{"type"})

	BetsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportsbook_bets_rejected_total",
		Help: "Apostas recusadas, por motivo",
	}, []string{"reason"})

	BetsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sportsbook_bets_settled_total",
		Help: "Apostas liquidadas, por resultado",
	}, []string{"result"})

	SettlementErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportsbook_settlement_errors_total",
		Help: "Apostas que falharam na liquidação e ficaram no relatório de erros",
	})

	CreditedCents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sportsbook_credited_cents_total",
		Help: "Total de centavos creditados em liquidações",
	})
)
