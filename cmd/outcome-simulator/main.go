package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/sportsbook-ledger/internal/ledger-service/eventstatus"
	"github.com/radieske/sportsbook-ledger/internal/shared/cache"
	"github.com/radieske/sportsbook-ledger/internal/shared/config"
	"github.com/radieske/sportsbook-ledger/internal/shared/kafka"
	"github.com/radieske/sportsbook-ledger/internal/shared/logger"
	"github.com/radieske/sportsbook-ledger/internal/shared/metrics"
	"github.com/radieske/sportsbook-ledger/pkg/contracts/events"
)

// Catálogo fixo de partidas simuladas. Cada evento abre com as três
// seleções do mercado 1x2.
type simEvent struct {
	EventID    string
	HomeTeam   string
	AwayTeam   string
	Selections []string
}

var eventCatalog = []simEvent{
	{EventID: "MATCH_001", HomeTeam: "Flamengo", AwayTeam: "Palmeiras", Selections: []string{"HOME", "DRAW", "AWAY"}},
	{EventID: "MATCH_002", HomeTeam: "Grêmio", AwayTeam: "Internacional", Selections: []string{"HOME", "DRAW", "AWAY"}},
	{EventID: "MATCH_003", HomeTeam: "Corinthians", AwayTeam: "Santos", Selections: []string{"HOME", "DRAW", "AWAY"}},
	{EventID: "MATCH_004", HomeTeam: "São Paulo", AwayTeam: "Vasco", Selections: []string{"HOME", "DRAW", "AWAY"}},
}

// simulator mantém o estado local dos eventos abertos e publica os
// desfechos no broker.
type simulator struct {
	mu      sync.Mutex
	open    map[string]simEvent
	log     *zap.Logger
	evs     *eventstatus.Redis
	writer  *kafka.Writer
	voidPct int // percentual de eventos cancelados
}

func (s *simulator) openAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range eventCatalog {
		if err := s.evs.MarkOpen(ctx, e.EventID); err != nil {
			return err
		}
		for _, sel := range e.Selections {
			odd := fmt.Sprintf("%.2f", 1.50+rand.Float64()*2.50)
			if err := s.evs.SetOdds(ctx, e.EventID, sel, odd); err != nil {
				return err
			}
		}
		s.open[e.EventID] = e
		s.log.Info("event open", zap.String("eventId", e.EventID),
			zap.String("match", e.HomeTeam+" x "+e.AwayTeam))
	}
	return nil
}

// settleRandom escolhe um evento aberto e publica seu desfecho. Retorna
// false quando não resta evento para liquidar.
func (s *simulator) settleRandom(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.open) == 0 {
		return false
	}
	var picked simEvent
	for _, e := range s.open {
		picked = e
		break
	}
	delete(s.open, picked.EventID)

	// fecha as apostas antes de publicar o desfecho
	if err := s.evs.MarkClosed(ctx, picked.EventID); err != nil {
		s.log.Warn("close event", zap.String("eventId", picked.EventID), zap.Error(err))
	}

	msg := events.EventSettled{
		EventID:  picked.EventID,
		TsUnixMs: time.Now().UnixMilli(),
	}
	if rand.Intn(100) < s.voidPct {
		msg.Void = true
	} else {
		msg.WinningSelection = picked.Selections[rand.Intn(len(picked.Selections))]
	}

	b, _ := json.Marshal(msg)
	if err := kafka.WriteJSON(ctx, s.writer, picked.EventID, b); err != nil {
		s.log.Error("publish event_settled", zap.String("eventId", picked.EventID), zap.Error(err))
		// devolve pro catálogo e reabre; tenta de novo no próximo tick
		s.open[picked.EventID] = picked
		if rerr := s.evs.MarkOpen(ctx, picked.EventID); rerr != nil {
			s.log.Warn("reopen event", zap.String("eventId", picked.EventID), zap.Error(rerr))
		}
		return true
	}
	s.log.Info("event settled",
		zap.String("eventId", picked.EventID),
		zap.String("winner", msg.WinningSelection),
		zap.Bool("void", msg.Void),
	)
	return true
}

func (s *simulator) handleSettle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.settleRandom(r.Context()) {
		http.Error(w, "no open events", http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *simulator) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]string, 0, len(s.open))
	for _, e := range s.open {
		out = append(out, map[string]string{
			"eventId": e.EventID,
			"match":   e.HomeTeam + " x " + e.AwayTeam,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func main() {
	if os.Getenv("SERVICE_NAME") == "" {
		_ = os.Setenv("SERVICE_NAME", "outcome-simulator")
	}
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicEventSettled)
	defer writer.Close()

	sim := &simulator{
		open:    make(map[string]simEvent),
		log:     log,
		evs:     eventstatus.NewRedis(rdb),
		writer:  writer,
		voidPct: 10,
	}

	ctx := context.Background()
	if err := sim.openAll(ctx); err != nil {
		log.Fatal("open events", zap.Error(err))
	}

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	// liquida um evento a cada intervalo até esvaziar o catálogo;
	// o endpoint /simulate/settle antecipa o próximo
	interval := 30 * time.Second
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for range t.C {
			if !sim.settleRandom(ctx) {
				log.Info("all events settled")
				return
			}
		}
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/simulate/settle", sim.handleSettle) // POST
	mux.HandleFunc("/simulate/events", sim.handleEvents) // GET

	addr := ":" + cfg.HTTPPort
	log.Info("outcome-simulator listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("http", zap.Error(err))
	}
}
