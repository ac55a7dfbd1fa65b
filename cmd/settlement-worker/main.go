package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/sportsbook-ledger/internal/ledger-service/eventstatus"
	"github.com/radieske/sportsbook-ledger/internal/ledger-service/producer"
	"github.com/radieske/sportsbook-ledger/internal/ledger-service/repo"
	"github.com/radieske/sportsbook-ledger/internal/ledger-service/service"
	"github.com/radieske/sportsbook-ledger/internal/shared/cache"
	"github.com/radieske/sportsbook-ledger/internal/shared/config"
	"github.com/radieske/sportsbook-ledger/internal/shared/db"
	"github.com/radieske/sportsbook-ledger/internal/shared/kafka"
	"github.com/radieske/sportsbook-ledger/internal/shared/logger"
	"github.com/radieske/sportsbook-ledger/internal/shared/metrics"
	ev "github.com/radieske/sportsbook-ledger/pkg/contracts/events"
)

func main() {
	if os.Getenv("SERVICE_NAME") == "" {
		_ = os.Setenv("SERVICE_NAME", "settlement-worker")
	}
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.TopicEventSettled, "settlement-worker")
	defer reader.Close()

	settledWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettled)
	defer settledWriter.Close()

	var dlqWriter *kafkago.Writer
	if cfg.TopicEventSettledDLQ != "" {
		dlqWriter = kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicEventSettledDLQ)
		defer dlqWriter.Close()
	}

	store := repo.NewPostgres(pg)
	evs := eventstatus.NewRedis(rdb)
	publ := producer.NewKafkaPublisher(nil, settledWriter)
	svc := service.New(log, store, nil, evs, publ)

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})

	log.Info("settlement-worker started", zap.String("consume", cfg.TopicEventSettled))

	ctx := context.Background()

	for {
		key, value, err := kafka.ReadNext(ctx, reader)
		if err != nil {
			log.Warn("kafka read", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var settled ev.EventSettled
		if jerr := json.Unmarshal(value, &settled); jerr != nil || settled.EventID == "" {
			log.Error("malformed event_settled", zap.Error(jerr))
			if dlqWriter != nil {
				_ = kafka.WriteJSON(ctx, dlqWriter, string(key), value)
			}
			continue
		}

		report, err := svc.SettleEvent(ctx, settled)
		if err != nil {
			// erro do lote inteiro (ex: banco fora); a mensagem volta no
			// próximo poll do grupo após backoff
			log.Error("settle event", zap.String("eventId", settled.EventID), zap.Error(err))
			time.Sleep(500 * time.Millisecond)
			continue
		}

		log.Info("event processed",
			zap.String("eventId", settled.EventID),
			zap.Int("betsResolved", report.BetsResolved),
			zap.Int("won", report.BetsWon),
			zap.Int("lost", report.BetsLost),
			zap.Int("voided", report.BetsVoided),
			zap.Int("errors", len(report.Errors)),
		)
	}
}
