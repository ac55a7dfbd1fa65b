package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/radieske/sportsbook-ledger/internal/ledger-service/eventstatus"
	lhttp "github.com/radieske/sportsbook-ledger/internal/ledger-service/http"
	"github.com/radieske/sportsbook-ledger/internal/ledger-service/producer"
	"github.com/radieske/sportsbook-ledger/internal/ledger-service/repo"
	"github.com/radieske/sportsbook-ledger/internal/ledger-service/service"
	"github.com/radieske/sportsbook-ledger/internal/shared/cache"
	"github.com/radieske/sportsbook-ledger/internal/shared/config"
	"github.com/radieske/sportsbook-ledger/internal/shared/db"
	"github.com/radieske/sportsbook-ledger/internal/shared/kafka"
	"github.com/radieske/sportsbook-ledger/internal/shared/logger"
	"github.com/radieske/sportsbook-ledger/internal/shared/metrics"
)

func main() {
	if os.Getenv("SERVICE_NAME") == "" {
		_ = os.Setenv("SERVICE_NAME", "ledger-service")
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
	if err := repo.EnsureSchema(context.Background(), pg); err != nil {
		log.Fatal("schema", zap.Error(err))
	}

	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	placedWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced)
	defer placedWriter.Close()
	settledWriter := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetSettled)
	defer settledWriter.Close()

	store := repo.NewPostgres(pg)
	evs := eventstatus.NewRedis(rdb)
	publ := producer.NewKafkaPublisher(placedWriter, settledWriter)
	svc := service.New(log, store, nil, evs, publ)

	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})

	api := lhttp.NewServer(log, svc)
	addr := fmt.Sprintf(":%s", cfg.HTTPPort)
	log.Info("ledger-service listening", zap.String("addr", addr))
	srv := &http.Server{Addr: addr, Handler: api.Router()}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
