package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/sportsbook-ledger/internal/domain"
	"github.com/radieske/sportsbook-ledger/internal/ledger-service/repo"
	"github.com/radieske/sportsbook-ledger/internal/shared/config"
	"github.com/radieske/sportsbook-ledger/internal/shared/db"
	"github.com/radieske/sportsbook-ledger/internal/shared/logger"
	"github.com/radieske/sportsbook-ledger/pkg/money"
)

// Cria o schema e um punhado de contas de demonstração com saldo inicial.
func main() {
	if os.Getenv("SERVICE_NAME") == "" {
		_ = os.Setenv("SERVICE_NAME", "seeder")
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := repo.EnsureSchema(ctx, pg); err != nil {
		log.Fatal("schema", zap.Error(err))
	}
	log.Info("schema ready")

	store := repo.NewPostgres(pg)
	initial := money.MustFromString("500.00")

	for i := 0; i < 5; i++ {
		now := time.Now().UTC()
		acc := &domain.Account{
			ID:        uuid.NewString(),
			Status:    domain.AccountActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := store.CreateAccount(ctx, acc); err != nil {
			log.Fatal("create account", zap.Error(err))
		}
		if _, err := store.Deposit(ctx, acc.ID, initial); err != nil {
			log.Fatal("deposit", zap.Error(err))
		}
		log.Info("account seeded", zap.String("accountId", acc.ID), zap.String("balance", initial.String()))
	}
}
