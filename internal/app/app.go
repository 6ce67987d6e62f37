// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: создаёт БД-пул, репозитории, сервисы и
// планировщик. HTTP-слой, синхронизатор тиражей и платёжный шлюз живут
// отдельно и работают с ядром через сервисы из App.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"lotto-backend/internal/config"
	"lotto-backend/internal/db/postgres"
	"lotto-backend/internal/features/ledger"
	"lotto-backend/internal/features/settlement"
	"lotto-backend/internal/features/strategy"
	"lotto-backend/internal/jobs"
)

// App содержит все компоненты приложения.
type App struct {
	Ledger     *ledger.Service
	Engine     *strategy.Engine
	Settlement *settlement.Service
	Scheduler  *jobs.Scheduler
	DB         *pgxpool.Pool
}

// New создаёт и инициализирует приложение.
// Порядок инициализации важен — компоненты зависят друг от друга.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// === 1. База данных ===
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	// Запускаем миграции
	if err := runMigrations(ctx, pool); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}

	// === 2. Репозитории ===
	ledgerRepo := ledger.NewRepository(pool)
	settlementRepo := settlement.NewRepository(pool)

	// === 3. Сервисы ===
	ledgerService := ledger.NewService(ledgerRepo, cfg)
	settlementService := settlement.NewService(settlementRepo, cfg)
	engine := strategy.NewEngine()

	// === 4. Планировщик задач ===
	scheduler := jobs.NewScheduler(settlementService, cfg)

	return &App{
		Ledger:     ledgerService,
		Engine:     engine,
		Settlement: settlementService,
		Scheduler:  scheduler,
		DB:         pool,
	}, nil
}

// runMigrations выполняет все SQL-миграции.
func runMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	if err := postgres.EnsureMigrationsTable(ctx, pool); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migration001Accounts},
		{2, migration002Transactions},
		{3, migration003Draws},
		{4, migration004Predictions},
	}

	for _, m := range migrations {
		if err := postgres.ExecMigrationSQL(ctx, pool, m.version, m.sql); err != nil {
			return fmt.Errorf("миграция %d: %w", m.version, err)
		}
		log.Infof("Миграция %d применена", m.version)
	}

	return nil
}

// SQL-миграции встроены в код для упрощения деплоя.

var migration001Accounts = `
CREATE TABLE IF NOT EXISTS accounts (
    id TEXT PRIMARY KEY,
    tier VARCHAR(20) NOT NULL DEFAULT 'free',
    balance BIGINT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

var migration002Transactions = `
CREATE TABLE IF NOT EXISTS credit_transactions (
    id UUID PRIMARY KEY,
    account_id TEXT NOT NULL REFERENCES accounts(id),
    kind VARCHAR(20) NOT NULL,
    amount BIGINT NOT NULL,
    balance_after BIGINT NOT NULL,
    reason TEXT NOT NULL DEFAULT '',
    metadata JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_credit_tx_account ON credit_transactions(account_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_credit_tx_kind ON credit_transactions(account_id, kind, created_at);
`

var migration003Draws = `
CREATE TABLE IF NOT EXISTS lotto_draws (
    round INTEGER PRIMARY KEY,
    numbers INTEGER[] NOT NULL,
    bonus INTEGER NOT NULL,
    draw_date TIMESTAMPTZ NOT NULL
);
`

var migration004Predictions = `
CREATE TABLE IF NOT EXISTS predictions (
    id UUID PRIMARY KEY,
    account_id TEXT NOT NULL REFERENCES accounts(id),
    round INTEGER NOT NULL,
    strategy_key VARCHAR(50) NOT NULL,
    numbers INTEGER[] NOT NULL,
    confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
    matched_count INTEGER NOT NULL DEFAULT 0,
    prize_rank INTEGER NOT NULL DEFAULT 0,
    prize_amount BIGINT NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'pending',
    settled_at TIMESTAMPTZ,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_predictions_round_status ON predictions(round, status);
CREATE INDEX IF NOT EXISTS idx_predictions_account ON predictions(account_id, created_at DESC);
`
