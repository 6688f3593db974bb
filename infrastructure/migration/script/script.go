package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/vfg2006/sales-dashboard-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT,
		price       NUMERIC(12, 2) NOT NULL DEFAULT 0,
		quantity    INTEGER NOT NULL DEFAULT 0,
		images      TEXT[] NOT NULL DEFAULT '{}',
		category    TEXT
	)`,
	// product_id sem FK: produtos podem sair do catálogo e as vendas continuam no ledger
	`CREATE TABLE IF NOT EXISTS sales (
		id         TEXT PRIMARY KEY,
		product_id TEXT,
		quantity   INTEGER NOT NULL CHECK (quantity > 0),
		amount     NUMERIC(12, 2) NOT NULL CHECK (amount >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_created_at ON sales (created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_product_id ON sales (product_id)`,
}

type demoProduct struct {
	Name     string
	Price    decimal.Decimal
	Category string
	Image    string
}

var demoProducts = []demoProduct{
	{Name: "Wireless Mouse", Price: decimal.RequireFromString("59.90"), Category: "Peripherals", Image: "/uploads/mouse.png"},
	{Name: "Mechanical Keyboard", Price: decimal.RequireFromString("249.00"), Category: "Peripherals", Image: "/uploads/keyboard.png"},
	{Name: "USB-C Cable", Price: decimal.RequireFromString("19.50"), Category: "Accessories", Image: "/uploads/cable.png"},
}

func main() {
	logrus.Info("Iniciando script de migração...")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao carregar configuração")
	}
	if cfg.Database.Driver != config.DriverPostgres {
		logrus.Fatalf("Migração disponível apenas para o driver %s", config.DriverPostgres)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}
	defer conn.Close()

	viper.SetDefault("MIGRATION_SEED", false)
	if err := migrate(ctx, conn, viper.GetBool("MIGRATION_SEED"), time.Now().UTC()); err != nil {
		logrus.WithError(err).Fatal("Migração falhou")
	}

	logrus.Info("Migração concluída")
}

// migrate cria o schema e, se seed for true, popula dados de demonstração na mesma transação
func migrate(ctx context.Context, conn postgres.Conn, seed bool, now time.Time) error {
	return conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		startTime := time.Now()
		for _, stmt := range schemaStatements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("erro ao aplicar schema: %w", err)
			}
		}
		logrus.Infof("Schema aplicado em %v", time.Since(startTime))

		if !seed {
			return nil
		}

		return seedDemoData(ctx, tx, now)
	})
}

func seedDemoData(ctx context.Context, tx *sql.Tx, now time.Time) error {
	productIDs := make([]string, 0, len(demoProducts))
	for _, p := range demoProducts {
		id, err := utils.GenerateID()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO products (id, name, price, quantity, images, category) VALUES ($1, $2, $3, $4, $5, $6)`,
			id, p.Name, p.Price, 100, pq.Array([]string{p.Image}), p.Category,
		)
		if err != nil {
			return fmt.Errorf("erro ao inserir produto %s: %w", p.Name, err)
		}
		productIDs = append(productIDs, id)
	}

	count := 0
	for day := 0; day < 10; day++ {
		for i, productID := range productIDs {
			// quantidades diferentes por produto para o ranking não empatar
			quantity := len(productIDs) - i + day%2
			id, err := utils.GenerateID()
			if err != nil {
				return err
			}

			amount := demoProducts[i].Price.Mul(decimal.NewFromInt(int64(quantity)))
			createdAt := now.AddDate(0, 0, -day).Add(-time.Duration(i) * time.Hour)

			_, err = tx.ExecContext(ctx,
				`INSERT INTO sales (id, product_id, quantity, amount, created_at) VALUES ($1, $2, $3, $4, $5)`,
				id, productID, quantity, amount, createdAt,
			)
			if err != nil {
				return fmt.Errorf("erro ao inserir venda: %w", err)
			}
			count++
		}
	}

	logrus.Infof("Dados de demonstração inseridos: %d produtos, %d vendas", len(productIDs), count)
	return nil
}
