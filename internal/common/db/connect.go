package db

import (
	"context"
	"fmt"
	"time"

	"github.com/charmheroku/railway-station/internal/common/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	Pool *pgxpool.Pool
}

func NewPostgres(host string, port int, user, password, database string) (*Postgres, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		user, password, host, port, database,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Error("db_connection_failed", "Failed to connect to Postgres", "", "", err.Error())
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		logger.Error("db_ping_failed", "Postgres ping failed", "", "", err.Error())
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	logger.Info("db_connected", "Connected to PostgreSQL successfully", "", "")
	return &Postgres{Pool: pool}, nil
}

func (p *Postgres) Close() {
	if p.Pool != nil {
		p.Pool.Close()
		logger.Info("db_connection_closed", "PostgreSQL connection pool closed", "", "")
	}
}
