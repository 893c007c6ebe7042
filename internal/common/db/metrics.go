package db

import (
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/mailsign/signup-backend/internal/observability/metrics"
)

func collectPoolStats(pool *pgxpool.Pool) {
	stat := pool.Stat()
	metrics.DBPoolAcquiredConns.Set(float64(stat.AcquiredConns()))
	metrics.DBPoolIdleConns.Set(float64(stat.IdleConns()))
	metrics.DBPoolTotalConns.Set(float64(stat.TotalConns()))
}
