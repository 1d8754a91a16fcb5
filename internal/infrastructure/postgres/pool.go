package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bienesraices/config"
)

// NewPool opens the shared pgx pool and pings it once. Queries are traced
// to logger: every statement in development, warnings and errors otherwise.
func NewPool(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pc.MaxConns = cfg.DBMaxConns
	pc.MinConns = cfg.DBMinConns
	pc.MaxConnLifetime = cfg.DBMaxConnLife
	pc.HealthCheckPeriod = time.Minute
	if logger != nil {
		level := tracelog.LogLevelWarn
		if cfg.Env == "development" {
			level = tracelog.LogLevelDebug
		}
		pc.ConnConfig.Tracer = &tracelog.TraceLog{Logger: queryLogger(logger), LogLevel: level}
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

func queryLogger(logger *logrus.Logger) tracelog.Logger {
	return tracelog.LoggerFunc(func(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
		entry := logger.WithFields(logrus.Fields(data)).WithField("component", "pgx")
		switch level {
		case tracelog.LogLevelError:
			entry.Error(msg)
		case tracelog.LogLevelWarn:
			entry.Warn(msg)
		case tracelog.LogLevelInfo:
			entry.Info(msg)
		default:
			entry.Debug(msg)
		}
	})
}
