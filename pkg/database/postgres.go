package database

import (
	"context"
	"fmt"
	"github.com/Geniuskaa/race_results/internal/config"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/log/zapadapter"
	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
	"net"
	"net/url"
	"strconv"
	"time"
)

type Postgres struct {
	Pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{Pool: pool}
}

// ConnString builds the postgres:// url for conf, escaping credentials.
func ConnString(conf config.Database) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(conf.Hostname, strconv.Itoa(int(conf.Port))),
		Path:   "/" + conf.Name,
	}
	if conf.User != "" {
		u.User = url.UserPassword(conf.User, conf.Pass)
	}
	return u.String()
}

func PoolCreation(ctx context.Context, logger *zap.Logger, conf config.Database) (*pgxpool.Pool, error) {
	dbConf, err := pgxpool.ParseConfig(ConnString(conf))
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ParseConfig failed: %w", err)
	}
	dbConf.ConnConfig.Logger = zapadapter.NewLogger(logger)
	dbConf.ConnConfig.LogLevel = pgx.LogLevelError
	dbConf.MaxConnIdleTime = time.Second * 10
	if conf.MaxConns > 0 {
		dbConf.MaxConns = conf.MaxConns
	}
	if conf.MinConns > 0 {
		dbConf.MinConns = conf.MinConns
	}

	pool, err := pgxpool.ConnectConfig(ctx, dbConf)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.ConnectConfig failed: %w", err)
	}

	return pool, nil
}
