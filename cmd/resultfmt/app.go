package main

import (
	"context"
	"fmt"
	"github.com/Geniuskaa/race_results/internal/config"
	"github.com/Geniuskaa/race_results/internal/logger"
	"github.com/Geniuskaa/race_results/internal/tracing"
	"github.com/Geniuskaa/race_results/pkg/convert"
	"github.com/Geniuskaa/race_results/pkg/database"
	"github.com/Geniuskaa/race_results/pkg/metrics"
	"github.com/Geniuskaa/race_results/pkg/parser"
	"github.com/Geniuskaa/race_results/pkg/sports/xc"
	"github.com/fsnotify/fsnotify"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"io"
	"os"
	"time"
)

const tracerName = "race-results"

type app struct {
	conf   *config.Entity
	logger *zap.Logger
	atom   zap.AtomicLevel
	reg    *prometheus.Registry
	tp     trace.TracerProvider
	pool   *pgxpool.Pool
	conv   *convert.Service
}

func newApp(ctx context.Context) (*app, error) {
	conf, err := config.NewConfig(v)
	if err != nil {
		return nil, err
	}

	lg, atom, err := logger.New(conf.Log.Level, conf.Log.File, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("logger.New failed: %w", err)
	}

	a := &app{conf: conf, logger: lg, atom: atom, reg: prometheus.NewRegistry()}

	a.tp, err = tracing.TracerProvider(conf.Jag.Dsn)
	if err != nil {
		a.close()
		return nil, err
	}

	var uploader convert.Uploader
	if conf.DB.Enabled() {
		a.pool, err = database.PoolCreation(ctx, lg, conf.DB)
		if err != nil {
			a.close()
			return nil, err
		}
		results := xc.NewService(database.NewPostgres(a.pool), lg)
		if err := results.EnsureSchema(ctx); err != nil {
			a.close()
			return nil, err
		}
		uploader = results
	}

	a.conv = convert.NewService(lg, metrics.New(a.reg), a.tp.Tracer(tracerName), uploader)
	return a, nil
}

func (a *app) options() (convert.Options, error) {
	layout, err := parser.ParseLayout(a.conf.Parse.Layout)
	if err != nil {
		return convert.Options{}, err
	}

	var echo io.Writer
	if a.conf.Parse.Echo {
		echo = os.Stdout
	}

	return convert.Options{
		Layout:     layout,
		Strict:     a.conf.Parse.Strict,
		Race:       a.conf.Parse.Race,
		Sheet:      a.conf.Parse.Sheet,
		HeaderRows: a.conf.Parse.HeaderRows,
		Echo:       echo,
		XlsxPath:   a.conf.Parse.Xlsx,
	}, nil
}

// watchConfig follows edits of the config file for long running commands, only the log level is live.
func (a *app) watchConfig() {
	if v.ConfigFileUsed() == "" {
		return
	}
	if _, err := os.Stat(v.ConfigFileUsed()); err != nil {
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		a.logger.Info(fmt.Sprintf("Config file changed: %s", e.Name))
		level := v.GetString(config.LOG_LEVEL)
		if err := a.atom.UnmarshalText([]byte(level)); err != nil {
			a.logger.Warn("Bad log level in config", zap.String("level", level), zap.Error(err))
		}
	})
	v.WatchConfig()
}

func (a *app) close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.tp != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		if err := tracing.Shutdown(ctx, a.tp); err != nil {
			a.logger.Error("Tracer shutdown failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
