package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/Mik3y-F/nitty/internal/auth"
	"github.com/Mik3y-F/nitty/internal/config"
	"github.com/Mik3y-F/nitty/internal/server"
	"github.com/Mik3y-F/nitty/internal/store"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("failed to load configuration")
	}

	if cfg.IsLocal() {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	db := openDB(cfg)
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.WithError(err).Fatal("database is unreachable")
	}

	repo := store.NewManager(db)
	repo.MustValidate()

	if cfg.IsLocal() {
		if err := store.ResetModels(ctx, db); err != nil {
			logger.WithError(err).Fatal("failed to bootstrap schema")
		}
	}

	authLog := authLogger{logger}
	tokens := auth.NewTokenService([]byte(cfg.SecretKey), authLog)
	auther := auth.NewAuthenticator(repo.Users(), tokens, cfg.AccessTokenTTL()).
		WithLogger(authLog)

	srv := server.New(cfg, logger, repo, auther)

	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("starting http server")
		if err := srv.Listen(cfg.HTTPAddr); err != nil {
			logger.WithError(err).Fatal("http server stopped")
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down")
	if err := srv.Shutdown(); err != nil {
		logger.WithError(err).Error("shutdown failed")
	}
}

func openDB(cfg *config.Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	sqldb.SetMaxOpenConns(cfg.DBPoolSize)
	sqldb.SetMaxIdleConns(cfg.DBPoolSize)
	sqldb.SetConnMaxLifetime(cfg.DBPoolRecycle)

	return bun.NewDB(sqldb, pgdialect.New())
}

// authLogger adapts logrus to the auth package's printf-style logger.
type authLogger struct {
	logger *logrus.Logger
}

func (l authLogger) Debug(format string, args ...any) {
	l.logger.Debugf(format, args...)
}

func (l authLogger) Info(format string, args ...any) {
	l.logger.Infof(format, args...)
}

func (l authLogger) Error(format string, args ...any) {
	l.logger.Errorf(format, args...)
}
