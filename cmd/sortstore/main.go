package main

import (
	"errors"
	"net/http"
	"os"

	adapthttp "sortstore/internal/adapter/http"
	"sortstore/internal/adapter/postgres"
	"sortstore/internal/adapter/sqlite"
	"sortstore/internal/app"
	"sortstore/internal/domain"

	"go.uber.org/zap"
)

func main() {
	logger := zap.Must(zap.NewProduction())
	defer func() { _ = logger.Sync() }()

	addr := env("ADDR", ":8080")

	var (
		users   domain.UserRepository
		arrays  domain.ArrayRepository
		history domain.HistoryRepository
	)

	if connStr := os.Getenv("DATABASE_URL"); connStr != "" {
		db, err := postgres.Open(connStr)
		if err != nil {
			logger.Fatal("postgres open", zap.Error(err))
		}
		defer func() { _ = db.Close() }()
		users, arrays, history = db, db, db
		logger.Info("using postgres backend")
	} else {
		path := env("DATABASE_PATH", "sortstore.db")
		db, err := sqlite.Open(path)
		if err != nil {
			logger.Fatal("sqlite open", zap.Error(err))
		}
		defer func() { _ = db.Close() }()
		users, arrays, history = db, db, db
		logger.Info("using sqlite backend", zap.String("path", path))
	}

	authSvc := app.NewAuthService(users)
	arraySvc := app.NewArrayService(arrays)
	historySvc := app.NewHistoryService(history)

	h := adapthttp.New(authSvc, arraySvc, historySvc, logger).Handler()
	logger.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server", zap.Error(err))
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
