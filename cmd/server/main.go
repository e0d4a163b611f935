package main

import (
	"net/http"
	"os"
	"time"

	"truth-or-lie/internal/config"
	"truth-or-lie/internal/db"
	"truth-or-lie/internal/logger"
	"truth-or-lie/internal/server"
)

func main() {
	logger.Init()

	if err := config.LoadDotEnv(".env"); err != nil {
		logger.Log.Warnf("failed to load .env: %v", err)
	}
	cfg := config.Load()

	conn, err := db.Open()
	if err != nil {
		// Rooms run fine from memory; durable history just won't survive
		// a restart.
		logger.Log.Warnf("running without database: %v", err)
		conn = nil
	} else {
		if err := db.Migrate(conn); err != nil {
			logger.Log.Fatalf("database migration failed: %v", err)
		}
		sqlDB, err := conn.DB()
		if err == nil {
			sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
			sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
			sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeSeconds) * time.Second)
			sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeSeconds) * time.Second)
		}
	}

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}

	srv := server.New(conn, cfg)
	logger.Log.Infof("truth-or-lie server listening on %s", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		logger.Log.Fatalf("server stopped: %v", err)
	}
}
