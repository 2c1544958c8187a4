package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/PhucNguyen204/cpe_engine/internal/dict"
	srv "github.com/PhucNguyen204/cpe_engine/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	cfg, err := srv.LoadConfig(os.Getenv("CPE_CONFIG"))
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.Ping(); err != nil {
		logger.Error("ping db", "error", err)
		os.Exit(1)
	}

	server := srv.NewAppServer(db, logger)
	ctx := context.Background()
	if err := server.InitSchema(ctx); err != nil {
		logger.Error("init schema", "error", err)
		os.Exit(1)
	}

	known, err := server.LoadKnownFromDB(ctx)
	if err != nil {
		logger.Error("load dictionary", "error", err)
		os.Exit(1)
	}
	if cfg.DictPath != "" {
		res, err := dict.LoadDir(cfg.DictPath)
		if err != nil {
			logger.Error("load dictionary dir", "path", cfg.DictPath, "error", err)
			os.Exit(1)
		}
		for _, n := range res.Known.Names() {
			if known.Add(n) {
				if err := server.UpsertName(ctx, n); err != nil {
					logger.Error("upsert dictionary name", "name", n.String(), "error", err)
					os.Exit(1)
				}
			}
		}
		logger.Info("dictionary dir loaded",
			"path", cfg.DictPath, "loaded", res.Loaded, "skipped", res.Skipped)
	}
	server.SwapKnown(known)

	mux := http.NewServeMux()
	server.RegisterRoutes(mux)

	logger.Info("cpe server listening", "addr", cfg.Addr, "known_names", known.Len())
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		logger.Error("listen", "error", err)
		os.Exit(1)
	}
}
