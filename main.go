package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"edak/pkg/feed"
)

func main() {
	// Auto-load ./.env if present before reading vars; existing env wins.
	_ = godotenv.Load()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	cfg := LoadConfig(log)

	// Support a lightweight migrate command: `./edak migrate`
	// Runs AutoMigrate and seeding then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		db := mustOpenDB(cfg, log)
		migrateAndSeed(db, log)
		log.Info("migration and seeding completed")
		return
	}

	a := &app{cfg: cfg, log: log, hub: feed.NewHub()}

	if cfg.DatabaseDSN != "" {
		a.db = mustOpenDB(cfg, log)
		if cfg.AutoMigrate {
			migrateAndSeed(a.db, log)
		} else {
			ensureSeedAdmin(a.db, log)
		}
	}
	ensureUploadBase(cfg, log)

	a.reports = NewReportConfigStore(cfg.ReportConfig, log)
	stopWatch := a.reports.Watch()
	defer stopWatch()

	r := gin.Default()
	a.routes(r)

	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
