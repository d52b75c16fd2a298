package main

import (
	"flag"
	"os"

	"github.com/Domenick1991/flightdesk/config"
	"github.com/Domenick1991/flightdesk/internal/db"
	"github.com/Domenick1991/flightdesk/internal/logging"
	"github.com/sirupsen/logrus"
)

func main() {
	down := flag.Int("down", 0, "number of migrations to roll back instead of migrating up")
	flag.Parse()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	source := cfg.Database.MigrationsPath
	if source == "" {
		source = "file://internal/db/migrations"
	}

	if *down > 0 {
		if err := db.Rollback(source, cfg.Database.DSN(), *down); err != nil {
			logrus.Fatalf("rollback: %v", err)
		}
		logrus.WithField("steps", *down).Info("migrations rolled back")
		return
	}
	if err := db.Migrate(source, cfg.Database.DSN()); err != nil {
		logrus.Fatalf("migrate: %v", err)
	}
	logrus.Info("migrations applied")
}
