package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/jacklee1792/predicord/pkg/config"
	"github.com/jacklee1792/predicord/pkg/logger"
	"github.com/jacklee1792/predicord/pkg/migration"
	"github.com/jacklee1792/predicord/pkg/postgresql"
)

// Usage:
//
//	migrate up [steps]
//	migrate down [steps]
//
// steps defaults to 0 for up (all pending) and 1 for down.
func main() {
	cfg := &config.Config{}
	config.MustLoad(cfg)

	log, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	steps := 0
	if direction == "down" {
		steps = 1
	}
	if len(os.Args) > 2 {
		steps, err = strconv.Atoi(os.Args[2])
		if err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "parse_steps"})
			os.Exit(1)
		}
	}

	ctx := context.Background()
	db, err := postgresql.NewClient(ctx, cfg.Postgres)
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "connect_postgresql"})
		os.Exit(1)
	}
	defer db.Close()

	runner := migration.NewRunner(ctx, db, migration.Config{
		MigrationDir: cfg.MigrationsPath,
	})

	switch direction {
	case "up":
		err = runner.MigrateUp(steps)
	case "down":
		err = runner.MigrateDown(steps)
	default:
		log.Error(fmt.Errorf("unknown migration direction %q", direction))
		os.Exit(1)
	}
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "migrate_" + direction})
		os.Exit(1)
	}

	log.Info("migrations applied",
		logger.Field{Key: "direction", Value: direction},
		logger.Field{Key: "steps", Value: steps},
	)
}
