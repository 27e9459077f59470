package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/geoattend-backend-go/internal/config"
	"github.com/cmlabs-hris/geoattend-backend-go/internal/pkg/database"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrate [up|down|status]\n")
	}
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Error loading config", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	provider, err := db.NewMigrator()
	if err != nil {
		slog.Error("Error creating migrator", "error", err)
		os.Exit(1)
	}

	switch command {
	case "up":
		err = db.MigrateUp(ctx)
	case "down":
		result, downErr := provider.Down(ctx)
		err = downErr
		if err == nil && result != nil {
			fmt.Printf("rolled back %d (%s) in %v\n", result.Source.Version, result.Source.Path, result.Duration)
		}
	case "status":
		statuses, statusErr := provider.Status(ctx)
		err = statusErr
		for _, s := range statuses {
			fmt.Printf("%-6d %-10s %s\n", s.Source.Version, s.State, s.Source.Path)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		slog.Error("Migration failed", "command", command, "error", err)
		os.Exit(1)
	}
}
