// Command migrate runs schema operations for the SQL storage drivers.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"hotgist/internal/config"
	"hotgist/internal/database"
	"hotgist/internal/models"
	"hotgist/internal/observability"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <auto|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.StorageDriver == config.DriverFile {
		return fmt.Errorf("the file storage driver has no schema to migrate")
	}

	db, err := database.Connect(cfg, observability.NewLogger(cfg.Env))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "auto":
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Println("schema migrated")
	case "status":
		tables := []struct {
			name  string
			model any
		}{
			{"campuses", &models.Campus{}},
			{"users", &models.User{}},
			{"posts", &models.Post{}},
			{"reactions", &models.Reaction{}},
			{"comments", &models.Comment{}},
		}
		for _, t := range tables {
			log.Printf("%-10s present=%v", t.name, db.Migrator().HasTable(t.model))
		}
	default:
		return usage()
	}
	return nil
}
