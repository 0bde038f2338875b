package main

import (
	"context"
	"fmt"
	"os"

	dbfs "github.com/madanco/crewdeck/db"
	"github.com/madanco/crewdeck/internal/config"
	"github.com/madanco/crewdeck/internal/db"
	"github.com/madanco/crewdeck/internal/kvstore"
	"github.com/madanco/crewdeck/internal/store"
)

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	database, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
		fmt.Fprintf(os.Stderr, "Migration runner error: %v\n", err)
		os.Exit(1)
	}

	if err := store.New(kvstore.NewSQLite(database), nil).Seed(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Seed error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database initialized successfully.")
}
