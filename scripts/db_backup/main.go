package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/garnizeh/rentals/internal/config"
	"github.com/garnizeh/rentals/internal/db"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	out := flag.String("out", "", "Backup file; defaults to <database>.bak")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	src := cfg.Database.Path
	dst := *out
	if dst == "" {
		dst = src + ".bak"
	}

	ctx := context.Background()
	database, err := db.New(ctx, src, nil, db.WithDriver(cfg.Database.Driver))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := database.Backup(ctx, dst); err != nil {
		fmt.Fprintf(os.Stderr, "Backup error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database backup written to %s.\n", dst)
}
