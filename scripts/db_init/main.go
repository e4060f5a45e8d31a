package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/garnizeh/rentals/internal/app"
	"github.com/garnizeh/rentals/internal/config"
	"github.com/garnizeh/rentals/internal/seed"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	seedPath := flag.String("seed", "", "JSON listings to import; empty imports the bundled sample")
	noSeed := flag.Bool("no-seed", false, "Skip the listing import")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	// migrations always run here, whatever the server setting
	cfg.Database.MigrateOnStart = true
	if err := cfg.ValidateLocal(); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	a, err := app.Open(ctx, cfg, cfg.Logger(os.Stderr))
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if !*noSeed {
		im, err := a.Seeder()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Seed error: %v\n", err)
			os.Exit(1)
		}
		var res seed.Result
		if *seedPath != "" {
			res, err = im.ImportFile(ctx, *seedPath)
		} else {
			res, err = im.ImportDefault(ctx)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Seed error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Imported %d listings (%d already present).\n", res.Inserted, res.Skipped)
	}

	fmt.Println("Database initialized successfully.")
}
