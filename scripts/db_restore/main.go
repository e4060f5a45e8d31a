package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/garnizeh/rentals/internal/config"
	"github.com/garnizeh/rentals/internal/db"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	in := flag.String("in", "", "Backup file; defaults to <database>.bak")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	dst := cfg.Database.Path
	src := *in
	if src == "" {
		src = dst + ".bak"
	}

	if err := db.Restore(src, dst); err != nil {
		fmt.Fprintf(os.Stderr, "Restore error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database restore completed.")
}
