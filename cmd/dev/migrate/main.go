package main

import (
	"context"
	"fmt"
	"os"

	"frontdesk/pkg/config"
	"frontdesk/pkg/db"
)

func main() {
	cfg := config.Load()
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "file://migrations"
	}
	if !cfg.HasDatabase() {
		fmt.Fprintln(os.Stderr, "no database configured (set DATABASE_URL or DB_HOST)")
		os.Exit(2)
	}

	// DIRECT_URL wins over DATABASE_URL for migrations.
	if err := db.MigrateConfig(cfg.MigrationsPath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "migrate failed: %v\n", err)
		os.Exit(1)
	}

	// Make sure the runtime connection opens too. DSNs are never printed.
	pool, err := db.Open(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "runtime db open failed: %v\n", err)
		os.Exit(1)
	}
	pool.Close()

	fmt.Println("migrations applied")
}
