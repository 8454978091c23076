package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"frontdesk/internal/gantt"
	"frontdesk/internal/httpapi"
	"frontdesk/internal/journal"
	"frontdesk/pkg/config"
	"frontdesk/pkg/db"
	"frontdesk/pkg/hotelrpc"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The journal lives in Postgres when a database is configured, in memory
	// otherwise.
	var jr httpapi.Journal = journal.NewMemory(0)
	if cfg.HasDatabase() {
		conn, err := db.Open(ctx, cfg)
		if err != nil {
			log.Fatalf("db open: %v", err)
		}
		defer conn.Close()

		if cfg.MigrationsPath != "" {
			if err := db.MigrateConfig(cfg.MigrationsPath, cfg); err != nil {
				log.Fatalf("migrate: %v", err)
			}
		}
		jr = journal.NewRepository(conn)
	} else {
		log.Printf("no database configured, journal kept in memory")
	}

	client := hotelrpc.New(cfg.Backend.BaseURL, cfg.Backend.Database, cfg.Backend.Login, cfg.Backend.APIKey, cfg.Backend.Timeout)
	if cfg.Backend.Login != "" {
		if err := client.Authenticate(ctx); err != nil {
			// Not fatal: every call re-authenticates on demand.
			log.Printf("backend authenticate url=%s db=%s err=%v", cfg.Backend.BaseURL, cfg.Backend.Database, err)
		}
	}

	router := httpapi.NewRouter(httpapi.Dependencies{
		Cfg:     cfg,
		Backend: gantt.RPCBackend{Client: client},
		Journal: jr,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("http listening on %s backend=%s", cfg.HTTPAddr, cfg.Backend.BaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
}
