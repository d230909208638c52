// Package main is the entry point of the WeekWise server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HndrkDrs/WeekWise/internal/api"
	"github.com/HndrkDrs/WeekWise/internal/auth"
	"github.com/HndrkDrs/WeekWise/internal/backup"
	"github.com/HndrkDrs/WeekWise/internal/config"
	"github.com/HndrkDrs/WeekWise/internal/service"
	"github.com/HndrkDrs/WeekWise/internal/websocket"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

func main() {
	if len(os.Args) > 1 && os.Args[1] == "set-password" {
		setPassword(os.Args[2:])
		return
	}

	configPath := flag.String("config", "./weekwise.yaml", "Path to the YAML config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	dataDir := flag.String("data", "", "Data directory (overrides config)")
	staticDir := flag.String("static", "", "Directory with the frontend files (overrides config)")
	healthCheck := flag.Bool("health-check", false, "Run health check and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: weekwise [OPTIONS]\n       weekwise set-password [-config PATH]\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyOverrides(cfg, *addr, *dataDir, *staticDir)

	// Health check mode for Docker HEALTHCHECK
	if *healthCheck {
		if err := runHealthCheck(cfg.Listen); err != nil {
			log.Fatalf("Health check failed: %v", err)
		}
		os.Exit(0)
	}

	if envVer := os.Getenv("VERSION"); envVer != "" {
		version = envVer
	}
	log.Printf("Starting WeekWise (version: %s, storage: %s)...", version, cfg.Storage.Backend)

	store, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer closeStore()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := websocket.NewHub()
	go hub.Run(ctx)
	events := websocket.NewEventBroadcaster(hub)

	sessions := auth.NewSessions([]byte(cfg.Auth.SessionSecret), cfg.Auth.SessionTTL)
	planner := service.New(store, sessions, events)
	if err := planner.Load(ctx); err != nil {
		log.Fatalf("Failed to load documents: %v", err)
	}

	backups := backup.NewScheduler(store, cfg.Backup.Dir, cfg.Backup.Keep, events)
	if cfg.Backup.Enabled {
		if err := backups.Start(cfg.Backup.Schedule); err != nil {
			log.Printf("Warning: Failed to start backup scheduler: %v", err)
		}
	}

	router := api.NewRouter(api.Deps{
		Planner:   planner,
		Hub:       hub,
		Backups:   backups,
		StaticDir: cfg.StaticDir,
		ICSDomain: cfg.ICS.Domain,
	})

	server := &http.Server{
		Addr:         cfg.Listen,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", cfg.Listen)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	if cfg.Backup.Enabled {
		backups.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	cancel()

	log.Println("Server stopped")
}

func applyOverrides(cfg *config.Config, addr, dataDir, staticDir string) {
	if addr != "" {
		cfg.Listen = addr
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if staticDir != "" {
		cfg.StaticDir = staticDir
	}
}

// runHealthCheck queries the health endpoint of the running server.
func runHealthCheck(addr string) error {
	host := addr
	if len(host) > 0 && host[0] == ':' {
		host = "localhost" + host
	}
	resp, err := http.Get("http://" + host + "/api/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
