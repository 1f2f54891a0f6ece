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

	outreach "github.com/openadvocacy/outreach"
	"github.com/openadvocacy/outreach/internal/storage"
	"gopkg.in/yaml.v3"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	dbPath := flag.String("db", "", "path to SQLite database (overrides config)")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg := storage.DefaultConfig()
	if *configPath != "" {
		data, err := os.ReadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "outreach-web: read config: %v\n", err)
			os.Exit(1)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "outreach-web: parse config: %v\n", err)
			os.Exit(1)
		}
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	engine, err := outreach.NewEngine(outreach.EngineConfig{
		DBPath:          cfg.Database.Path,
		OllamaBaseURL:   cfg.Ollama.BaseURL,
		Model:           cfg.Ollama.Model,
		AIAnalysis:      cfg.Features.AIAnalysis,
		RecentShareDays: cfg.Dashboard.RecentShareDays,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "outreach-web: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	mux := newRouter(engine)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      logging(recovery(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("outreach-web: listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("outreach-web: %v", err)
		}
	}()

	<-done
	log.Println("outreach-web: shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("outreach-web: shutdown error: %v", err)
	}
	log.Println("outreach-web: stopped")
}
