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

	"github.com/gecko-http/gecko"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := OpenStore(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("Error closing store: %v", err)
		}
	}()

	engine, err := buildEngine(cfg, store)
	if err != nil {
		log.Fatalf("Failed to build routes: %v", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout.value(),
		WriteTimeout: cfg.Server.WriteTimeout.value(),
		IdleTimeout:  cfg.Server.IdleTimeout.value(),
	}

	go func() {
		log.Printf("gecko-demo listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// buildEngine wires the middleware stack and all routes, then seals the
// engine so nothing mutates the route table while serving.
func buildEngine(cfg *Config, store *Store) (*gecko.Engine, error) {
	e := gecko.NewEngine()
	if cfg.Development {
		e.IsDevelopment()
	}

	e.UseMiddleware(gecko.RequestID())
	e.UseMiddleware(gecko.Logger())
	e.UseCors(gecko.CorsConfig{
		AllowedOrigins: cfg.Cors.AllowedOrigins,
		AllowedMethods: cfg.Cors.AllowedMethods,
		AllowedHeaders: cfg.Cors.AllowedHeaders,
		MaxAge:         86400,
	})
	e.UseMiddleware(gecko.RateLimit(gecko.RateLimitConfig{
		MaxRequests: cfg.RateLimit.MaxRequests,
		Window:      cfg.RateLimit.Window.value(),
		Message:     "too many requests, please try again later",
		SkipPaths:   []string{"/health"},
	}))
	e.UseMiddleware(gecko.Timeout(cfg.Server.RequestTimeout.value()))

	e.Get("/health", healthHandler)

	notes := &noteHandlers{store: store}
	if err := e.Mount("/api/v1/notes", notes.routes()); err != nil {
		return nil, err
	}

	auth := gecko.BearerAuth(staticTokens(cfg.Auth.Tokens))
	admin := e.Group("/api/v1/admin")
	admin.UseMiddleware(auth)
	admin.Get("/whoami", whoamiHandler)

	if cfg.Static.Dir != "" {
		e.Static("/public", cfg.Static.Dir)
	}

	if err := e.Seal(); err != nil {
		return nil, err
	}

	for _, route := range e.Routes() {
		log.Printf("route %s %s", route.Method, route.Pattern)
	}
	return e, nil
}

// staticTokens validates bearer tokens against the configured map.
func staticTokens(tokens map[string]string) gecko.TokenValidator {
	return func(token string) (string, bool) {
		subject, ok := tokens[token]
		return subject, ok
	}
}
