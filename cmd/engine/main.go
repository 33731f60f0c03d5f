package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ripple-social/internal/config"
	"ripple-social/internal/database"
	"ripple-social/internal/email"
	"ripple-social/internal/engine"
	"ripple-social/internal/handlers"
	"ripple-social/internal/middleware"
	"ripple-social/internal/settings"
	"ripple-social/internal/utils"
	"ripple-social/internal/websocket"

	"github.com/asynkron/protoactor-go/actor"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close(context.Background())

	if err := db.InitializeTables(context.Background()); err != nil {
		log.Fatalf("Failed to initialize tables: %v", err)
	}

	metrics := utils.NewMetricsCollector()

	hub := websocket.NewHub()
	go hub.Run()

	var mailer email.Mailer
	if cfg.SMTP.Enabled {
		mailer = email.NewSMTPMailer(cfg.SMTP)
		log.Printf("Email delivery enabled via %s", cfg.SMTP.Host)
	} else {
		log.Println("Email delivery disabled (no SMTP host configured)")
	}
	dispatcher := email.NewDispatcher(mailer)
	defer dispatcher.Close()

	system := actor.NewActorSystem()
	eng := engine.NewEngine(system, engine.Options{
		DB:       db,
		Settings: settings.NewStatic(),
		Pusher:   hub,
		Emails:   dispatcher,
		Metrics:  metrics,
	})

	tokens := middleware.NewTokenManager(cfg.Auth)
	server := handlers.NewServer(system, eng, hub, tokens, metrics)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.Router(middleware.DefaultCORSConfig(cfg.AllowedOrigins)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Starting server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
}
