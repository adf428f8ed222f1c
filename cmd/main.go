/*
Package main is the entry point for the Ichat server.

It is responsible for loading configuration, initializing the global logging system,
wiring the roster store, profanity filter, session protocol, and websocket hub together,
and gracefully handling operating system interrupt signals (SIGINT, SIGTERM) to ensure
a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Alanshi2019/Ichat/internal/app/chat"
	"github.com/Alanshi2019/Ichat/internal/app/filter"
	"github.com/Alanshi2019/Ichat/internal/app/roster"
	"github.com/Alanshi2019/Ichat/internal/app/session"
	"github.com/Alanshi2019/Ichat/internal/configs"
	"github.com/Alanshi2019/Ichat/internal/handler"
	"github.com/Alanshi2019/Ichat/internal/pkg/logx"
)

func main() {
	// Load a local .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("system_name", cfg.SystemName).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	profanityFilter, err := filter.New(cfg.BannedWords)
	if err != nil {
		logx.Fatal(err, "Failed to build profanity filter")
	}

	hub := chat.NewHub()
	sessions := session.NewHandler(roster.NewStore(), hub, profanityFilter.IsProfane, cfg.SystemName)

	router := handler.Router(&handler.AppDeps{
		Hub:      hub,
		Sessions: sessions,
		Config:   cfg,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Ichat server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	logx.Info("Server gracefully stopped.")
}
