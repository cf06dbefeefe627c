package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/contact-api/internal/api"
	"github.com/ignite/contact-api/internal/config"
	"github.com/ignite/contact-api/internal/mailer"
	"github.com/ignite/contact-api/internal/signup"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	// Open the shared connection pool
	db, err := sql.Open("mysql", cfg.Database.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(3)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Test connection with timeout
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		logger.Warn().Err(err).Msg("database not reachable at startup, signups will fail until it is")
	}
	pingCancel()

	store := signup.NewStore(db, logger)

	// Mail relay: one authenticated session config, one background worker.
	// Without credentials the relay logs sends instead of making them.
	var sender mailer.Sender
	if cfg.Mail.Enabled() {
		sender = mailer.NewSMTPSender(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.User, cfg.Mail.Pass)
	} else {
		logger.Warn().Msg("mail credentials not configured, contact messages will only be logged")
		sender = discardSender{logger}
	}
	relay := mailer.NewRelay(sender, logger)
	relay.Start()

	handlers := api.NewHandlers(store, relay, cfg, logger)
	server := api.NewServer(cfg.Server, handlers)

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		logger.Info().Int("port", cfg.Server.Port).Msg("contact API listening")
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-done
	logger.Info().Msg("shutting down")

	// Stop accepting requests, then drain queued mail, then release the pool
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	relay.Close()
	if err := db.Close(); err != nil {
		logger.Error().Err(err).Msg("database close error")
	}

	logger.Info().Msg("server stopped")
}

// discardSender stands in for the SMTP relay when no credentials are set.
type discardSender struct {
	logger zerolog.Logger
}

func (d discardSender) Send(msg mailer.Message) error {
	d.logger.Info().Str("to", msg.To).Str("subject", msg.Subject).Str("body", msg.Body).Msg("mail relay disabled, discarding message")
	return nil
}
