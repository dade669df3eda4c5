package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/coltonsr77/uzi-doorman-bot/internal/app"
	"github.com/coltonsr77/uzi-doorman-bot/internal/config"
	"github.com/coltonsr77/uzi-doorman-bot/internal/discord"
	"github.com/coltonsr77/uzi-doorman-bot/internal/formatter"
	"github.com/coltonsr77/uzi-doorman-bot/internal/generator"
	"github.com/coltonsr77/uzi-doorman-bot/internal/github"
	"github.com/coltonsr77/uzi-doorman-bot/internal/handlers"
	"github.com/coltonsr77/uzi-doorman-bot/internal/logger"
	"github.com/coltonsr77/uzi-doorman-bot/internal/models"
	"github.com/coltonsr77/uzi-doorman-bot/internal/router"
	"github.com/coltonsr77/uzi-doorman-bot/internal/server"
)

// Global variables for configuration and services
var (
	cfg           *config.Config
	log           *logger.Logger
	deps          router.Deps
	discordClient *discord.Client
	waClient      *app.WhatsAppClient
	errChan       = make(chan error, 3)
)

func main() {
	// Create a context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create a wait group for graceful shutdown
	var wg sync.WaitGroup

	// Initialize configuration and services
	if err := initialize(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Initialization error: %v\n", err)
		os.Exit(1)
	}

	// Start the chat platforms
	startDiscordClient(ctx, &wg)
	startWhatsAppClient(ctx, &wg)

	// Start the web server
	startWebServer(ctx, &wg)

	// Handle shutdown signals
	waitForShutdown(cancel, &wg)
}

func initialize(ctx context.Context) error {
	var err error

	// Load configuration
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log = logger.New(cfg.Log.Level, cfg.Log.Format)
	log.Info("Starting Uzi Doorman Bot")

	// Language-model backend
	gen, err := generator.New(generator.Config{
		Provider:     cfg.Generator.Provider,
		APIKey:       cfg.Generator.APIKey,
		BaseURL:      cfg.Generator.BaseURL,
		Model:        cfg.Generator.Model,
		SystemPrompt: cfg.Generator.SystemPrompt,
		MaxTokens:    cfg.Generator.MaxTokens,
		MaxRetries:   cfg.Generator.MaxRetries,
	})
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}
	log.With("provider", cfg.Generator.Provider).Info("Response generator ready")

	// Commit feed
	commits := github.NewClient(ctx, cfg.GitHub.Token, formatter.MaxCommits)
	if cfg.GitHub.APIURL != "" {
		if commits, err = commits.WithBaseURL(cfg.GitHub.APIURL); err != nil {
			return fmt.Errorf("failed to configure GitHub client: %w", err)
		}
	}

	deps = router.Deps{
		Generator:        gen,
		Commits:          commits,
		Repo:             cfg.GitHub.Repo,
		GeneratorTimeout: cfg.Generator.Timeout,
		CommitsTimeout:   cfg.GitHub.Timeout,
		Log:              log,
	}

	if cfg.Discord.Enabled {
		discordClient, err = discord.NewClient(cfg.Discord.Token, deps, log)
		if err != nil {
			return fmt.Errorf("failed to create Discord client: %w", err)
		}
	}

	if cfg.WhatsApp.Enabled {
		waClient, err = app.NewWhatsAppClient(
			ctx,
			cfg.Database.Driver,
			cfg.Database.DSN,
			cfg.WhatsApp.LogLevel,
			cfg.WhatsApp.DeviceName,
			deps,
			log,
		)
		if err != nil {
			return fmt.Errorf("failed to create WhatsApp client: %w", err)
		}
	}

	return nil
}

func startDiscordClient(ctx context.Context, wg *sync.WaitGroup) {
	if discordClient == nil {
		return
	}

	wg.Go(func() {
		defer func() {
			discordClient.Disconnect()
			log.Info("Discord client shutdown complete")
		}()

		log.Info("Starting Discord client...")
		if err := discordClient.Connect(ctx); err != nil {
			errChan <- fmt.Errorf("failed to connect to Discord: %w", err)
			return
		}

		<-ctx.Done()
		log.Info("Discord client shutting down...")
	})
}

func startWhatsAppClient(ctx context.Context, wg *sync.WaitGroup) {
	if waClient == nil {
		return
	}

	wg.Go(func() {
		defer func() {
			waClient.Disconnect()
			log.Info("WhatsApp client shutdown complete")
		}()

		log.Info("Starting WhatsApp client...")
		if err := waClient.Connect(ctx); err != nil {
			errChan <- fmt.Errorf("failed to connect to WhatsApp: %w", err)
			return
		}

		// Keep the WhatsApp client running
		// It will handle reconnections automatically
		<-ctx.Done()
		log.Info("WhatsApp client shutting down...")
	})
}

func startWebServer(ctx context.Context, wg *sync.WaitGroup) {
	wg.Go(func() {
		log.Info("Starting HTTP server...")

		// The HTTP surface answers as a platform of its own
		httpRouter := router.New(models.BotIdentity{ID: string(models.PlatformHTTP), Name: "Uzi"}, deps)
		httpHandler := handlers.New(httpRouter, log)
		if discordClient != nil {
			httpHandler.AddPlatform(string(models.PlatformDiscord), discordClient)
		}
		if waClient != nil {
			httpHandler.AddPlatform(string(models.PlatformWhatsApp), waClient)
		}

		// Initialize and start HTTP server
		httpServer := server.New(cfg, httpHandler, log)
		if err := httpServer.Start(cfg, errChan); err != nil {
			errChan <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}

		// Keep the server running until shutdown
		<-ctx.Done()
		log.Info("HTTP server shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Error during HTTP server shutdown", err)
		}
	})
}

func waitForShutdown(cancel context.CancelFunc, wg *sync.WaitGroup) {
	// Wait for either service to fail or for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	exitCode := 0
	select {
	case err := <-errChan:
		log.Error("Service failed", err)
		exitCode = 1
	case <-sigChan:
		log.Info("Received shutdown signal")
	}

	// Cancel context to signal goroutines to shutdown
	cancel()

	// Wait for all goroutines to finish
	wg.Wait()

	log.Info("Application stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
