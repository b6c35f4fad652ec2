// main.go
package main

import (
	"context"
	"log"

	"limo-booking/cmd"
	"limo-booking/internal/data/repository"
	"limo-booking/internal/notify"
	"limo-booking/internal/wire"
	"limo-booking/pkg/docstore"
	"limo-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Select the document store once, from available credentials
	ctx := context.Background()
	store, err := docstore.Open(ctx, config.Store, config.App.Debug, logger)
	if err != nil {
		logger.Fatal("Failed to open document store", zap.Error(err))
	}
	defer store.Close(ctx)

	logger.Info("Document store ready")

	// Initialize repositories
	repos := repository.NewRepository(store, logger)

	// Notification transport: SMTP when configured, log-only otherwise
	var mailer notify.Mailer
	if config.Email.Host != "" {
		mailer = notify.NewSMTPMailer(config.Email)
	} else {
		logger.Warn("No SMTP credentials configured, emails will only be logged")
		mailer = notify.NewLogMailer(logger)
	}
	dispatcher := notify.NewDispatcher(mailer, config.Email.AdminEmail, notify.DefaultPolicy(), logger)

	// Wire all dependencies
	app := wire.Wiring(repos, dispatcher, config, logger)

	// Start server
	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	cmd.APIServer(app.Router, config.App.Port)
}
