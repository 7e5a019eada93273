package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	internalcli "github.com/payform/acceptance/internal/cli"
	"github.com/payform/acceptance/internal/config"
	"github.com/payform/acceptance/internal/database"
	"github.com/payform/acceptance/internal/handlers"
	"github.com/payform/acceptance/internal/models"
	"github.com/payform/acceptance/internal/repository"
	"github.com/payform/acceptance/internal/services"
	"github.com/urfave/cli/v2"
)

// buildServerDependencies wires the stand-in form on top of store
func buildServerDependencies(ctx context.Context, cfg *config.Config, store repository.Store, logger *slog.Logger) (internalcli.ServerDependencies, error) {
	deps := internalcli.ServerDependencies{
		StubConfig: cfg.Stub,
		Logger:     logger,
	}

	var gate services.GateClient = services.EmulatorGate{}
	if cfg.Stub.GateURL != "" {
		logger.Info("using external bank gate", "url", cfg.Stub.GateURL)
		gate = services.NewGateClient(cfg.Stub.GateURL)
	}

	records := services.NewRecordService(ctx, store, cfg.Stub.CommitLag, cfg.Stub.Amount, logger)
	deps.Records = records

	formValidator, err := services.NewFormValidator(time.Now)
	if err != nil {
		return deps, fmt.Errorf("failed to create form validator: %w", err)
	}

	paymentService := services.NewPaymentService(gate, records, formValidator, logger)

	start, err := handlers.NewStartHandler(cfg.Stub.Amount, logger)
	if err != nil {
		return deps, fmt.Errorf("failed to create start handler: %w", err)
	}

	payment, err := handlers.NewPaymentHandler(paymentService, cfg.Stub.Amount, cfg.Stub.RevealDelay, logger)
	if err != nil {
		return deps, fmt.Errorf("failed to create payment handler: %w", err)
	}

	api := make(map[models.Kind]*handlers.APIHandler)
	for _, kind := range models.Kinds() {
		api[kind] = handlers.NewAPIHandler(paymentService, kind, logger)
	}

	deps.Routes = &handlers.Handlers{
		Start:   start,
		Payment: payment,
		API:     api,
	}

	return deps, nil
}

// StubCommand returns the command serving the stand-in payment form
func StubCommand() *cli.Command {
	return &cli.Command{
		Name:  "stub",
		Usage: "Serve a stand-in payment form backed by the payment store",
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			// Pending commits are dropped only after the server has drained
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			db, err := database.Open(ctx, &cfg.Database, logger)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			err = database.ApplySchema(ctx, db)
			db.Close()
			if err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}

			store, closeStore, err := repository.Open(ctx, &cfg.Database, logger)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer closeStore()

			deps, err := buildServerDependencies(ctx, cfg, store, logger)
			if err != nil {
				return err
			}

			return internalcli.RunServe(deps)
		},
	}
}
