package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/payform/acceptance/internal/config"
	"github.com/payform/acceptance/internal/logging"
	"github.com/payform/acceptance/internal/models"
	"github.com/urfave/cli/v2"
)

var version = "0.1.0"

// setup loads the configuration and builds the process logger
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.New(cfg.Logger), nil
}

// kindFlag selects one payment kind, or both when empty
var kindFlag = &cli.StringFlag{
	Name:    "kind",
	Aliases: []string{"k"},
	Usage:   "payment kind: direct or credit (default: both)",
}

// kinds returns the kinds selected by kindFlag
func kinds(c *cli.Context) ([]models.Kind, error) {
	if c.String("kind") == "" {
		return models.Kinds(), nil
	}
	kind, err := models.ParseKind(c.String("kind"))
	if err != nil {
		return nil, err
	}
	return []models.Kind{kind}, nil
}

func main() {
	app := &cli.App{
		Name:    "paycheck",
		Usage:   "Acceptance harness for the card payment form",
		Version: version,
		Commands: []*cli.Command{
			RunCommand(),
			ScenariosCommand(),
			StubCommand(),
			CheckCommand(),
			StatusCommand(),
			CleanupCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
