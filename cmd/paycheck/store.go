package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/payform/acceptance/internal/repository"
	"github.com/payform/acceptance/internal/scenario"
	"github.com/payform/acceptance/internal/verify"
	"github.com/urfave/cli/v2"
)

// ScenariosCommand returns the command listing the catalog
func ScenariosCommand() *cli.Command {
	return &cli.Command{
		Name:  "scenarios",
		Usage: "List the acceptance scenarios",
		Flags: []cli.Flag{kindFlag},
		Action: func(c *cli.Context) error {
			ks, err := kinds(c)
			if err != nil {
				return err
			}

			for _, kind := range ks {
				catalog, err := scenario.Catalog(kind)
				if err != nil {
					return err
				}
				for _, sc := range catalog {
					expect := make([]string, 0, len(sc.Expect))
					for _, e := range sc.Expect {
						expect = append(expect, e.String())
					}
					fmt.Fprintf(c.App.Writer, "%-8s %-32s %s -> %s\n", kind, sc.Name, strings.Join(expect, ", "), sc.Record)
				}
			}
			return nil
		},
	}
}

// CheckCommand returns the command probing the environment
func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Check that the payment store and the form are reachable",
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
			defer cancel()

			store, closeStore, err := repository.Open(ctx, &cfg.Database, logger)
			if err != nil {
				return err
			}
			defer closeStore()
			if err := store.Ping(ctx); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "store  ok  %s\n", cfg.Database.Redacted())

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.SUT.URL, nil)
			if err != nil {
				return fmt.Errorf("failed to create request: %w", err)
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return fmt.Errorf("payment form unreachable: %w", err)
			}
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("payment form answered %d", resp.StatusCode)
			}
			fmt.Fprintf(c.App.Writer, "form   ok  %s\n", cfg.SUT.URL)

			return nil
		},
	}
}

// StatusCommand returns the command printing the latest recorded status
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Print the status of the latest payment record",
		Flags: []cli.Flag{kindFlag},
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			ks, err := kinds(c)
			if err != nil {
				return err
			}

			store, closeStore, err := repository.Open(c.Context, &cfg.Database, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			verifier := verify.NewVerifier(store, cfg.Verify, logger)
			for _, kind := range ks {
				status, err := verifier.Status(c.Context, kind)
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "%-8s %s\n", kind, status)
			}
			return nil
		},
	}
}

// CleanupCommand returns the command emptying the payment store
func CleanupCommand() *cli.Command {
	return &cli.Command{
		Name:  "cleanup",
		Usage: "Delete every payment record and order link",
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			store, closeStore, err := repository.Open(c.Context, &cfg.Database, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := verify.NewVerifier(store, cfg.Verify, logger).Cleanup(c.Context); err != nil {
				return err
			}
			logger.Info("payment store cleaned")
			return nil
		},
	}
}
