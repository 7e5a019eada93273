package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/payform/acceptance/internal/form"
	"github.com/payform/acceptance/internal/repository"
	"github.com/payform/acceptance/internal/scenario"
	"github.com/payform/acceptance/internal/verify"
	"github.com/playwright-community/playwright-go"
	"github.com/urfave/cli/v2"
)

// selectScenarios returns the catalog entries picked by the flags
func selectScenarios(c *cli.Context) ([]scenario.Scenario, error) {
	ks, err := kinds(c)
	if err != nil {
		return nil, err
	}

	var selected []scenario.Scenario
	for _, kind := range ks {
		if name := c.String("name"); name != "" {
			sc, err := scenario.Find(kind, name)
			if err != nil {
				return nil, err
			}
			selected = append(selected, sc)
			continue
		}

		catalog, err := scenario.Catalog(kind)
		if err != nil {
			return nil, err
		}
		selected = append(selected, catalog...)
	}
	return selected, nil
}

// RunCommand returns the command driving the catalog through a browser
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run acceptance scenarios against the payment form",
		Flags: []cli.Flag{
			kindFlag,
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "run only the named scenario"},
			&cli.Int64Flag{Name: "seed", Usage: "seed for generated card data (default: clock)"},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			selected, err := selectScenarios(c)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, closeStore, err := repository.Open(ctx, &cfg.Database, logger)
			if err != nil {
				return err
			}
			defer closeStore()

			pw, err := playwright.Run()
			if err != nil {
				return fmt.Errorf("failed to start playwright: %w", err)
			}
			defer pw.Stop()

			browser, err := form.Launch(pw, cfg.Browser)
			if err != nil {
				return err
			}
			defer browser.Close()

			runner := scenario.NewRunner(
				scenario.BrowserPages(form.NewOpener(browser, cfg.SUT.URL, logger)),
				verify.NewVerifier(store, cfg.Verify, logger),
				cfg.Wait,
				logger,
			)
			if c.IsSet("seed") {
				runner.WithSeed(c.Int64("seed"))
			}

			return runAll(ctx, c, runner, selected)
		},
	}
}

// runAll runs selected in order and reports one line per scenario
func runAll(ctx context.Context, c *cli.Context, runner *scenario.Runner, selected []scenario.Scenario) error {
	out := c.App.Writer
	failed := 0

	for _, sc := range selected {
		res, err := runner.Run(ctx, sc)
		if err != nil {
			failed++
			fmt.Fprintf(out, "FAIL  %-8s %s: %v\n", sc.Kind, sc.Name, err)
			if runner.Aborted() != nil || ctx.Err() != nil {
				break
			}
			continue
		}
		fmt.Fprintf(out, "PASS  %-8s %s (%s, seed %d)\n", res.Kind, res.Scenario, res.Elapsed.Round(time.Millisecond), res.Seed)
	}

	if cause := runner.Aborted(); cause != nil {
		return cli.Exit(fmt.Sprintf("run aborted: %v", cause), 2)
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d scenarios failed", failed, len(selected)), 1)
	}
	return nil
}
