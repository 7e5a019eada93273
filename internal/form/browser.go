package form

import (
	"fmt"

	"github.com/payform/acceptance/internal/config"
	"github.com/playwright-community/playwright-go"
)

// Launch starts the browser named in cfg
func Launch(pw *playwright.Playwright, cfg config.BrowserConfig) (playwright.Browser, error) {
	var bt playwright.BrowserType
	switch cfg.Name {
	case "chromium":
		bt = pw.Chromium
	case "firefox":
		bt = pw.Firefox
	case "webkit":
		bt = pw.WebKit
	default:
		return nil, fmt.Errorf("unsupported browser %q", cfg.Name)
	}

	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	}
	if cfg.SlowMo > 0 {
		opts.SlowMo = playwright.Float(float64(cfg.SlowMo.Milliseconds()))
	}

	browser, err := bt.Launch(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to launch %s: %w", cfg.Name, err)
	}
	return browser, nil
}
