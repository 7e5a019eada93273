package form

import (
	"context"
	"log/slog"

	"github.com/payform/acceptance/internal/models"
	"github.com/playwright-community/playwright-go"
)

// Opener opens payment forms of either kind on a shared browser
type Opener struct {
	browser playwright.Browser
	baseURL string
	logger  *slog.Logger
}

// NewOpener creates an opener for the form served at baseURL
func NewOpener(browser playwright.Browser, baseURL string, logger *slog.Logger) *Opener {
	return &Opener{
		browser: browser,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Open loads the start page in a fresh browser context and enters the form for kind
func (o *Opener) Open(ctx context.Context, kind models.Kind) (*PaymentPage, error) {
	start, err := Open(ctx, o.browser, o.baseURL, o.logger)
	if err != nil {
		return nil, err
	}

	page, err := start.Entry(kind)
	if err != nil {
		start.Close()
		return nil, err
	}

	return page, nil
}
