// Package form drives the payment form in a browser through playwright.
package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/payform/acceptance/internal/models"
	"github.com/payform/acceptance/internal/outcome"
	"github.com/playwright-community/playwright-go"
)

// ErrNavigation is returned when the form under test cannot be loaded
var ErrNavigation = errors.New("payment form unreachable")

// DefaultActionTimeout bounds single browser actions such as a click or fill
const DefaultActionTimeout = 10 * time.Second

// StartPage is the landing page offering both ways to pay
type StartPage struct {
	bctx   playwright.BrowserContext
	page   playwright.Page
	logger *slog.Logger
}

// Open loads baseURL on a fresh page in a fresh browser context
func Open(ctx context.Context, browser playwright.Browser, baseURL string, logger *slog.Logger) (*StartPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bctx, err := browser.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	bctx.SetDefaultTimeout(float64(DefaultActionTimeout.Milliseconds()))

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	resp, err := page.Goto(baseURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		bctx.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrNavigation, baseURL, err)
	}
	if resp != nil && !resp.Ok() {
		bctx.Close()
		return nil, fmt.Errorf("%w: %s answered %d", ErrNavigation, baseURL, resp.Status())
	}

	logger.Debug("start page opened", "url", baseURL)

	return &StartPage{bctx: bctx, page: page, logger: logger}, nil
}

// BuyWithCard opens the direct purchase form
func (s *StartPage) BuyWithCard() (*PaymentPage, error) {
	return s.Entry(models.KindDirect)
}

// BuyWithCredit opens the purchase on credit form
func (s *StartPage) BuyWithCredit() (*PaymentPage, error) {
	return s.Entry(models.KindCredit)
}

// Entry opens the payment form for kind
func (s *StartPage) Entry(kind models.Kind) (*PaymentPage, error) {
	button, err := EntrySelector(kind)
	if err != nil {
		return nil, err
	}
	heading, err := HeadingSelector(kind)
	if err != nil {
		return nil, err
	}

	if err := s.page.Locator(button).Click(); err != nil {
		return nil, fmt.Errorf("failed to open %s form: %w", kind, err)
	}
	if err := s.page.Locator(heading).WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	}); err != nil {
		return nil, fmt.Errorf("%s form did not open: %w", kind, err)
	}

	return &PaymentPage{
		kind:   kind,
		bctx:   s.bctx,
		page:   s.page,
		logger: s.logger.With("kind", string(kind)),
	}, nil
}

// Close releases the browser context
func (s *StartPage) Close() error {
	return s.bctx.Close()
}

// PaymentPage is an open payment form of one kind
type PaymentPage struct {
	kind   models.Kind
	bctx   playwright.BrowserContext
	page   playwright.Page
	logger *slog.Logger
}

var _ outcome.Surface = (*PaymentPage)(nil)

// Kind returns the payment kind the form was opened for
func (p *PaymentPage) Kind() models.Kind {
	return p.kind
}

// SetField types value into field f, replacing what was there
func (p *PaymentPage) SetField(f models.Field, value string) error {
	selector, err := InputSelector(f)
	if err != nil {
		return err
	}
	if err := p.page.Locator(selector).Fill(value); err != nil {
		return fmt.Errorf("failed to fill %s: %w", f, err)
	}
	return nil
}

// Fill types every non-empty value of sub into its field, in page order
func (p *PaymentPage) Fill(sub models.CardSubmission) error {
	for _, f := range models.Fields() {
		value, err := sub.Value(f)
		if err != nil {
			return err
		}
		if value == "" {
			continue
		}
		if err := p.SetField(f, value); err != nil {
			return err
		}
	}
	return nil
}

// Submit presses the continue button
func (p *PaymentPage) Submit() error {
	if err := p.page.Locator(SubmitSelector()).Click(); err != nil {
		return fmt.Errorf("failed to submit %s form: %w", p.kind, err)
	}
	p.logger.Debug("form submitted")
	return nil
}

// Visible reports whether the marker of o is rendered, scoped to field f
func (p *PaymentPage) Visible(ctx context.Context, o models.Outcome, f models.Field) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if p.page.IsClosed() {
		return false, outcome.ErrSurfaceClosed
	}

	selector, err := MarkerSelector(o, f)
	if err != nil {
		return false, err
	}

	// Count does not wait, several fields may carry the same message
	n, err := p.page.Locator(visibleOnly(selector)).Count()
	if errors.Is(err, playwright.ErrTargetClosed) {
		return false, fmt.Errorf("%w: %w", outcome.ErrSurfaceClosed, err)
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up %s: %w", o, err)
	}
	return n > 0, nil
}

// Close releases the browser context and with it the page
func (p *PaymentPage) Close() error {
	return p.bctx.Close()
}
