//go:build e2e
// +build e2e

package e2e

import (
	"context"
	"testing"

	"github.com/payform/acceptance/internal/cards"
	"github.com/payform/acceptance/internal/form"
	"github.com/payform/acceptance/internal/models"
	"github.com/payform/acceptance/internal/outcome"
	"github.com/payform/acceptance/internal/verify"
)

func openStart(ctx context.Context) (*form.StartPage, error) {
	return form.Open(ctx, browser, cfg.SUT.URL, logger)
}

// TestPurchaseOnCredit_Catalog runs every purchase on credit scenario
func TestPurchaseOnCredit_Catalog(t *testing.T) {
	runCatalog(t, models.KindCredit)
}

// TestPurchaseOnCredit_DeclinedCard
// Feature: Purchase on credit
//
//	Scenario: Apply for credit with a declined card
//	  Given the payment store is empty
//	  And I open the "Кредит по данным карты" form
//	  When I enter the declined card with a valid expiry, holder and CVC
//	  And I press "Продолжить"
//	  Then I should see the error notification
//	  And the latest credit request should be DECLINED
func TestPurchaseOnCredit_DeclinedCard(t *testing.T) {
	ctx := context.Background()
	verifier := verify.NewVerifier(store, cfg.Verify, logger)

	if err := verifier.Cleanup(ctx); err != nil {
		t.Fatalf("Failed to clean store: %v", err)
	}
	defer verifier.Cleanup(ctx)

	start, err := openStart(ctx)
	if err != nil {
		t.Fatalf("Failed to open start page: %v", err)
	}
	page, err := start.BuyWithCredit()
	if err != nil {
		start.Close()
		t.Fatalf("Failed to open credit form: %v", err)
	}
	defer page.Close()

	if err := page.Fill(cards.NewGenerator(2).WithNumber(cards.DeclinedNumber)); err != nil {
		t.Fatalf("Failed to fill form: %v", err)
	}
	if err := page.Submit(); err != nil {
		t.Fatalf("Failed to submit form: %v", err)
	}

	if _, err := outcome.NewWaiter(page, cfg.Wait, logger).Await(ctx, models.GenericError); err != nil {
		t.Fatalf("Error notification not shown: %v", err)
	}

	if err := verifier.Expect(ctx, models.KindCredit, models.StatusDeclined); err != nil {
		t.Fatalf("Unexpected credit request: %v", err)
	}
}
