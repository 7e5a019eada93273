package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/payform/acceptance/internal/models"
	"github.com/payform/acceptance/internal/services"
)

// PaymentHandler handles submissions of the payment form
type PaymentHandler struct {
	pages          *pageRenderer
	paymentService services.PaymentService
	revealDelay    time.Duration
	logger         *slog.Logger
}

// NewPaymentHandler creates a new payment handler. The bank's verdict is
// revealed revealDelay after the page loads.
func NewPaymentHandler(paymentService services.PaymentService, amount int64, revealDelay time.Duration, logger *slog.Logger) (*PaymentHandler, error) {
	pages, err := newPageRenderer(amount)
	if err != nil {
		return nil, err
	}

	return &PaymentHandler{
		pages:          pages,
		paymentService: paymentService,
		revealDelay:    revealDelay,
		logger:         logger,
	}, nil
}

// ServeHTTP handles POST /pay/{kind}
func (h *PaymentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	kind, err := models.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		http.Error(w, "Unknown payment kind", http.StatusNotFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	sub := models.CardSubmission{
		Number: r.PostForm.Get("number"),
		Month:  r.PostForm.Get("month"),
		Year:   r.PostForm.Get("year"),
		Holder: r.PostForm.Get("holder"),
		CVC:    r.PostForm.Get("cvc"),
	}

	result, err := h.paymentService.Pay(r.Context(), kind, sub)

	var verr *services.ValidationError
	if errors.As(err, &verr) {
		h.logger.Debug("submission rejected", "kind", string(kind), "error", verr)
		h.write(w, h.pages.formData(kind, sub, verr.Fields))
		return
	}

	data := h.pages.formData(kind, sub, nil)
	data.RevealDelayMS = h.revealDelay.Milliseconds()
	data.Verdict = verdictError

	switch {
	case errors.Is(err, services.ErrCardUnknown):
		h.logger.Info("card unknown to the bank", "kind", string(kind))
	case err != nil:
		h.logger.Error("payment failed", "kind", string(kind), "error", err)
	case result.Record.IsApproved():
		data.Verdict = verdictOK
	}

	h.write(w, data)
}

func (h *PaymentHandler) write(w http.ResponseWriter, data PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.pages.render(w, data); err != nil {
		h.logger.Error("failed to render payment page", "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
