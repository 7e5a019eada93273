package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/payform/acceptance/internal/models"
	"github.com/payform/acceptance/internal/services"
)

// APIHandler serves the JSON endpoints the payment form posts to
type APIHandler struct {
	paymentService services.PaymentService
	kind           models.Kind
	logger         *slog.Logger
}

// NewAPIHandler creates a handler accepting kind payments
func NewAPIHandler(paymentService services.PaymentService, kind models.Kind, logger *slog.Logger) *APIHandler {
	return &APIHandler{
		paymentService: paymentService,
		kind:           kind,
		logger:         logger,
	}
}

// PaymentRequest is the card data posted by the form
type PaymentRequest struct {
	Number string `json:"number"`
	Month  string `json:"month"`
	Year   string `json:"year"`
	Holder string `json:"holder"`
	CVC    string `json:"cvc"`
}

// PaymentResponse carries the bank's verdict
type PaymentResponse struct {
	Status models.PaymentStatus `json:"status"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ServeHTTP handles POST /api/v1/pay and /api/v1/credit
func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	result, err := h.paymentService.Pay(r.Context(), h.kind, models.CardSubmission{
		Number: req.Number,
		Month:  req.Month,
		Year:   req.Year,
		Holder: req.Holder,
		CVC:    req.CVC,
	})

	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make(map[string]string, len(verr.Fields))
		for f, o := range verr.Fields {
			fields[fieldNames[f]] = o.String()
		}
		sendErrorResponse(w, "Invalid card data", http.StatusBadRequest, fields)
		return
	case errors.Is(err, services.ErrCardUnknown):
		sendErrorResponse(w, "Card is not known to the bank", http.StatusInternalServerError, nil)
		return
	case err != nil:
		h.logger.Error("failed to process payment", "kind", string(h.kind), "error", err)
		sendErrorResponse(w, "Failed to process payment", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(PaymentResponse{Status: result.Record.Status}); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, message string, statusCode int, fields map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Fields:  fields,
	})
}
