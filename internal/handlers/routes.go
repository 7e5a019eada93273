package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/payform/acceptance/internal/models"
)

// apiPaths maps the JSON endpoints to the payment kind they accept
var apiPaths = map[models.Kind]string{
	models.KindDirect: "/api/v1/pay",
	models.KindCredit: "/api/v1/credit",
}

// Handlers groups everything the stand-in form serves
type Handlers struct {
	Start   *StartHandler
	Payment *PaymentHandler
	API     map[models.Kind]*APIHandler
}

// AppendRoutes registers the form and API routes on r
func (h *Handlers) AppendRoutes(r chi.Router) {
	r.Method(http.MethodGet, "/", h.Start)
	r.Method(http.MethodPost, "/pay/{kind}", h.Payment)

	for kind, api := range h.API {
		r.Method(http.MethodPost, apiPaths[kind], api)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}
