package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/payform/acceptance/internal/logging"
	"github.com/payform/acceptance/internal/models"
	"github.com/payform/acceptance/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, svc services.PaymentService) chi.Router {
	t.Helper()
	start, err := NewStartHandler(4500000, logging.Discard())
	require.NoError(t, err)
	payment, err := NewPaymentHandler(svc, 4500000, 0, logging.Discard())
	require.NoError(t, err)

	h := &Handlers{
		Start:   start,
		Payment: payment,
		API: map[models.Kind]*APIHandler{
			models.KindDirect: NewAPIHandler(svc, models.KindDirect, logging.Discard()),
			models.KindCredit: NewAPIHandler(svc, models.KindCredit, logging.Discard()),
		},
	}
	r := chi.NewRouter()
	h.AppendRoutes(r)
	return r
}

func TestAPIHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		body           string
		result         *services.PaymentResult
		err            error
		wantKind       models.Kind
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "approved payment",
			path:           "/api/v1/pay",
			body:           `{"number":"4444 4444 4444 4441","month":"11","year":"27","holder":"JOHN SMITH","cvc":"123"}`,
			result:         verdict(models.KindDirect, models.StatusApproved),
			wantKind:       models.KindDirect,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"APPROVED"}`,
		},
		{
			name:           "declined credit",
			path:           "/api/v1/credit",
			body:           `{"number":"4444 4444 4444 4442"}`,
			result:         verdict(models.KindCredit, models.StatusDeclined),
			wantKind:       models.KindCredit,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"DECLINED"}`,
		},
		{
			name:           "rejected fields",
			path:           "/api/v1/pay",
			body:           `{}`,
			err:            rejected(map[models.Field]models.Outcome{models.FieldHolder: models.EmptyFieldError}),
			wantKind:       models.KindDirect,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Bad Request","message":"Invalid card data","fields":{"holder":"empty-field-error"}}`,
		},
		{
			name:           "unknown card",
			path:           "/api/v1/credit",
			body:           `{}`,
			err:            services.ErrCardUnknown,
			wantKind:       models.KindCredit,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Internal Server Error","message":"Card is not known to the bank"}`,
		},
		{
			name:           "service failure",
			path:           "/api/v1/pay",
			body:           `{}`,
			err:            errors.New("database is down"),
			wantKind:       models.KindDirect,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Internal Server Error","message":"Failed to process payment"}`,
		},
		{
			name:           "malformed body",
			path:           "/api/v1/pay",
			body:           `{`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Bad Request","message":"Invalid request body"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockPaymentService{
				PayFunc: func(ctx context.Context, kind models.Kind, sub models.CardSubmission) (*services.PaymentResult, error) {
					return tt.result, tt.err
				},
			}

			req := httptest.NewRequest(http.MethodPost, tt.path, bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			newRouter(t, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			if tt.wantKind != "" {
				assert.Equal(t, []models.Kind{tt.wantKind}, svc.calls)
			} else {
				assert.Empty(t, svc.calls)
			}
		})
	}
}

func TestAPIHandler_DecodesCardData(t *testing.T) {
	var got models.CardSubmission
	svc := &MockPaymentService{
		PayFunc: func(ctx context.Context, kind models.Kind, sub models.CardSubmission) (*services.PaymentResult, error) {
			got = sub
			return verdict(kind, models.StatusApproved), nil
		},
	}

	body, err := json.Marshal(PaymentRequest{Number: "4444 4444 4444 4441", Month: "01", Year: "28", Holder: "ANNA IVANOVA", CVC: "999"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	newRouter(t, svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/pay", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.CardSubmission{Number: "4444 4444 4444 4441", Month: "01", Year: "28", Holder: "ANNA IVANOVA", CVC: "999"}, got)
}

func TestHandlers_AppendRoutes(t *testing.T) {
	r := newRouter(t, &MockPaymentService{})

	for _, tc := range []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/api/v1/pay", http.StatusMethodNotAllowed},
		{http.MethodGet, "/missing", http.StatusNotFound},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.want, w.Code, "%s %s", tc.method, tc.path)
	}
}
