package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/payform/acceptance/internal/logging"
	"github.com/payform/acceptance/internal/models"
	"github.com/payform/acceptance/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() url.Values {
	return url.Values{
		"number": {"4444 4444 4444 4441"},
		"month":  {"11"},
		"year":   {"27"},
		"holder": {"JOHN SMITH"},
		"cvc":    {"123"},
	}
}

func postForm(t *testing.T, svc services.PaymentService, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	handler, err := NewPaymentHandler(svc, 4500000, 250*time.Millisecond, logging.Discard())
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Method(http.MethodPost, "/pay/{kind}", handler)

	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPaymentHandler_Verdicts(t *testing.T) {
	tests := []struct {
		name        string
		kind        models.Kind
		result      *services.PaymentResult
		err         error
		wantVerdict string
	}{
		{name: "approved", kind: models.KindDirect, result: verdict(models.KindDirect, models.StatusApproved), wantVerdict: "ok"},
		{name: "declined", kind: models.KindCredit, result: verdict(models.KindCredit, models.StatusDeclined), wantVerdict: "error"},
		{name: "unknown card", kind: models.KindDirect, err: fmt.Errorf("failed to authorize: %w", services.ErrCardUnknown), wantVerdict: "error"},
		{name: "gate down", kind: models.KindDirect, err: errors.New("connection refused"), wantVerdict: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockPaymentService{
				PayFunc: func(ctx context.Context, kind models.Kind, sub models.CardSubmission) (*services.PaymentResult, error) {
					assert.Equal(t, tt.kind, kind)
					assert.Equal(t, "JOHN SMITH", sub.Holder)
					return tt.result, tt.err
				},
			}

			w := postForm(t, svc, "/pay/"+string(tt.kind), validForm())

			require.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			assert.Contains(t, body, `class="notification notification_status_`+tt.wantVerdict+`" hidden`)
			assert.Regexp(t, `\},\s*250\s*\);`, body, "verdict is revealed after the configured delay")
			assert.Contains(t, body, `value="4444 4444 4444 4441"`, "submitted values are kept")
		})
	}
}

func TestPaymentHandler_FieldErrors(t *testing.T) {
	svc := &MockPaymentService{
		PayFunc: func(ctx context.Context, kind models.Kind, sub models.CardSubmission) (*services.PaymentResult, error) {
			return nil, rejected(map[models.Field]models.Outcome{
				models.FieldMonth:  models.ExpiryFormatError,
				models.FieldHolder: models.EmptyFieldError,
				models.FieldCVC:    models.FieldFormatError,
			})
		},
	}

	w := postForm(t, svc, "/pay/direct", validForm())

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.NotContains(t, body, `id="verdict"`)
	assert.Contains(t, body, `<span class="input__sub">Неверно указан срок действия карты</span>`)
	assert.Contains(t, body, `<span class="input__sub">Поле обязательно для заполнения</span>`)
	assert.Contains(t, body, `<span class="input__sub">Неверный формат</span>`)
	assert.Equal(t, 3, strings.Count(body, `class="input__sub"`))

	// the message sits inside the block of the field it belongs to
	holder := body[strings.Index(body, "Владелец"):strings.Index(body, "CVC/CVV")]
	assert.Contains(t, holder, "Поле обязательно для заполнения")
}

func TestPaymentHandler_UnknownKind(t *testing.T) {
	svc := &MockPaymentService{}

	w := postForm(t, svc, "/pay/cash", validForm())

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, svc.calls)
}

func TestPaymentHandler_MethodNotAllowed(t *testing.T) {
	handler, err := NewPaymentHandler(&MockPaymentService{}, 4500000, 0, logging.Discard())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pay/direct", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

// stubRecords drops every commit
type stubRecords struct{ committed int }

func (s *stubRecords) Commit(*models.PaymentRecord) { s.committed++ }
func (s *stubRecords) Wait()                        {}

func TestPaymentHandler_WithEmulatorGate(t *testing.T) {
	now := func() time.Time { return time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC) }
	records := &stubRecords{}
	validator, err := services.NewFormValidator(now)
	require.NoError(t, err)
	svc := services.NewPaymentService(services.EmulatorGate{}, records, validator, logging.Discard())

	approved := postForm(t, svc, "/pay/credit", validForm())
	assert.Contains(t, approved.Body.String(), "notification_status_ok\" hidden")

	unknown := validForm()
	unknown.Set("number", "0000 0000 0000 0000")
	w := postForm(t, svc, "/pay/credit", unknown)
	assert.Contains(t, w.Body.String(), "notification_status_error\" hidden")

	empty := postForm(t, svc, "/pay/direct", url.Values{})
	assert.Equal(t, 4, strings.Count(empty.Body.String(), "Неверный формат"))
	assert.Equal(t, 1, strings.Count(empty.Body.String(), "Поле обязательно для заполнения"))

	assert.Equal(t, 1, records.committed, "only the known card leaves a record")
}
