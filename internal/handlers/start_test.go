package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/payform/acceptance/internal/logging"
	"github.com/payform/acceptance/internal/models"
)

func TestStartHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		target         string
		expectedStatus int
		checkContent   []string
		absentContent  []string
	}{
		{
			name:           "start page",
			method:         http.MethodGet,
			target:         "/",
			expectedStatus: http.StatusOK,
			checkContent:   []string{"Купить", "Купить в кредит", "45000,00 ₽"},
			absentContent:  []string{"<h3>", "Продолжить"},
		},
		{
			name:           "direct purchase form",
			method:         http.MethodGet,
			target:         "/?kind=direct",
			expectedStatus: http.StatusOK,
			checkContent: []string{
				"<h3>Оплата по карте</h3>",
				`<span class="input__top">Номер карты</span>`,
				`<span class="input__top">Месяц</span>`,
				`<span class="input__top">Год</span>`,
				`<span class="input__top">Владелец</span>`,
				`<span class="input__top">CVC/CVV</span>`,
				`action="/pay/direct"`,
				"Продолжить",
			},
			absentContent: []string{`class="input__sub"`, `id="verdict"`},
		},
		{
			name:           "credit form",
			method:         http.MethodGet,
			target:         "/?kind=credit",
			expectedStatus: http.StatusOK,
			checkContent:   []string{"<h3>Кредит по данным карты</h3>", `action="/pay/credit"`},
		},
		{
			name:           "unknown kind",
			method:         http.MethodGet,
			target:         "/?kind=cash",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "method not allowed - POST",
			method:         http.MethodPost,
			target:         "/",
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, err := NewStartHandler(4500000, logging.Discard())
			if err != nil {
				t.Fatalf("Failed to create handler: %v", err)
			}

			req := httptest.NewRequest(tt.method, tt.target, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			body := w.Body.String()
			for _, content := range tt.checkContent {
				if !strings.Contains(body, content) {
					t.Errorf("expected response to contain %q", content)
				}
			}
			for _, content := range tt.absentContent {
				if strings.Contains(body, content) {
					t.Errorf("expected response not to contain %q", content)
				}
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := map[int64]string{
		4500000: "45000,00 ₽",
		100:     "1,00 ₽",
		5:       "0,05 ₽",
	}
	for in, want := range tests {
		if got := formatAmount(in); got != want {
			t.Errorf("formatAmount(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormData_RendersSharedFieldMessages(t *testing.T) {
	pages, err := newPageRenderer(4500000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, o := range models.Outcomes() {
		want, ok := o.Message()
		if !ok {
			continue
		}
		data := pages.formData(models.KindDirect, models.CardSubmission{}, map[models.Field]models.Outcome{models.FieldCVC: o})
		got := data.Fields[len(data.Fields)-1]
		if got.Name != "cvc" || got.Message != want {
			t.Errorf("%s: expected cvc message %q, got %q on %q", o, want, got.Message, got.Name)
		}
	}
}
