package handlers

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/payform/acceptance/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Verdicts rendered as notification_status_<verdict>
const (
	verdictOK    = "ok"
	verdictError = "error"
)

var fieldNames = map[models.Field]string{
	models.FieldNumber: "number",
	models.FieldMonth:  "month",
	models.FieldYear:   "year",
	models.FieldHolder: "holder",
	models.FieldCVC:    "cvc",
}

// FieldView is one input of the rendered form
type FieldView struct {
	Name    string
	Label   string
	Value   string
	Message string
}

// PageData represents the data passed to the page template.
// An empty Kind renders the start page only.
type PageData struct {
	Amount        string
	Kind          models.Kind
	Heading       string
	Fields        []FieldView
	Verdict       string
	RevealDelayMS int64
}

// pageRenderer renders the start page and both payment forms
type pageRenderer struct {
	template *template.Template
	amount   string
}

func newPageRenderer(amount int64) (*pageRenderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return &pageRenderer{template: tmpl, amount: formatAmount(amount)}, nil
}

// formatAmount renders kopecks as roubles
func formatAmount(kopecks int64) string {
	return fmt.Sprintf("%d,%02d ₽", kopecks/100, kopecks%100)
}

// outcomeMessage returns the text shown under a rejected field
func outcomeMessage(o models.Outcome) string {
	msg, _ := o.Message()
	return msg
}

// formData builds the page for kind with sub's values and the field errors
func (p *pageRenderer) formData(kind models.Kind, sub models.CardSubmission, errs map[models.Field]models.Outcome) PageData {
	fields := make([]FieldView, 0, len(models.Fields()))
	for _, f := range models.Fields() {
		value, _ := sub.Value(f)
		label, _ := f.Label()
		fields = append(fields, FieldView{
			Name:    fieldNames[f],
			Label:   label,
			Value:   value,
			Message: outcomeMessage(errs[f]),
		})
	}

	heading, _ := kind.Heading()
	return PageData{
		Amount:  p.amount,
		Kind:    kind,
		Heading: heading,
		Fields:  fields,
	}
}

func (p *pageRenderer) render(w io.Writer, data PageData) error {
	if data.Amount == "" {
		data.Amount = p.amount
	}
	return p.template.Execute(w, data)
}
