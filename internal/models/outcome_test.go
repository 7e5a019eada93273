package models

import (
	"errors"
	"testing"
)

func TestOutcome_StringRoundTrip(t *testing.T) {
	for _, o := range Outcomes() {
		t.Run(o.String(), func(t *testing.T) {
			parsed, err := ParseOutcome(o.String())
			if err != nil {
				t.Fatalf("ParseOutcome(%q) error = %v", o.String(), err)
			}
			if parsed != o {
				t.Errorf("ParseOutcome(%q) = %v, want %v", o.String(), parsed, o)
			}
		})
	}
}

func TestOutcome_Validate(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		wantErr error
	}{
		{name: "success", outcome: Success},
		{name: "expiry format", outcome: ExpiryFormatError},
		{name: "zero value", outcome: 0, wantErr: ErrUnknownOutcome},
		{name: "past the end", outcome: ExpiryFormatError + 1, wantErr: ErrUnknownOutcome},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.outcome.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOutcome_IsBackend(t *testing.T) {
	backend := map[Outcome]bool{Success: true, GenericError: true}
	for _, o := range Outcomes() {
		if got := o.IsBackend(); got != backend[o] {
			t.Errorf("%v.IsBackend() = %v, want %v", o, got, backend[o])
		}
	}
}

func TestOutcomes_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for _, o := range Outcomes() {
		if seen[o.String()] {
			t.Errorf("duplicate outcome name %q", o.String())
		}
		seen[o.String()] = true
	}
	if len(seen) != 6 {
		t.Errorf("expected 6 outcomes, got %d", len(seen))
	}
}

func TestParseOutcome_Unknown(t *testing.T) {
	if _, err := ParseOutcome("loading"); !errors.Is(err, ErrUnknownOutcome) {
		t.Errorf("expected ErrUnknownOutcome, got %v", err)
	}
}
