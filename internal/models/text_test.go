package models

import "testing"

func TestOutcome_Message(t *testing.T) {
	for _, o := range Outcomes() {
		msg, ok := o.Message()
		if o.IsBackend() {
			if ok {
				t.Errorf("%s: expected no field message, got %q", o, msg)
			}
			continue
		}
		if !ok || msg == "" {
			t.Errorf("%s: expected a field message", o)
		}
	}

	if _, ok := Outcome(99).Message(); ok {
		t.Error("expected no message for an unknown outcome")
	}
}

func TestOutcome_MessagesAreDistinct(t *testing.T) {
	seen := map[string]Outcome{}
	for _, o := range Outcomes() {
		msg, ok := o.Message()
		if !ok {
			continue
		}
		if prev, dup := seen[msg]; dup {
			t.Errorf("%s and %s share the message %q", prev, o, msg)
		}
		seen[msg] = o
	}
}

func TestField_Label(t *testing.T) {
	for _, f := range Fields() {
		label, err := f.Label()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", f, err)
		}
		if label == "" {
			t.Errorf("%s: empty label", f)
		}
	}

	if _, err := FieldAny.Label(); err == nil {
		t.Error("expected an error for FieldAny")
	}
}

func TestKind_Heading(t *testing.T) {
	direct, err := KindDirect.Heading()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	credit, err := KindCredit.Heading()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if direct == credit {
		t.Errorf("expected distinct headings, both are %q", direct)
	}

	if _, err := Kind("cash").Heading(); err == nil {
		t.Error("expected an error for an unknown kind")
	}
}
