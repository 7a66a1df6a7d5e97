package service

import (
	"errors"
	"testing"

	"github.com/siddkalani/CRM-sub000/internal/model"
)

func strPtr(s string) *string { return &s }

func TestLeadPatch_Apply(t *testing.T) {
	t.Parallel()

	base := model.Lead{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+1-555-0100",
		Company:   "Analytical Engines Ltd",
	}

	t.Run("absent fields are untouched", func(t *testing.T) {
		t.Parallel()

		lead := base
		if err := (LeadPatch{Phone: strPtr("+1-555-0199")}).apply(&lead); err != nil {
			t.Fatalf("apply() error = %v", err)
		}
		if lead.Phone != "+1-555-0199" {
			t.Errorf("Phone = %q, want updated value", lead.Phone)
		}
		if lead.FirstName != "Ada" || lead.Company != "Analytical Engines Ltd" {
			t.Errorf("untouched fields changed: %+v", lead)
		}
	})

	t.Run("explicit empty string clears optional field", func(t *testing.T) {
		t.Parallel()

		lead := base
		if err := (LeadPatch{Company: strPtr("")}).apply(&lead); err != nil {
			t.Fatalf("apply() error = %v", err)
		}
		if lead.Company != "" {
			t.Errorf("Company = %q, want cleared", lead.Company)
		}
	})

	t.Run("clearing a required field fails", func(t *testing.T) {
		t.Parallel()

		lead := base
		err := (LeadPatch{FirstName: strPtr("")}).apply(&lead)
		if !errors.Is(err, ErrMissingLeadFields) {
			t.Errorf("apply() error = %v, want ErrMissingLeadFields", err)
		}
	})

	t.Run("malformed email rejected", func(t *testing.T) {
		t.Parallel()

		lead := base
		err := (LeadPatch{Email: strPtr("not-an-email")}).apply(&lead)
		if !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("apply() error = %v, want ErrInvalidEmail", err)
		}
	})

	t.Run("email is normalized", func(t *testing.T) {
		t.Parallel()

		lead := base
		if err := (LeadPatch{Email: strPtr("  ADA@Example.COM ")}).apply(&lead); err != nil {
			t.Fatalf("apply() error = %v", err)
		}
		if lead.Email != "ada@example.com" {
			t.Errorf("Email = %q, want normalized", lead.Email)
		}
	})
}

func TestContactPatch_Apply(t *testing.T) {
	t.Parallel()

	base := model.Contact{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Phone:     "+1-555-0100",
	}

	t.Run("explicit empty string clears phone", func(t *testing.T) {
		t.Parallel()

		contact := base
		if err := (ContactPatch{Phone: strPtr("")}).apply(&contact); err != nil {
			t.Fatalf("apply() error = %v", err)
		}
		if contact.Phone != "" {
			t.Errorf("Phone = %q, want cleared", contact.Phone)
		}
		if contact.FirstName != "Grace" || contact.Email != "grace@example.com" {
			t.Errorf("untouched fields changed: %+v", contact)
		}
	})

	t.Run("empty email is allowed", func(t *testing.T) {
		t.Parallel()

		contact := base
		if err := (ContactPatch{Email: strPtr("")}).apply(&contact); err != nil {
			t.Fatalf("apply() error = %v", err)
		}
		if contact.Email != "" {
			t.Errorf("Email = %q, want cleared", contact.Email)
		}
	})

	t.Run("clearing the first name fails", func(t *testing.T) {
		t.Parallel()

		contact := base
		err := (ContactPatch{FirstName: strPtr("")}).apply(&contact)
		if !errors.Is(err, ErrMissingContactName) {
			t.Errorf("apply() error = %v, want ErrMissingContactName", err)
		}
	})

	t.Run("malformed email rejected", func(t *testing.T) {
		t.Parallel()

		contact := base
		err := (ContactPatch{Email: strPtr("nope")}).apply(&contact)
		if !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("apply() error = %v, want ErrInvalidEmail", err)
		}
	})
}
