package main

import (
	"testing"

	"github.com/semanticsaas/talentctl/internal/model"
)

func TestMergeTalentFlags_KeepsUnsetFields(t *testing.T) {
	t.Parallel()

	base := model.Talent{
		ID:                4,
		FirstName:         "Ada",
		LastName:          "Lovelace",
		Email:             "ada@acme.io",
		Phone:             "+44 1",
		Skills:            "analysis",
		Location:          "London",
		SalaryExpectation: 90000,
		CreatedAt:         "2026-01-02T03:04:05Z",
	}

	parsed, fs := talentFlags()
	if err := fs.Parse([]string{"--location", "Berlin"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	merged := mergeTalentFlags(fs, *parsed, base)
	if merged.Location != "Berlin" {
		t.Fatalf("location = %q, want the flag value", merged.Location)
	}
	if merged.FirstName != "Ada" || merged.Email != "ada@acme.io" || merged.Phone != "+44 1" ||
		merged.Skills != "analysis" || merged.SalaryExpectation != 90000 {
		t.Fatalf("unset fields wiped: %+v", merged)
	}
	if merged.ID != 4 || merged.CreatedAt != base.CreatedAt {
		t.Fatalf("server-owned fields disturbed: %+v", merged)
	}
}

func TestMergeTalentFlags_ZeroValueIsSettable(t *testing.T) {
	t.Parallel()

	base := model.Talent{FirstName: "Ada", LastName: "Lovelace", Email: "ada@acme.io", Notes: "keep in touch"}

	parsed, fs := talentFlags()
	if err := fs.Parse([]string{"--notes", "", "--salary", "0"}); err != nil {
		t.Fatalf("parse: %v", err)
	}

	merged := mergeTalentFlags(fs, *parsed, base)
	if merged.Notes != "" {
		t.Fatalf("notes = %q, want explicitly cleared", merged.Notes)
	}
	if merged.SalaryExpectation != 0 {
		t.Fatalf("salary = %v, want explicitly zeroed", merged.SalaryExpectation)
	}
}
