package model

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := map[string]Role{
		"5":                RoleDeveloper,
		"Developer":        RoleDeveloper,
		"business analyst": RoleBusinessAnalyst,
		"Technical-Lead":   RoleTechnicalLead,
		"":                 0,
	}
	for in, want := range tests {
		got, err := ParseRole(in)
		if err != nil || got != want {
			t.Errorf("ParseRole(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
	for _, bad := range []string{"8", "0", "intern"} {
		if _, err := ParseRole(bad); !errors.Is(err, ErrUnknownRole) {
			t.Errorf("ParseRole(%q) expected ErrUnknownRole, got %v", bad, err)
		}
	}
	if RoleProjectManager.String() != "Project Manager" || Role(42).String() != "" {
		t.Fatalf("Role.String mismatch")
	}
}

func TestValidateAvailability(t *testing.T) {
	got, err := ValidateAvailability("On Leave")
	if err != nil || got != AvailabilityOnLeave {
		t.Fatalf("ValidateAvailability(On Leave) = %q, %v", got, err)
	}
	if _, err := ValidateAvailability("sleeping"); !errors.Is(err, ErrUnknownAvailability) {
		t.Fatalf("expected ErrUnknownAvailability, got %v", err)
	}
}

func TestPerspectiveAndDivisionCodes(t *testing.T) {
	code, err := ValidatePerspective("Innovation, Learning and Growth")
	if err != nil || code != PerspectiveInnovation {
		t.Fatalf("ValidatePerspective = %q, %v", code, err)
	}
	if code, err := ValidatePerspective("customer"); err != nil || code != PerspectiveCustomer {
		t.Fatalf("ValidatePerspective(customer) = %q, %v", code, err)
	}
	if _, err := ValidatePerspective("marketing"); !errors.Is(err, ErrUnknownPerspective) {
		t.Fatalf("expected ErrUnknownPerspective, got %v", err)
	}

	code, err = ValidateDivision("IT Service Delivery")
	if err != nil || code != "itsd" {
		t.Fatalf("ValidateDivision = %q, %v", code, err)
	}
	if code, err := ValidateDivision("BT-MIS"); err != nil || code != "btmis" {
		t.Fatalf("ValidateDivision(BT-MIS) = %q, %v", code, err)
	}
	if _, err := ValidateDivision("space"); !errors.Is(err, ErrUnknownDivision) {
		t.Fatalf("expected ErrUnknownDivision, got %v", err)
	}
	if DivisionLabel("fm") != "Financial Markets" || DivisionLabel("zz") != "zz" {
		t.Fatalf("DivisionLabel mismatch")
	}
}
