package slugs

import "testing"

func TestKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Billing Revamp", "billing-revamp"},
		{"  Core Banking Upgrade  ", "core-banking-upgrade"},
		{"UPPER CASE", "upper-case"},
		{"Special: Characters!", "special-characters"},
		{"already-a-key", "already-a-key"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Key(tt.in); got != tt.want {
				t.Fatalf("Key(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnique(t *testing.T) {
	taken := map[string]bool{"data-lake": true, "data-lake-2": true}
	if got := Unique("data-lake", func(s string) bool { return taken[s] }); got != "data-lake-3" {
		t.Fatalf("Unique = %q, want data-lake-3", got)
	}
	if got := Unique("fresh", func(s string) bool { return taken[s] }); got != "fresh" {
		t.Fatalf("Unique = %q, want fresh", got)
	}
}

func TestIsKey(t *testing.T) {
	if !IsKey("billing-revamp") {
		t.Fatalf("expected billing-revamp to be a key")
	}
	for _, s := range []string{"", "Billing Revamp", "-lead"} {
		if IsKey(s) {
			t.Fatalf("expected %q not to be a key", s)
		}
	}
}
