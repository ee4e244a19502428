package graph

import "testing"

func TestDrugKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Epinephrine", "epinephrine"},
		{"already lower", "tetracycline", "tetracycline"},
		{"mixed case collapses", "EPINEPHRINE", "epinephrine"},
		{"never truncated", "a very long drug name that exceeds twenty characters", "a very long drug name that exceeds twenty characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DrugKey(tt.in); got != tt.want {
				t.Errorf("DrugKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPublicationKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercased and truncated", "Epinephrine use in anaphylaxis", "epinephrine use in a"},
		{"short title untouched", "Short title", "short title"},
		{"exactly twenty chars", "12345678901234567890", "12345678901234567890"},
		{"truncates by runes not bytes", "überlange Titelzeile mit Umlauten", "überlange titelzeile"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PublicationKey(tt.in); got != tt.want {
				t.Errorf("PublicationKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestJournalKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"case preserved", "NEJM", "NEJM"},
		{"truncated case preserved", "The Journal of Allergy and Clinical Immunology", "The Journal of Aller"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JournalKey(tt.in); got != tt.want {
				t.Errorf("JournalKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Zwei verschiedene Titel mit gleichen ersten 20 Zeichen kollabieren auf
// denselben Schlüssel. Das ist die dokumentierte Kollisions-Eigenschaft der
// Trunkierung, kein Bug.
func TestPublicationKeyCollision(t *testing.T) {
	a := PublicationKey("Tetracycline in cardiac surgery outcomes")
	b := PublicationKey("Tetracycline in cardiology, a review")
	if a != b {
		t.Fatalf("expected truncation collision, got %q and %q", a, b)
	}
}
