package trialcsv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"drug-graph/models"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clinical_trials.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtract(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"id,scientific_title,date,journal",
		"NCT01967433,Use of Diphenhydramine as an Adjunctive Sedative,1 January 2020,Journal of emergency nursing",
	}, "\n"))

	trials, err := NewExtractor(path, nil).Extract()
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(trials) != 1 {
		t.Fatalf("len(trials) = %d, want 1", len(trials))
	}
	got := trials[0]
	if got.ID != "NCT01967433" {
		t.Errorf("id = %q", got.ID)
	}
	if got.Title != "Use of Diphenhydramine as an Adjunctive Sedative" {
		t.Errorf("scientific_title not mapped to title: %q", got.Title)
	}
	if got.Date != "2020-01-01" {
		t.Errorf("date = %q, want normalized 2020-01-01", got.Date)
	}
	if got.Source != models.SourceClinicalTrial {
		t.Errorf("source = %q, want clinical_trial", got.Source)
	}
}

func TestExtractDropsIncompleteRows(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"id,scientific_title,date,journal",
		",Missing id,2020-01-01,NEJM",
		"NCT2,,2020-01-01,NEJM",
		"NCT3,Missing journal,2020-01-01,",
		"NCT4,Kept,2020-01-01,NEJM",
		"NCT4,Duplicate dropped,2020-02-01,Lancet",
	}, "\n"))

	trials, err := NewExtractor(path, nil).Extract()
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(trials) != 1 || trials[0].Title != "Kept" {
		t.Fatalf("trials = %+v, want only NCT4 first occurrence", trials)
	}
}

func TestExtractBadDateFails(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"id,scientific_title,date,journal",
		"NCT1,Title,sometime,NEJM",
	}, "\n"))

	if _, err := NewExtractor(path, nil).Extract(); err == nil {
		t.Error("expected error for unsupported date, got nil")
	}
}

func TestExtractMissingColumn(t *testing.T) {
	path := writeCSV(t, "id,title,date,journal\nNCT1,Title,2020-01-01,NEJM\n")
	if _, err := NewExtractor(path, nil).Extract(); err == nil {
		t.Error("expected error for missing scientific_title column, got nil")
	}
}
