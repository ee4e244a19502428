package providers

import (
	"fmt"
	"time"

	"drug-graph/models"
)

// DrugSource ist das Interface für Quellen von Drug-Entitäten.
type DrugSource interface {
	// Extract liest die Quelle und gibt validierte Drug-Modelle zurück.
	Extract() ([]models.Drug, error)

	// Name gibt den eindeutigen Namen der Quelle zurück (z.B. "drugs-csv").
	Name() string
}

// PublicationSource ist das Interface für Quellen von Publikationen.
type PublicationSource interface {
	// Extract liest die Quelle und gibt validierte, deduplizierte und
	// datums-normalisierte Publikationen zurück.
	Extract() ([]models.Publication, error)

	// Name gibt den eindeutigen Namen der Quelle zurück (z.B. "pubmed-csv").
	Name() string
}

// dateLayouts sind die akzeptierten Eingabeformate für Publikationsdaten.
var dateLayouts = []string{
	"2006-01-02",     // YYYY-MM-DD
	"02/01/2006",     // DD/MM/YYYY
	"2 January 2006", // D Month YYYY
}

// NormalizeDate parst ein Datum in einem der unterstützten Formate und gibt
// es als ISO-String YYYY-MM-DD zurück.
func NormalizeDate(s string) (string, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unsupported date format: %q", s)
}

// RequireColumns prüft, dass der CSV-Header alle Pflichtspalten enthält,
// und liefert die Spaltenpositionen.
func RequireColumns(header []string, required ...string) (map[string]int, error) {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	var missing []string
	for _, name := range required {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %v", missing)
	}
	return col, nil
}
