package trialcsv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"drug-graph/models"
	"drug-graph/providers"
)

// Extractor liest klinische Studien aus einer CSV-Datei mit den Spalten
// "id", "scientific_title", "date" und "journal".
type Extractor struct {
	path string
	log  *zap.Logger
}

// NewExtractor erstellt einen Extractor für die angegebene CSV-Datei.
func NewExtractor(path string, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{path: path, log: log}
}

// Name gibt den Quellen-Namen zurück.
func (e *Extractor) Name() string { return "clinical-trials-csv" }

// Extract liest die CSV-Datei und gibt bereinigte Publikationen mit Quelle
// clinical_trial zurück. Der scientific_title wird auf Title abgebildet;
// Zeilen ohne ID, Titel oder Journal fallen raus, Duplikate nach ID behalten
// den ersten Treffer, das Datum wird auf YYYY-MM-DD normalisiert.
func (e *Extractor) Extract() ([]models.Publication, error) {
	f, err := os.Open(e.path)
	if err != nil {
		return nil, fmt.Errorf("open clinical trials csv: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read clinical trials csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("clinical trials csv %s is empty", e.path)
	}

	col, err := providers.RequireColumns(rows[0], "id", "scientific_title", "date", "journal")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	trials := make([]models.Publication, 0, len(rows)-1)
	for _, row := range rows[1:] {
		id := strings.TrimSpace(row[col["id"]])
		title := strings.TrimSpace(row[col["scientific_title"]])
		journal := strings.TrimSpace(row[col["journal"]])
		if id == "" || title == "" || journal == "" {
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		date, err := providers.NormalizeDate(strings.TrimSpace(row[col["date"]]))
		if err != nil {
			return nil, fmt.Errorf("clean clinical trials data from %s: %w", e.path, err)
		}

		trial, err := models.NewPublication(id, title, date, journal, models.SourceClinicalTrial)
		if err != nil {
			return nil, err
		}
		trials = append(trials, trial)
	}

	e.log.Info("Klinische Studien extrahiert",
		zap.String("path", e.path),
		zap.Int("count", len(trials)),
	)
	return trials, nil
}
