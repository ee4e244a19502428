package pubmedfile

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"drug-graph/models"
	"drug-graph/providers"
)

// trailingCommaRe findet Kommas vor schließenden Klammern — der häufigste
// Defekt in den gelieferten PubMed-JSON-Exporten.
var trailingCommaRe = regexp.MustCompile(`,(\s*[\]}])`)

// record ist die Rohform einer PubMed-Zeile aus CSV oder JSON.
type record struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	Journal string `json:"journal"`
}

// Extractor liest PubMed-Publikationen aus einer CSV- oder JSON-Datei.
// Das Format wird an der Dateiendung erkannt.
type Extractor struct {
	path string
	log  *zap.Logger
}

// NewExtractor erstellt einen Extractor für die angegebene Datei.
func NewExtractor(path string, log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{path: path, log: log}
}

// Name gibt den Quellen-Namen zurück.
func (e *Extractor) Name() string {
	if strings.EqualFold(filepath.Ext(e.path), ".json") {
		return "pubmed-json"
	}
	return "pubmed-csv"
}

// Extract liest die Datei, bereinigt die Daten (leere IDs/Titel raus,
// Duplikate nach ID raus, Datum auf YYYY-MM-DD normalisiert) und gibt
// Publikationen mit Quelle pubmed zurück.
func (e *Extractor) Extract() ([]models.Publication, error) {
	var (
		records []record
		err     error
	)
	if strings.EqualFold(filepath.Ext(e.path), ".json") {
		records, err = e.readJSON()
	} else {
		records, err = e.readCSV()
	}
	if err != nil {
		return nil, err
	}

	publications, err := cleanRecords(records, models.SourcePubMed)
	if err != nil {
		return nil, fmt.Errorf("clean pubmed data from %s: %w", e.path, err)
	}

	e.log.Info("PubMed-Publikationen extrahiert",
		zap.String("path", e.path),
		zap.Int("count", len(publications)),
	)
	return publications, nil
}

func (e *Extractor) readCSV() ([]record, error) {
	f, err := os.Open(e.path)
	if err != nil {
		return nil, fmt.Errorf("open pubmed csv: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read pubmed csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("pubmed csv %s is empty", e.path)
	}

	col, err := providers.RequireColumns(rows[0], "id", "title", "date", "journal")
	if err != nil {
		return nil, err
	}

	records := make([]record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, record{
			ID:      row[col["id"]],
			Title:   row[col["title"]],
			Date:    row[col["date"]],
			Journal: row[col["journal"]],
		})
	}
	return records, nil
}

// readJSON liest die JSON-Datei und repariert bei Bedarf hängende Kommas.
func (e *Extractor) readJSON() ([]record, error) {
	content, err := os.ReadFile(e.path)
	if err != nil {
		return nil, fmt.Errorf("open pubmed json: %w", err)
	}

	var records []record
	firstErr := json.Unmarshal(content, &records)
	if firstErr == nil {
		return records, nil
	}
	e.log.Warn("PubMed-JSON nicht direkt parsebar, versuche Reparatur", zap.Error(firstErr))

	fixed := trailingCommaRe.ReplaceAll(content, []byte("$1"))
	if err := json.Unmarshal(fixed, &records); err != nil {
		return nil, fmt.Errorf("parse pubmed json %s: %w", e.path, err)
	}
	e.log.Info("PubMed-JSON erfolgreich repariert und geparst")
	return records, nil
}

// cleanRecords validiert und normalisiert Rohzeilen zu Publikationen:
// Zeilen ohne ID oder Titel fallen raus, Duplikate nach ID behalten den
// ersten Treffer, unparsebare Datumswerte brechen die Extraktion ab.
func cleanRecords(records []record, source models.PublicationSource) ([]models.Publication, error) {
	seen := make(map[string]bool)
	publications := make([]models.Publication, 0, len(records))

	for _, r := range records {
		id := strings.TrimSpace(r.ID)
		title := strings.TrimSpace(r.Title)
		if id == "" || title == "" {
			continue
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		date, err := providers.NormalizeDate(strings.TrimSpace(r.Date))
		if err != nil {
			return nil, err
		}

		pub, err := models.NewPublication(id, title, date, r.Journal, source)
		if err != nil {
			return nil, err
		}
		publications = append(publications, pub)
	}
	return publications, nil
}
