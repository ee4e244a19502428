package drugcsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"drug-graph/models"
	"drug-graph/providers"
)

// Extractor liest Drug-Daten aus einer CSV-Datei mit den Spalten
// "atccode" und "drug".
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
func (e *Extractor) Name() string { return "drugs-csv" }

// Extract liest die CSV-Datei und gibt validierte Drug-Modelle zurück.
// Zeilen ohne Identität (leerer ATC-Code oder Name) werden mit Warnung
// übersprungen.
func (e *Extractor) Extract() ([]models.Drug, error) {
	f, err := os.Open(e.path)
	if err != nil {
		return nil, fmt.Errorf("open drugs csv: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read drugs csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("drugs csv %s is empty", e.path)
	}

	col, err := providers.RequireColumns(records[0], "atccode", "drug")
	if err != nil {
		return nil, err
	}

	drugs := make([]models.Drug, 0, len(records)-1)
	for _, row := range records[1:] {
		drug, err := models.NewDrug(row[col["atccode"]], row[col["drug"]])
		if errors.Is(err, models.ErrInvalidEntity) {
			e.log.Warn("Drug-Zeile ohne Identität übersprungen", zap.Strings("row", row))
			continue
		}
		if err != nil {
			return nil, err
		}
		drugs = append(drugs, drug)
	}

	e.log.Info("Drugs extrahiert", zap.String("path", e.path), zap.Int("count", len(drugs)))
	return drugs, nil
}
