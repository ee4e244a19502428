package models

import "strings"

// PublicationSource unterscheidet die Herkunft einer Publikation.
type PublicationSource string

const (
	SourcePubMed        PublicationSource = "pubmed"
	SourceClinicalTrial PublicationSource = "clinical_trial"
)

// Publication repräsentiert eine wissenschaftliche Publikation (PubMed-Artikel
// oder klinische Studie). Identität ist das Paar (ID, Source): dieselbe
// numerische ID kann in beiden Quellen unabhängig existieren.
type Publication struct {
	RowID       uint              `json:"-" gorm:"primaryKey"`
	ID          string            `json:"id" gorm:"column:pub_id;index:idx_publications_identity,unique;not null"`
	Source      PublicationSource `json:"-" gorm:"index:idx_publications_identity,unique;not null"`
	Title       string            `json:"title" gorm:"type:text;not null"`
	Date        string            `json:"date" gorm:"size:10"` // normalisiert auf YYYY-MM-DD
	JournalName string            `json:"journal_name" gorm:"index"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Publication) TableName() string {
	return "publications"
}

// NewPublication erstellt eine Publication und validiert die Identitätsfelder.
func NewPublication(id, title, date, journalName string, source PublicationSource) (Publication, error) {
	id = strings.TrimSpace(id)
	if id == "" || source == "" {
		return Publication{}, ErrInvalidEntity
	}
	return Publication{
		ID:          id,
		Source:      source,
		Title:       strings.TrimSpace(title),
		Date:        strings.TrimSpace(date),
		JournalName: strings.TrimSpace(journalName),
	}, nil
}

// Equal vergleicht zwei Publikationen über ihre Identität (ID, Source).
func (p Publication) Equal(other Publication) bool {
	return p.ID == other.ID && p.Source == other.Source
}
