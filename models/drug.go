package models

import (
	"errors"
	"strings"
)

// ErrInvalidEntity wird zurückgegeben, wenn einem Datensatz sein Identitätsfeld fehlt.
var ErrInvalidEntity = errors.New("entity is missing its identity field")

// Drug repräsentiert einen Wirkstoff. Der ATC-Code ist die Identität:
// zwei Drugs mit gleichem ATC-Code sind dieselbe Entität, unabhängig von
// der Schreibweise des Namens.
type Drug struct {
	RowID   uint   `json:"-" gorm:"primaryKey"`
	ATCCode string `json:"atccode" gorm:"column:atccode;uniqueIndex;not null"`
	Name    string `json:"name" gorm:"not null"` // z.B. "Epinephrine"
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Drug) TableName() string {
	return "drugs"
}

// NewDrug erstellt ein Drug und validiert die Identitätsfelder.
func NewDrug(atccode, name string) (Drug, error) {
	atccode = strings.TrimSpace(atccode)
	name = strings.TrimSpace(name)
	if atccode == "" || name == "" {
		return Drug{}, ErrInvalidEntity
	}
	return Drug{ATCCode: atccode, Name: name}, nil
}

// Equal vergleicht zwei Drugs ausschließlich über den ATC-Code.
func (d Drug) Equal(other Drug) bool {
	return d.ATCCode == other.ATCCode
}
