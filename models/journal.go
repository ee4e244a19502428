package models

import "strings"

// Journal repräsentiert ein Fachjournal. Journals werden nicht eigenständig
// angelegt, sondern aus den Journal-Namen der Publikationen abgeleitet.
// Identität ist der Name, case-sensitive.
type Journal struct {
	RowID uint   `json:"-" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"uniqueIndex;not null"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (Journal) TableName() string {
	return "journals"
}

// NewJournal erstellt ein Journal und validiert das Identitätsfeld.
func NewJournal(name string) (Journal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Journal{}, ErrInvalidEntity
	}
	return Journal{Name: name}, nil
}
