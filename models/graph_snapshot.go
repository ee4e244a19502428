package models

import (
	"time"

	"gorm.io/datatypes"
)

// GraphSnapshot speichert das exportierte Graph-Dokument eines Pipeline-Laufs.
type GraphSnapshot struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`

	// Das vollständige JSON-Dokument (drugs, publications, journals, relationships).
	Document datatypes.JSON `json:"document" gorm:"type:jsonb"`
}

// TableName gibt den expliziten Tabellennamen für GORM an.
func (GraphSnapshot) TableName() string {
	return "graph_snapshots"
}
