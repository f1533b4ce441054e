// Package schema provides table models of the vernacular name store.
// The same tables serve PostgreSQL (through GORM) and SQLite snapshots.
package schema

import (
	"database/sql"
	"time"
)

const (
	// VernacularTable is the default name of the vernacular names table.
	VernacularTable = "vernacular_names"

	// MasterListTable is the default name of the master list table.
	MasterListTable = "master_list"
)

// VernacularName is one vernacular name of a scientific name reported by
// one source.
type VernacularName struct {
	ID uint `gorm:"primaryKey"`

	// Scname is the scientific name, a species or a higher taxon.
	Scname string `gorm:"column:scname;type:varchar(255);not null"`

	// Lang is a lower-case language code.
	Lang string `gorm:"type:varchar(16);not null;index"`

	// Cmname is the vernacular name, empty if the source only confirms
	// the scientific name.
	Cmname sql.NullString `gorm:"column:cmname;type:varchar(255)"`

	// Source is the contributor of the record.
	Source string `gorm:"type:varchar(255)"`

	// SourcePriority is used to prefer trusted sources.
	SourcePriority sql.NullInt32 `gorm:"column:source_priority"`

	URL       sql.NullString `gorm:"column:url;type:text"`
	SourceURL sql.NullString `gorm:"column:source_url;type:text"`

	// Higher taxonomy of the scientific name.
	TaxClass  sql.NullString `gorm:"column:tax_class;type:varchar(255)"`
	TaxOrder  sql.NullString `gorm:"column:tax_order;type:varchar(255)"`
	TaxFamily sql.NullString `gorm:"column:tax_family;type:varchar(255)"`

	CreatedAt time.Time    `gorm:"type:timestamp without time zone"`
	UpdatedAt sql.NullTime `gorm:"type:timestamp without time zone"`
}

// TableName implements GORM's tabler interface.
func (VernacularName) TableName() string {
	return VernacularTable
}

// MasterListEntry attaches a family to a scientific name.
type MasterListEntry struct {
	ID             uint   `gorm:"primaryKey"`
	Dataset        string `gorm:"type:varchar(255)"`
	Scientificname string `gorm:"column:scientificname;type:varchar(255);not null"`
	Family         string `gorm:"type:varchar(255)"`
}

// TableName implements GORM's tabler interface.
func (MasterListEntry) TableName() string {
	return MasterListTable
}
