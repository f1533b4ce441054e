package schema

import (
	"fmt"

	"gorm.io/gorm"
)

// Tables keeps names of the store tables.
type Tables struct {
	Vernacular string
	MasterList string
}

// DefaultTables returns default table names.
func DefaultTables() Tables {
	return Tables{Vernacular: VernacularTable, MasterList: MasterListTable}
}

// Migrate runs GORM AutoMigrate to create or update the tables.
func Migrate(db *gorm.DB, t Tables) error {
	if err := db.Table(t.Vernacular).AutoMigrate(&VernacularName{}); err != nil {
		return err
	}
	return db.Table(t.MasterList).AutoMigrate(&MasterListEntry{})
}

// IndexDDL returns expression indexes of PostgreSQL tables. GORM tags
// cannot describe indexes on lower(...) used by case-insensitive lookups.
func IndexDDL(t Tables) []string {
	return []string{
		fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS %[1]s_scname_lower_idx "+
				"ON %[1]s (lower(scname))", t.Vernacular),
		fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS %[1]s_name_lower_idx "+
				"ON %[1]s (lower(scientificname))", t.MasterList),
		fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS %[1]s_genus_lower_idx "+
				"ON %[1]s (lower(split_part(scientificname, ' ', 1)))",
			t.MasterList),
	}
}

// SQLiteDDL returns statements that create the tables and indexes in a
// SQLite snapshot.
func SQLiteDDL(t Tables) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	scname TEXT NOT NULL,
	lang TEXT NOT NULL,
	cmname TEXT,
	source TEXT,
	source_priority INTEGER,
	url TEXT,
	source_url TEXT,
	tax_class TEXT,
	tax_order TEXT,
	tax_family TEXT,
	created_at TEXT,
	updated_at TEXT
)`, t.Vernacular),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	dataset TEXT,
	scientificname TEXT NOT NULL,
	family TEXT
)`, t.MasterList),
		fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS %[1]s_scname_lower_idx "+
				"ON %[1]s (lower(scname))", t.Vernacular),
		fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS %[1]s_name_lower_idx "+
				"ON %[1]s (lower(scientificname))", t.MasterList),
	}
}
