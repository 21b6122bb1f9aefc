package scope

import "gorm.io/gorm"

// NotDeleted hides soft-deleted rows of table. Queries built with Table()
// and Scan() skip gorm's implicit deleted_at filter.
func NotDeleted(table string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(table + ".deleted_at IS NULL")
	}
}
