package specification

import "gorm.io/gorm"

// BySource filters knowledge chunks by originating file
type BySource struct {
	Source string
}

func (s BySource) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("source = ?", s.Source)
}
