package scope

import "gorm.io/gorm"

// OrderByPosition restores the row order a registry was saved in.
func OrderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
