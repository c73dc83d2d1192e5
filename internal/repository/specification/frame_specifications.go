package specification

import (
	"capsule-labeling-be/internal/repository/scope"

	"gorm.io/gorm"
)

type ByRegistry struct {
	Registry string
}

func (s ByRegistry) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("registry = ?", s.Registry)
}

// InRowOrder keeps the spreadsheet order of a registry.
type InRowOrder struct{}

func (s InRowOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Scopes(scope.OrderByPosition)
}
