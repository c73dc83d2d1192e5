package entity

import (
	"time"

	"github.com/google/uuid"
)

// Frame is one registry row as stored in the database. Registry names the
// logical table ("labeled", "unlabeled" or a configured ref) and Position
// keeps the spreadsheet row order.
type Frame struct {
	Id        uuid.UUID
	Registry  string
	Position  int
	Frame     string
	Class     string
	Movie     string
	Pillcam   string
	LabelDate *time.Time
	Labels    map[string]bool
	Extra     map[string]string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// RegistrySchema remembers the column order of a registry table.
type RegistrySchema struct {
	Registry  string
	Columns   []string
	UpdatedAt time.Time
}
