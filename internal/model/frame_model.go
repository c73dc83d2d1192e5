package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Frame struct {
	Id        uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Registry  string            `gorm:"type:varchar(255);not null;index:idx_registry_frames_position,priority:1;index:idx_registry_frames_frame,priority:1"`
	Position  int               `gorm:"not null;index:idx_registry_frames_position,priority:2"`
	Frame     string            `gorm:"type:varchar(512);not null;index:idx_registry_frames_frame,priority:2"`
	Class     string            `gorm:"type:varchar(512)"`
	Movie     string            `gorm:"type:varchar(255);index"`
	Pillcam   string            `gorm:"type:varchar(255);index"`
	LabelDate *time.Time        `gorm:"type:timestamp"`
	Labels    datatypes.JSONMap `gorm:"type:jsonb"`
	Extra     datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time         `gorm:"autoCreateTime"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime"`
}

func (Frame) TableName() string {
	return "registry_frames"
}

type RegistrySchema struct {
	Registry  string         `gorm:"type:varchar(255);primaryKey"`
	Columns   datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (RegistrySchema) TableName() string {
	return "registry_schemas"
}
