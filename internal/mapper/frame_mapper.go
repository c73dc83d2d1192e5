package mapper

import (
	"encoding/json"
	"fmt"
	"time"

	"capsule-labeling-be/internal/entity"
	"capsule-labeling-be/internal/model"
	"capsule-labeling-be/pkg/registry"

	"gorm.io/datatypes"
)

type FrameMapper struct{}

func NewFrameMapper() *FrameMapper {
	return &FrameMapper{}
}

func (m *FrameMapper) ToEntity(f *model.Frame) *entity.Frame {
	if f == nil {
		return nil
	}

	var updatedAt *time.Time
	if !f.UpdatedAt.IsZero() {
		t := f.UpdatedAt
		updatedAt = &t
	}

	labels := make(map[string]bool, len(f.Labels))
	for k, v := range f.Labels {
		if b, ok := v.(bool); ok {
			labels[k] = b
		}
	}
	var extra map[string]string
	if len(f.Extra) > 0 {
		extra = make(map[string]string, len(f.Extra))
		for k, v := range f.Extra {
			extra[k] = fmt.Sprint(v)
		}
	}

	return &entity.Frame{
		Id:        f.Id,
		Registry:  f.Registry,
		Position:  f.Position,
		Frame:     f.Frame,
		Class:     f.Class,
		Movie:     f.Movie,
		Pillcam:   f.Pillcam,
		LabelDate: f.LabelDate,
		Labels:    labels,
		Extra:     extra,
		CreatedAt: f.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *FrameMapper) ToModel(f *entity.Frame) *model.Frame {
	if f == nil {
		return nil
	}

	labels := datatypes.JSONMap{}
	for k, v := range f.Labels {
		labels[k] = v
	}
	var extra datatypes.JSONMap
	if len(f.Extra) > 0 {
		extra = datatypes.JSONMap{}
		for k, v := range f.Extra {
			extra[k] = v
		}
	}

	var updatedAt time.Time
	if f.UpdatedAt != nil {
		updatedAt = *f.UpdatedAt
	}

	return &model.Frame{
		Id:        f.Id,
		Registry:  f.Registry,
		Position:  f.Position,
		Frame:     f.Frame,
		Class:     f.Class,
		Movie:     f.Movie,
		Pillcam:   f.Pillcam,
		LabelDate: f.LabelDate,
		Labels:    labels,
		Extra:     extra,
		CreatedAt: f.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *FrameMapper) ToEntities(frames []*model.Frame) []*entity.Frame {
	entities := make([]*entity.Frame, len(frames))
	for i, f := range frames {
		entities[i] = m.ToEntity(f)
	}
	return entities
}

func (m *FrameMapper) ToModels(frames []*entity.Frame) []*model.Frame {
	models := make([]*model.Frame, len(frames))
	for i, f := range frames {
		models[i] = m.ToModel(f)
	}
	return models
}

// ToRecord drops the storage placement and keeps the registry row.
func (m *FrameMapper) ToRecord(f *entity.Frame) *registry.FrameRecord {
	rec := &registry.FrameRecord{
		Frame:     f.Frame,
		Class:     f.Class,
		Movie:     f.Movie,
		Pillcam:   f.Pillcam,
		LabelDate: f.LabelDate,
		Extra:     f.Extra,
	}
	if len(f.Labels) > 0 {
		rec.Labels = registry.LabelSet(f.Labels)
	}
	return rec.Clone()
}

// FromRecord places a registry row at position in the named registry.
func (m *FrameMapper) FromRecord(registryName string, position int, rec *registry.FrameRecord) *entity.Frame {
	c := rec.Clone()
	return &entity.Frame{
		Registry:  registryName,
		Position:  position,
		Frame:     c.Frame,
		Class:     c.Class,
		Movie:     c.Movie,
		Pillcam:   c.Pillcam,
		LabelDate: c.LabelDate,
		Labels:    c.Labels,
		Extra:     c.Extra,
		CreatedAt: time.Now(),
	}
}

func (m *FrameMapper) SchemaToModel(s *entity.RegistrySchema) (*model.RegistrySchema, error) {
	cols, err := json.Marshal(s.Columns)
	if err != nil {
		return nil, err
	}
	return &model.RegistrySchema{Registry: s.Registry, Columns: datatypes.JSON(cols), UpdatedAt: s.UpdatedAt}, nil
}

func (m *FrameMapper) SchemaToEntity(s *model.RegistrySchema) (*entity.RegistrySchema, error) {
	var cols []string
	if len(s.Columns) > 0 {
		if err := json.Unmarshal(s.Columns, &cols); err != nil {
			return nil, err
		}
	}
	return &entity.RegistrySchema{Registry: s.Registry, Columns: cols, UpdatedAt: s.UpdatedAt}, nil
}
