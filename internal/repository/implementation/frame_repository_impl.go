package implementation

import (
	"context"
	"errors"

	"capsule-labeling-be/internal/entity"
	"capsule-labeling-be/internal/mapper"
	"capsule-labeling-be/internal/model"
	"capsule-labeling-be/internal/repository/contract"
	"capsule-labeling-be/internal/repository/specification"

	"gorm.io/gorm"
)

const insertBatchSize = 500

type FrameRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FrameMapper
}

func NewFrameRepository(db *gorm.DB) contract.FrameRepository {
	return &FrameRepositoryImpl{
		db:     db,
		mapper: mapper.NewFrameMapper(),
	}
}

func (r *FrameRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FrameRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Frame, error) {
	var models []*model.Frame
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *FrameRepositoryImpl) ReplaceRegistry(ctx context.Context, registry string, frames []*entity.Frame) error {
	scoped := r.applySpecifications(r.db.WithContext(ctx), specification.ByRegistry{Registry: registry})
	if err := scoped.Delete(&model.Frame{}).Error; err != nil {
		return err
	}
	if len(frames) == 0 {
		return nil
	}
	models := r.mapper.ToModels(frames)
	return r.db.WithContext(ctx).CreateInBatches(models, insertBatchSize).Error
}

func (r *FrameRepositoryImpl) FindSchema(ctx context.Context, registry string) (*entity.RegistrySchema, error) {
	var m model.RegistrySchema
	query := r.applySpecifications(r.db.WithContext(ctx), specification.ByRegistry{Registry: registry})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SchemaToEntity(&m)
}

func (r *FrameRepositoryImpl) SaveSchema(ctx context.Context, schema *entity.RegistrySchema) error {
	m, err := r.mapper.SchemaToModel(schema)
	if err != nil {
		return err
	}
	// Save upserts on the primary key.
	return r.db.WithContext(ctx).Save(m).Error
}
