package repository

import (
	"context"
	"fmt"
	"time"

	"capsule-labeling-be/internal/entity"
	"capsule-labeling-be/internal/mapper"
	"capsule-labeling-be/internal/repository/specification"
	"capsule-labeling-be/internal/repository/unitofwork"
	"capsule-labeling-be/pkg/registry"
	"capsule-labeling-be/pkg/storage"
)

// RegistryTableStore keeps both registries in one frames table, told apart by
// the registry column. The ref passed by callers is the registry name.
type RegistryTableStore struct {
	uowFactory unitofwork.RepositoryFactory
	mapper     *mapper.FrameMapper
}

var _ storage.TableStore = (*RegistryTableStore)(nil)

func NewRegistryTableStore(uowFactory unitofwork.RepositoryFactory) *RegistryTableStore {
	return &RegistryTableStore{
		uowFactory: uowFactory,
		mapper:     mapper.NewFrameMapper(),
	}
}

func (s *RegistryTableStore) LoadTable(ctx context.Context, ref string) (*registry.Table, error) {
	if ref == "" {
		return registry.NewTable(), nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.FrameRepository()

	schema, err := repo.FindSchema(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("load schema of %s: %w", ref, err)
	}
	frames, err := repo.FindAll(ctx, specification.ByRegistry{Registry: ref}, specification.InRowOrder{})
	if err != nil {
		return nil, fmt.Errorf("load frames of %s: %w", ref, err)
	}

	table := registry.NewTable()
	if schema != nil {
		table.Columns = append(table.Columns, schema.Columns...)
	}
	for _, f := range frames {
		table.Rows = append(table.Rows, s.mapper.ToRecord(f))
	}
	return table, nil
}

// SaveTable replaces the registry inside one transaction.
func (s *RegistryTableStore) SaveTable(ctx context.Context, ref string, table *registry.Table) error {
	if ref == "" {
		return nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			uow.Rollback()
			panic(r)
		}
	}()

	repo := uow.FrameRepository()
	if err := repo.SaveSchema(ctx, &entity.RegistrySchema{
		Registry:  ref,
		Columns:   table.Columns,
		UpdatedAt: time.Now(),
	}); err != nil {
		uow.Rollback()
		return fmt.Errorf("save schema of %s: %w", ref, err)
	}

	frames := make([]*entity.Frame, 0, len(table.Rows))
	for i, rec := range table.Rows {
		frames = append(frames, s.mapper.FromRecord(ref, i, rec))
	}
	if err := repo.ReplaceRegistry(ctx, ref, frames); err != nil {
		uow.Rollback()
		return fmt.Errorf("replace frames of %s: %w", ref, err)
	}

	return uow.Commit()
}
