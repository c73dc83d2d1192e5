package contract

import (
	"context"

	"capsule-labeling-be/internal/entity"
	"capsule-labeling-be/internal/repository/specification"
)

type FrameRepository interface {
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Frame, error)
	// ReplaceRegistry hard deletes every row of the registry and inserts frames in order.
	ReplaceRegistry(ctx context.Context, registry string, frames []*entity.Frame) error
	FindSchema(ctx context.Context, registry string) (*entity.RegistrySchema, error)
	SaveSchema(ctx context.Context, schema *entity.RegistrySchema) error
}
