package unitofwork

import (
	"context"

	"capsule-labeling-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	FrameRepository() contract.FrameRepository
}
