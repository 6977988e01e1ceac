package uow

import (
	"context"
	"recoverme/internal/core/domain/user"
)

type Context interface {
	Rollback(ctx context.Context) error
	Commit(ctx context.Context) error

	Users() user.UserRepository
}

type UnitOfWork interface {
	Begin(ctx context.Context) (Context, error)
}
