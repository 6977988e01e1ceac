package uow

import (
	"context"
	"fmt"
	"recoverme/internal/core/domain/user"
)

type FakeUnitOfWorkContext struct {
	UserRepository    *user.FakeUserRepository
	ReturnCommitError bool
	WasRollbackCalled bool
	WasCommitCalled   bool
}

func NewFakeUnitOfWorkContext(userRepository *user.FakeUserRepository) *FakeUnitOfWorkContext {
	return &FakeUnitOfWorkContext{
		UserRepository: userRepository,
	}
}

func (c *FakeUnitOfWorkContext) Rollback(ctx context.Context) error {
	c.WasRollbackCalled = true
	return nil
}

func (c *FakeUnitOfWorkContext) Commit(ctx context.Context) error {
	if c.ReturnCommitError {
		return fmt.Errorf("could not commit")
	}
	c.WasCommitCalled = true
	return nil
}

func (c *FakeUnitOfWorkContext) Users() user.UserRepository {
	return c.UserRepository
}

type FakeUnitOfWork struct {
	Context          *FakeUnitOfWorkContext
	ReturnBeginError bool
}

func NewFakeUnitOfWork() *FakeUnitOfWork {
	return NewFakeUnitOfWorkWithUsers(user.NewFakeUserRepository())
}

// NewFakeUnitOfWorkWithUsers shares one repository between the unit of work
// and the services that use the repository directly.
func NewFakeUnitOfWorkWithUsers(userRepository *user.FakeUserRepository) *FakeUnitOfWork {
	return &FakeUnitOfWork{
		Context: NewFakeUnitOfWorkContext(userRepository),
	}
}

func (u *FakeUnitOfWork) Begin(ctx context.Context) (Context, error) {
	if u.ReturnBeginError {
		return nil, fmt.Errorf("could not begin unit of work")
	}
	return u.Context, nil
}
