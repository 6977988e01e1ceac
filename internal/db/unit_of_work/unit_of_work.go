package uow

import (
	"context"
	e "recoverme/internal/core/domain/errors"
	uow "recoverme/internal/core/domain/unit_of_work"
	"recoverme/internal/core/domain/user"
	dbuser "recoverme/internal/db/user"
	"time"

	"github.com/jackc/pgx/v4"
)

// TxBeginner is satisfied by *pgxpool.Pool.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

type pgxUnitOfWorkContext struct {
	tx      pgx.Tx
	timeout time.Duration
}

func (c *pgxUnitOfWorkContext) Commit(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()
	return c.tx.Commit(ctx)
}

func (c *pgxUnitOfWorkContext) Rollback(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()
	return c.tx.Rollback(ctx)
}

func (c *pgxUnitOfWorkContext) Users() user.UserRepository {
	return dbuser.NewPgxRepository(c.tx, c.timeout)
}

// PgxUnitOfWork applies its timeout to every Begin, Commit and Rollback call
// as well as to each repository query inside the transaction.
type PgxUnitOfWork struct {
	db      TxBeginner
	timeout time.Duration
}

func NewPgxUnitOfWork(db TxBeginner, timeout time.Duration) *PgxUnitOfWork {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxUnitOfWork{db: db, timeout: timeout}
}

func (u *PgxUnitOfWork) Begin(ctx context.Context) (uow.Context, error) {
	beginCtx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	tx, err := u.db.Begin(beginCtx)
	if err != nil {
		return nil, err
	}
	return &pgxUnitOfWorkContext{tx: tx, timeout: u.timeout}, nil
}
