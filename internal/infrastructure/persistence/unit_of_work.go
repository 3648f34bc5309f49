package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	appbilling "github.com/invoicing/backend/internal/application/billing"
	"github.com/invoicing/backend/internal/domain/billing"
)

// UnitOfWork owns one database session and at most one open transaction.
// Repositories attach to the ambient transaction through Tx, which is how
// a group of repository operations shares one atomic scope without each
// repository owning its own connection.
//
// A UnitOfWork instance belongs to the single logical operation that
// created it; it must not be shared across concurrent operations.
type UnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUnitOfWork creates a unit of work over the given database handle
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// Begin starts a transaction. opts may be nil, in which case the store's
// default isolation level applies (read committed on PostgreSQL); pass
// sql.TxOptions to override per call. Returns ErrTransactionActive when a
// transaction is already open on this instance.
func (u *UnitOfWork) Begin(ctx context.Context, opts *sql.TxOptions) error {
	if u.tx != nil {
		return billing.ErrTransactionActive
	}

	var tx *gorm.DB
	if opts != nil {
		tx = u.db.WithContext(ctx).Begin(opts)
	} else {
		tx = u.db.WithContext(ctx).Begin()
	}
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	u.tx = tx
	return nil
}

// Tx returns the ambient transaction handle, nil when no transaction is open
func (u *UnitOfWork) Tx() *gorm.DB {
	return u.tx
}

// Active reports whether a transaction is currently open
func (u *UnitOfWork) Active() bool {
	return u.tx != nil
}

// Commit commits the open transaction. The transaction handle is released
// before any commit error is surfaced, so the unit of work is reusable on
// every exit path. Returns ErrNoTransaction when nothing is open.
func (u *UnitOfWork) Commit() error {
	if u.tx == nil {
		return billing.ErrNoTransaction
	}

	err := u.tx.Commit().Error
	u.tx = nil
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls back the open transaction, releasing the handle on every
// exit path. Returns ErrNoTransaction when nothing is open.
func (u *UnitOfWork) Rollback() error {
	if u.tx == nil {
		return billing.ErrNoTransaction
	}

	err := u.tx.Rollback().Error
	u.tx = nil
	if err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// GormTransactionScope implements the billing TransactionScope using a
// unit of work per Execute call. Every call acquires its own transaction,
// so one scope instance is safe to share across concurrent operations.
type GormTransactionScope struct {
	db   *gorm.DB
	opts *sql.TxOptions
}

// NewGormTransactionScope creates a transaction scope using the store's
// default isolation level.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// NewGormTransactionScopeWithOptions creates a transaction scope with an
// explicit isolation level, for deployments that need stricter guarantees
// on concurrent payments against one invoice.
func NewGormTransactionScopeWithOptions(db *gorm.DB, opts *sql.TxOptions) *GormTransactionScope {
	return &GormTransactionScope{db: db, opts: opts}
}

// Execute runs fn within a transaction. The transaction is rolled back
// when fn returns an error, panics, or the context is cancelled before
// commit; otherwise it is committed. The unit of work and its transaction
// are released on every exit path.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appbilling.TransactionalRepositories) error) error {
	uow := NewUnitOfWork(s.db)
	if err := uow.Begin(ctx, s.opts); err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed && uow.Active() {
			_ = uow.Rollback()
		}
	}()

	repos := &gormTransactionalRepositories{tx: uow.Tx()}
	if err := fn(repos); err != nil {
		return err
	}

	// A cancelled operation must not commit half-finished work.
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// gormTransactionalRepositories provides repositories bound to one transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Clients returns the client repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Clients() billing.ClientRepository {
	return NewGormClientRepository(r.tx)
}

// Invoices returns the invoice repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Invoices() billing.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// Payments returns the payment repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Payments() billing.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

var _ appbilling.TransactionScope = (*GormTransactionScope)(nil)
var _ appbilling.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
