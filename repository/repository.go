// Package repository is the data access layer for the lending ledger.
// It holds no policy: eligibility and fulfillment decisions live in the
// service layer, which drives these queries inside a transaction.
package repository

import (
	"context"
	"database/sql"
	"errors"
)

type Repository interface {
	lendings
	reservations
	users
	books

	// WithTx runs fn against a Repository bound to a single database
	// transaction. The transaction is committed if fn returns nil and
	// rolled back otherwise, including on panic. Nested calls are not
	// supported.
	WithTx(ctx context.Context, fn func(Repository) error) error
}

// queryer is the subset of database/sql shared by *sql.DB and *sql.Tx,
// so that every query method works both inside and outside a transaction.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// repository defines the app's repository layer.
type repository struct {
	db *sql.DB // nil when bound to a transaction
	q  queryer
}

// New creates a new instance of Repository.
func New(db *sql.DB) *repository {
	return &repository{db: db, q: db}
}

func (r *repository) WithTx(ctx context.Context, fn func(Repository) error) error {
	if r.db == nil {
		return errors.New("repository: transaction already in progress")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(&repository{q: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
