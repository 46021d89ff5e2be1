package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/osezele/circulata/data"
)

type books interface {
	GetBook(ctx context.Context, bookID int64) (*data.Book, error)
	GetBookForUpdate(ctx context.Context, bookID int64) (*data.Book, error)
}

// GetBook retrieves a book copy record by its ID.
func (r *repository) GetBook(ctx context.Context, bookID int64) (*data.Book, error) {
	return r.getBook(ctx, bookID, false)
}

// GetBookForUpdate retrieves a book copy record and takes a row lock on
// it for the duration of the current transaction. Conflicting writers
// touching the same copy serialize on this lock.
func (r *repository) GetBookForUpdate(ctx context.Context, bookID int64) (*data.Book, error) {
	return r.getBook(ctx, bookID, true)
}

func (r *repository) getBook(ctx context.Context, bookID int64, forUpdate bool) (*data.Book, error) {
	if bookID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT id, title_id, call_sign, status
		FROM books
		WHERE id = $1`
	if forUpdate {
		query += `
		FOR UPDATE`
	}
	var book data.Book
	err := r.q.QueryRowContext(ctx, query, bookID).Scan(
		&book.ID,
		&book.TitleID,
		&book.CallSign,
		&book.Status,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &book, nil
}
