package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/osezele/circulata/data"
)

type reservations interface {
	GetAssignedReservationForBook(ctx context.Context, bookID int64) (*data.Reservation, error)
	NextPendingReservationForTitle(ctx context.Context, titleID int64) (*data.Reservation, error)
	AssignReservation(ctx context.Context, reservationID, bookID int64, endAt time.Time) error
	MarkReservationFulfilled(ctx context.Context, reservationID int64) error
}

const reservationColumns = `id, user_id, title_id, book_id, fulfilled, created_at, end_at`

// GetAssignedReservationForBook retrieves the unfulfilled reservation
// currently holding a book copy, if one exists.
func (r *repository) GetAssignedReservationForBook(ctx context.Context, bookID int64) (*data.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE book_id = $1 AND fulfilled = FALSE`
	return r.queryReservation(ctx, query, bookID)
}

// NextPendingReservationForTitle retrieves the oldest pending
// reservation for a title and locks it for the duration of the current
// transaction. SKIP LOCKED lets a concurrent return of a sibling copy
// pass over a reservation that is being assigned and take the
// next-oldest instead.
func (r *repository) NextPendingReservationForTitle(ctx context.Context, titleID int64) (*data.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE title_id = $1 AND book_id IS NULL AND fulfilled = FALSE
		ORDER BY created_at ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED`
	return r.queryReservation(ctx, query, titleID)
}

func (r *repository) queryReservation(ctx context.Context, query string, arg int64) (*data.Reservation, error) {
	if arg < 1 {
		return nil, ErrRecordNotFound
	}
	var reservation data.Reservation
	var bookID sql.NullInt64
	var endAt sql.NullTime
	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&reservation.ID,
		&reservation.UserID,
		&reservation.TitleID,
		&bookID,
		&reservation.Fulfilled,
		&reservation.CreatedAt,
		&endAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if bookID.Valid {
		reservation.BookID = &bookID.Int64
	}
	if endAt.Valid {
		reservation.EndAt = &endAt.Time
	}
	return &reservation, nil
}

// AssignReservation hands a returned copy to a pending reservation and
// starts its hold window.
func (r *repository) AssignReservation(ctx context.Context, reservationID, bookID int64, endAt time.Time) error {
	query := `
		UPDATE reservations
		SET book_id = $1, end_at = $2
		WHERE id = $3 AND book_id IS NULL AND fulfilled = FALSE`
	result, err := r.q.ExecContext(ctx, query, bookID, endAt, reservationID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// MarkReservationFulfilled consumes an assigned reservation once the
// reserving user checks the held copy out.
func (r *repository) MarkReservationFulfilled(ctx context.Context, reservationID int64) error {
	query := `
		UPDATE reservations
		SET fulfilled = TRUE
		WHERE id = $1 AND fulfilled = FALSE`
	result, err := r.q.ExecContext(ctx, query, reservationID)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
