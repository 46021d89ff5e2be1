package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/osezele/circulata/data"
)

type users interface {
	GetUser(ctx context.Context, userID int64) (*data.User, error)
}

// GetUser retrieves a user record by its ID. The engine only ever
// reads users; their lifecycle belongs to the user-management service.
func (r *repository) GetUser(ctx context.Context, userID int64) (*data.User, error) {
	if userID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT id, nickname, role, penalty_end_date
		FROM users
		WHERE id = $1`
	var user data.User
	var penaltyEndDate sql.NullTime
	err := r.q.QueryRowContext(ctx, query, userID).Scan(
		&user.ID,
		&user.Nickname,
		&user.Role,
		&penaltyEndDate,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if penaltyEndDate.Valid {
		user.PenaltyEndDate = penaltyEndDate.Time
	}
	return &user, nil
}
