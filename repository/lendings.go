package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect import
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/osezele/circulata/data"
)

type lendings interface {
	CreateLending(ctx context.Context, lending *data.Lending) error
	GetLending(ctx context.Context, lendingID int64) (*data.Lending, error)
	GetLendingForUpdate(ctx context.Context, lendingID int64) (*data.Lending, error)
	GetActiveLendingForBook(ctx context.Context, bookID int64) (*data.Lending, error)
	GetActiveLendingsForUser(ctx context.Context, userID int64) ([]*data.Lending, error)
	MarkLendingReturned(ctx context.Context, lending *data.Lending) error
	GetLendingView(ctx context.Context, lendingID int64) (*data.LendingView, error)
	SearchLendings(ctx context.Context, search, filterType string, filters data.Filters) ([]*data.LendingItem, data.Metadata, error)
}

const lendingColumns = `id, user_id, book_id, created_at, returned_at, lending_condition, returning_condition, lending_librarian_id, returning_librarian_id`

// CreateLending inserts a new lending record.
func (r *repository) CreateLending(ctx context.Context, lending *data.Lending) error {
	query := `
		INSERT INTO lendings (user_id, book_id, lending_librarian_id, lending_condition)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	args := []interface{}{lending.UserID, lending.BookID, lending.LendingLibrarianID, lending.LendingCondition}
	return r.q.QueryRowContext(ctx, query, args...).Scan(&lending.ID, &lending.CreatedAt)
}

// GetLending retrieves a lending record by its ID.
func (r *repository) GetLending(ctx context.Context, lendingID int64) (*data.Lending, error) {
	query := `
		SELECT ` + lendingColumns + `
		FROM lendings
		WHERE id = $1`
	return r.queryLending(ctx, query, lendingID)
}

// GetLendingForUpdate retrieves a lending record and takes a row lock
// on it for the duration of the current transaction, so that two
// returns of the same lending serialize.
func (r *repository) GetLendingForUpdate(ctx context.Context, lendingID int64) (*data.Lending, error) {
	query := `
		SELECT ` + lendingColumns + `
		FROM lendings
		WHERE id = $1
		FOR UPDATE`
	return r.queryLending(ctx, query, lendingID)
}

// GetActiveLendingForBook retrieves the single lending row with no
// return date for a book copy, if one exists.
func (r *repository) GetActiveLendingForBook(ctx context.Context, bookID int64) (*data.Lending, error) {
	query := `
		SELECT ` + lendingColumns + `
		FROM lendings
		WHERE book_id = $1 AND returned_at IS NULL`
	return r.queryLending(ctx, query, bookID)
}

func (r *repository) queryLending(ctx context.Context, query string, arg int64) (*data.Lending, error) {
	if arg < 1 {
		return nil, ErrRecordNotFound
	}
	var lending data.Lending
	var returnedAt sql.NullTime
	var returningCondition sql.NullString
	var returningLibrarianID sql.NullInt64
	err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&lending.ID,
		&lending.UserID,
		&lending.BookID,
		&lending.CreatedAt,
		&returnedAt,
		&lending.LendingCondition,
		&returningCondition,
		&lending.LendingLibrarianID,
		&returningLibrarianID,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if returnedAt.Valid {
		lending.ReturnedAt = &returnedAt.Time
	}
	if returningCondition.Valid {
		lending.ReturningCondition = returningCondition.String
	}
	if returningLibrarianID.Valid {
		lending.ReturningLibrarianID = &returningLibrarianID.Int64
	}
	return &lending, nil
}

// GetActiveLendingsForUser retrieves all lending rows with no return
// date for a user.
func (r *repository) GetActiveLendingsForUser(ctx context.Context, userID int64) ([]*data.Lending, error) {
	query := `
		SELECT ` + lendingColumns + `
		FROM lendings
		WHERE user_id = $1 AND returned_at IS NULL
		ORDER BY created_at ASC`
	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	lendings := []*data.Lending{}
	for rows.Next() {
		var lending data.Lending
		var returnedAt sql.NullTime
		var returningCondition sql.NullString
		var returningLibrarianID sql.NullInt64
		err := rows.Scan(
			&lending.ID,
			&lending.UserID,
			&lending.BookID,
			&lending.CreatedAt,
			&returnedAt,
			&lending.LendingCondition,
			&returningCondition,
			&lending.LendingLibrarianID,
			&returningLibrarianID,
		)
		if err != nil {
			return nil, err
		}
		lendings = append(lendings, &lending)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lendings, nil
}

// MarkLendingReturned sets the return timestamp and return metadata on
// a lending record. The WHERE clause guards the at-most-once mutation:
// a row that is already returned is not touched.
func (r *repository) MarkLendingReturned(ctx context.Context, lending *data.Lending) error {
	query := `
		UPDATE lendings
		SET returned_at = $1, returning_librarian_id = $2, returning_condition = $3
		WHERE id = $4 AND returned_at IS NULL
		RETURNING returned_at`
	args := []interface{}{lending.ReturnedAt, lending.ReturningLibrarianID, lending.ReturningCondition, lending.ID}
	var returnedAt time.Time
	err := r.q.QueryRowContext(ctx, query, args...).Scan(&returnedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	lending.ReturnedAt = &returnedAt
	return nil
}

// GetLendingView retrieves the read-only detail projection of a lending.
func (r *repository) GetLendingView(ctx context.Context, lendingID int64) (*data.LendingView, error) {
	if lendingID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT l.id, u.nickname, u.penalty_end_date, t.title, b.call_sign, l.lending_condition, l.created_at
		FROM lendings l
		INNER JOIN users u ON u.id = l.user_id
		INNER JOIN books b ON b.id = l.book_id
		INNER JOIN titles t ON t.id = b.title_id
		WHERE l.id = $1`
	var view data.LendingView
	var penaltyEndDate sql.NullTime
	err := r.q.QueryRowContext(ctx, query, lendingID).Scan(
		&view.ID,
		&view.Login,
		&penaltyEndDate,
		&view.Title,
		&view.CallSign,
		&view.LendingCondition,
		&view.CreatedAt,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	view.DueDate = view.CreatedAt.Add(data.LendingPeriod)
	if penaltyEndDate.Valid {
		view.PenaltyDays = data.PenaltyDays(penaltyEndDate.Time, time.Now())
	}
	return &view, nil
}

// SearchLendings retrieves a paginated list of lendings whose borrower
// nickname, title or call sign matches the search term. The query is
// built with goqu so every piece of user input travels as a bind
// parameter, never as query text.
func (r *repository) SearchLendings(ctx context.Context, search, filterType string, filters data.Filters) ([]*data.LendingItem, data.Metadata, error) {
	query, args, err := buildSearchLendingsQuery(search, filterType, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	now := time.Now()
	totalRecords := 0
	items := []*data.LendingItem{}
	for rows.Next() {
		var item data.LendingItem
		var penaltyEndDate sql.NullTime
		err := rows.Scan(
			&totalRecords,
			&item.ID,
			&item.Login,
			&penaltyEndDate,
			&item.Title,
			&item.CallSign,
			&item.LendingCondition,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		item.DueDate = item.CreatedAt.Add(data.LendingPeriod)
		if penaltyEndDate.Valid {
			item.PenaltyDays = data.PenaltyDays(penaltyEndDate.Time, now)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return items, metadata, nil
}

// Lending search filter types accepted by SearchLendings. Anything else
// matches across all three columns.
const (
	FilterTypeUser     = "user"
	FilterTypeTitle    = "title"
	FilterTypeCallSign = "callsign"
)

func buildSearchLendingsQuery(search, filterType string, filters data.Filters) (string, []interface{}, error) {
	pattern := "%" + search + "%"
	var predicate exp.Expression
	switch filterType {
	case FilterTypeUser:
		predicate = goqu.I("u.nickname").ILike(pattern)
	case FilterTypeTitle:
		predicate = goqu.I("t.title").ILike(pattern)
	case FilterTypeCallSign:
		predicate = goqu.I("b.call_sign").ILike(pattern)
	default:
		predicate = goqu.Or(
			goqu.I("u.nickname").ILike(pattern),
			goqu.I("t.title").ILike(pattern),
			goqu.I("b.call_sign").ILike(pattern),
		)
	}
	order := goqu.I("l." + filters.SortColumn()).Asc()
	if filters.SortDirection() == "DESC" {
		order = goqu.I("l." + filters.SortColumn()).Desc()
	}
	return goqu.Dialect("postgres").
		From(goqu.T("lendings").As("l")).
		InnerJoin(goqu.T("users").As("u"), goqu.On(goqu.I("u.id").Eq(goqu.I("l.user_id")))).
		InnerJoin(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("l.book_id")))).
		InnerJoin(goqu.T("titles").As("t"), goqu.On(goqu.I("t.id").Eq(goqu.I("b.title_id")))).
		Select(
			goqu.L("count(*) OVER ()"),
			goqu.I("l.id"),
			goqu.I("u.nickname"),
			goqu.I("u.penalty_end_date"),
			goqu.I("t.title"),
			goqu.I("b.call_sign"),
			goqu.I("l.lending_condition"),
			goqu.I("l.created_at"),
		).
		Where(predicate).
		Order(order).
		Limit(uint(filters.Limit())).
		Offset(uint(filters.Offset())).
		Prepared(true).
		ToSQL()
}
