package data

import (
	"time"

	"github.com/osezele/circulata/internal/validator"
)

// LendingPeriod is how long a borrower may keep a copy before the
// lending counts as overdue. The boundary is strict duration
// arithmetic: a lending outstanding for exactly LendingPeriod is not
// yet overdue.
const LendingPeriod = 14 * 24 * time.Hour

// MaxActiveLendings is the number of copies a user may have out at once.
const MaxActiveLendings = 2

// Lending records one checkout of a physical copy. A row is created at
// checkout and mutated exactly once, at return; it is never deleted.
type Lending struct {
	ID                   int64      `json:"id"`
	UserID               int64      `json:"user_id"`
	BookID               int64      `json:"book_id"`
	CreatedAt            time.Time  `json:"created_at"`
	ReturnedAt           *time.Time `json:"returned_at,omitempty"`
	LendingCondition     string     `json:"lending_condition"`
	ReturningCondition   string     `json:"returning_condition,omitempty"`
	LendingLibrarianID   int64      `json:"lending_librarian_id"`
	ReturningLibrarianID *int64     `json:"returning_librarian_id,omitempty"`
}

// Active reports whether the copy is still out.
func (l *Lending) Active() bool {
	return l.ReturnedAt == nil
}

// DueDate is the last instant the copy can be returned without being overdue.
func (l *Lending) DueDate() time.Time {
	return l.CreatedAt.Add(LendingPeriod)
}

// Overdue reports whether an active lending has been outstanding for
// more than the lending period.
func (l *Lending) Overdue(now time.Time) bool {
	return l.Active() && now.Sub(l.CreatedAt) > LendingPeriod
}

// LendingView is the read-only detail projection of a lending.
type LendingView struct {
	ID               int64     `json:"id"`
	Login            string    `json:"login"`
	Title            string    `json:"title"`
	CallSign         string    `json:"call_sign"`
	LendingCondition string    `json:"lending_condition"`
	CreatedAt        time.Time `json:"created_at"`
	DueDate          time.Time `json:"due_date"`
	PenaltyDays      int       `json:"penalty_days"`
}

// LendingItem is one row of a lending search result.
type LendingItem struct {
	ID               int64     `json:"id"`
	Login            string    `json:"login"`
	Title            string    `json:"title"`
	CallSign         string    `json:"call_sign"`
	LendingCondition string    `json:"lending_condition"`
	CreatedAt        time.Time `json:"created_at"`
	DueDate          time.Time `json:"due_date"`
	PenaltyDays      int       `json:"penalty_days"`
}

func ValidateLending(v *validator.Validator, userID, bookID, librarianID int64, condition string) {
	v.Check(userID > 0, "user_id", "must be a positive integer")
	v.Check(bookID > 0, "book_id", "must be a positive integer")
	v.Check(librarianID > 0, "librarian_id", "must be a positive integer")
	v.Check(len(condition) <= 500, "condition", "must not be more than 500 bytes long")
}
