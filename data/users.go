package data

import "time"

// User is the borrower identity the engine reads. The user-management
// collaborator owns the lifecycle; the engine never mutates users.
type User struct {
	ID             int64     `json:"id"`
	Nickname       string    `json:"nickname"`
	Role           int8      `json:"role"`
	PenaltyEndDate time.Time `json:"penalty_end_date"`
}

// CanLend reports whether the user's role grants borrowing permission.
func (u *User) CanLend() bool {
	return u.Role > 0
}

// Penalized reports whether the user is inside an active penalty window.
func (u *User) Penalized(now time.Time) bool {
	return u.PenaltyEndDate.After(now)
}

// PenaltyDays returns the whole days of penalty remaining, rounded up,
// or zero once the penalty window has passed.
func PenaltyDays(penaltyEndDate, now time.Time) int {
	if !penaltyEndDate.After(now) {
		return 0
	}
	days := int(penaltyEndDate.Sub(now) / (24 * time.Hour))
	if penaltyEndDate.Sub(now)%(24*time.Hour) > 0 {
		days++
	}
	return days
}
