package data

import "time"

// HoldWindow is how long an assigned copy is held for the reserving
// user before the hold expires unused.
const HoldWindow = 3 * 24 * time.Hour

// Reservation is a user's place in the queue for a title. It is
// created pending (no copy), assigned a copy when one is returned, and
// marked fulfilled once the reserving user checks the copy out.
type Reservation struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	TitleID   int64      `json:"title_id"`
	BookID    *int64     `json:"book_id,omitempty"`
	Fulfilled bool       `json:"fulfilled"`
	CreatedAt time.Time  `json:"created_at"`
	EndAt     *time.Time `json:"end_at,omitempty"`
}

// Pending reports whether the reservation is still waiting for a copy.
func (r *Reservation) Pending() bool {
	return r.BookID == nil && !r.Fulfilled
}

// Assigned reports whether a copy is being held for the reserving user.
func (r *Reservation) Assigned() bool {
	return r.BookID != nil && !r.Fulfilled
}
