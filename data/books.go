package data

// Book copy status flags, owned by the catalog collaborator.
const (
	BookStatusAvailable int8 = 0
	BookStatusDamaged   int8 = 1
	BookStatusLost      int8 = 2
)

// Book is one physical copy of a title. The engine reads status and
// the owning title; it never mutates the catalog.
type Book struct {
	ID       int64  `json:"id"`
	TitleID  int64  `json:"title_id"`
	CallSign string `json:"call_sign"`
	Status   int8   `json:"status"`
}
