package dto

import "github.com/osezele/circulata/data"

// CreateLendingRequestBody defines a request body for CreateLending service.
type CreateLendingRequestBody struct {
	UserID      int64  `json:"user_id"`
	BookID      int64  `json:"book_id"`
	LibrarianID int64  `json:"librarian_id"`
	Condition   string `json:"condition"`
}

// ReturnLendingRequestBody defines a request body for ReturnLending service.
type ReturnLendingRequestBody struct {
	LibrarianID int64  `json:"librarian_id"`
	Condition   string `json:"condition"`
}

// QsSearchLendings defines the query strings used for searching lendings.
type QsSearchLendings struct {
	Search  string
	Type    string
	Filters data.Filters
}
