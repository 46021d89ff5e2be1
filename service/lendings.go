package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/osezele/circulata/data"
	"github.com/osezele/circulata/internal/validator"
	"github.com/osezele/circulata/repository"
)

type lendings interface {
	CreateLending(ctx context.Context, userID, bookID, librarianID int64, condition string) (*data.Lending, error)
	ReturnLending(ctx context.Context, librarianID, lendingID int64, condition string) (*data.Lending, error)
	GetLendingDetail(ctx context.Context, lendingID int64) (*data.LendingView, error)
	SearchLendings(ctx context.Context, search, filterType string, filters data.Filters) ([]*data.LendingItem, data.Metadata, error)
}

// unitOfWorkTimeout bounds every transactional operation. A deadline
// hit is rolled back and surfaced as ErrTransactionFault, never as
// partial state.
const unitOfWorkTimeout = 5 * time.Second

const readTimeout = 3 * time.Second

// CreateLending checks a copy out to a user. The whole operation is one
// unit of work: the book row is locked first so concurrent checkouts of
// the same copy serialize, then the eligibility checks run against the
// transaction snapshot, then exactly one lending row is inserted. Any
// failing check rolls the unit back and is returned as its outcome.
func (s *service) CreateLending(ctx context.Context, userID, bookID, librarianID int64, condition string) (*data.Lending, error) {
	v := validator.New()
	if data.ValidateLending(v, userID, bookID, librarianID, condition); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	ctx, cancel := context.WithTimeout(ctx, unitOfWorkTimeout)
	defer cancel()
	var lending *data.Lending
	err := s.repo.WithTx(ctx, func(repo repository.Repository) error {
		book, err := repo.GetBookForUpdate(ctx, bookID)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrRecordNotFound):
				return ErrRecordNotFound
			default:
				return err
			}
		}
		claimed, err := s.checkEligibility(ctx, repo, userID, book, time.Now())
		if err != nil {
			return err
		}
		lending = &data.Lending{
			UserID:             userID,
			BookID:             bookID,
			LendingLibrarianID: librarianID,
			LendingCondition:   condition,
		}
		if err := repo.CreateLending(ctx, lending); err != nil {
			return err
		}
		// A reserver picking up their held copy consumes the reservation.
		if claimed != nil {
			return repo.MarkReservationFulfilled(ctx, claimed.ID)
		}
		return nil
	})
	if err != nil {
		return nil, s.recoverFault("create lending", err)
	}
	s.logger.PrintInfo("lending created", map[string]string{
		"lending_id": strconv.FormatInt(lending.ID, 10),
		"book_id":    strconv.FormatInt(bookID, 10),
	})
	return lending, nil
}

// checkEligibility evaluates the lending eligibility rules in their
// fixed order against the current transaction snapshot; the first
// failing check wins. When the requesting user holds the assigned
// reservation for this copy, that reservation is returned so the
// caller can consume it.
func (s *service) checkEligibility(ctx context.Context, repo repository.Repository, userID int64, book *data.Book, now time.Time) (*data.Reservation, error) {
	user, err := repo.GetUser(ctx, userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrNoSuchUser
		default:
			return nil, err
		}
	}
	if !user.CanLend() {
		return nil, ErrNoPermission
	}
	active, err := repo.GetActiveLendingsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(active) >= data.MaxActiveLendings {
		return nil, ErrLendingOverload
	}
	if user.Penalized(now) {
		return nil, ErrLendingOverdue
	}
	for _, lending := range active {
		if lending.Overdue(now) {
			return nil, ErrLendingOverdue
		}
	}
	_, err = repo.GetActiveLendingForBook(ctx, book.ID)
	if err == nil {
		return nil, ErrBookAlreadyLent
	}
	if !errors.Is(err, repository.ErrRecordNotFound) {
		return nil, err
	}
	switch book.Status {
	case data.BookStatusDamaged:
		return nil, ErrBookDamaged
	case data.BookStatusLost:
		return nil, ErrBookLost
	}
	reservation, err := repo.GetAssignedReservationForBook(ctx, book.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, nil
		default:
			return nil, err
		}
	}
	if reservation.UserID != userID {
		return nil, ErrBookReservedByOther
	}
	return reservation, nil
}

// ReturnLending marks a lending returned and, in the same unit of work,
// hands the freed copy to the oldest pending reservation for its title.
// The return mark and the fulfillment decision commit or roll back
// together.
func (s *service) ReturnLending(ctx context.Context, librarianID, lendingID int64, condition string) (*data.Lending, error) {
	v := validator.New()
	v.Check(lendingID > 0, "lending_id", "must be a positive integer")
	v.Check(librarianID > 0, "librarian_id", "must be a positive integer")
	v.Check(len(condition) <= 500, "condition", "must not be more than 500 bytes long")
	if !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	ctx, cancel := context.WithTimeout(ctx, unitOfWorkTimeout)
	defer cancel()
	var lending *data.Lending
	err := s.repo.WithTx(ctx, func(repo repository.Repository) error {
		var err error
		lending, err = repo.GetLendingForUpdate(ctx, lendingID)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrRecordNotFound):
				return ErrNonexistentLending
			default:
				return err
			}
		}
		if !lending.Active() {
			return ErrAlreadyReturned
		}
		now := time.Now()
		lending.ReturnedAt = &now
		lending.ReturningLibrarianID = &librarianID
		lending.ReturningCondition = condition
		if err := repo.MarkLendingReturned(ctx, lending); err != nil {
			return err
		}
		book, err := repo.GetBook(ctx, lending.BookID)
		if err != nil {
			return err
		}
		return s.fulfillOldestReservation(ctx, repo, book, now)
	})
	if err != nil {
		return nil, s.recoverFault("return lending", err)
	}
	s.logger.PrintInfo("lending returned", map[string]string{
		"lending_id": strconv.FormatInt(lendingID, 10),
	})
	return lending, nil
}

// fulfillOldestReservation assigns a just-returned copy to the oldest
// pending reservation for its title, starting the hold window. With no
// pending reservation this is a no-op.
func (s *service) fulfillOldestReservation(ctx context.Context, repo repository.Repository, book *data.Book, now time.Time) error {
	reservation, err := repo.NextPendingReservationForTitle(ctx, book.TitleID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil
		default:
			return err
		}
	}
	return repo.AssignReservation(ctx, reservation.ID, book.ID, now.Add(data.HoldWindow))
}

// GetLendingDetail retrieves the read-only detail projection of a lending.
func (s *service) GetLendingDetail(ctx context.Context, lendingID int64) (*data.LendingView, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	view, err := s.repo.GetLendingView(ctx, lendingID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, s.recoverFault("get lending detail", err)
		}
	}
	return view, nil
}

// SearchLendings retrieves a paginated list of lendings matching a
// search term. Read-only and non-transactional.
func (s *service) SearchLendings(ctx context.Context, search, filterType string, filters data.Filters) ([]*data.LendingItem, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, failedValidation(v.Errors)
	}
	s.logger.PrintDebug("lending search", map[string]string{
		"query": search,
		"type":  filterType,
		"page":  strconv.Itoa(filters.Page),
		"limit": strconv.Itoa(filters.PageSize),
	})
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	items, metadata, err := s.repo.SearchLendings(ctx, search, filterType, filters)
	if err != nil {
		return nil, data.Metadata{}, s.recoverFault("search lendings", err)
	}
	return items, metadata, nil
}
