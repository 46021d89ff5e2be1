package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/osezele/circulata/data"
	"github.com/osezele/circulata/repository"
)

// mockRepo is an in-memory Repository. WithTx serializes units of work
// behind one mutex, standing in for the row locks the real store takes,
// and restores a snapshot of all state when fn fails, standing in for
// rollback.
type mockRepo struct {
	mu            sync.Mutex
	users         map[int64]*data.User
	books         map[int64]*data.Book
	titles        map[int64]string
	lendings      map[int64]*data.Lending
	reservations  map[int64]*data.Reservation
	nextLendingID int64

	// failCreateLending injects an infrastructure fault on insert.
	failCreateLending error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		users:         make(map[int64]*data.User),
		books:         make(map[int64]*data.Book),
		titles:        make(map[int64]string),
		lendings:      make(map[int64]*data.Lending),
		reservations:  make(map[int64]*data.Reservation),
		nextLendingID: 1,
	}
}

func (m *mockRepo) WithTx(ctx context.Context, fn func(repository.Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	lendings := snapshotMap(m.lendings)
	reservations := snapshotMap(m.reservations)
	nextID := m.nextLendingID
	if err := fn(m); err != nil {
		m.lendings = lendings
		m.reservations = reservations
		m.nextLendingID = nextID
		return err
	}
	return nil
}

func snapshotMap[V any](src map[int64]*V) map[int64]*V {
	dst := make(map[int64]*V, len(src))
	for k, v := range src {
		clone := *v
		dst[k] = &clone
	}
	return dst
}

func (m *mockRepo) GetUser(ctx context.Context, userID int64) (*data.User, error) {
	user, ok := m.users[userID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *mockRepo) GetBook(ctx context.Context, bookID int64) (*data.Book, error) {
	book, ok := m.books[bookID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	clone := *book
	return &clone, nil
}

func (m *mockRepo) GetBookForUpdate(ctx context.Context, bookID int64) (*data.Book, error) {
	return m.GetBook(ctx, bookID)
}

func (m *mockRepo) CreateLending(ctx context.Context, lending *data.Lending) error {
	if m.failCreateLending != nil {
		return m.failCreateLending
	}
	lending.ID = m.nextLendingID
	m.nextLendingID++
	if lending.CreatedAt.IsZero() {
		lending.CreatedAt = time.Now()
	}
	clone := *lending
	m.lendings[lending.ID] = &clone
	return nil
}

func (m *mockRepo) GetLending(ctx context.Context, lendingID int64) (*data.Lending, error) {
	lending, ok := m.lendings[lendingID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	clone := *lending
	return &clone, nil
}

func (m *mockRepo) GetLendingForUpdate(ctx context.Context, lendingID int64) (*data.Lending, error) {
	return m.GetLending(ctx, lendingID)
}

func (m *mockRepo) GetActiveLendingForBook(ctx context.Context, bookID int64) (*data.Lending, error) {
	for _, lending := range m.lendings {
		if lending.BookID == bookID && lending.Active() {
			clone := *lending
			return &clone, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (m *mockRepo) GetActiveLendingsForUser(ctx context.Context, userID int64) ([]*data.Lending, error) {
	active := []*data.Lending{}
	for _, lending := range m.lendings {
		if lending.UserID == userID && lending.Active() {
			clone := *lending
			active = append(active, &clone)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].CreatedAt.Before(active[j].CreatedAt) })
	return active, nil
}

func (m *mockRepo) MarkLendingReturned(ctx context.Context, lending *data.Lending) error {
	stored, ok := m.lendings[lending.ID]
	if !ok || !stored.Active() {
		return repository.ErrRecordNotFound
	}
	clone := *lending
	m.lendings[lending.ID] = &clone
	return nil
}

func (m *mockRepo) GetLendingView(ctx context.Context, lendingID int64) (*data.LendingView, error) {
	lending, ok := m.lendings[lendingID]
	if !ok {
		return nil, repository.ErrRecordNotFound
	}
	user := m.users[lending.UserID]
	book := m.books[lending.BookID]
	view := &data.LendingView{
		ID:               lending.ID,
		Login:            user.Nickname,
		Title:            m.titles[book.TitleID],
		CallSign:         book.CallSign,
		LendingCondition: lending.LendingCondition,
		CreatedAt:        lending.CreatedAt,
		DueDate:          lending.DueDate(),
		PenaltyDays:      data.PenaltyDays(user.PenaltyEndDate, time.Now()),
	}
	return view, nil
}

func (m *mockRepo) SearchLendings(ctx context.Context, search, filterType string, filters data.Filters) ([]*data.LendingItem, data.Metadata, error) {
	items := []*data.LendingItem{}
	for _, lending := range m.lendings {
		items = append(items, &data.LendingItem{ID: lending.ID, CreatedAt: lending.CreatedAt})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, data.CalculateMetadata(len(items), filters.Page, filters.PageSize), nil
}

func (m *mockRepo) GetAssignedReservationForBook(ctx context.Context, bookID int64) (*data.Reservation, error) {
	for _, reservation := range m.reservations {
		if reservation.BookID != nil && *reservation.BookID == bookID && !reservation.Fulfilled {
			clone := *reservation
			return &clone, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (m *mockRepo) NextPendingReservationForTitle(ctx context.Context, titleID int64) (*data.Reservation, error) {
	var oldest *data.Reservation
	for _, reservation := range m.reservations {
		if reservation.TitleID != titleID || !reservation.Pending() {
			continue
		}
		if oldest == nil || reservation.CreatedAt.Before(oldest.CreatedAt) {
			oldest = reservation
		}
	}
	if oldest == nil {
		return nil, repository.ErrRecordNotFound
	}
	clone := *oldest
	return &clone, nil
}

func (m *mockRepo) AssignReservation(ctx context.Context, reservationID, bookID int64, endAt time.Time) error {
	reservation, ok := m.reservations[reservationID]
	if !ok || !reservation.Pending() {
		return repository.ErrRecordNotFound
	}
	reservation.BookID = &bookID
	reservation.EndAt = &endAt
	return nil
}

func (m *mockRepo) MarkReservationFulfilled(ctx context.Context, reservationID int64) error {
	reservation, ok := m.reservations[reservationID]
	if !ok || reservation.Fulfilled {
		return repository.ErrRecordNotFound
	}
	reservation.Fulfilled = true
	return nil
}
