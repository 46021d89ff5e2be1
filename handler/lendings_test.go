package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osezele/circulata/config"
	"github.com/osezele/circulata/data"
	"github.com/osezele/circulata/internal/jsonlog"
	"github.com/osezele/circulata/service"
)

// stubService scripts the engine outcomes so the tests exercise only
// the HTTP mapping.
type stubService struct {
	createErr error
	returnErr error
	detailErr error
	searchErr error

	lending *data.Lending
	view    *data.LendingView
	items   []*data.LendingItem

	detailCalls int
}

func (s *stubService) CreateLending(ctx context.Context, userID, bookID, librarianID int64, condition string) (*data.Lending, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.lending, nil
}

func (s *stubService) ReturnLending(ctx context.Context, librarianID, lendingID int64, condition string) (*data.Lending, error) {
	if s.returnErr != nil {
		return nil, s.returnErr
	}
	return s.lending, nil
}

func (s *stubService) GetLendingDetail(ctx context.Context, lendingID int64) (*data.LendingView, error) {
	s.detailCalls++
	if s.detailErr != nil {
		return nil, s.detailErr
	}
	return s.view, nil
}

func (s *stubService) SearchLendings(ctx context.Context, search, filterType string, filters data.Filters) ([]*data.LendingItem, data.Metadata, error) {
	if s.searchErr != nil {
		return nil, data.Metadata{}, s.searchErr
	}
	return s.items, data.CalculateMetadata(len(s.items), filters.Page, filters.PageSize), nil
}

func newTestHandler(svc *stubService) (http.Handler, *ttlcache.Cache[int64, *data.LendingView]) {
	logger := jsonlog.New(io.Discard, jsonlog.LevelOff)
	cache := ttlcache.New[int64, *data.LendingView]()
	h := New(config.Config{}, logger, cache, svc)
	return h.Routes(), cache
}

func doRequest(t *testing.T, routes http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, target, reader)
	req.RemoteAddr = "10.0.0.1:4000"
	rr := httptest.NewRecorder()
	routes.ServeHTTP(rr, req)
	return rr
}

func createBody() map[string]any {
	return map[string]any{"user_id": 100, "book_id": 10, "librarian_id": 7, "condition": "good"}
}

func TestCreateLendingHandler_Created(t *testing.T) {
	svc := &stubService{lending: &data.Lending{ID: 42, UserID: 100, BookID: 10, CreatedAt: time.Now()}}
	routes, _ := newTestHandler(svc)

	rr := doRequest(t, routes, http.MethodPost, "/v1/lendings", createBody())
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "/v1/lendings/42", rr.Header().Get("Location"))

	var response struct {
		Lending data.Lending `json:"lending"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, int64(42), response.Lending.ID)
}

func TestCreateLendingHandler_OutcomeStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		outcome    error
		wantStatus int
	}{
		{"no such user", service.ErrNoSuchUser, http.StatusNotFound},
		{"no such book", service.ErrRecordNotFound, http.StatusNotFound},
		{"no permission", service.ErrNoPermission, http.StatusForbidden},
		{"already lent", service.ErrBookAlreadyLent, http.StatusConflict},
		{"reserved by other", service.ErrBookReservedByOther, http.StatusConflict},
		{"overload", service.ErrLendingOverload, http.StatusUnprocessableEntity},
		{"overdue", service.ErrLendingOverdue, http.StatusUnprocessableEntity},
		{"damaged", service.ErrBookDamaged, http.StatusUnprocessableEntity},
		{"lost", service.ErrBookLost, http.StatusUnprocessableEntity},
		{"validation", service.ErrFailedValidation, http.StatusUnprocessableEntity},
		{"infra fault", service.ErrTransactionFault, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routes, _ := newTestHandler(&stubService{createErr: tt.outcome})
			rr := doRequest(t, routes, http.MethodPost, "/v1/lendings", createBody())
			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusServiceUnavailable {
				assert.NotEmpty(t, rr.Header().Get("Retry-After"))
			}
		})
	}
}

func TestCreateLendingHandler_MalformedBody(t *testing.T) {
	routes, _ := newTestHandler(&stubService{})
	req := httptest.NewRequest(http.MethodPost, "/v1/lendings", bytes.NewReader([]byte(`{"user_id":`)))
	req.RemoteAddr = "10.0.0.1:4000"
	rr := httptest.NewRecorder()
	routes.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReturnLendingHandler(t *testing.T) {
	returnedAt := time.Now()
	librarianID := int64(8)
	svc := &stubService{lending: &data.Lending{ID: 42, ReturnedAt: &returnedAt, ReturningLibrarianID: &librarianID}}
	routes, cache := newTestHandler(svc)
	cache.Set(42, &data.LendingView{ID: 42}, ttlcache.DefaultTTL)

	rr := doRequest(t, routes, http.MethodPost, "/v1/lendings/42/return", map[string]any{"librarian_id": 8, "condition": "worn"})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, cache.Get(42), "return must evict the cached detail view")
}

func TestReturnLendingHandler_OutcomeStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		outcome    error
		wantStatus int
	}{
		{"nonexistent lending", service.ErrNonexistentLending, http.StatusNotFound},
		{"already returned", service.ErrAlreadyReturned, http.StatusConflict},
		{"validation", service.ErrFailedValidation, http.StatusUnprocessableEntity},
		{"infra fault", service.ErrTransactionFault, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routes, _ := newTestHandler(&stubService{returnErr: tt.outcome})
			rr := doRequest(t, routes, http.MethodPost, "/v1/lendings/42/return", map[string]any{"librarian_id": 8})
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestShowLendingHandler(t *testing.T) {
	svc := &stubService{view: &data.LendingView{ID: 42, Login: "genly", Title: "The Left Hand of Darkness"}}
	routes, _ := newTestHandler(svc)

	rr := doRequest(t, routes, http.MethodGet, "/v1/lendings/42", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var response struct {
		Lending data.LendingView `json:"lending"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "genly", response.Lending.Login)
}

func TestShowLendingHandler_ServesSecondHitFromCache(t *testing.T) {
	svc := &stubService{view: &data.LendingView{ID: 42, Login: "genly"}}
	routes, _ := newTestHandler(svc)

	first := doRequest(t, routes, http.MethodGet, "/v1/lendings/42", nil)
	second := doRequest(t, routes, http.MethodGet, "/v1/lendings/42", nil)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, 1, svc.detailCalls)
}

func TestShowLendingHandler_NotFound(t *testing.T) {
	routes, _ := newTestHandler(&stubService{detailErr: service.ErrRecordNotFound})
	rr := doRequest(t, routes, http.MethodGet, "/v1/lendings/999", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(t, routes, http.MethodGet, "/v1/lendings/not-a-number", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSearchLendingsHandler(t *testing.T) {
	svc := &stubService{items: []*data.LendingItem{{ID: 1, Login: "genly"}, {ID: 2, Login: "estraven"}}}
	routes, _ := newTestHandler(svc)

	rr := doRequest(t, routes, http.MethodGet, "/v1/lendings?search=genly&type=user&page=1&limit=20", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	var response struct {
		Lendings []data.LendingItem `json:"lendings"`
		Metadata data.Metadata      `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Len(t, response.Lendings, 2)
	assert.Equal(t, 2, response.Metadata.TotalRecords)
}

func TestSearchLendingsHandler_BadQueryString(t *testing.T) {
	routes, _ := newTestHandler(&stubService{})
	rr := doRequest(t, routes, http.MethodGet, "/v1/lendings?page=abc", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestHealthcheck(t *testing.T) {
	routes, _ := newTestHandler(&stubService{})
	rr := doRequest(t, routes, http.MethodGet, "/v1/healthcheck", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}
