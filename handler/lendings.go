package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jellydator/ttlcache/v3"
	"github.com/osezele/circulata/data/dto"
	"github.com/osezele/circulata/internal/validator"
	"github.com/osezele/circulata/service"
)

// CreateLending godoc
// @Summary Lend a book copy to a user
// @Description This endpoint checks a book copy out to a user after running the eligibility checks
// @Tags lendings
// @Accept  json
// @Produce json
// @Param body body dto.CreateLendingRequestBody true "JSON payload required to create a lending"
// @Success 201 {object} data.Lending
// @Failure 400
// @Failure 403
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 503
// @Router /v1/lendings [post]
func (h *Handler) createLendingHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateLendingRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	lending, err := h.service.CreateLending(r.Context(), requestBody.UserID, requestBody.BookID, requestBody.LibrarianID, requestBody.Condition)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoSuchUser), errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrNoPermission):
			h.notPermittedResponse(w, r, err.Error())
		case errors.Is(err, service.ErrBookAlreadyLent), errors.Is(err, service.ErrBookReservedByOther):
			h.conflictResponse(w, r, err.Error())
		case errors.Is(err, service.ErrLendingOverload), errors.Is(err, service.ErrLendingOverdue),
			errors.Is(err, service.ErrBookDamaged), errors.Is(err, service.ErrBookLost):
			h.unprocessableResponse(w, r, err.Error())
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err.Error())
		case errors.Is(err, service.ErrTransactionFault):
			h.retryableFaultResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/lendings/%d", lending.ID))
	err = h.encodeJSON(w, http.StatusCreated, envelope{"lending": lending}, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ReturnLending godoc
// @Summary Return a lent book copy
// @Description This endpoint marks a lending as returned and assigns the freed copy to the oldest pending reservation for its title
// @Tags lendings
// @Accept  json
// @Produce json
// @Param lendingId path int true "ID of lending to return"
// @Param body body dto.ReturnLendingRequestBody true "JSON payload required to return a lending"
// @Success 200 {object} data.Lending
// @Failure 400
// @Failure 404
// @Failure 409
// @Failure 422
// @Failure 503
// @Router /v1/lendings/{lendingId}/return [post]
func (h *Handler) returnLendingHandler(w http.ResponseWriter, r *http.Request) {
	lendingID, err := h.readIDParam(r, "lendingId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var requestBody dto.ReturnLendingRequestBody
	err = h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	lending, err := h.service.ReturnLending(r.Context(), requestBody.LibrarianID, lendingID, requestBody.Condition)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNonexistentLending):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrAlreadyReturned):
			h.conflictResponse(w, r, err.Error())
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err.Error())
		case errors.Is(err, service.ErrTransactionFault):
			h.retryableFaultResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	h.cache.Delete(lendingID)
	err = h.encodeJSON(w, http.StatusOK, envelope{"lending": lending}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// ShowLending godoc
// @Summary Show details of a lending
// @Description This endpoint shows the detail view of a lending: title, call sign, borrower, due date and penalty days
// @Tags lendings
// @Produce json
// @Param lendingId path int true "ID of lending to show"
// @Success 200 {object} data.LendingView
// @Failure 404
// @Failure 500
// @Router /v1/lendings/{lendingId} [get]
func (h *Handler) showLendingHandler(w http.ResponseWriter, r *http.Request) {
	lendingID, err := h.readIDParam(r, "lendingId")
	if err != nil || lendingID < 1 {
		h.notFoundResponse(w, r)
		return
	}
	if item := h.cache.Get(lendingID); item != nil {
		err = h.encodeJSON(w, http.StatusOK, envelope{"lending": item.Value()}, nil)
		if err != nil {
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	view, err := h.service.GetLendingDetail(r.Context(), lendingID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrTransactionFault):
			h.retryableFaultResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	h.cache.Set(lendingID, view, ttlcache.DefaultTTL)
	err = h.encodeJSON(w, http.StatusOK, envelope{"lending": view}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

// SearchLendings godoc
// @Summary Search lendings
// @Description This endpoint retrieves a paginated list of lendings matched by borrower nickname, title or call sign
// @Tags lendings
// @Produce json
// @Param search query string false "Search term"
// @Param type query string false "Filter type (user|title|callsign)"
// @Param page query int false "Page number"
// @Param limit query int false "Records per page"
// @Param sort query string false "Sort (created_at|-created_at)"
// @Success 200 {array} data.LendingItem
// @Failure 422
// @Failure 500
// @Router /v1/lendings [get]
func (h *Handler) searchLendingsHandler(w http.ResponseWriter, r *http.Request) {
	var qs dto.QsSearchLendings
	v := validator.New()
	query := r.URL.Query()
	qs.Search = h.readString(query, "search", "")
	qs.Type = h.readString(query, "type", "")
	qs.Filters.Page = h.readInt(query, "page", 1, v)
	qs.Filters.PageSize = h.readInt(query, "limit", 20, v)
	qs.Filters.Sort = h.readString(query, "sort", "created_at")
	qs.Filters.SortSafelist = []string{"created_at", "-created_at"}
	if !v.Valid() {
		h.failedValidationResponse(w, r, v.Errors)
		return
	}
	items, metadata, err := h.service.SearchLendings(r.Context(), qs.Search, qs.Type, qs.Filters)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err.Error())
		case errors.Is(err, service.ErrTransactionFault):
			h.retryableFaultResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"lendings": items, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
