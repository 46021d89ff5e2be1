package data

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osezele/circulata/internal/validator"
)

func TestCalculateMetadata(t *testing.T) {
	tests := []struct {
		name         string
		totalRecords int
		page         int
		pageSize     int
		want         Metadata
	}{
		{
			name: "empty result set",
			want: Metadata{},
		},
		{
			name:         "exact page boundary",
			totalRecords: 40,
			page:         2,
			pageSize:     20,
			want:         Metadata{CurrentPage: 2, PageSize: 20, FirstPage: 1, LastPage: 2, TotalRecords: 40},
		},
		{
			name:         "partial last page",
			totalRecords: 41,
			page:         1,
			pageSize:     20,
			want:         Metadata{CurrentPage: 1, PageSize: 20, FirstPage: 1, LastPage: 3, TotalRecords: 41},
		},
		{
			name:         "single record",
			totalRecords: 1,
			page:         1,
			pageSize:     20,
			want:         Metadata{CurrentPage: 1, PageSize: 20, FirstPage: 1, LastPage: 1, TotalRecords: 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateMetadata(tt.totalRecords, tt.page, tt.pageSize))
		})
	}
}

func TestFiltersSort(t *testing.T) {
	f := Filters{Sort: "-created_at", SortSafelist: []string{"created_at", "-created_at"}}
	assert.Equal(t, "created_at", f.SortColumn())
	assert.Equal(t, "DESC", f.SortDirection())

	f.Sort = "created_at"
	assert.Equal(t, "created_at", f.SortColumn())
	assert.Equal(t, "ASC", f.SortDirection())

	f.Sort = "password; DROP TABLE lendings"
	assert.Panics(t, func() { f.SortColumn() })
}

func TestFiltersLimitOffset(t *testing.T) {
	f := Filters{Page: 3, PageSize: 25}
	assert.Equal(t, 25, f.Limit())
	assert.Equal(t, 50, f.Offset())
}

func TestValidateFilters(t *testing.T) {
	safelist := []string{"created_at", "-created_at"}

	v := validator.New()
	ValidateFilters(v, Filters{Page: 1, PageSize: 20, Sort: "created_at", SortSafelist: safelist})
	assert.True(t, v.Valid())

	v = validator.New()
	ValidateFilters(v, Filters{Page: 0, PageSize: 200, Sort: "nickname", SortSafelist: safelist})
	assert.False(t, v.Valid())
	assert.Contains(t, v.Errors, "page")
	assert.Contains(t, v.Errors, "limit")
	assert.Contains(t, v.Errors, "sort")
}
