package types

import (
	ierr "github.com/upassistify/upassistify/internal/errors"
)

const (
	FILTER_DEFAULT_LIMIT = 50
	FILTER_MAX_LIMIT     = 1000
)

// BaseFilter defines common pagination capabilities
type BaseFilter interface {
	GetLimit() int
	GetOffset() int
	IsUnlimited() bool
}

// QueryFilter holds pagination parameters bound from the query string
type QueryFilter struct {
	Limit  int `json:"limit,omitempty" form:"limit" validate:"omitempty,min=1,max=1000"`
	Offset int `json:"offset,omitempty" form:"offset" validate:"omitempty,min=0"`
}

// NewDefaultQueryFilter returns a filter with the default page size
func NewDefaultQueryFilter() *QueryFilter {
	return &QueryFilter{Limit: FILTER_DEFAULT_LIMIT}
}

// NewNoLimitQueryFilter returns a filter that does not paginate
func NewNoLimitQueryFilter() *QueryFilter {
	return &QueryFilter{Limit: -1}
}

func (f *QueryFilter) GetLimit() int {
	if f == nil || f.Limit == 0 {
		return FILTER_DEFAULT_LIMIT
	}
	return f.Limit
}

func (f *QueryFilter) GetOffset() int {
	if f == nil {
		return 0
	}
	return f.Offset
}

func (f *QueryFilter) IsUnlimited() bool {
	return f != nil && f.Limit < 0
}

func (f *QueryFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.Limit > FILTER_MAX_LIMIT {
		return ierr.NewErrorf("limit %d exceeds maximum %d", f.Limit, FILTER_MAX_LIMIT).
			WithHintf("Limit cannot exceed %d", FILTER_MAX_LIMIT).
			Mark(ierr.ErrValidation)
	}
	if f.Offset < 0 {
		return ierr.NewError("offset cannot be negative").
			WithHint("Offset cannot be negative").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ListResponse wraps a page of items
type ListResponse[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}
