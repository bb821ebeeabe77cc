package common

import (
	"strconv"

	"gorm.io/gorm"
)

// Page is one page of a paginated query. Out-of-range page numbers are
// clamped to the first or last page.
type Page[T any] struct {
	Items      []T
	Number     int
	PerPage    int
	Total      int64
	NumPages   int
	HasPrev    bool
	HasNext    bool
	PrevNumber int
	NextNumber int
}

// ParsePage reads a 1-based page number, defaulting to 1.
func ParsePage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Paginate counts query, then loads the requested page into a Page. The
// query must already carry its ordering.
func Paginate[T any](query *gorm.DB, number, perPage int) (*Page[T], error) {
	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	numPages := 1
	if total > 0 {
		numPages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	var items []T
	if err := query.Session(&gorm.Session{}).
		Limit(perPage).
		Offset((number - 1) * perPage).
		Find(&items).Error; err != nil {
		return nil, err
	}

	return &Page[T]{
		Items:      items,
		Number:     number,
		PerPage:    perPage,
		Total:      total,
		NumPages:   numPages,
		HasPrev:    number > 1,
		HasNext:    number < numPages,
		PrevNumber: number - 1,
		NextNumber: number + 1,
	}, nil
}
