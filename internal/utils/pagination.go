// internal/utils/pagination.go
package utils

import (
	"fmt"
	"math"
)

// PageLinks carries boundary navigation URLs for a paginated listing.
type PageLinks struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// PageMeta describes the position of a page within the full result set.
// From and To are null on an empty page.
type PageMeta struct {
	CurrentPage int    `json:"current_page"`
	From        *int   `json:"from"`
	LastPage    int    `json:"last_page"`
	Path        string `json:"path"`
	PerPage     int    `json:"per_page"`
	To          *int   `json:"to"`
	Total       int64  `json:"total"`
}

// BuildPagination computes links and meta for a page holding count items out
// of total. An out-of-range page yields valid empty-page metadata, never an
// error.
func BuildPagination(path string, page, perPage, count int, total int64) (PageLinks, PageMeta) {
	lastPage := LastPage(total, perPage)

	links := PageLinks{
		First: pageURL(path, 1),
		Last:  pageURL(path, lastPage),
	}
	if page > 1 {
		prev := pageURL(path, page-1)
		links.Prev = &prev
	}
	if page < lastPage {
		next := pageURL(path, page+1)
		links.Next = &next
	}

	meta := PageMeta{
		CurrentPage: page,
		LastPage:    lastPage,
		Path:        path,
		PerPage:     perPage,
		Total:       total,
	}
	if count > 0 {
		from := (page-1)*perPage + 1
		to := from + count - 1
		meta.From = &from
		meta.To = &to
	}

	return links, meta
}

// LastPage is the highest valid page number, never below 1.
func LastPage(total int64, perPage int) int {
	if perPage < 1 {
		perPage = 1
	}
	last := int(math.Ceil(float64(total) / float64(perPage)))
	if last < 1 {
		last = 1
	}
	return last
}

func pageURL(path string, page int) string {
	return fmt.Sprintf("%s?page=%d", path, page)
}
