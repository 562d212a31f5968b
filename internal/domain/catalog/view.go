package catalog

import (
	"net/url"
	"strconv"

	"github.com/storefront/backend/internal/domain/shared"
)

// StatusFilter selects the active list or the trashbin
type StatusFilter string

const (
	FilterActive StatusFilter = "active"
	FilterTrash  StatusFilter = "trash"
	FilterAll    StatusFilter = "all"
)

// SearchParam is the query-string key carrying the search text
const SearchParam = "search"

// ViewParams are the inputs of one list screen
type ViewParams struct {
	Filter   StatusFilter
	Search   string
	Page     int
	PageSize int
}

// FilterByStatus keeps resources matching the filter, preserving order
func FilterByStatus(items []Resource, filter StatusFilter) []Resource {
	out := make([]Resource, 0, len(items))
	for _, r := range items {
		switch filter {
		case FilterTrash:
			if r.InTrash {
				out = append(out, r)
			}
		case FilterAll:
			out = append(out, r)
		default:
			if !r.InTrash {
				out = append(out, r)
			}
		}
	}
	return out
}

// FilterBySearch keeps resources whose searchable fields contain query
func FilterBySearch(kind KindSpec, items []Resource, query string) []Resource {
	if query == "" {
		return items
	}
	out := make([]Resource, 0, len(items))
	for _, r := range items {
		if r.Matches(kind, query) {
			out = append(out, r)
		}
	}
	return out
}

// BuildView projects a full backend collection into one page
func BuildView(kind KindSpec, items []Resource, params ViewParams) shared.Paginated[Resource] {
	filtered := FilterByStatus(items, params.Filter)
	filtered = FilterBySearch(kind, filtered, params.Search)
	return shared.NewPaginated(filtered, params.Page, params.PageSize)
}

// PageFromQuery reads the kind's page parameter; missing or malformed values mean page 1
func PageFromQuery(values url.Values, pageParam string) int {
	p, err := strconv.Atoi(values.Get(pageParam))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

// ApplySearch returns the query string for a new search.
// The page parameter always goes back to 1.
func ApplySearch(values url.Values, pageParam, query string) url.Values {
	next := cloneValues(values)
	if query == "" {
		next.Del(SearchParam)
	} else {
		next.Set(SearchParam, query)
	}
	next.Set(pageParam, "1")
	return next
}

// WithPage returns values with the page parameter set to page
func WithPage(values url.Values, pageParam string, page int) url.Values {
	next := cloneValues(values)
	next.Set(pageParam, strconv.Itoa(page))
	return next
}

// Links are navigation URLs for a list response
type Links struct {
	Self string `json:"self"`
	Next string `json:"next,omitempty"`
	Prev string `json:"prev,omitempty"`
}

// BuildLinks renders self/next/prev links for a page
func BuildLinks[T any](basePath string, values url.Values, pageParam string, page shared.Paginated[T]) Links {
	links := Links{Self: basePath + "?" + WithPage(values, pageParam, page.Page).Encode()}
	if page.HasNext() {
		links.Next = basePath + "?" + WithPage(values, pageParam, page.Page+1).Encode()
	}
	if page.HasPrev() {
		links.Prev = basePath + "?" + WithPage(values, pageParam, page.Page-1).Encode()
	}
	return links
}

func cloneValues(values url.Values) url.Values {
	next := make(url.Values, len(values)+2)
	for k, v := range values {
		next[k] = append([]string(nil), v...)
	}
	return next
}
