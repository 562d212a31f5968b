package shared

// DefaultPageSize is the fixed page size used by list views
const DefaultPageSize = 6

// Paginated represents one page of an in-memory projection
type Paginated[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// TotalPages returns ceil(total / pageSize). A non-positive page size yields zero pages.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	pages := total / pageSize
	if total%pageSize > 0 {
		pages++
	}
	return pages
}

// PageBounds returns the half-open range [start, end) of 1-indexed page within total items.
// Pages past the end yield an empty range.
func PageBounds(total, page, pageSize int) (int, int) {
	if pageSize <= 0 || total <= 0 {
		return 0, 0
	}
	if page < 1 {
		page = 1
	}
	// compare pages before multiplying; huge page numbers overflow
	if page > TotalPages(total, pageSize) {
		return total, total
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	return start, end
}

// NewPaginated slices items to the requested page.
// Pages below 1 are clamped to 1; pages past the last one are empty.
func NewPaginated[T any](items []T, page, pageSize int) Paginated[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}
	start, end := PageBounds(len(items), page, pageSize)
	out := make([]T, end-start)
	copy(out, items[start:end])
	return Paginated[T]{
		Items:      out,
		Total:      len(items),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: TotalPages(len(items), pageSize),
	}
}

// HasNext reports whether a page follows this one
func (p Paginated[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// HasPrev reports whether a page precedes this one
func (p Paginated[T]) HasPrev() bool {
	return p.Page > 1
}
