package pos

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 50
)

// PageResult is one page of an ordered collection.
type PageResult[T any] struct {
	Items      []T
	Total      int
	Page       int
	PerPage    int
	TotalPages int
}

// ValidatePage checks the page bounds that do not depend on the collection size.
func ValidatePage(page, perPage int) error {
	if page < 1 {
		return invalidPagination("page must be at least 1, got %d", page)
	}
	if perPage < 1 || perPage > MaxPerPage {
		return invalidPagination("per_page must be between 1 and %d, got %d", MaxPerPage, perPage)
	}
	return nil
}

// Paginate returns the requested page of items. Order is preserved.
func Paginate[T any](items []T, page, perPage int) (PageResult[T], error) {
	if err := ValidatePage(page, perPage); err != nil {
		return PageResult[T]{}, err
	}

	total := len(items)
	totalPages := (total + perPage - 1) / perPage
	if totalPages > 0 && page > totalPages {
		return PageResult[T]{}, invalidPagination("page %d exceeds total pages %d", page, totalPages)
	}

	// page is unbounded when the collection is empty; clamp before multiplying.
	start := total
	if page-1 <= total/perPage {
		start = min((page-1)*perPage, total)
	}
	end := min(start+perPage, total)

	return PageResult[T]{
		Items:      items[start:end],
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}
