package response

// PaginationMeta is the page summary attached to list responses.
// NextCursor is an opaque continuation token for forward iteration; it is
// empty on the last page.
type PaginationMeta struct {
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	TotalCount  int64  `json:"totalCount"`
	HasNext     bool   `json:"hasNext"`
	HasPrev     bool   `json:"hasPrev"`
	NextCursor  string `json:"nextCursor,omitempty"`
}

type PaginatedResponse[T any] struct {
	Items      []T            `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

func NewPaginatedResponse[T any](items []T, page, limit int, total int64, nextCursor string) *PaginatedResponse[T] {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}

	return &PaginatedResponse[T]{
		Items: items,
		Pagination: PaginationMeta{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalCount:  total,
			HasNext:     page < totalPages,
			HasPrev:     page > 1,
			NextCursor:  nextCursor,
		},
	}
}
