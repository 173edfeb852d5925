package query

// Pagination carries limit/offset parameters for list queries.
type Pagination struct {
	Limit  int
	Offset int
}

// NewPagination builds a Pagination, clamping values to sane bounds.
func NewPagination(limit, offset, defaultLimit, maxLimit int) *Pagination {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return &Pagination{Limit: limit, Offset: offset}
}
