package pagination

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Normalize clamps a 1-based page number and a page size into their valid ranges.
func Normalize(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// LimitOffset converts a 1-based page into SQL LIMIT/OFFSET values.
func LimitOffset(page, pageSize int) (limit int, offset int) {
	page, pageSize = Normalize(page, pageSize)
	return pageSize, (page - 1) * pageSize
}

// TotalPages returns how many pages of pageSize are needed for total items.
func TotalPages(total int64, pageSize int) int64 {
	_, pageSize = Normalize(1, pageSize)
	if total <= 0 {
		return 0
	}
	return (total + int64(pageSize) - 1) / int64(pageSize)
}
