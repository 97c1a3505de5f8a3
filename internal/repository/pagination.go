package repository

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// normalisePage clamps page and limit into the supported window so every
// list query applies the same offset arithmetic.
func normalisePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
