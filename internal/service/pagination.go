package service

// normalisePage applies the same clamping the repositories use so the
// pagination block reported to clients matches the query that ran.
func normalisePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
