package graph

// Page is the envelope every listing operation returns
type Page[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
	Pages int   `json:"pages"`
}

// NewPage derives page/pages from offset, limit and the true total.
// page = offset/limit + 1; pages = ceil(total/limit), 1 when limit <= 0.
func NewPage[T any](items []T, total int64, limit, offset int) Page[T] {
	if items == nil {
		items = []T{}
	}
	page := 1
	if limit > 0 {
		page = offset/limit + 1
	}
	pages := 1
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Page[T]{
		Items: items,
		Total: total,
		Page:  page,
		Size:  limit,
		Pages: pages,
	}
}

// EmptyPage is the degraded result used when a store operation fails
func EmptyPage[T any](limit int) Page[T] {
	return Page[T]{
		Items: []T{},
		Total: 0,
		Page:  1,
		Size:  limit,
		Pages: 0,
	}
}
