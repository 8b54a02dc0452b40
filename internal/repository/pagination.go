package repository

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

// Page is a limit/offset pagination request. The zero value means the first
// page at the default size.
type Page struct {
	Number int
	Size   int
}

func (p Page) normalized() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

func (p Page) limit() int  { return p.Size }
func (p Page) offset() int { return (p.Number - 1) * p.Size }

// Paginated is one page of results plus the total matching row count.
type Paginated[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

func newPaginated[T any](items []T, total int64, p Page) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	return Paginated[T]{Items: items, Total: total, Page: p.Number, PageSize: p.Size}
}
