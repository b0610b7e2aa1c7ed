package domain

// Page is the marketplace API's pagination envelope.
type Page[T any] struct {
	Data        []T `json:"data"`
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	Total       int `json:"total"`
	PerPage     int `json:"per_page"`
}

// HasNext reports whether a further page exists.
func (p *Page[T]) HasNext() bool {
	return p.CurrentPage < p.LastPage
}

// HasPrev reports whether a previous page exists.
func (p *Page[T]) HasPrev() bool {
	return p.CurrentPage > 1
}
