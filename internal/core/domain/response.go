package domain

// Envelope is the canonical response wrapper for every API endpoint.
type Envelope[T any] struct {
	Success    bool     `json:"success"`
	Data       T        `json:"data,omitempty"`
	Message    string   `json:"message,omitempty"`
	Errors     []string `json:"errors,omitempty"`
	StatusCode int      `json:"statusCode,omitempty"`
}

// PageInfo describes the pagination block of a list response.
type PageInfo struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

// PagedEnvelope is the wrapper for paginated list endpoints.
type PagedEnvelope[T any] struct {
	Envelope[[]T]
	Pagination PageInfo `json:"pagination"`
}
