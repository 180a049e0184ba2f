package dto

import "time"

// Envelope is the uniform response body for every endpoint.
type Envelope struct {
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	Data       any       `json:"data,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	StatusCode int       `json:"statusCode"`
}

// NewEnvelope builds a success envelope.
func NewEnvelope(statusCode int, message string, data any) Envelope {
	return Envelope{
		Success:    statusCode < 400,
		Message:    message,
		Data:       data,
		Timestamp:  time.Now().UTC(),
		StatusCode: statusCode,
	}
}

// Pagination describes one page of a collection.
type Pagination struct {
	Page        int  `json:"page"`
	PageSize    int  `json:"pageSize"`
	TotalItems  int  `json:"totalItems"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NewPagination derives page metadata from a total count.
func NewPagination(page, pageSize, totalItems int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalItems + pageSize - 1) / pageSize
	}
	return Pagination{
		Page:        page,
		PageSize:    pageSize,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1 && totalItems > 0,
	}
}

// Paginated nests items with their page metadata inside the envelope data.
type Paginated struct {
	Items      any        `json:"items"`
	Pagination Pagination `json:"pagination"`
}
