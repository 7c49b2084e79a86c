package models

import "net/http"

// Result is the envelope every core operation returns on success.
type Result struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

func OK(message string, data any) Result {
	return Result{StatusCode: http.StatusOK, Message: message, Data: data}
}

func Created(message string, data any) Result {
	return Result{StatusCode: http.StatusCreated, Message: message, Data: data}
}

// Pagination describes one page of a listing.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(total int64, page, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: pages}
}
