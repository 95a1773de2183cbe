// Package response holds the JSON envelopes shared by handlers, middleware
// and the terminal error handler.
package response

import (
	"github.com/labstack/echo/v4"

	"github.com/quillpress/blog-api/internal/core/domain"
)

// Body is the success envelope.
type Body struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Count      *int        `json:"count,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Data       any         `json:"data,omitempty"`
}

// Pagination describes the page returned by list endpoints.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// ErrorBody is the error envelope. Error is a string, or a list of messages
// for validation failures.
type ErrorBody struct {
	Success bool               `json:"success"`
	Error   any                `json:"error"`
	Field   string             `json:"field,omitempty"`
	Errors  []domain.Violation `json:"errors,omitempty"`
	Stack   string             `json:"stack,omitempty"`
}

// OK renders data inside a success envelope.
func OK(c echo.Context, code int, data any) error {
	return c.JSON(code, Body{Success: true, Data: data})
}

// Message renders a success envelope with a message and optional data.
func Message(c echo.Context, code int, msg string, data any) error {
	return c.JSON(code, Body{Success: true, Message: msg, Data: data})
}

// Page renders a list page with its pagination block.
func Page(c echo.Context, code int, items any, count int, p Pagination) error {
	return c.JSON(code, Body{Success: true, Count: &count, Pagination: &p, Data: items})
}

// Fail renders msg inside an error envelope.
func Fail(c echo.Context, code int, msg string) error {
	return c.JSON(code, ErrorBody{Error: msg})
}
