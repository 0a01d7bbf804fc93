package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	MessageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageSuccessPing          = "pong"

	// Error kinds. Every error returned by a service wraps exactly one of
	// these so the presenters can pick a status code.
	ErrValidation        = errors.New("validation failed")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrAggregationFailed = errors.New("shopping list aggregation failed")

	ErrParseUUID      = fmt.Errorf("%w: failed to parse UUID", ErrValidation)
	ErrUserNotAllowed = fmt.Errorf("%w: user not allowed", ErrPermissionDenied)
	ErrTokenNotFound  = errors.New("failed to token not found")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
)

// ValidationError carries field-level messages for a rejected input.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

type (
	PaginationRequest struct {
		Page  int `query:"page"`
		Limit int `query:"limit"`
	}

	PaginationResponse struct {
		Page      int   `json:"page"`
		Limit     int   `json:"limit"`
		Total     int64 `json:"total"`
		TotalPage int64 `json:"total_page"`
	}
)

// Normalize clamps page and limit to sane defaults.
func (p *PaginationRequest) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > 100 {
		p.Limit = 20
	}
}

func (p PaginationRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

func NewPaginationResponse(p PaginationRequest, total int64) PaginationResponse {
	totalPage := total / int64(p.Limit)
	if total%int64(p.Limit) != 0 {
		totalPage++
	}
	return PaginationResponse{
		Page:      p.Page,
		Limit:     p.Limit,
		Total:     total,
		TotalPage: totalPage,
	}
}
