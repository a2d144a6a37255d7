package domain

import (
	"errors"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DefaultPageSize = 6
)

var (
	MesaageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageFailedUnauthorized   = "authentication credentials were not provided"

	ErrUserNotAllowed = errors.New("user not allowed")
	ErrTokenNotFound  = errors.New("failed to token not found")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenRevoked   = errors.New("token revoked")
	ErrUnauthorized   = errors.New("authentication required")
)

type (
	PaginationRequest struct {
		Page  int
		Limit int
	}

	Pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
	}

	// Viewer identifies the caller of a read endpoint. An empty UserID
	// means the request is anonymous.
	Viewer struct {
		UserID string
		Role   string
	}
)

func (p PaginationRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

func NewPagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}
}

func (v Viewer) IsAnonymous() bool {
	return v.UserID == ""
}

func (v Viewer) IsAdmin() bool {
	return v.Role == RoleAdmin
}
