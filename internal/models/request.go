package models

import "github.com/google/uuid"

type LoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Status      string `json:"status,omitempty"`
	ClientNotes string `json:"client_notes,omitempty" binding:"max=1000"`
	// ExpiredDays is converted to an absolute expired_date at creation time.
	ExpiredDays int `json:"expired_days,omitempty" binding:"min=0"`
}

type UpdateProjectRequest struct {
	Title       *string `json:"title,omitempty"`
	ClientNotes *string `json:"client_notes,omitempty"`
	Status      *string `json:"status,omitempty"`
}

type UpdateProjectStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type CreateProjectTokenRequest struct {
	ProjectID     uuid.UUID `json:"project_id" binding:"required"`
	Password      string    `json:"password,omitempty"`
	ExpiresInDays int       `json:"expires_in_days,omitempty" binding:"min=0"`
}

type VerifyProjectTokenRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password,omitempty"`
}

// PhotoSelectRequest carries the guest credential for select/unselect.
type PhotoSelectRequest struct {
	ProjectToken string `json:"project_token" binding:"required"`
	Password     string `json:"password,omitempty"`
	Comment      string `json:"comment,omitempty" binding:"max=500"`
}

// Pagination holds offset pagination plus an optional sort key/direction.
// Sort keys are whitelisted by the repository layer.
type Pagination struct {
	Skip    int
	Limit   int
	SortBy  string
	SortDir string
}

// DefaultPagination clamps the limit into [1,100] and skip to >= 0.
func DefaultPagination(skip, limit int) Pagination {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return Pagination{Skip: skip, Limit: limit}
}
