package models

import "time"

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type OwnerInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

type LoginResponse struct {
	User  OwnerInfo `json:"user"`
	Token TokenPair `json:"token"`
}

type ProjectResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	ClientNotes string     `json:"client_notes,omitempty"`
	ExpiredDate *time.Time `json:"expired_date,omitempty"`
	ImagesCount int64      `json:"images_count"`
	OwnerInfo   *OwnerInfo `json:"owner_info,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Meta     PaginationMeta    `json:"meta"`
}

type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginationMeta derives page/total_pages from offset pagination.
func NewPaginationMeta(p Pagination, total int64) PaginationMeta {
	page := (p.Skip / p.Limit) + 1
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return PaginationMeta{Page: page, Limit: p.Limit, Total: total, TotalPages: totalPages}
}

type PhotoResponse struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"project_id"`
	Filename      string    `json:"filename"`
	IsSelected    bool      `json:"is_selected"`
	IsApproved    bool      `json:"is_approved"`
	IsRejected    bool      `json:"is_rejected"`
	EditedVersion bool      `json:"edited_version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type PhotoListResponse struct {
	Photos []PhotoResponse `json:"photos"`
	Meta   PaginationMeta  `json:"meta"`
}

type PhotoVersionResponse struct {
	ID          string    `json:"id"`
	PhotoID     string    `json:"photo_id"`
	VersionType string    `json:"version_type"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type PhotoDetailResponse struct {
	Photo   PhotoResponse        `json:"photo"`
	Version PhotoVersionResponse `json:"version"`
}

type CommentResponse struct {
	ID         string    `json:"id"`
	PhotoID    string    `json:"photo_id"`
	AuthorType string    `json:"author_type"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

type PhotoMetaResponse struct {
	PhotoResponse
	Comments []CommentResponse `json:"comments"`
}

// SessionTokenResponse is returned by the token issue/verify endpoints.
type SessionTokenResponse struct {
	Token         string           `json:"token"`
	ProjectID     string           `json:"project_id"`
	ExpiresAt     *time.Time       `json:"expires_at,omitempty"`
	IsActive      bool             `json:"is_active"`
	HasPassword   bool             `json:"has_password"`
	CountAccesses int              `json:"count_accesses"`
	Project       *ProjectResponse `json:"project,omitempty"`
}

type ScriptTemplate struct {
	Name      string `json:"name"`
	Content   string `json:"content"`
	Extension string `json:"extension"`
}

type ScriptsResponse struct {
	ProjectTitle   string           `json:"project_title"`
	Scripts        []ScriptTemplate `json:"scripts"`
	CSVDownloadURL string           `json:"csv_download_url"`
}

// NewPhotoResponse maps a Photo row plus its edited-version flag.
func NewPhotoResponse(p *Photo, hasEdited bool) PhotoResponse {
	return PhotoResponse{
		ID:            p.ID.String(),
		ProjectID:     p.ProjectID.String(),
		Filename:      p.Filename,
		IsSelected:    p.IsSelected,
		IsApproved:    p.IsApproved,
		IsRejected:    p.IsRejected,
		EditedVersion: hasEdited,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func NewPhotoVersionResponse(v *PhotoVersion) PhotoVersionResponse {
	return PhotoVersionResponse{
		ID:          v.ID.String(),
		PhotoID:     v.PhotoID.String(),
		VersionType: v.VersionType,
		ImageURL:    v.ImageURL,
		CreatedAt:   v.CreatedAt,
	}
}

func NewCommentResponse(c *PhotoComment) CommentResponse {
	return CommentResponse{
		ID:         c.ID.String(),
		PhotoID:    c.PhotoID.String(),
		AuthorType: c.AuthorType,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
	}
}

// NewProjectResponse maps a Project row; owner must be preloaded when
// withOwner is true.
func NewProjectResponse(p *Project, imagesCount int64, withOwner bool) ProjectResponse {
	resp := ProjectResponse{
		ID:          p.ID.String(),
		Title:       p.Title,
		Status:      p.Status,
		ClientNotes: p.ClientNotes,
		ExpiredDate: p.ExpiredDate,
		ImagesCount: imagesCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if withOwner {
		resp.OwnerInfo = &OwnerInfo{
			ID:    p.Owner.ID.String(),
			Email: p.Owner.Email,
			Name:  p.Owner.Name,
		}
	}
	return resp
}
