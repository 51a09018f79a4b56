package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel carries the fields shared by every table: surrogate UUID key,
// soft-delete flag, and create/update timestamps.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IsDeleted bool      `gorm:"not null;default:false;index" json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Project status values. Any value is settable; there is no enforced
// transition graph.
const (
	ProjectStatusDraft           = "draft"
	ProjectStatusClientSelecting = "client_selecting"
	ProjectStatusPendingEdit     = "pending_edit"
	ProjectStatusClientReview    = "client_review"
	ProjectStatusCompleted       = "completed"
)

// Photo version types. One row per type per photo.
const (
	VersionOriginal = "original"
	VersionEdited   = "edited"
)

// AuthorTypeClient is the only comment author type in use today.
const AuthorTypeClient = "client"

func ValidProjectStatus(status string) bool {
	switch status {
	case ProjectStatusDraft, ProjectStatusClientSelecting, ProjectStatusPendingEdit,
		ProjectStatusClientReview, ProjectStatusCompleted:
		return true
	}
	return false
}

func ValidVersionType(versionType string) bool {
	return versionType == VersionOriginal || versionType == VersionEdited
}

// User is a photographer, created on first external-identity login.
type User struct {
	BaseModel
	GoogleUID string `gorm:"size:255;uniqueIndex;not null" json:"google_uid"`
	Email     string `gorm:"size:255;index;not null" json:"email"`
	Name      string `gorm:"size:255" json:"name"`

	Projects []Project `gorm:"foreignKey:OwnerID" json:"-"`
}

func (User) TableName() string { return "users" }

// Project is a photographer's album. Title is unique per owner; expired_date
// NULL means the project is permanent.
type Project struct {
	BaseModel
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Status      string     `gorm:"size:50;not null;index;default:draft" json:"status"`
	ClientNotes string     `gorm:"size:1000" json:"client_notes"`
	ExpiredDate *time.Time `json:"expired_date"`

	Owner          User            `gorm:"foreignKey:OwnerID" json:"-"`
	Photos         []Photo         `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
	ClientSessions []ClientSession `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Project) TableName() string { return "projects" }

// Photo is the logical photo entity; the filename is the contract with the
// client and is immutable after upload.
type Photo struct {
	BaseModel
	ProjectID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_photo_project_filename" json:"project_id"`
	Filename   string    `gorm:"size:255;not null;uniqueIndex:uq_photo_project_filename" json:"filename"`
	IsSelected bool      `gorm:"not null;default:false" json:"is_selected"`
	IsApproved bool      `gorm:"not null;default:false;index" json:"is_approved"`
	IsRejected bool      `gorm:"not null;default:false;index" json:"is_rejected"`

	Versions []PhotoVersion `gorm:"foreignKey:PhotoID;constraint:OnDelete:CASCADE" json:"-"`
	Comments []PhotoComment `gorm:"foreignKey:PhotoID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Photo) TableName() string { return "photos" }

// PhotoVersion points at one rendition (original or edited) of a photo's
// bytes in object storage.
type PhotoVersion struct {
	BaseModel
	PhotoID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_photo_version_photo_type" json:"photo_id"`
	VersionType string    `gorm:"size:20;not null;uniqueIndex:uq_photo_version_photo_type" json:"version_type"`
	ImageURL    string    `gorm:"size:512;not null" json:"image_url"`
}

func (PhotoVersion) TableName() string { return "photo_versions" }

// PhotoComment is a client comment on a photo. Append-only; listed newest
// first.
type PhotoComment struct {
	BaseModel
	PhotoID    uuid.UUID `gorm:"type:uuid;not null;index:idx_photo_comment_photo_created" json:"photo_id"`
	AuthorType string    `gorm:"size:20;not null;default:client" json:"author_type"`
	Content    string    `gorm:"size:500;not null" json:"content"`
}

func (PhotoComment) TableName() string { return "photo_comments" }

// ClientSession is the token-based, optionally password-protected, expirable
// credential granting guest access to exactly one project.
type ClientSession struct {
	BaseModel
	Token          string     `gorm:"size:255;uniqueIndex:uq_client_session_token;index:idx_client_session_token_active;not null" json:"token"`
	ProjectID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	PasswordHash   string     `gorm:"size:255" json:"-"`
	ExpiresAt      *time.Time `json:"expires_at"`
	IsActive       bool       `gorm:"not null;default:true;index:idx_client_session_token_active" json:"is_active"`
	LastAccessedAt *time.Time `json:"last_accessed_at"`
	CountAccesses  int        `gorm:"not null;default:0" json:"count_accesses"`
}

func (ClientSession) TableName() string { return "client_sessions" }

// Expired reports whether the session's expiry has passed at the given
// instant. A nil ExpiresAt means a permanent token.
func (s *ClientSession) Expired(now time.Time) bool {
	if s.ExpiresAt == nil {
		return false
	}
	return now.After(*s.ExpiresAt)
}

// HasPassword reports whether the session requires a password.
func (s *ClientSession) HasPassword() bool {
	return s.PasswordHash != ""
}
