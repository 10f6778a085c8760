package model

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle state of a content request.
// The set is closed; no transition ever produces a status outside it.
type RequestStatus string

const (
	StatusPendingManagerReview RequestStatus = "pending_manager_review"
	StatusAssignedToEditor     RequestStatus = "assigned_to_editor"
	StatusSubmittedForReview   RequestStatus = "submitted_for_review"
	StatusManagerApproved      RequestStatus = "manager_approved"
	StatusManagerRejected      RequestStatus = "manager_rejected"
	StatusClientApproved       RequestStatus = "client_approved"
	StatusClientRejected       RequestStatus = "client_rejected"
)

// Valid reports whether the status belongs to the closed state set
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPendingManagerReview, StatusAssignedToEditor, StatusSubmittedForReview,
		StatusManagerApproved, StatusManagerRejected, StatusClientApproved, StatusClientRejected:
		return true
	}
	return false
}

// Terminal reports whether the request has reached its final state
func (s RequestStatus) Terminal() bool {
	return s == StatusClientApproved
}

// AwaitingEditor reports whether the ball is in the editor's court
func (s RequestStatus) AwaitingEditor() bool {
	return s == StatusAssignedToEditor || s == StatusManagerRejected || s == StatusClientRejected
}

// ContentType enum constants
type ContentType string

const (
	ContentTypePost  ContentType = "post"
	ContentTypeReel  ContentType = "reel"
	ContentTypeStory ContentType = "story"
)

// Valid reports whether the content type is one of post, reel, story
func (t ContentType) Valid() bool {
	return t == ContentTypePost || t == ContentTypeReel || t == ContentTypeStory
}

// ContentRequest is a client's content-creation ask, tracked through its lifecycle.
// Status is mutated only through workflow-validated transitions; the record itself
// is never deleted by the workflow.
type ContentRequest struct {
	ID             uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID       uuid.UUID     `gorm:"type:uuid;not null;index" json:"client_id"`
	Client         *Client       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	FromUserID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"from_user_id"`
	FromUser       *User         `gorm:"foreignKey:FromUserID" json:"from_user,omitempty"`
	CalendarItemID *uuid.UUID    `gorm:"type:uuid;index" json:"calendar_item_id"`
	CalendarItem   *CalendarItem `gorm:"foreignKey:CalendarItemID" json:"calendar_item,omitempty"`

	Message      string         `gorm:"type:text;not null" json:"message"`
	ContentType  ContentType    `gorm:"type:varchar(10);not null" json:"content_type"`
	Requirements string         `gorm:"type:text" json:"requirements"`
	Media        []RequestMedia `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"media"`

	Status           RequestStatus `gorm:"type:varchar(30);not null;index" json:"status"`
	AssignedEditorID *uuid.UUID    `gorm:"type:uuid;index" json:"assigned_editor_id"` // Non-null from assigned_to_editor onward
	AssignedEditor   *User         `gorm:"foreignKey:AssignedEditorID" json:"assigned_editor,omitempty"`
	EditorMessage    string        `gorm:"type:text" json:"editor_message"`
	ManagerFeedback  string        `gorm:"type:text" json:"manager_feedback"`
	ClientFeedback   string        `gorm:"type:text" json:"client_feedback"`
	CompletedWorkURL string        `gorm:"type:text" json:"completed_work_url"`

	// ToUserID is a derived projection of who must act next, recomputed on every
	// transition. Null only when the request is terminal.
	ToUserID *uuid.UUID `gorm:"type:uuid;index" json:"to_user_id"`
	ToUser   *User      `gorm:"foreignKey:ToUserID" json:"to_user,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RequestMedia is an attachment reference owned by a request. Attachments are
// immutable after creation; submissions add work references, they never edit these.
type RequestMedia struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID uuid.UUID `gorm:"type:uuid;not null;index" json:"request_id"`
	FileURL   string    `gorm:"type:text;not null" json:"file_url"`
	FileName  string    `gorm:"type:varchar(255)" json:"file_name"`
	MimeType  string    `gorm:"type:varchar(100)" json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}
