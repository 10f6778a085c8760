package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CalendarItem is a planned slot on a client's content calendar (the CC list).
// A content request may link to one item; deleting an item is an administrative
// operation independent of the request workflow and only clears that link.
type CalendarItem struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"client_id"`
	Client       *Client        `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Title        string         `gorm:"type:varchar(255);not null" json:"title"`
	ContentType  ContentType    `gorm:"type:varchar(10)" json:"content_type"`
	ScheduledFor time.Time      `gorm:"not null;index" json:"scheduled_for"`
	IsDone       bool           `gorm:"default:false" json:"is_done"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
