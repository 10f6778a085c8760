package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Client represents a brand workspace that content is produced for.
// Requests, calendar items, and client-role users all belong to one client.
type Client struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	ContactPerson  string          `gorm:"type:varchar(255)" json:"contact_person"`
	Email          string          `gorm:"type:varchar(255)" json:"email"`
	WhatsAppNumber string          `gorm:"type:varchar(30)" json:"whatsapp_number"` // International format, digits only
	MonthlyFee     decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"monthly_fee"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}
