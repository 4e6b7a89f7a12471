package model

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the tenant boundary. Every resource in the system belongs
// to exactly one organization.
type Organization struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Invite lets an admin bring a new member into the organization. The token
// is single-use and expires.
type Invite struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	Email          string     `gorm:"type:varchar(255);not null;index" json:"email"`
	Role           string     `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Token          string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	InvitedBy      uuid.UUID  `gorm:"type:uuid;not null" json:"invited_by"`
	ExpiresAt      time.Time  `gorm:"not null" json:"expires_at"`
	AcceptedAt     *time.Time `json:"accepted_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
