package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification kind constants
const (
	NotifyApprovalRequested = "approval-requested"
	NotifyApprovalResolved  = "approval-resolved"
	NotifySettlementAdded   = "settlement-added"
	NotifyInvite            = "invite"
)

// Notification is an in-app message for one user. Delivery to push
// providers happens outside this service; rows here are the durable copy.
type Notification struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Kind           string     `gorm:"type:varchar(30);not null" json:"kind"`
	Title          string     `gorm:"type:varchar(255);not null" json:"title"`
	Body           string     `gorm:"type:text" json:"body"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
}
