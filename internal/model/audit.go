package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit action constants
const (
	ActionSubmitCreate   = "SUBMIT_CREATE_REQUEST"
	ActionSubmitEdit     = "SUBMIT_EDIT_REQUEST"
	ActionSubmitDelete   = "SUBMIT_DELETE_REQUEST"
	ActionCreateResource = "CREATE_RESOURCE"
	ActionEditResource   = "EDIT_RESOURCE"
	ActionDeleteResource = "DELETE_RESOURCE"
	ActionApproveRequest = "APPROVE_REQUEST"
	ActionRejectRequest  = "REJECT_REQUEST"
	ActionAddSettlement  = "ADD_SETTLEMENT"
	ActionCreateProject  = "CREATE_PROJECT"
	ActionAssignProject  = "ASSIGN_PROJECT"
	ActionCreateInvite   = "CREATE_INVITE"
	ActionAcceptInvite   = "ACCEPT_INVITE"
)

// AuditLog tracks who did what, and when, per organization. Writes are
// fire-and-forget: a failed audit insert never fails the operation that
// triggered it.
type AuditLog struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"organization_id"`
	UserID         *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	User           *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action         string     `gorm:"type:varchar(50);not null;index" json:"action"`
	Entity         string     `gorm:"type:varchar(50);index" json:"entity"` // module tag or entity kind
	EntityID       string     `gorm:"type:varchar(50);index" json:"entity_id"`
	Details        string     `gorm:"type:jsonb" json:"details"`
	CreatedAt      time.Time  `gorm:"index" json:"created_at"`
}
