package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectStatus enum constants
const (
	ProjectActive    = "active"
	ProjectOnHold    = "on-hold"
	ProjectCompleted = "completed"
)

// Project is a construction site/contract under one organization. Projects
// themselves are not governed by the approval workflow; the resources under
// them are.
type Project struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	Address        string          `gorm:"type:text" json:"address"`
	Status         string          `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Budget         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"budget"`
	StartDate      *time.Time      `json:"start_date,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProjectAssignment grants a non-admin user access to one project. Access
// checks look for an active row matching both project and user.
type ProjectAssignment struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_assignment_project_user" json:"project_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_assignment_project_user" json:"user_id"`
	Active    bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
