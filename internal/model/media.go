package model

import (
	"time"

	"github.com/google/uuid"
)

// Photo is site-photo metadata. The blob itself lives in object storage
// under StorageKey; this service only tracks the reference.
type Photo struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID *uuid.UUID `gorm:"type:uuid;index" json:"project_id,omitempty"`
	Owned
	Governed
	Caption     string    `gorm:"type:varchar(255)" json:"caption"`
	StorageKey  string    `gorm:"type:varchar(512);not null" json:"storage_key"`
	ContentType string    `gorm:"type:varchar(128)" json:"content_type"`
	Size        int64     `gorm:"not null;default:0" json:"size"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (p *Photo) GetID() uuid.UUID       { return p.ID }
func (p *Photo) ResourceModule() Module { return ModulePhoto }

// Document is project-document metadata (contracts, drawings, bills).
type Document struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID *uuid.UUID `gorm:"type:uuid;index" json:"project_id,omitempty"`
	Owned
	Governed
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	FileName    string    `gorm:"type:varchar(255);not null" json:"file_name"`
	StorageKey  string    `gorm:"type:varchar(512);not null" json:"storage_key"`
	ContentType string    `gorm:"type:varchar(128)" json:"content_type"`
	Size        int64     `gorm:"not null;default:0" json:"size"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (d *Document) GetID() uuid.UUID       { return d.ID }
func (d *Document) ResourceModule() Module { return ModuleDocument }
