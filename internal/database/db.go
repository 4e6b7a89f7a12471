package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"nirman/internal/model"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.Organization{},
		&model.User{},
		&model.Invite{},
		&model.Project{},
		&model.ProjectAssignment{},
		&model.Ledger{},
		&model.Transaction{},
		&model.Record{},
		&model.Settlement{},
		&model.Task{},
		&model.Material{},
		&model.MaterialLedgerEntry{},
		&model.Hajari{},
		&model.Photo{},
		&model.Document{},
		&model.Notification{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
