package models

import (
	"gorm.io/gorm"
)

// MigrationFunc creates/updates the schema on service start.
func MigrationFunc(conn *gorm.DB) error {
	// use conn.Debug().AutoMigrate(...) to enable debugging
	return conn.AutoMigrate(&Conversation{}, &Message{})
}
