package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SlotEntry represents the slot_entries table holding persisted state blobs
type SlotEntry struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// APIKey represents the api_keys table of integration keys
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"-"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// ActivityUsage represents the activity_usage table, one row per day
type ActivityUsage struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	Date            string `gorm:"uniqueIndex;not null" json:"date"`
	Generations     int    `gorm:"default:0" json:"generations"`
	AgentsScheduled int    `gorm:"default:0" json:"agents_scheduled"`
	Exports         int    `gorm:"default:0" json:"exports"`
}

// Operator represents the operators table of people allowed to log in
type Operator struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// InitDB opens postgres when databaseURL is set, otherwise the sqlite file at
// dataPath, and migrates the schema
func InitDB(databaseURL, dataPath string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	if databaseURL != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  databaseURL,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		if dataPath == "" {
			dataPath = "w2w.db"
		}
		db, err = gorm.Open(sqlite.Open(dataPath), &gorm.Config{})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(&SlotEntry{}, &APIKey{}, &ActivityUsage{}, &Operator{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return db, nil
}
