package database

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecordGeneration counts one schedule generation covering agentCount agents
func RecordGeneration(db *gorm.DB, agentCount int) error {
	return upsertUsage(db, ActivityUsage{Generations: 1, AgentsScheduled: agentCount})
}

// RecordExport counts one spreadsheet export
func RecordExport(db *gorm.DB) error {
	return upsertUsage(db, ActivityUsage{Exports: 1})
}

// upsertUsage adds delta to today's row using OnConflict, which both
// postgres and sqlite support
func upsertUsage(db *gorm.DB, delta ActivityUsage) error {
	delta.Date = time.Now().Format("2006-01-02")
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"generations":      gorm.Expr("generations + ?", delta.Generations),
			"agents_scheduled": gorm.Expr("agents_scheduled + ?", delta.AgentsScheduled),
			"exports":          gorm.Expr("exports + ?", delta.Exports),
		}),
	}).Create(&delta).Error
}

// RecentUsage returns up to limit days of activity, newest first
func RecentUsage(db *gorm.DB, limit int) ([]ActivityUsage, error) {
	var usage []ActivityUsage
	err := db.Order("date desc").Limit(limit).Find(&usage).Error
	return usage, err
}
