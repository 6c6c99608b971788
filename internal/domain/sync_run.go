package domain

import (
	"time"

	"gorm.io/datatypes"
)

// SyncRun is the audit record of one market-data sync batch. Failures holds
// the per-ticker skip reasons as a JSON object (ticker -> reason).
type SyncRun struct {
	ID         uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	StartedAt  time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt time.Time      `gorm:"column:finished_at;not null" json:"finished_at"`
	Synced     int            `gorm:"column:synced;not null" json:"synced"`
	Failed     int            `gorm:"column:failed;not null" json:"failed"`
	Failures   datatypes.JSON `gorm:"column:failures" json:"failures"`
}

func (SyncRun) TableName() string {
	return "sync_runs"
}
