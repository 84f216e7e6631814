package models

import (
	"gorm.io/gorm"
)

// RewardRunLog records one completed accrual run per calendar date.
// The unique date is the guard against double-crediting when the job is
// triggered manually on a day the scheduler already ran.
type RewardRunLog struct {
	gorm.Model
	RunDate   string `gorm:"type:varchar(10);uniqueIndex;not null" json:"runDate"`
	Succeeded int    `gorm:"default:0" json:"succeeded"`
	Skipped   int    `gorm:"default:0" json:"skipped"`
	Errored   int    `gorm:"default:0" json:"errored"`
}

func (RewardRunLog) TableName() string {
	return "reward_run_logs"
}
