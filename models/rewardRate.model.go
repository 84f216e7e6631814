package models

import (
	"gorm.io/gorm"
)

// RewardRateSetting holds the per-plan daily reward rate as a fraction
// (0.01 = 1% of the settled balance per run). Mutable by admins,
// read-only to the accrual job.
type RewardRateSetting struct {
	gorm.Model
	Plan      Plan    `gorm:"type:varchar(20);uniqueIndex;not null" json:"plan"`
	Rate      float64 `gorm:"not null" json:"rate"`
	UpdatedBy uint    `gorm:"default:0" json:"updatedBy"`
}

func (RewardRateSetting) TableName() string {
	return "reward_rate_settings"
}
