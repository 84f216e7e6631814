package models

import (
	"gorm.io/gorm"
)

// NonRewardDay blocks reward accrual system-wide for one calendar date.
// Date is stored as YYYY-MM-DD in UTC.
type NonRewardDay struct {
	gorm.Model
	Date      string `gorm:"type:varchar(10);uniqueIndex;not null" json:"date"`
	Reason    string `gorm:"type:varchar(255)" json:"reason"`
	CreatedBy uint   `gorm:"default:0" json:"createdBy"`
}

func (NonRewardDay) TableName() string {
	return "non_reward_days"
}
