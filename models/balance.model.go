package models

import (
	"gorm.io/gorm"
)

// Balance tracks the per-plan funds of a user. A user has exactly one
// balance row for every plan they have ever held; the "current" balance
// is the one whose plan matches User.Plan. All four monetary fields are
// >= 0 at rest.
type Balance struct {
	gorm.Model
	UserID                   uint    `gorm:"not null;uniqueIndex:idx_user_plan" json:"userId"`
	Plan                     Plan    `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_plan" json:"plan"`
	Balance                  float64 `gorm:"not null;default:0" json:"balance"`
	PendingDepositBalance    float64 `gorm:"not null;default:0" json:"pendingDepositBalance"`
	PendingWithdrawalBalance float64 `gorm:"not null;default:0" json:"pendingWithdrawalBalance"`
	RewardBalance            float64 `gorm:"not null;default:0" json:"rewardBalance"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Balance) TableName() string {
	return "balances"
}
