package models

import (
	"gorm.io/gorm"
)

// WithdrawalType defines which funds a withdrawal draws from
type WithdrawalType string

const (
	WithdrawalTypeFull       WithdrawalType = "full"       // all settled balance, deactivates the account
	WithdrawalTypeRewardOnly WithdrawalType = "rewardOnly" // all accrued rewards
	WithdrawalTypeCustom     WithdrawalType = "custom"     // caller-chosen amount from rewards
)

// IsValid reports whether t is one of the known types
func (t WithdrawalType) IsValid() bool {
	switch t {
	case WithdrawalTypeFull, WithdrawalTypeRewardOnly, WithdrawalTypeCustom:
		return true
	}
	return false
}

// WithdrawalStatus defines the lifecycle state of a withdrawal
type WithdrawalStatus string

const (
	WithdrawalStatusPending WithdrawalStatus = "pending"
	WithdrawalStatusProceed WithdrawalStatus = "proceed"
	WithdrawalStatusFailed  WithdrawalStatus = "failed"
)

// IsValid reports whether s is one of the known statuses
func (s WithdrawalStatus) IsValid() bool {
	switch s {
	case WithdrawalStatusPending, WithdrawalStatusProceed, WithdrawalStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether the status can no longer change
func (s WithdrawalStatus) Terminal() bool {
	return s == WithdrawalStatusProceed || s == WithdrawalStatusFailed
}

// Withdrawal records a user withdrawal request. Funds leave the source
// balance field when the row is created and sit in pendingWithdrawalBalance
// until an admin resolves the row.
type Withdrawal struct {
	gorm.Model
	UserID        uint             `gorm:"not null;index" json:"userId"`
	Plan          Plan             `gorm:"type:varchar(20);not null" json:"plan"`
	Type          WithdrawalType   `gorm:"type:varchar(20);not null" json:"type"`
	Amount        float64          `gorm:"not null" json:"amount"`
	BalanceBefore float64          `gorm:"not null" json:"balanceBefore"` // source field snapshot before the debit
	Status        WithdrawalStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	WithdrawalID  string           `gorm:"type:varchar(40);uniqueIndex" json:"withdrawalId"`
	TransactionID string           `gorm:"type:varchar(100)" json:"transactionId,omitempty"`
	Remarks       string           `gorm:"type:text" json:"remarks,omitempty"`
	IsDeleted     bool             `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}
