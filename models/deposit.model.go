package models

import (
	"gorm.io/gorm"
)

// DepositStatus defines the lifecycle state of a deposit
type DepositStatus string

const (
	DepositStatusPending DepositStatus = "pending"
	DepositStatusProceed DepositStatus = "proceed"
	DepositStatusFailed  DepositStatus = "failed"
)

// IsValid reports whether s is one of the known statuses
func (s DepositStatus) IsValid() bool {
	switch s {
	case DepositStatusPending, DepositStatusProceed, DepositStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether the status can no longer change
func (s DepositStatus) Terminal() bool {
	return s == DepositStatusProceed || s == DepositStatusFailed
}

// Deposit records a user deposit request. Created with status pending;
// an admin resolves it exactly once to proceed or failed.
type Deposit struct {
	gorm.Model
	UserID        uint          `gorm:"not null;index" json:"userId"`
	Plan          Plan          `gorm:"type:varchar(20);not null" json:"plan"`
	Amount        float64       `gorm:"not null" json:"amount"`
	BalanceBefore float64       `gorm:"not null" json:"balanceBefore"` // settled balance snapshot at creation
	Status        DepositStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	DepositID     string        `gorm:"type:varchar(40);uniqueIndex" json:"depositId"`
	UTR           string        `gorm:"type:varchar(100)" json:"utr,omitempty"`
	TransactionID string        `gorm:"type:varchar(100)" json:"transactionId,omitempty"`
	Remarks       string        `gorm:"type:text" json:"remarks,omitempty"`
	IsDeleted     bool          `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Deposit) TableName() string {
	return "deposits"
}
