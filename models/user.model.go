package models

import (
	"time"

	"gorm.io/gorm"
)

// Plan is the user's investment tier
type Plan string

const (
	PlanSeed  Plan = "seed"
	PlanPlant Plan = "plant"
	PlanTree  Plan = "tree"
)

// IsValid reports whether p is one of the known plans
func (p Plan) IsValid() bool {
	switch p {
	case PlanSeed, PlanPlant, PlanTree:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Name             string     `gorm:"default:''"`
	Email            string     `gorm:"unique;not null"`
	Mobile           string     `gorm:"default:''"`
	Role             string     `gorm:"default:'USER'"` // USER, ADMIN, SUPER-ADMIN
	Password         string     `gorm:"not null"`
	Plan             Plan       `gorm:"type:varchar(20);default:'seed'"`
	IsActive         bool       `gorm:"default:false"` // flipped by qualifying deposits, cleared by full withdrawals
	IsMobileVerified bool       `gorm:"default:false"`
	IsEmailVerified  bool       `gorm:"default:false"`
	LastLogin        *time.Time `json:"last_login"`
	IsDeleted        bool       `gorm:"default:false"`
}
