package model

import (
	"time"
)

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleUser       UserRole = "user"
	RoleStoreOwner UserRole = "store_owner"
)

// ValidRole reports whether r names one of the three known roles.
func ValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleUser, RoleStoreOwner:
		return true
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"` // stored lowercase
	PasswordHash string    `gorm:"not null" json:"-"`
	Address      string    `gorm:"type:text" json:"address"`
	Role         UserRole  `gorm:"type:varchar(20);default:'user';index" json:"role"`
	IsActive     bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Stores []Store `gorm:"foreignKey:OwnerID" json:"stores,omitempty"`
}

func (User) TableName() string {
	return "users"
}
