package model

import (
	"time"
)

// Store is always owned by exactly one store_owner user. Deactivation
// (IsActive=false) is the only delete path; ratings referencing a deactivated
// store are kept and stay reachable by id.
type Store struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"` // stored lowercase
	Address   string    `gorm:"type:text" json:"address"`
	OwnerID   uint      `gorm:"not null;index:idx_stores_owner_active,priority:1" json:"owner_id"`
	Owner     User      `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"owner,omitempty"`
	IsActive  bool      `gorm:"default:true;index:idx_stores_owner_active,priority:2" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Store) TableName() string {
	return "stores"
}
