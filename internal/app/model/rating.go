package model

import (
	"time"
)

const (
	RatingMin       = 1
	RatingMax       = 5
	ReviewMaxLength = 500
)

// Rating is one user's rating of one store. The composite unique index on
// (user_id, store_id) is the integrity backstop for the upsert path: a second
// submission from the same user for the same store updates in place and can
// never produce a duplicate row.
type Rating struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_ratings_user_store,priority:1" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	StoreID   uint      `gorm:"not null;uniqueIndex:idx_ratings_user_store,priority:2;index" json:"store_id"`
	Store     Store     `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Review    string    `gorm:"type:text" json:"review"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Rating) TableName() string {
	return "ratings"
}

// ValidRatingValue reports whether v is inside the allowed 1..5 range.
func ValidRatingValue(v int) bool {
	return v >= RatingMin && v <= RatingMax
}
