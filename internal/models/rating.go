package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Rating links exactly one user to exactly one store.
type Rating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_ratings_user_store"`
	StoreID   uint      `json:"store_id" gorm:"not null;uniqueIndex:idx_ratings_user_store;index"`
	Rating    int       `json:"rating" gorm:"not null;check:chk_ratings_range,rating >= 1 AND rating <= 5"`
	User      User      `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Store     Store     `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Rater is one entry of a store owner's dashboard.
type Rater struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Rating int    `json:"rating"`
}

// DashboardStats holds the admin overview counts.
type DashboardStats struct {
	TotalUsers   int64 `json:"totalUsers"`
	TotalStores  int64 `json:"totalStores"`
	TotalRatings int64 `json:"totalRatings"`
}

// OwnerDashboard is what a StoreOwner sees for their store.
type OwnerDashboard struct {
	AverageRating string  `json:"averageRating"`
	Raters        []Rater `json:"raters"`
}
