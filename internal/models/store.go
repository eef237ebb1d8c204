package models

import "time"

// Store is a rated entity, optionally claimed by a StoreOwner.
type Store struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;type:varchar(255);not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Address   string    `json:"address" gorm:"type:varchar(400)"`
	OwnerID   *uint     `json:"owner_id" gorm:"uniqueIndex"`
	Owner     *User     `json:"-" gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoreSummary is the admin listing projection with the aggregate rating.
type StoreSummary struct {
	ID      uint    `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Address string  `json:"address"`
	Rating  float64 `json:"rating"`
}

// UserStoreView is a store as seen by one Normal user: the overall average
// across all raters next to that user's own rating, if any.
type UserStoreView struct {
	ID                  uint    `json:"id"`
	Name                string  `json:"name"`
	Address             string  `json:"address"`
	OverallRating       float64 `json:"overallRating"`
	UserSubmittedRating *int    `json:"userSubmittedRating"`
}
