package models

import "time"

// User represents an account of any role.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(60);not null;check:chk_users_name_length,length(name) >= 20 AND length(name) <= 60"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	Address   string    `json:"address" gorm:"type:varchar(400)"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null;check:chk_users_role,role IN ('Admin', 'Normal', 'StoreOwner')"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserSummary is the listing projection of a user. It has no password field.
type UserSummary struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Role    Role   `json:"role"`
}
