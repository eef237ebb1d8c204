package repositories

import "storerating/internal/models"

// UserFilter narrows an admin user listing. Text fields match as
// case-insensitive substrings and are ANDed; Role matches exactly.
type UserFilter struct {
	Name    string      `query:"name"`
	Email   string      `query:"email"`
	Address string      `query:"address"`
	Role    models.Role `query:"role"`
	SortBy  string      `query:"sortBy"`
	Order   string      `query:"order"`
}

// StoreFilter narrows a store listing the same way.
type StoreFilter struct {
	Name    string `query:"name"`
	Email   string `query:"email"`
	Address string `query:"address"`
	SortBy  string `query:"sortBy"`
	Order   string `query:"order"`
}
