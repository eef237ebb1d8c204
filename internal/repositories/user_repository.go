package repositories

import (
	"context"

	"storerating/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	// CreateWithStore persists user and store as one unit: store is owned by
	// user and either both rows exist afterwards or neither does.
	CreateWithStore(ctx context.Context, user *models.User, store *models.Store) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id uint, name, email string) error
	UpdatePassword(ctx context.Context, id uint, passwordHash string) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter UserFilter) ([]models.UserSummary, error)
	Count(ctx context.Context) (int64, error)
}
