package repositories

import (
	"context"

	"storerating/internal/models"
)

// StoreRepository defines the interface for store data access.
type StoreRepository interface {
	Create(ctx context.Context, store *models.Store) error
	GetByID(ctx context.Context, id uint) (*models.Store, error)
	GetByOwner(ctx context.Context, ownerID uint) (*models.Store, error)
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
	// ListWithRatings returns every matching store with its average rating,
	// zero when it has none.
	ListWithRatings(ctx context.Context, filter StoreFilter) ([]models.StoreSummary, error)
	// ListForUser returns matching stores with the average over all users and,
	// separately, the rating userID submitted (nil when absent).
	ListForUser(ctx context.Context, userID uint, filter StoreFilter) ([]models.UserStoreView, error)
}
