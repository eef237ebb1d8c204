package repositories

import (
	"context"

	"storerating/internal/models"
)

// RatingRepository defines the interface for rating data access.
type RatingRepository interface {
	// Upsert inserts rating or, if the user already rated the store,
	// replaces the stored value. It is a single atomic statement.
	Upsert(ctx context.Context, rating *models.Rating) error
	Count(ctx context.Context) (int64, error)
	AverageForStore(ctx context.Context, storeID uint) (float64, error)
	RatersForStore(ctx context.Context, storeID uint) ([]models.Rater, error)
}
