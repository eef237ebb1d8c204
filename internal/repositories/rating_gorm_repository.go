package repositories

import (
	"context"
	"fmt"

	"storerating/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMRatingRepository is a GORM implementation of RatingRepository.
type GORMRatingRepository struct {
	db *gorm.DB
}

// NewGORMRatingRepository creates a new instance of GORMRatingRepository.
func NewGORMRatingRepository(db *gorm.DB) *GORMRatingRepository {
	return &GORMRatingRepository{
		db: db,
	}
}

const ratingRefNotFoundMsg = "Referenced user or store not found."

// Upsert relies on the (user_id, store_id) unique index and ON CONFLICT, so
// concurrent submissions for the same pair can never produce two rows.
func (r *GORMRatingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(rating).Error
	return classify(err, "failed to submit rating", "Rating could not be saved.", ratingRefNotFoundMsg)
}

// Count returns the number of ratings.
func (r *GORMRatingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Rating{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return n, nil
}

// AverageForStore returns the mean rating of storeID, zero without ratings.
func (r *GORMRatingRepository) AverageForStore(ctx context.Context, storeID uint) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).Table("ratings AS r").
		Select(averageExpr).
		Where("r.store_id = ?", storeID).
		Scan(&avg).Error
	if err != nil {
		return 0, fmt.Errorf("failed to average ratings for store %d: %w", storeID, err)
	}
	return avg, nil
}

// RatersForStore lists who rated storeID and with what, ordered by name.
func (r *GORMRatingRepository) RatersForStore(ctx context.Context, storeID uint) ([]models.Rater, error) {
	raters := []models.Rater{}
	err := r.db.WithContext(ctx).Table("ratings AS r").
		Select("u.name, u.email, r.rating").
		Joins("JOIN users AS u ON u.id = r.user_id").
		Where("r.store_id = ?", storeID).
		Order("u.name ASC, r.id ASC").
		Scan(&raters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list raters for store %d: %w", storeID, err)
	}
	return raters, nil
}
