package repositories

import (
	"context"
	"fmt"

	"storerating/internal/apperr"
	"storerating/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	storeConflictMsg = "Failed to create store. Name, email or owner may already be taken."
	storeNotFoundMsg = "Store not found."
)

// averageExpr is the per-store mean of joined ratings r, zero when the store
// has no ratings.
const averageExpr = "CAST(COALESCE(AVG(r.rating), 0) AS FLOAT)"

var (
	storeSortColumns = map[string]string{
		"name":    "s.name",
		"email":   "s.email",
		"address": "s.address",
		"rating":  "rating",
	}
	userStoreSortColumns = map[string]string{
		"name":          "s.name",
		"address":       "s.address",
		"overallRating": "overall_rating",
	}
)

// GORMStoreRepository is a GORM implementation of StoreRepository.
type GORMStoreRepository struct {
	db *gorm.DB
}

// NewGORMStoreRepository creates a new instance of GORMStoreRepository.
func NewGORMStoreRepository(db *gorm.DB) *GORMStoreRepository {
	return &GORMStoreRepository{
		db: db,
	}
}

// Create inserts store. Duplicate name, email or owner is reported by the
// unique indexes as a conflict; an owner that does not exist as not found.
func (r *GORMStoreRepository) Create(ctx context.Context, store *models.Store) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(store).Error
	return classify(err, "failed to create store", storeConflictMsg, "Store owner not found.")
}

// GetByID retrieves a single store by its ID.
func (r *GORMStoreRepository) GetByID(ctx context.Context, id uint) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, classify(err, fmt.Sprintf("failed to get store by ID %d", id), storeConflictMsg, storeNotFoundMsg)
	}
	return &store, nil
}

// GetByOwner retrieves the store owned by ownerID.
func (r *GORMStoreRepository) GetByOwner(ctx context.Context, ownerID uint) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "owner_id = ?", ownerID).Error; err != nil {
		return nil, classify(err, "failed to get store by owner", storeConflictMsg, "No store found for this owner.")
	}
	return &store, nil
}

// Delete removes a store; its ratings go with it.
func (r *GORMStoreRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Store{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete store: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(storeNotFoundMsg)
	}
	return nil
}

// Count returns the number of stores.
func (r *GORMStoreRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Store{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count stores: %w", err)
	}
	return n, nil
}

func (r *GORMStoreRepository) ListWithRatings(ctx context.Context, filter StoreFilter) ([]models.StoreSummary, error) {
	q := r.db.WithContext(ctx).Table("stores AS s").
		Select("s.id, s.name, s.email, s.address, " + averageExpr + " AS rating").
		Joins("LEFT JOIN ratings AS r ON r.store_id = s.id")
	q = whereContains(q, "s.name", filter.Name)
	q = whereContains(q, "s.email", filter.Email)
	q = whereContains(q, "s.address", filter.Address)

	stores := []models.StoreSummary{}
	err := q.Group("s.id, s.name, s.email, s.address").
		Order(orderClause(filter.SortBy, filter.Order, storeSortColumns, "name", "s.id")).
		Scan(&stores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}
	return stores, nil
}

func (r *GORMStoreRepository) ListForUser(ctx context.Context, userID uint, filter StoreFilter) ([]models.UserStoreView, error) {
	// r feeds the overall average; ur matches at most one row (the unique
	// user/store pair) so it never multiplies r.
	q := r.db.WithContext(ctx).Table("stores AS s").
		Select("s.id, s.name, s.address, "+averageExpr+" AS overall_rating, MAX(ur.rating) AS user_submitted_rating").
		Joins("LEFT JOIN ratings AS r ON r.store_id = s.id").
		Joins("LEFT JOIN ratings AS ur ON ur.store_id = s.id AND ur.user_id = ?", userID)
	q = whereContains(q, "s.name", filter.Name)
	q = whereContains(q, "s.address", filter.Address)

	stores := []models.UserStoreView{}
	err := q.Group("s.id, s.name, s.address").
		Order(orderClause(filter.SortBy, filter.Order, userStoreSortColumns, "name", "s.id")).
		Scan(&stores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stores for user %d: %w", userID, err)
	}
	return stores, nil
}
