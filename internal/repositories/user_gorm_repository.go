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
	userConflictMsg = "Failed to save user. Email may already exist."
	userNotFoundMsg = "User not found."
)

var userSortColumns = map[string]string{
	"name":    "name",
	"email":   "email",
	"address": "address",
	"role":    "role",
}

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts user. A duplicate email surfaces as a conflict from the
// unique index; there is no separate existence check.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error
	return classify(err, "failed to create user", userConflictMsg, userNotFoundMsg)
}

// CreateWithStore inserts user and its store inside a single transaction.
func (r *GORMUserRepository) CreateWithStore(ctx context.Context, user *models.User, store *models.Store) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(user).Error; err != nil {
			return err
		}
		ownerID := user.ID
		store.OwnerID = &ownerID
		return tx.Omit(clause.Associations).Create(store).Error
	})
	if err != nil {
		user.ID = 0
		store.ID = 0
		store.OwnerID = nil
	}
	return classify(err, "failed to create user with store",
		"Failed to create user and store. Email or store name may already exist.", userNotFoundMsg)
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, classify(err, fmt.Sprintf("failed to get user by ID %d", id), userConflictMsg, userNotFoundMsg)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, classify(err, "failed to get user by email", userConflictMsg, userNotFoundMsg)
	}
	return &user, nil
}

// UpdateProfile overwrites name and email in one statement.
func (r *GORMUserRepository) UpdateProfile(ctx context.Context, id uint, name, email string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]any{"name": name, "email": email})
	if res.Error != nil {
		return classify(res.Error, "failed to update profile",
			"Email may already be in use by another account.", userNotFoundMsg)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(userNotFoundMsg)
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *GORMUserRepository) UpdatePassword(ctx context.Context, id uint, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("password", passwordHash)
	if res.Error != nil {
		return fmt.Errorf("failed to update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(userNotFoundMsg)
	}
	return nil
}

// Delete removes a user. The schema deletes their ratings and releases the
// store they owned (owner_id becomes NULL).
func (r *GORMUserRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(userNotFoundMsg)
	}
	return nil
}

// List returns user summaries matching filter, ordered by name unless asked otherwise.
func (r *GORMUserRepository) List(ctx context.Context, filter UserFilter) ([]models.UserSummary, error) {
	q := r.db.WithContext(ctx).Model(&models.User{}).Select("id, name, email, address, role")
	q = whereContains(q, "name", filter.Name)
	q = whereContains(q, "email", filter.Email)
	q = whereContains(q, "address", filter.Address)
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}

	users := []models.UserSummary{}
	err := q.Order(orderClause(filter.SortBy, filter.Order, userSortColumns, "name", "id")).Scan(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Count returns the number of users.
func (r *GORMUserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
