package services

import (
	"context"
	"strings"

	"storerating/internal/apperr"
	"storerating/internal/models"
	"storerating/internal/repositories"
	"storerating/internal/validation"
)

// OwnedStoreInput describes the store created together with a StoreOwner.
type OwnedStoreInput struct {
	StoreName    string `json:"storeName" validate:"required,max=255"`
	StoreEmail   string `json:"storeEmail" validate:"required,email"`
	StoreAddress string `json:"storeAddress" validate:"required,max=400"`
}

// CreateUserInput is an admin request to create a user of any role.
type CreateUserInput struct {
	Name     string `json:"name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Address  string `json:"address" validate:"max=400"`
	Role     string `json:"role" validate:"required,role"`

	// Only validated, and required, when Role is StoreOwner.
	OwnedStoreInput `validate:"-"`
}

// AdminService holds the user management and overview operations reserved
// for administrators.
type AdminService struct {
	userRepo   repositories.UserRepository
	storeRepo  repositories.StoreRepository
	ratingRepo repositories.RatingRepository
	creds      *Credentials
	validate   *validation.Validator
	events     EventPublisher
}

// NewAdminService creates a new AdminService. events may be nil.
func NewAdminService(
	userRepo repositories.UserRepository,
	storeRepo repositories.StoreRepository,
	ratingRepo repositories.RatingRepository,
	creds *Credentials,
	events EventPublisher,
) *AdminService {
	return &AdminService{
		userRepo:   userRepo,
		storeRepo:  storeRepo,
		ratingRepo: ratingRepo,
		creds:      creds,
		validate:   validation.New(),
		events:     events,
	}
}

// CreateUser creates a user with the requested role. A StoreOwner is created
// together with its store in one transaction; all input is validated before
// anything is written.
func (s *AdminService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	role := models.Role(in.Role)

	var store *models.Store
	if role == models.RoleStoreOwner {
		in.StoreName = strings.TrimSpace(in.StoreName)
		in.StoreEmail = normalizeEmail(in.StoreEmail)
		in.StoreAddress = strings.TrimSpace(in.StoreAddress)
		if err := s.validate.Struct(in.OwnedStoreInput); err != nil {
			return nil, err
		}
		store = &models.Store{Name: in.StoreName, Email: in.StoreEmail, Address: in.StoreAddress}
	}

	hashed, err := s.creds.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: hashed,
		Address:  in.Address,
		Role:     role,
	}

	if store == nil {
		err = s.userRepo.Create(ctx, user)
	} else {
		err = s.userRepo.CreateWithStore(ctx, user, store)
	}
	if err != nil {
		return nil, err
	}

	publishEvent(s.events, EventUserCreated, userCreatedEvent{UserID: user.ID, Role: user.Role.String()})
	if store != nil {
		publishEvent(s.events, EventStoreCreated, storeCreatedEvent{StoreID: store.ID, OwnerID: store.OwnerID})
	}
	return user, nil
}

// DeleteUser removes a user. Their ratings are deleted and a store they
// owned becomes unclaimed.
func (s *AdminService) DeleteUser(ctx context.Context, id uint) error {
	return s.userRepo.Delete(ctx, id)
}

// ListUsers returns users matching filter. Password hashes are never selected.
func (s *AdminService) ListUsers(ctx context.Context, filter repositories.UserFilter) ([]models.UserSummary, error) {
	if filter.Role != "" && !filter.Role.Valid() {
		return nil, apperr.Validation("Invalid role specified.", map[string]string{"role": "role must be one of Admin, Normal, StoreOwner."})
	}
	return s.userRepo.List(ctx, filter)
}

// DashboardStats counts users, stores and ratings. The three counts are
// independent reads and may straddle a concurrent write.
func (s *AdminService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	stores, err := s.storeRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratingRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &models.DashboardStats{TotalUsers: users, TotalStores: stores, TotalRatings: ratings}, nil
}
