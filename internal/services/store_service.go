package services

import (
	"context"
	"fmt"
	"math"
	"strings"

	"storerating/internal/apperr"
	"storerating/internal/models"
	"storerating/internal/repositories"
	"storerating/internal/validation"
)

// CreateStoreInput is an admin request to add a store.
type CreateStoreInput struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required,max=400"`
	OwnerID *uint  `json:"ownerId"`
}

// StoreService handles business logic related to stores and their ratings.
type StoreService struct {
	storeRepo  repositories.StoreRepository
	userRepo   repositories.UserRepository
	ratingRepo repositories.RatingRepository
	validate   *validation.Validator
	events     EventPublisher
}

// NewStoreService creates a new StoreService. events may be nil.
func NewStoreService(
	storeRepo repositories.StoreRepository,
	userRepo repositories.UserRepository,
	ratingRepo repositories.RatingRepository,
	events EventPublisher,
) *StoreService {
	return &StoreService{
		storeRepo:  storeRepo,
		userRepo:   userRepo,
		ratingRepo: ratingRepo,
		validate:   validation.New(),
		events:     events,
	}
}

// CreateStore adds a store. An owner, when given, must be a StoreOwner user.
func (s *StoreService) CreateStore(ctx context.Context, in CreateStoreInput) (*models.Store, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Address = strings.TrimSpace(in.Address)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	if in.OwnerID != nil {
		owner, err := s.userRepo.GetByID(ctx, *in.OwnerID)
		if err != nil && !apperr.Is(err, apperr.KindNotFound) {
			return nil, err
		}
		// Roles never change after creation, so this check cannot go stale.
		if owner == nil || owner.Role != models.RoleStoreOwner {
			return nil, apperr.Validation("Store owner must be an existing StoreOwner user.",
				map[string]string{"ownerId": "ownerId must reference a StoreOwner user."})
		}
	}

	store := &models.Store{Name: in.Name, Email: in.Email, Address: in.Address, OwnerID: in.OwnerID}
	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, err
	}
	publishEvent(s.events, EventStoreCreated, storeCreatedEvent{StoreID: store.ID, OwnerID: store.OwnerID})
	return store, nil
}

// DeleteStore removes a store together with its ratings.
func (s *StoreService) DeleteStore(ctx context.Context, id uint) error {
	return s.storeRepo.Delete(ctx, id)
}

// ListStores returns stores with their average rating rounded to two decimals.
func (s *StoreService) ListStores(ctx context.Context, filter repositories.StoreFilter) ([]models.StoreSummary, error) {
	stores, err := s.storeRepo.ListWithRatings(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range stores {
		stores[i].Rating = roundRating(stores[i].Rating)
	}
	return stores, nil
}

// ListStoresForUser returns stores with the overall average and userID's own
// rating side by side.
func (s *StoreService) ListStoresForUser(ctx context.Context, userID uint, filter repositories.StoreFilter) ([]models.UserStoreView, error) {
	filter.Email = ""
	stores, err := s.storeRepo.ListForUser(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	for i := range stores {
		stores[i].OverallRating = roundRating(stores[i].OverallRating)
	}
	return stores, nil
}

// OwnerDashboard resolves ownerID's store and summarizes its ratings.
func (s *StoreService) OwnerDashboard(ctx context.Context, ownerID uint) (*models.OwnerDashboard, error) {
	store, err := s.storeRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	avg, err := s.ratingRepo.AverageForStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	raters, err := s.ratingRepo.RatersForStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	if raters == nil {
		raters = []models.Rater{}
	}
	return &models.OwnerDashboard{
		AverageRating: fmt.Sprintf("%.2f", avg),
		Raters:        raters,
	}, nil
}

func roundRating(v float64) float64 {
	return math.Round(v*100) / 100
}
