package services

import (
	"context"

	"storerating/internal/models"
	"storerating/internal/repositories"
	"storerating/internal/validation"
)

// RatingInput is a rating submission for one store.
type RatingInput struct {
	StoreID uint `json:"storeId" validate:"required"`
	Rating  int  `json:"rating" validate:"min=1,max=5"`
}

// RatingService handles rating submissions.
type RatingService struct {
	ratingRepo repositories.RatingRepository
	storeRepo  repositories.StoreRepository
	validate   *validation.Validator
	events     EventPublisher
}

// NewRatingService creates a new RatingService. events may be nil.
func NewRatingService(ratingRepo repositories.RatingRepository, storeRepo repositories.StoreRepository, events EventPublisher) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		storeRepo:  storeRepo,
		validate:   validation.New(),
		events:     events,
	}
}

// Submit records userID's rating of a store, replacing any earlier rating of
// the same store. Resubmitting is idempotent.
func (s *RatingService) Submit(ctx context.Context, userID uint, in RatingInput) error {
	if err := s.validate.Struct(in); err != nil {
		return err
	}
	// Fails fast with a clear not-found; the foreign key still guards a store
	// deleted between this read and the upsert.
	if _, err := s.storeRepo.GetByID(ctx, in.StoreID); err != nil {
		return err
	}

	rating := &models.Rating{UserID: userID, StoreID: in.StoreID, Rating: in.Rating}
	if err := s.ratingRepo.Upsert(ctx, rating); err != nil {
		return err
	}

	publishEvent(s.events, EventRatingSubmitted, ratingSubmittedEvent{UserID: userID, StoreID: in.StoreID, Rating: in.Rating})
	return nil
}
