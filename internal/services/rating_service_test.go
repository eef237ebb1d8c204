package services_test

import (
	"encoding/json"
	"testing"

	"storerating/internal/apperr"
	"storerating/internal/models"
	"storerating/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRatingService_Submit(t *testing.T) {
	ratings := new(MockRatingRepository)
	stores := new(MockStoreRepository)
	events := &recordingPublisher{}
	service := services.NewRatingService(ratings, stores, events)

	stores.On("GetByID", ctx, uint(8)).Return(&models.Store{ID: 8}, nil).Twice()
	ratings.On("Upsert", ctx, &models.Rating{UserID: 3, StoreID: 8, Rating: 4}).Return(nil).Once()
	ratings.On("Upsert", ctx, &models.Rating{UserID: 3, StoreID: 8, Rating: 2}).Return(nil).Once()

	require.NoError(t, service.Submit(ctx, 3, services.RatingInput{StoreID: 8, Rating: 4}))
	require.NoError(t, service.Submit(ctx, 3, services.RatingInput{StoreID: 8, Rating: 2}))

	require.Len(t, events.events, 2)
	assert.Equal(t, services.EventRatingSubmitted, events.events[1].key)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(events.events[1].body, &payload))
	assert.Equal(t, map[string]any{"userId": 3.0, "storeId": 8.0, "rating": 2.0}, payload)

	ratings.AssertExpectations(t)
	stores.AssertExpectations(t)
}

func TestRatingService_SubmitOutOfRange(t *testing.T) {
	ratings := new(MockRatingRepository)
	service := services.NewRatingService(ratings, new(MockStoreRepository), nil)

	for _, value := range []int{0, 6, -1} {
		err := service.Submit(ctx, 3, services.RatingInput{StoreID: 8, Rating: value})
		assert.True(t, apperr.Is(err, apperr.KindValidation), "rating %d", value)
	}
	err := service.Submit(ctx, 3, services.RatingInput{Rating: 3})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	ratings.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestRatingService_SubmitUnknownStore(t *testing.T) {
	ratings := new(MockRatingRepository)
	stores := new(MockStoreRepository)
	service := services.NewRatingService(ratings, stores, nil)

	stores.On("GetByID", ctx, uint(404)).Return(nil, apperr.NotFound("Store not found.")).Once()

	err := service.Submit(ctx, 3, services.RatingInput{StoreID: 404, Rating: 3})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	ratings.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
