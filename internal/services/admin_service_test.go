package services_test

import (
	"errors"
	"testing"

	"storerating/internal/apperr"
	"storerating/internal/models"
	"storerating/internal/repositories"
	"storerating/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	users   *MockUserRepository
	stores  *MockStoreRepository
	ratings *MockRatingRepository
	events  *recordingPublisher
	service *services.AdminService
}

func newAdminFixture() *adminFixture {
	f := &adminFixture{
		users:   new(MockUserRepository),
		stores:  new(MockStoreRepository),
		ratings: new(MockRatingRepository),
		events:  &recordingPublisher{},
	}
	f.service = services.NewAdminService(f.users, f.stores, f.ratings, services.NewCredentials(testJWTSecret), f.events)
	return f
}

func TestAdminService_CreateUser(t *testing.T) {
	f := newAdminFixture()
	f.users.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleAdmin && u.Email == "boss@x.com"
	})).Return(nil).Once()

	user, err := f.service.CreateUser(ctx, services.CreateUserInput{
		Name:     validName,
		Email:    "Boss@x.com",
		Password: validPassword,
		Role:     "Admin",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, []string{services.EventUserCreated}, f.events.keys())
	f.users.AssertExpectations(t)
}

func TestAdminService_CreateStoreOwner(t *testing.T) {
	f := newAdminFixture()
	f.users.On("CreateWithStore", ctx, mock.AnythingOfType("*models.User"), mock.AnythingOfType("*models.Store")).
		Run(func(args mock.Arguments) {
			u := args.Get(1).(*models.User)
			s := args.Get(2).(*models.Store)
			u.ID, s.ID = 4, 8
			s.OwnerID = &u.ID
		}).
		Return(nil).Once()

	user, err := f.service.CreateUser(ctx, services.CreateUserInput{
		Name:     validName,
		Email:    "owner@x.com",
		Password: validPassword,
		Role:     "StoreOwner",
		OwnedStoreInput: services.OwnedStoreInput{
			StoreName:    "Corner Shop",
			StoreEmail:   "Shop@X.com",
			StoreAddress: "1 Main Road",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStoreOwner, user.Role)
	assert.Equal(t, []string{services.EventUserCreated, services.EventStoreCreated}, f.events.keys())

	store := f.users.Calls[0].Arguments.Get(2).(*models.Store)
	assert.Equal(t, "shop@x.com", store.Email)
	f.users.AssertExpectations(t)
}

func TestAdminService_CreateStoreOwnerWithoutStore(t *testing.T) {
	f := newAdminFixture()

	_, err := f.service.CreateUser(ctx, services.CreateUserInput{
		Name:     validName,
		Email:    "owner@x.com",
		Password: validPassword,
		Role:     "StoreOwner",
	})
	require.Error(t, err)

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.Contains(t, appErr.Fields, "storeName")
	assert.Contains(t, appErr.Fields, "storeEmail")
	assert.Contains(t, appErr.Fields, "storeAddress")
	f.users.AssertNotCalled(t, "CreateWithStore", mock.Anything, mock.Anything, mock.Anything)
	f.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, f.events.keys())
}

func TestAdminService_CreateUserRejectsUnknownRole(t *testing.T) {
	f := newAdminFixture()

	_, err := f.service.CreateUser(ctx, services.CreateUserInput{
		Name:     validName,
		Email:    "x@x.com",
		Password: validPassword,
		Role:     "SuperUser",
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestAdminService_CreateUserEventFailureIgnored(t *testing.T) {
	f := newAdminFixture()
	f.events.err = errors.New("broker down")
	f.users.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

	_, err := f.service.CreateUser(ctx, services.CreateUserInput{
		Name:     validName,
		Email:    "n@x.com",
		Password: validPassword,
		Role:     "Normal",
	})
	assert.NoError(t, err)
}

func TestAdminService_ListUsers(t *testing.T) {
	f := newAdminFixture()
	filter := repositories.UserFilter{Role: models.RoleNormal, SortBy: "email"}
	expected := []models.UserSummary{{ID: 1, Name: validName, Email: "a@x.com", Role: models.RoleNormal}}
	f.users.On("List", ctx, filter).Return(expected, nil).Once()

	users, err := f.service.ListUsers(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, expected, users)

	_, err = f.service.ListUsers(ctx, repositories.UserFilter{Role: "Nobody"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	f.users.AssertExpectations(t)
}

func TestAdminService_DeleteUser(t *testing.T) {
	f := newAdminFixture()
	f.users.On("Delete", ctx, uint(2)).Return(nil).Once()
	f.users.On("Delete", ctx, uint(99)).Return(apperr.NotFound("User not found.")).Once()

	assert.NoError(t, f.service.DeleteUser(ctx, 2))
	assert.True(t, apperr.Is(f.service.DeleteUser(ctx, 99), apperr.KindNotFound))
	f.users.AssertExpectations(t)
}

func TestAdminService_DashboardStats(t *testing.T) {
	f := newAdminFixture()
	f.users.On("Count", ctx).Return(int64(5), nil).Once()
	f.stores.On("Count", ctx).Return(int64(3), nil).Once()
	f.ratings.On("Count", ctx).Return(int64(0), nil).Once()

	stats, err := f.service.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &models.DashboardStats{TotalUsers: 5, TotalStores: 3, TotalRatings: 0}, stats)

	f.users.On("Count", ctx).Return(int64(0), errors.New("db gone")).Once()
	_, err = f.service.DashboardStats(ctx)
	assert.Error(t, err)
}
