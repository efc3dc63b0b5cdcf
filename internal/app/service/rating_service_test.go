package service

import (
	"testing"

	"github.com/ikkim/ratehub-backend/internal/app/model"
	"github.com/ikkim/ratehub-backend/internal/app/repository"
	"github.com/ikkim/ratehub-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRatingServiceTest(t *testing.T) (*gorm.DB, RatingService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	ratingRepo := repository.NewRatingRepository(testDB)
	storeRepo := repository.NewStoreRepository(testDB)
	userRepo := repository.NewUserRepository(testDB)

	return testDB, NewRatingService(ratingRepo, storeRepo, userRepo)
}

func seedUser(t *testing.T, testDB *gorm.DB, email string, role model.UserRole) *model.User {
	user := &model.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func seedStore(t *testing.T, testDB *gorm.DB, email string, ownerID uint, active bool) *model.Store {
	store := &model.Store{
		Name:     "Test Store",
		Email:    email,
		Address:  "123 Main Street",
		OwnerID:  ownerID,
		IsActive: active,
	}
	require.NoError(t, testDB.Create(store).Error)
	if !active {
		// IsActive carries a `default:true` tag, so GORM omits the zero value
		// from the INSERT and the column comes back true; force it after create.
		require.NoError(t, testDB.Model(store).Update("is_active", false).Error)
	}
	return store
}

func strPtr(s string) *string {
	return &s
}

func TestRatingService_SubmitRating_CreateThenUpdate(t *testing.T) {
	testDB, svc := setupRatingServiceTest(t)
	defer db.CleanupTestDB(testDB)

	owner := seedUser(t, testDB, "owner@example.com", model.RoleStoreOwner)
	jane := seedUser(t, testDB, "jane@example.com", model.RoleUser)
	store := seedStore(t, testDB, "cafe-a@example.com", owner.ID, true)

	// First submission creates
	rating, created, err := svc.SubmitRating(jane.ID, store.ID, 4, strPtr("Nice espresso"))
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 4, rating.Rating)
	assert.Equal(t, "Nice espresso", rating.Review)
	firstID := rating.ID

	// Resubmission with a new value and no review updates the value and
	// leaves the review untouched
	rating, created, err = svc.SubmitRating(jane.ID, store.ID, 5, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, firstID, rating.ID, "same row, updated in place")
	assert.Equal(t, 5, rating.Rating)
	assert.Equal(t, "Nice espresso", rating.Review)

	// An explicit empty review clears it
	rating, created, err = svc.SubmitRating(jane.ID, store.ID, 5, strPtr(""))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "", rating.Review)

	var count int64
	require.NoError(t, testDB.Model(&model.Rating{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRatingService_SubmitRating_Validation(t *testing.T) {
	testDB, svc := setupRatingServiceTest(t)
	defer db.CleanupTestDB(testDB)

	owner := seedUser(t, testDB, "owner@example.com", model.RoleStoreOwner)
	user := seedUser(t, testDB, "user@example.com", model.RoleUser)
	active := seedStore(t, testDB, "active@example.com", owner.ID, true)
	inactive := seedStore(t, testDB, "inactive@example.com", owner.ID, false)

	longReview := make([]byte, model.ReviewMaxLength+1)
	for i := range longReview {
		longReview[i] = 'a'
	}

	tests := []struct {
		name    string
		storeID uint
		value   int
		review  *string
		wantErr error
	}{
		{"Rating below range", active.ID, 0, nil, ErrInvalidRating},
		{"Rating above range", active.ID, 6, nil, ErrInvalidRating},
		{"Review too long", active.ID, 3, strPtr(string(longReview)), ErrReviewTooLong},
		{"Missing store", 99999, 3, nil, ErrStoreNotFound},
		{"Inactive store looks missing", inactive.ID, 3, nil, ErrStoreNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.SubmitRating(user.ID, tt.storeID, tt.value, tt.review)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRatingService_DeleteOwnRating(t *testing.T) {
	testDB, svc := setupRatingServiceTest(t)
	defer db.CleanupTestDB(testDB)

	owner := seedUser(t, testDB, "owner@example.com", model.RoleStoreOwner)
	alice := seedUser(t, testDB, "alice@example.com", model.RoleUser)
	bob := seedUser(t, testDB, "bob@example.com", model.RoleUser)
	store := seedStore(t, testDB, "store@example.com", owner.ID, true)

	rating, _, err := svc.SubmitRating(alice.ID, store.ID, 5, nil)
	require.NoError(t, err)

	// Someone else's rating is a not-found, not a forbidden
	err = svc.DeleteOwnRating(bob.ID, rating.ID)
	assert.ErrorIs(t, err, ErrRatingNotFound)

	err = svc.DeleteOwnRating(alice.ID, rating.ID)
	assert.NoError(t, err)

	err = svc.DeleteOwnRating(alice.ID, rating.ID)
	assert.ErrorIs(t, err, ErrRatingNotFound)
}

func TestRatingService_ListOwnRatings(t *testing.T) {
	testDB, svc := setupRatingServiceTest(t)
	defer db.CleanupTestDB(testDB)

	owner := seedUser(t, testDB, "owner@example.com", model.RoleStoreOwner)
	user := seedUser(t, testDB, "user@example.com", model.RoleUser)

	storeA := seedStore(t, testDB, "a@example.com", owner.ID, true)
	storeB := seedStore(t, testDB, "b@example.com", owner.ID, false)

	_, _, err := svc.SubmitRating(user.ID, storeA.ID, 4, nil)
	require.NoError(t, err)
	require.NoError(t, testDB.Create(&model.Rating{UserID: user.ID, StoreID: storeB.ID, Rating: 2}).Error)

	ratings, pagination, err := svc.ListOwnRatings(user.ID, repository.ListParams{SortBy: "rating", SortOrder: "desc"})
	require.NoError(t, err)

	// Ratings of deactivated stores stay listed
	assert.Equal(t, int64(2), pagination.TotalCount)
	require.Len(t, ratings, 2)
	assert.Equal(t, 4, ratings[0].Rating)
	assert.Equal(t, 2, ratings[1].Rating)

	// Sort field outside the allow-list is rejected
	_, _, err = svc.ListOwnRatings(user.ID, repository.ListParams{SortBy: "review"})
	assert.ErrorIs(t, err, repository.ErrInvalidSortField)
}

func TestRatingService_GetProfile(t *testing.T) {
	testDB, svc := setupRatingServiceTest(t)
	defer db.CleanupTestDB(testDB)

	owner := seedUser(t, testDB, "owner@example.com", model.RoleStoreOwner)
	user := seedUser(t, testDB, "user@example.com", model.RoleUser)
	store := seedStore(t, testDB, "store@example.com", owner.ID, true)

	_, _, err := svc.SubmitRating(user.ID, store.ID, 5, nil)
	require.NoError(t, err)

	profileUser, total, recent, err := svc.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profileUser.ID)
	assert.Equal(t, int64(1), total)
	assert.Len(t, recent, 1)

	_, _, _, err = svc.GetProfile(99999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
