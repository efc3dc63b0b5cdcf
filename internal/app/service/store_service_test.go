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

func setupStoreServiceTest(t *testing.T) (*gorm.DB, StoreService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	storeRepo := repository.NewStoreRepository(testDB)
	ratingRepo := repository.NewRatingRepository(testDB)

	return testDB, NewStoreService(storeRepo, ratingRepo)
}

func TestStoreService_BrowseStores(t *testing.T) {
	testDB, svc := setupStoreServiceTest(t)
	defer db.CleanupTestDB(testDB)

	owner := seedUser(t, testDB, "owner@example.com", model.RoleStoreOwner)
	jane := seedUser(t, testDB, "jane@example.com", model.RoleUser)
	other := seedUser(t, testDB, "other@example.com", model.RoleUser)

	cafeA := seedStore(t, testDB, "cafe-a@example.com", owner.ID, true)
	cafeB := seedStore(t, testDB, "cafe-b@example.com", owner.ID, true)
	seedStore(t, testDB, "closed@example.com", owner.ID, false)

	// Jane rated Cafe A; someone else rated Cafe B
	require.NoError(t, testDB.Create(&model.Rating{UserID: jane.ID, StoreID: cafeA.ID, Rating: 4}).Error)
	require.NoError(t, testDB.Create(&model.Rating{UserID: other.ID, StoreID: cafeA.ID, Rating: 5}).Error)
	require.NoError(t, testDB.Create(&model.Rating{UserID: other.ID, StoreID: cafeB.ID, Rating: 3}).Error)

	stores, pagination, err := svc.BrowseStores(jane.ID, repository.ListParams{SortBy: "email", SortOrder: "asc"})
	require.NoError(t, err)

	// Inactive stores are not browsable
	assert.Equal(t, int64(2), pagination.TotalCount)
	require.Len(t, stores, 2)

	// Cafe A: stats over all raters, plus Jane's own rating
	assert.Equal(t, cafeA.ID, stores[0].ID)
	assert.Equal(t, 4.5, stores[0].AverageRating)
	assert.Equal(t, int64(2), stores[0].TotalRatings)
	require.NotNil(t, stores[0].UserRating)
	assert.Equal(t, 4, stores[0].UserRating.Rating)

	// Cafe B: Jane has not rated it
	assert.Equal(t, cafeB.ID, stores[1].ID)
	assert.Equal(t, 3.0, stores[1].AverageRating)
	assert.Nil(t, stores[1].UserRating)
}

func TestStoreService_BrowseStores_SortByAverageRating(t *testing.T) {
	testDB, svc := setupStoreServiceTest(t)
	defer db.CleanupTestDB(testDB)

	owner := seedUser(t, testDB, "owner@example.com", model.RoleStoreOwner)
	user := seedUser(t, testDB, "user@example.com", model.RoleUser)

	low := seedStore(t, testDB, "low@example.com", owner.ID, true)
	high := seedStore(t, testDB, "high@example.com", owner.ID, true)

	require.NoError(t, testDB.Create(&model.Rating{UserID: user.ID, StoreID: low.ID, Rating: 2}).Error)
	require.NoError(t, testDB.Create(&model.Rating{UserID: owner.ID, StoreID: high.ID, Rating: 5}).Error)

	stores, _, err := svc.BrowseStores(user.ID, repository.ListParams{
		SortBy: repository.SortByAverageRating, SortOrder: "desc",
	})
	require.NoError(t, err)

	require.Len(t, stores, 2)
	assert.Equal(t, high.ID, stores[0].ID)
	assert.Equal(t, low.ID, stores[1].ID)
}

func TestStoreService_BrowseStores_RejectsUnknownSort(t *testing.T) {
	testDB, svc := setupStoreServiceTest(t)
	defer db.CleanupTestDB(testDB)

	user := seedUser(t, testDB, "user@example.com", model.RoleUser)

	_, _, err := svc.BrowseStores(user.ID, repository.ListParams{SortBy: "owner_id"})
	assert.ErrorIs(t, err, repository.ErrInvalidSortField)
}

func TestStoreService_GetStoreDetail(t *testing.T) {
	testDB, svc := setupStoreServiceTest(t)
	defer db.CleanupTestDB(testDB)

	owner := seedUser(t, testDB, "owner@example.com", model.RoleStoreOwner)
	jane := seedUser(t, testDB, "jane@example.com", model.RoleUser)
	store := seedStore(t, testDB, "store@example.com", owner.ID, true)
	inactive := seedStore(t, testDB, "inactive@example.com", owner.ID, false)

	require.NoError(t, testDB.Create(&model.Rating{UserID: jane.ID, StoreID: store.ID, Rating: 4, Review: "Solid"}).Error)

	detail, err := svc.GetStoreDetail(jane.ID, store.ID)
	require.NoError(t, err)

	assert.Equal(t, store.ID, detail.ID)
	assert.Equal(t, 4.0, detail.AverageRating)
	assert.Equal(t, int64(1), detail.TotalRatings)
	require.NotNil(t, detail.UserRating)
	assert.Equal(t, 4, detail.UserRating.Rating)
	assert.Len(t, detail.RecentRatings, 1)

	// Inactive is indistinguishable from missing
	_, err = svc.GetStoreDetail(jane.ID, inactive.ID)
	assert.ErrorIs(t, err, ErrStoreNotFound)

	_, err = svc.GetStoreDetail(jane.ID, 99999)
	assert.ErrorIs(t, err, ErrStoreNotFound)
}
