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

func setupAdminServiceTest(t *testing.T) (*gorm.DB, AdminService) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	storeRepo := repository.NewStoreRepository(testDB)
	ratingRepo := repository.NewRatingRepository(testDB)

	return testDB, NewAdminService(userRepo, storeRepo, ratingRepo)
}

func TestAdminService_Dashboard(t *testing.T) {
	testDB, svc := setupAdminServiceTest(t)
	defer db.CleanupTestDB(testDB)

	owner := seedUser(t, testDB, "owner@example.com", model.RoleStoreOwner)
	user := seedUser(t, testDB, "user@example.com", model.RoleUser)
	inactiveUser := &model.User{
		Name: "Gone", Email: "gone@example.com", PasswordHash: "x",
		Role: model.RoleUser, IsActive: false,
	}
	require.NoError(t, testDB.Create(inactiveUser).Error)
	// IsActive has a `default:true` tag, so GORM drops the zero value from the
	// INSERT; force the column after create.
	require.NoError(t, testDB.Model(inactiveUser).Update("is_active", false).Error)

	store := seedStore(t, testDB, "store@example.com", owner.ID, true)
	seedStore(t, testDB, "closed@example.com", inactiveUser.ID, false)

	require.NoError(t, testDB.Create(&model.Rating{UserID: user.ID, StoreID: store.ID, Rating: 5}).Error)

	dashboard, err := svc.Dashboard()
	require.NoError(t, err)

	// Active users and stores only; all ratings
	assert.Equal(t, int64(2), dashboard.TotalUsers)
	assert.Equal(t, int64(1), dashboard.TotalStores)
	assert.Equal(t, int64(1), dashboard.TotalRatings)
}

func TestAdminService_ListUsers_EnrichesStoreOwners(t *testing.T) {
	testDB, svc := setupAdminServiceTest(t)
	defer db.CleanupTestDB(testDB)

	owner := seedUser(t, testDB, "owner@example.com", model.RoleStoreOwner)
	user := seedUser(t, testDB, "user@example.com", model.RoleUser)
	store := seedStore(t, testDB, "store@example.com", owner.ID, true)

	require.NoError(t, testDB.Create(&model.Rating{UserID: user.ID, StoreID: store.ID, Rating: 4}).Error)

	users, pagination, err := svc.ListUsers(repository.UserFilter{}, repository.ListParams{SortBy: "email", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), pagination.TotalCount)
	require.Len(t, users, 2)

	// Store owner rows carry their active stores with stats
	ownerRow := users[0]
	require.Equal(t, owner.ID, ownerRow.ID)
	require.Len(t, ownerRow.Stores, 1)
	assert.Equal(t, store.ID, ownerRow.Stores[0].ID)
	assert.Equal(t, 4.0, ownerRow.Stores[0].AverageRating)
	assert.Equal(t, int64(1), ownerRow.Stores[0].TotalRatings)

	// Regular user rows carry none
	assert.Empty(t, users[1].Stores)
}

func TestAdminService_ListUsers_InvalidRole(t *testing.T) {
	testDB, svc := setupAdminServiceTest(t)
	defer db.CleanupTestDB(testDB)

	_, _, err := svc.ListUsers(repository.UserFilter{Role: "superuser"}, repository.ListParams{})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestAdminService_CreateUser(t *testing.T) {
	testDB, svc := setupAdminServiceTest(t)
	defer db.CleanupTestDB(testDB)

	user, err := svc.CreateUser(CreateUserInput{
		Name:     "New Admin",
		Email:    "Admin@Example.com",
		Password: "Secret#123",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email, "email is stored lowercase")
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.True(t, user.IsActive)

	// Same email again, different casing
	_, err = svc.CreateUser(CreateUserInput{
		Name:     "Dup",
		Email:    "ADMIN@example.com",
		Password: "Secret#123",
	})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	_, err = svc.CreateUser(CreateUserInput{
		Name:     "Bad Role",
		Email:    "bad@example.com",
		Password: "Secret#123",
		Role:     "superuser",
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestAdminService_SetUserActive(t *testing.T) {
	testDB, svc := setupAdminServiceTest(t)
	defer db.CleanupTestDB(testDB)

	user := seedUser(t, testDB, "user@example.com", model.RoleUser)
	rater := seedUser(t, testDB, "rater@example.com", model.RoleUser)
	owner := seedUser(t, testDB, "owner@example.com", model.RoleStoreOwner)
	store := seedStore(t, testDB, "store@example.com", owner.ID, true)
	require.NoError(t, testDB.Create(&model.Rating{UserID: user.ID, StoreID: store.ID, Rating: 3}).Error)
	require.NoError(t, testDB.Create(&model.Rating{UserID: rater.ID, StoreID: store.ID, Rating: 5}).Error)

	updated, err := svc.SetUserActive(user.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	// Deactivation keeps the user's ratings in aggregates
	var count int64
	require.NoError(t, testDB.Model(&model.Rating{}).Where("store_id = ?", store.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	_, err = svc.SetUserActive(99999, false)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAdminService_CreateStore(t *testing.T) {
	testDB, svc := setupAdminServiceTest(t)
	defer db.CleanupTestDB(testDB)

	owner := seedUser(t, testDB, "owner@example.com", model.RoleStoreOwner)
	regular := seedUser(t, testDB, "regular@example.com", model.RoleUser)

	store, err := svc.CreateStore(CreateStoreInput{
		Name:    "Cafe Aurora",
		Email:   "Aurora@Example.com",
		Address: "12 River Road",
		OwnerID: owner.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "aurora@example.com", store.Email)
	assert.Equal(t, owner.ID, store.OwnerID)

	// Owner already holds an active store
	_, err = svc.CreateStore(CreateStoreInput{
		Name: "Second", Email: "second@example.com", Address: "x", OwnerID: owner.ID,
	})
	assert.ErrorIs(t, err, ErrOwnerHasActiveStore)

	// A regular user cannot own a store
	_, err = svc.CreateStore(CreateStoreInput{
		Name: "Nope", Email: "nope@example.com", Address: "x", OwnerID: regular.ID,
	})
	assert.ErrorIs(t, err, ErrStoreOwnerNotFound)

	// Duplicate store email
	free := seedUser(t, testDB, "free@example.com", model.RoleStoreOwner)
	_, err = svc.CreateStore(CreateStoreInput{
		Name: "Dup", Email: "aurora@example.com", Address: "x", OwnerID: free.ID,
	})
	assert.ErrorIs(t, err, ErrStoreEmailExists)
}

func TestAdminService_CreateStore_ByOwnerName(t *testing.T) {
	testDB, svc := setupAdminServiceTest(t)
	defer db.CleanupTestDB(testDB)

	owner := &model.User{
		Name: "Maria Park", Email: "maria@example.com", PasswordHash: "x",
		Role: model.RoleStoreOwner, IsActive: true,
	}
	require.NoError(t, testDB.Create(owner).Error)

	store, err := svc.CreateStore(CreateStoreInput{
		Name:      "Maria's Place",
		Email:     "place@example.com",
		Address:   "1 Center Square",
		OwnerName: "maria",
	})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, store.OwnerID)

	_, err = svc.CreateStore(CreateStoreInput{
		Name: "Ghost", Email: "ghost@example.com", Address: "x", OwnerName: "nobody",
	})
	assert.ErrorIs(t, err, ErrStoreOwnerNotFound)
}

func TestAdminService_SetStoreActive_ReactivationPolicy(t *testing.T) {
	testDB, svc := setupAdminServiceTest(t)
	defer db.CleanupTestDB(testDB)

	owner := seedUser(t, testDB, "owner@example.com", model.RoleStoreOwner)
	first := seedStore(t, testDB, "first@example.com", owner.ID, true)
	second := seedStore(t, testDB, "second@example.com", owner.ID, false)

	// Reactivating the second store would give the owner two active stores
	_, err := svc.SetStoreActive(second.ID, false)
	require.NoError(t, err)
	_, err = svc.SetStoreActive(second.ID, true)
	assert.ErrorIs(t, err, ErrOwnerHasActiveStore)

	// After deactivating the first, reactivation is allowed
	_, err = svc.SetStoreActive(first.ID, false)
	require.NoError(t, err)

	updated, err := svc.SetStoreActive(second.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
}

func TestAdminService_UpdateStore(t *testing.T) {
	testDB, svc := setupAdminServiceTest(t)
	defer db.CleanupTestDB(testDB)

	owner := seedUser(t, testDB, "owner@example.com", model.RoleStoreOwner)
	next := seedUser(t, testDB, "next@example.com", model.RoleStoreOwner)
	busy := seedUser(t, testDB, "busy@example.com", model.RoleStoreOwner)

	store := seedStore(t, testDB, "store@example.com", owner.ID, true)
	seedStore(t, testDB, "busy-store@example.com", busy.ID, true)

	name := "Renamed"
	updated, err := svc.UpdateStore(store.ID, UpdateStoreInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	// Reassignment to an owner with a free slot
	updated, err = svc.UpdateStore(store.ID, UpdateStoreInput{OwnerID: &next.ID})
	require.NoError(t, err)
	assert.Equal(t, next.ID, updated.OwnerID)

	// Reassignment to an owner who already has an active store
	_, err = svc.UpdateStore(store.ID, UpdateStoreInput{OwnerID: &busy.ID})
	assert.ErrorIs(t, err, ErrOwnerHasActiveStore)

	_, err = svc.UpdateStore(99999, UpdateStoreInput{Name: &name})
	assert.ErrorIs(t, err, ErrStoreNotFound)
}
