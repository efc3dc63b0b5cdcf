package service

import (
	"errors"
	"strings"

	"github.com/ikkim/ratehub-backend/internal/app/model"
	"github.com/ikkim/ratehub-backend/internal/app/repository"
	"github.com/ikkim/ratehub-backend/pkg/logger"
	"github.com/ikkim/ratehub-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrInvalidRole         = errors.New("invalid role")
	ErrStoreOwnerNotFound  = errors.New("store owner not found")
	ErrOwnerHasActiveStore = errors.New("owner already has an active store")
	ErrStoreEmailExists    = errors.New("store email already exists")
)

// AdminDashboard carries the platform-wide counters shown on the admin
// landing page. User and store counts are active-only; ratings are total.
type AdminDashboard struct {
	TotalUsers   int64 `json:"total_users"`
	TotalStores  int64 `json:"total_stores"`
	TotalRatings int64 `json:"total_ratings"`
}

// AdminUser is a user row in the admin listing. Store owners carry their
// active stores enriched with rating stats.
type AdminUser struct {
	model.User
	Stores []StoreWithStats `json:"stores,omitempty"`
}

type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Address  string
	Role     model.UserRole
}

type UpdateUserInput struct {
	Name     *string
	Email    *string
	Address  *string
	Role     *model.UserRole
	IsActive *bool
}

type CreateStoreInput struct {
	Name      string
	Email     string
	Address   string
	OwnerID   uint   // resolved directly when set
	OwnerName string // fallback: case-insensitive match on active store owners
}

type UpdateStoreInput struct {
	Name     *string
	Email    *string
	Address  *string
	OwnerID  *uint
	IsActive *bool
}

type AdminService interface {
	Dashboard() (*AdminDashboard, error)
	ListUsers(filter repository.UserFilter, params repository.ListParams) ([]AdminUser, repository.Pagination, error)
	GetUser(id uint) (*AdminUser, error)
	CreateUser(input CreateUserInput) (*model.User, error)
	UpdateUser(id uint, input UpdateUserInput) (*model.User, error)
	SetUserActive(id uint, active bool) (*model.User, error)
	ListStores(params repository.ListParams) ([]StoreWithStats, repository.Pagination, error)
	CreateStore(input CreateStoreInput) (*model.Store, error)
	UpdateStore(id uint, input UpdateStoreInput) (*model.Store, error)
	SetStoreActive(id uint, active bool) (*model.Store, error)
}

type adminService struct {
	userRepo   repository.UserRepository
	storeRepo  repository.StoreRepository
	ratingRepo repository.RatingRepository
}

func NewAdminService(
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	ratingRepo repository.RatingRepository,
) AdminService {
	return &adminService{
		userRepo:   userRepo,
		storeRepo:  storeRepo,
		ratingRepo: ratingRepo,
	}
}

func (s *adminService) Dashboard() (*AdminDashboard, error) {
	users, err := s.userRepo.CountActive()
	if err != nil {
		return nil, err
	}
	stores, err := s.storeRepo.CountActive()
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratingRepo.CountAll()
	if err != nil {
		return nil, err
	}

	return &AdminDashboard{
		TotalUsers:   users,
		TotalStores:  stores,
		TotalRatings: ratings,
	}, nil
}

func (s *adminService) ListUsers(filter repository.UserFilter, params repository.ListParams) ([]AdminUser, repository.Pagination, error) {
	if filter.Role != "" && !model.ValidRole(filter.Role) {
		return nil, repository.Pagination{}, ErrInvalidRole
	}
	if err := params.Validate(repository.UserSortFields); err != nil {
		return nil, repository.Pagination{}, err
	}
	params = params.Normalize()

	users, total, err := s.userRepo.List(filter, params)
	if err != nil {
		return nil, repository.Pagination{}, err
	}

	enriched, err := s.enrichOwners(users)
	if err != nil {
		return nil, repository.Pagination{}, err
	}

	return enriched, repository.NewPagination(params.Page, params.Limit, total), nil
}

func (s *adminService) GetUser(id uint) (*AdminUser, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	enriched, err := s.enrichOwners([]model.User{*user})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

func (s *adminService) CreateUser(input CreateUserInput) (*model.User, error) {
	if input.Role == "" {
		input.Role = model.RoleUser
	}
	if !model.ValidRole(input.Role) {
		return nil, ErrInvalidRole
	}
	if err := util.ValidatePasswordPolicy(input.Password); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         input.Name,
		Email:        email,
		PasswordHash: hashedPassword,
		Address:      input.Address,
		Role:         input.Role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	logger.Info("Admin created user", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})
	return user, nil
}

func (s *adminService) UpdateUser(id uint, input UpdateUserInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != user.Email {
			existing, err := s.userRepo.FindByEmail(email)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			if existing != nil {
				return nil, ErrEmailAlreadyExists
			}
			user.Email = email
		}
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.Role != nil {
		if !model.ValidRole(*input.Role) {
			return nil, ErrInvalidRole
		}
		user.Role = *input.Role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("Admin updated user", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, nil
}

// SetUserActive toggles the soft-delete flag. Deactivation does not touch the
// user's ratings or stores; it only blocks future logins and hides the
// account from active-only listings.
func (s *adminService) SetUserActive(id uint, active bool) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.IsActive = active
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Info("Admin changed user active state", map[string]interface{}{
		"user_id":   user.ID,
		"is_active": active,
	})
	return user, nil
}

func (s *adminService) ListStores(params repository.ListParams) ([]StoreWithStats, repository.Pagination, error) {
	if err := params.Validate(repository.StoreSortFields); err != nil {
		return nil, repository.Pagination{}, err
	}
	params = params.Normalize()

	filter := repository.StoreFilter{
		Search:       params.Search,
		SearchEmail:  true,
		OnlyActive:   true,
		PreloadOwner: true,
	}

	var (
		stores []model.Store
		total  int64
		err    error
	)
	if params.SortBy == repository.SortByAverageRating {
		stores, total, err = s.storeRepo.ListByAverageRating(filter, params)
	} else {
		stores, total, err = s.storeRepo.List(filter, params)
	}
	if err != nil {
		return nil, repository.Pagination{}, err
	}

	enriched, err := s.enrichStores(stores)
	if err != nil {
		return nil, repository.Pagination{}, err
	}

	return enriched, repository.NewPagination(params.Page, params.Limit, total), nil
}

func (s *adminService) CreateStore(input CreateStoreInput) (*model.Store, error) {
	owner, err := s.resolveOwner(input.OwnerID, input.OwnerName)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if err := s.checkStoreEmail(email, 0); err != nil {
		return nil, err
	}
	if err := s.checkOwnerFree(owner.ID, 0); err != nil {
		return nil, err
	}

	store := &model.Store{
		Name:     input.Name,
		Email:    email,
		Address:  input.Address,
		OwnerID:  owner.ID,
		IsActive: true,
	}
	if err := s.storeRepo.Create(store); err != nil {
		return nil, err
	}
	store.Owner = *owner

	logger.Info("Admin created store", map[string]interface{}{
		"store_id": store.ID,
		"owner_id": owner.ID,
		"email":    email,
	})
	return store, nil
}

func (s *adminService) UpdateStore(id uint, input UpdateStoreInput) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	if input.Name != nil {
		store.Name = *input.Name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != store.Email {
			if err := s.checkStoreEmail(email, store.ID); err != nil {
				return nil, err
			}
			store.Email = email
		}
	}
	if input.Address != nil {
		store.Address = *input.Address
	}
	if input.OwnerID != nil && *input.OwnerID != store.OwnerID {
		owner, err := s.resolveOwner(*input.OwnerID, "")
		if err != nil {
			return nil, err
		}
		store.OwnerID = owner.ID
		store.Owner = *owner
	}

	willBeActive := store.IsActive
	if input.IsActive != nil {
		willBeActive = *input.IsActive
	}
	// Reassigning or reactivating must not give any owner a second active
	// store.
	if willBeActive && (input.OwnerID != nil || (input.IsActive != nil && !store.IsActive)) {
		if err := s.checkOwnerFree(store.OwnerID, store.ID); err != nil {
			return nil, err
		}
	}
	if input.IsActive != nil {
		store.IsActive = *input.IsActive
	}

	if err := s.storeRepo.Update(store); err != nil {
		return nil, err
	}

	logger.Info("Admin updated store", map[string]interface{}{
		"store_id": store.ID,
	})
	return store, nil
}

func (s *adminService) SetStoreActive(id uint, active bool) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	if active && !store.IsActive {
		if err := s.checkOwnerFree(store.OwnerID, store.ID); err != nil {
			return nil, err
		}
	}

	store.IsActive = active
	if err := s.storeRepo.Update(store); err != nil {
		return nil, err
	}

	logger.Info("Admin changed store active state", map[string]interface{}{
		"store_id":  store.ID,
		"is_active": active,
	})
	return store, nil
}

// resolveOwner finds the store-owner principal for store creation, by id when
// given, otherwise by name. The resolved user must hold the store_owner role.
func (s *adminService) resolveOwner(ownerID uint, ownerName string) (*model.User, error) {
	if ownerID != 0 {
		owner, err := s.userRepo.FindByID(ownerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStoreOwnerNotFound
			}
			return nil, err
		}
		if owner.Role != model.RoleStoreOwner {
			return nil, ErrStoreOwnerNotFound
		}
		return owner, nil
	}

	if ownerName != "" {
		owner, err := s.userRepo.FindActiveStoreOwnerByName(ownerName)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrStoreOwnerNotFound
			}
			return nil, err
		}
		return owner, nil
	}

	return nil, ErrStoreOwnerNotFound
}

func (s *adminService) checkStoreEmail(email string, excludeStoreID uint) error {
	existing, err := s.storeRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != excludeStoreID {
		return ErrStoreEmailExists
	}
	return nil
}

// checkOwnerFree enforces the one-active-store-per-owner policy. The partial
// unique index on stores backs this up against races.
func (s *adminService) checkOwnerFree(ownerID, excludeStoreID uint) error {
	existing, err := s.storeRepo.FindActiveByOwner(ownerID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.ID != excludeStoreID {
		return ErrOwnerHasActiveStore
	}
	return nil
}

// enrichOwners attaches active stores with stats to store-owner rows using
// batched queries.
func (s *adminService) enrichOwners(users []model.User) ([]AdminUser, error) {
	var ownerIDs []uint
	for _, user := range users {
		if user.Role == model.RoleStoreOwner {
			ownerIDs = append(ownerIDs, user.ID)
		}
	}

	storesByOwner, err := s.storeRepo.FindActiveByOwnerIDs(ownerIDs)
	if err != nil {
		return nil, err
	}

	var storeIDs []uint
	for _, stores := range storesByOwner {
		for _, store := range stores {
			storeIDs = append(storeIDs, store.ID)
		}
	}
	stats, err := s.ratingRepo.StatsByStoreIDs(storeIDs)
	if err != nil {
		return nil, err
	}

	result := make([]AdminUser, len(users))
	for i, user := range users {
		row := AdminUser{User: user}
		for _, store := range storesByOwner[user.ID] {
			row.Stores = append(row.Stores, StoreWithStats{
				Store:         store,
				AverageRating: stats[store.ID].AverageRating,
				TotalRatings:  stats[store.ID].TotalRatings,
			})
		}
		result[i] = row
	}
	return result, nil
}

func (s *adminService) enrichStores(stores []model.Store) ([]StoreWithStats, error) {
	storeIDs := make([]uint, len(stores))
	for i, store := range stores {
		storeIDs[i] = store.ID
	}

	stats, err := s.ratingRepo.StatsByStoreIDs(storeIDs)
	if err != nil {
		return nil, err
	}

	enriched := make([]StoreWithStats, len(stores))
	for i, store := range stores {
		enriched[i] = StoreWithStats{
			Store:         store,
			AverageRating: stats[store.ID].AverageRating,
			TotalRatings:  stats[store.ID].TotalRatings,
		}
	}
	return enriched, nil
}
