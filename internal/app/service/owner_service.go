package service

import (
	"errors"

	"github.com/ikkim/ratehub-backend/internal/app/model"
	"github.com/ikkim/ratehub-backend/internal/app/repository"
	"github.com/ikkim/ratehub-backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrNoOwnedStore means the authenticated store owner has no active store.
// Every owner endpoint starts by resolving the owned store, so an ownerless
// owner account is denied uniformly before any data is touched.
var ErrNoOwnedStore = errors.New("no active store is registered for this account")

// OwnerDashboard is the landing view for a store owner.
type OwnerDashboard struct {
	Store         model.Store    `json:"store"`
	AverageRating float64        `json:"average_rating"`
	TotalRatings  int64          `json:"total_ratings"`
	RecentRatings []model.Rating `json:"recent_ratings"`
}

// OwnerStatistics breaks the owned store's ratings down by bucket.
type OwnerStatistics struct {
	AverageRating float64                       `json:"average_rating"`
	TotalRatings  int64                         `json:"total_ratings"`
	Distribution  repository.RatingDistribution `json:"distribution"`
	RecentRatings []model.Rating                `json:"recent_ratings"`
}

type OwnerService interface {
	ResolveOwnedStore(ownerID uint) (*model.Store, error)
	Dashboard(ownerID uint) (*OwnerDashboard, error)
	ListRatings(ownerID uint, params repository.ListParams) ([]model.Rating, repository.Pagination, error)
	ListRaters(ownerID uint, params repository.ListParams) ([]model.Rating, repository.Pagination, error)
	Statistics(ownerID uint) (*OwnerStatistics, error)
	StoreInfo(ownerID uint) (*StoreWithStats, error)
}

type ownerService struct {
	storeRepo  repository.StoreRepository
	ratingRepo repository.RatingRepository
}

func NewOwnerService(storeRepo repository.StoreRepository, ratingRepo repository.RatingRepository) OwnerService {
	return &ownerService{storeRepo: storeRepo, ratingRepo: ratingRepo}
}

// ResolveOwnedStore maps the authenticated owner to their single active
// store. All owner endpoints scope their queries by the resolved store id,
// never by a store id taken from the request.
func (s *ownerService) ResolveOwnedStore(ownerID uint) (*model.Store, error) {
	store, err := s.storeRepo.FindActiveByOwner(ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Store owner has no active store", map[string]interface{}{
				"owner_id": ownerID,
			})
			return nil, ErrNoOwnedStore
		}
		return nil, err
	}
	return store, nil
}

func (s *ownerService) Dashboard(ownerID uint) (*OwnerDashboard, error) {
	store, err := s.ResolveOwnedStore(ownerID)
	if err != nil {
		return nil, err
	}

	stats, err := s.ratingRepo.StatsByStoreID(store.ID)
	if err != nil {
		return nil, err
	}

	recent, err := s.ratingRepo.RecentByStore(store.ID, 5)
	if err != nil {
		return nil, err
	}

	return &OwnerDashboard{
		Store:         *store,
		AverageRating: stats.AverageRating,
		TotalRatings:  stats.TotalRatings,
		RecentRatings: recent,
	}, nil
}

func (s *ownerService) ListRatings(ownerID uint, params repository.ListParams) ([]model.Rating, repository.Pagination, error) {
	store, err := s.ResolveOwnedStore(ownerID)
	if err != nil {
		return nil, repository.Pagination{}, err
	}

	if err := params.Validate(repository.RatingSortFields); err != nil {
		return nil, repository.Pagination{}, err
	}
	params = params.Normalize()

	ratings, total, err := s.ratingRepo.ListByStore(store.ID, params)
	if err != nil {
		return nil, repository.Pagination{}, err
	}

	return ratings, repository.NewPagination(params.Page, params.Limit, total), nil
}

// ListRaters lists the users who rated the owned store, sortable by rater
// name/email as well as rating fields.
func (s *ownerService) ListRaters(ownerID uint, params repository.ListParams) ([]model.Rating, repository.Pagination, error) {
	store, err := s.ResolveOwnedStore(ownerID)
	if err != nil {
		return nil, repository.Pagination{}, err
	}

	if err := params.Validate(repository.RaterSortFields); err != nil {
		return nil, repository.Pagination{}, err
	}
	params = params.Normalize()

	ratings, total, err := s.ratingRepo.ListRatersByStore(store.ID, params)
	if err != nil {
		return nil, repository.Pagination{}, err
	}

	return ratings, repository.NewPagination(params.Page, params.Limit, total), nil
}

func (s *ownerService) Statistics(ownerID uint) (*OwnerStatistics, error) {
	store, err := s.ResolveOwnedStore(ownerID)
	if err != nil {
		return nil, err
	}

	stats, err := s.ratingRepo.StatsByStoreID(store.ID)
	if err != nil {
		return nil, err
	}

	distribution, err := s.ratingRepo.DistributionByStoreID(store.ID)
	if err != nil {
		return nil, err
	}

	recent, err := s.ratingRepo.RecentByStore(store.ID, 10)
	if err != nil {
		return nil, err
	}

	return &OwnerStatistics{
		AverageRating: stats.AverageRating,
		TotalRatings:  stats.TotalRatings,
		Distribution:  distribution,
		RecentRatings: recent,
	}, nil
}

func (s *ownerService) StoreInfo(ownerID uint) (*StoreWithStats, error) {
	store, err := s.ResolveOwnedStore(ownerID)
	if err != nil {
		return nil, err
	}

	stats, err := s.ratingRepo.StatsByStoreID(store.ID)
	if err != nil {
		return nil, err
	}

	return &StoreWithStats{
		Store:         *store,
		AverageRating: stats.AverageRating,
		TotalRatings:  stats.TotalRatings,
	}, nil
}
