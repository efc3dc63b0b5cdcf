package service

import (
	"errors"

	"github.com/ikkim/ratehub-backend/internal/app/model"
	"github.com/ikkim/ratehub-backend/internal/app/repository"
	"gorm.io/gorm"
)

// StoreWithStats is a store enriched with its derived rating fields and,
// when the caller is known, their own rating for the store.
type StoreWithStats struct {
	model.Store
	AverageRating float64       `json:"average_rating"`
	TotalRatings  int64         `json:"total_ratings"`
	UserRating    *model.Rating `json:"user_rating,omitempty"`
}

// StoreDetail is the single-store view: stats plus the most recent ratings.
type StoreDetail struct {
	StoreWithStats
	RecentRatings []model.Rating `json:"recent_ratings"`
}

type StoreService interface {
	BrowseStores(userID uint, params repository.ListParams) ([]StoreWithStats, repository.Pagination, error)
	GetStoreDetail(userID, storeID uint) (*StoreDetail, error)
}

type storeService struct {
	storeRepo  repository.StoreRepository
	ratingRepo repository.RatingRepository
}

func NewStoreService(storeRepo repository.StoreRepository, ratingRepo repository.RatingRepository) StoreService {
	return &storeService{storeRepo: storeRepo, ratingRepo: ratingRepo}
}

// BrowseStores lists active stores for an authenticated user. Sorting by the
// derived average_rating field routes through the aggregate query path so the
// ordering is global, not per page.
func (s *storeService) BrowseStores(userID uint, params repository.ListParams) ([]StoreWithStats, repository.Pagination, error) {
	if err := params.Validate(repository.StoreSortFields); err != nil {
		return nil, repository.Pagination{}, err
	}
	params = params.Normalize()

	filter := repository.StoreFilter{
		Search:     params.Search,
		OnlyActive: true,
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

	enriched, err := s.enrich(userID, stores)
	if err != nil {
		return nil, repository.Pagination{}, err
	}

	return enriched, repository.NewPagination(params.Page, params.Limit, total), nil
}

func (s *storeService) GetStoreDetail(userID, storeID uint) (*StoreDetail, error) {
	store, err := s.storeRepo.FindActiveByID(storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	stats, err := s.ratingRepo.StatsByStoreID(storeID)
	if err != nil {
		return nil, err
	}

	var userRating *model.Rating
	rating, err := s.ratingRepo.FindByUserAndStore(userID, storeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		userRating = rating
	}

	recent, err := s.ratingRepo.RecentByStore(storeID, 10)
	if err != nil {
		return nil, err
	}

	return &StoreDetail{
		StoreWithStats: StoreWithStats{
			Store:         *store,
			AverageRating: stats.AverageRating,
			TotalRatings:  stats.TotalRatings,
			UserRating:    userRating,
		},
		RecentRatings: recent,
	}, nil
}

// enrich attaches stats and the caller's own ratings to a page of stores
// using one grouped query and one IN query, regardless of page size.
func (s *storeService) enrich(userID uint, stores []model.Store) ([]StoreWithStats, error) {
	storeIDs := make([]uint, len(stores))
	for i, store := range stores {
		storeIDs[i] = store.ID
	}

	stats, err := s.ratingRepo.StatsByStoreIDs(storeIDs)
	if err != nil {
		return nil, err
	}

	userRatings, err := s.ratingRepo.FindByUserAndStores(userID, storeIDs)
	if err != nil {
		return nil, err
	}

	enriched := make([]StoreWithStats, len(stores))
	for i, store := range stores {
		item := StoreWithStats{
			Store:         store,
			AverageRating: stats[store.ID].AverageRating,
			TotalRatings:  stats[store.ID].TotalRatings,
		}
		if rating, ok := userRatings[store.ID]; ok {
			ratingCopy := rating
			item.UserRating = &ratingCopy
		}
		enriched[i] = item
	}
	return enriched, nil
}
