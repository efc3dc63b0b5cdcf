package service

import (
	"errors"

	"github.com/ikkim/ratehub-backend/internal/app/model"
	"github.com/ikkim/ratehub-backend/internal/app/repository"
	"github.com/ikkim/ratehub-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrStoreNotFound  = errors.New("store not found")
	ErrRatingNotFound = errors.New("rating not found")
	ErrInvalidRating  = errors.New("rating must be an integer between 1 and 5")
	ErrReviewTooLong  = errors.New("review must be at most 500 characters")
)

type RatingService interface {
	SubmitRating(userID, storeID uint, value int, review *string) (*model.Rating, bool, error)
	ListOwnRatings(userID uint, params repository.ListParams) ([]model.Rating, repository.Pagination, error)
	DeleteOwnRating(userID, ratingID uint) error
	GetProfile(userID uint) (*model.User, int64, []model.Rating, error)
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	storeRepo  repository.StoreRepository
	userRepo   repository.UserRepository
}

func NewRatingService(
	ratingRepo repository.RatingRepository,
	storeRepo repository.StoreRepository,
	userRepo repository.UserRepository,
) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		storeRepo:  storeRepo,
		userRepo:   userRepo,
	}
}

// SubmitRating creates or overwrites the caller's rating for a store. The
// returned bool reports whether a new rating was created (as opposed to an
// existing one being updated). A nil review leaves any existing review text
// untouched; an empty string clears it.
func (s *ratingService) SubmitRating(userID, storeID uint, value int, review *string) (*model.Rating, bool, error) {
	if !model.ValidRatingValue(value) {
		return nil, false, ErrInvalidRating
	}
	if review != nil && len(*review) > model.ReviewMaxLength {
		return nil, false, ErrReviewTooLong
	}

	// Inactive stores do not accept ratings and are not distinguishable
	// from missing ones.
	if _, err := s.storeRepo.FindActiveByID(storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrStoreNotFound
		}
		return nil, false, err
	}

	existing, err := s.ratingRepo.FindByUserAndStore(userID, storeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}
	created := existing == nil

	reviewText := ""
	if existing != nil {
		reviewText = existing.Review
	}
	if review != nil {
		reviewText = *review
	}

	rating := &model.Rating{
		UserID:  userID,
		StoreID: storeID,
		Rating:  value,
		Review:  reviewText,
	}

	// One atomic statement keyed on the (user_id, store_id) unique index.
	// The created flag above is advisory; the index guarantees a concurrent
	// double submit still ends with exactly one row.
	if err := s.ratingRepo.Upsert(rating); err != nil {
		return nil, false, err
	}

	saved, err := s.ratingRepo.FindByUserAndStore(userID, storeID)
	if err != nil {
		return nil, false, err
	}

	logger.Info("Rating submitted", map[string]interface{}{
		"user_id":  userID,
		"store_id": storeID,
		"rating":   value,
		"created":  created,
	})

	return saved, created, nil
}

func (s *ratingService) ListOwnRatings(userID uint, params repository.ListParams) ([]model.Rating, repository.Pagination, error) {
	if err := params.Validate(repository.RatingSortFields); err != nil {
		return nil, repository.Pagination{}, err
	}
	params = params.Normalize()

	ratings, total, err := s.ratingRepo.ListByUser(userID, params)
	if err != nil {
		return nil, repository.Pagination{}, err
	}

	return ratings, repository.NewPagination(params.Page, params.Limit, total), nil
}

// DeleteOwnRating removes the caller's own rating. A rating that does not
// exist and a rating owned by someone else produce the same not-found error.
func (s *ratingService) DeleteOwnRating(userID, ratingID uint) error {
	deleted, err := s.ratingRepo.DeleteOwned(ratingID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		logger.Warn("Rating delete matched nothing", map[string]interface{}{
			"rating_id": ratingID,
			"user_id":   userID,
		})
		return ErrRatingNotFound
	}

	logger.Info("Rating deleted", map[string]interface{}{
		"rating_id": ratingID,
		"user_id":   userID,
	})
	return nil
}

// GetProfile returns the user together with their total rating count and the
// five most recent ratings.
func (s *ratingService) GetProfile(userID uint) (*model.User, int64, []model.Rating, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, nil, ErrUserNotFound
		}
		return nil, 0, nil, err
	}

	total, err := s.ratingRepo.CountByUser(userID)
	if err != nil {
		return nil, 0, nil, err
	}

	recent, _, err := s.ratingRepo.ListByUser(userID, repository.ListParams{
		Page:      1,
		Limit:     5,
		SortBy:    "created_at",
		SortOrder: "desc",
	})
	if err != nil {
		return nil, 0, nil, err
	}

	return user, total, recent, nil
}
