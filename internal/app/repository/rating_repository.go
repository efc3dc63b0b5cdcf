package repository

import (
	"math"

	"github.com/ikkim/ratehub-backend/internal/app/model"
	"github.com/ikkim/ratehub-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingStats are the derived per-store rating fields. They are computed on
// every read; no cached counter exists on the store row.
type RatingStats struct {
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int64   `json:"total_ratings"`
}

// RatingDistribution is a five-bucket histogram; every bucket is always
// present even when its count is zero.
type RatingDistribution map[int]int64

type RatingRepository interface {
	Upsert(rating *model.Rating) error
	FindByID(id uint) (*model.Rating, error)
	FindByUserAndStore(userID, storeID uint) (*model.Rating, error)
	FindByUserAndStores(userID uint, storeIDs []uint) (map[uint]model.Rating, error)
	ListByStore(storeID uint, params ListParams) ([]model.Rating, int64, error)
	ListRatersByStore(storeID uint, params ListParams) ([]model.Rating, int64, error)
	ListByUser(userID uint, params ListParams) ([]model.Rating, int64, error)
	RecentByStore(storeID uint, limit int) ([]model.Rating, error)
	DeleteOwned(ratingID, userID uint) (bool, error)
	StatsByStoreID(storeID uint) (RatingStats, error)
	StatsByStoreIDs(storeIDs []uint) (map[uint]RatingStats, error)
	DistributionByStoreID(storeID uint) (RatingDistribution, error)
	CountByUser(userID uint) (int64, error)
	CountAll() (int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Upsert inserts the rating or, when the (user_id, store_id) unique index
// already holds a row, overwrites rating/review/updated_at in place. The
// write is a single atomic statement, so two concurrent submissions from the
// same user for the same store can never leave two rows behind.
func (r *ratingRepository) Upsert(rating *model.Rating) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "review", "updated_at"}),
	}).Create(rating).Error
	if err != nil {
		logger.Error("Failed to upsert rating", err, map[string]interface{}{
			"user_id":  rating.UserID,
			"store_id": rating.StoreID,
		})
		return err
	}
	return nil
}

func (r *ratingRepository) FindByID(id uint) (*model.Rating, error) {
	var rating model.Rating
	err := r.db.Preload("User").Preload("Store").First(&rating, id).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) FindByUserAndStore(userID, storeID uint) (*model.Rating, error) {
	var rating model.Rating
	err := r.db.Where("user_id = ? AND store_id = ?", userID, storeID).First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// FindByUserAndStores returns the caller's own ratings for a page of stores,
// keyed by store id, in one query.
func (r *ratingRepository) FindByUserAndStores(userID uint, storeIDs []uint) (map[uint]model.Rating, error) {
	result := make(map[uint]model.Rating, len(storeIDs))
	if len(storeIDs) == 0 {
		return result, nil
	}

	var ratings []model.Rating
	err := r.db.Where("user_id = ? AND store_id IN ?", userID, storeIDs).Find(&ratings).Error
	if err != nil {
		return nil, err
	}

	for _, rating := range ratings {
		result[rating.StoreID] = rating
	}
	return result, nil
}

func (r *ratingRepository) ListByStore(storeID uint, params ListParams) ([]model.Rating, int64, error) {
	query := r.db.Model(&model.Rating{}).Where("store_id = ?", storeID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ratings []model.Rating
	err := query.Preload("User").
		Order(params.OrderClause()).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&ratings).Error
	if err != nil {
		return nil, 0, err
	}

	return ratings, total, nil
}

// ListRatersByStore lists a store's ratings joined with the rating user, so
// the result can be sorted by rater name/email as well as by the rating
// fields themselves.
func (r *ratingRepository) ListRatersByStore(storeID uint, params ListParams) ([]model.Rating, int64, error) {
	query := r.db.Model(&model.Rating{}).Where("ratings.store_id = ?", storeID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Qualify the sort column: name/email live on the joined users table.
	sortColumn := "ratings." + params.SortBy
	if params.SortBy == "name" || params.SortBy == "email" {
		sortColumn = "users." + params.SortBy
	}
	direction := "DESC"
	if params.SortOrder == "asc" {
		direction = "ASC"
	}

	var ratings []model.Rating
	err := query.
		Joins("JOIN users ON users.id = ratings.user_id").
		Preload("User").
		Order(sortColumn + " " + direction + ", ratings.id ASC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&ratings).Error
	if err != nil {
		return nil, 0, err
	}

	return ratings, total, nil
}

func (r *ratingRepository) ListByUser(userID uint, params ListParams) ([]model.Rating, int64, error) {
	query := r.db.Model(&model.Rating{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ratings []model.Rating
	err := query.Preload("Store").
		Order(params.OrderClause()).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&ratings).Error
	if err != nil {
		return nil, 0, err
	}

	return ratings, total, nil
}

func (r *ratingRepository) RecentByStore(storeID uint, limit int) ([]model.Rating, error) {
	var ratings []model.Rating
	err := r.db.Where("store_id = ?", storeID).
		Preload("User").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// DeleteOwned hard-deletes a rating only when it belongs to userID. Ownership
// is part of the DELETE predicate itself, so a guessed foreign id deletes
// nothing and is indistinguishable from a missing one.
func (r *ratingRepository) DeleteOwned(ratingID, userID uint) (bool, error) {
	result := r.db.Where("id = ? AND user_id = ?", ratingID, userID).Delete(&model.Rating{})
	if result.Error != nil {
		logger.Error("Failed to delete rating", result.Error, map[string]interface{}{
			"rating_id": ratingID,
			"user_id":   userID,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

type storeStatsRow struct {
	StoreID       uint
	AverageRating float64
	TotalRatings  int64
}

func (r *ratingRepository) StatsByStoreID(storeID uint) (RatingStats, error) {
	stats, err := r.StatsByStoreIDs([]uint{storeID})
	if err != nil {
		return RatingStats{}, err
	}
	return stats[storeID], nil
}

// StatsByStoreIDs computes average and count for a set of stores in a single
// grouped query. Stores with no ratings are present in the result with
// average 0 and count 0, so callers never have to special-case them.
func (r *ratingRepository) StatsByStoreIDs(storeIDs []uint) (map[uint]RatingStats, error) {
	result := make(map[uint]RatingStats, len(storeIDs))
	for _, id := range storeIDs {
		result[id] = RatingStats{AverageRating: 0, TotalRatings: 0}
	}
	if len(storeIDs) == 0 {
		return result, nil
	}

	var rows []storeStatsRow
	err := r.db.Model(&model.Rating{}).
		Select("store_id, AVG(rating) AS average_rating, COUNT(*) AS total_ratings").
		Where("store_id IN ?", storeIDs).
		Group("store_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.StoreID] = RatingStats{
			AverageRating: RoundRating(row.AverageRating),
			TotalRatings:  row.TotalRatings,
		}
	}
	return result, nil
}

type distributionRow struct {
	Rating int
	Count  int64
}

func (r *ratingRepository) DistributionByStoreID(storeID uint) (RatingDistribution, error) {
	distribution := RatingDistribution{}
	for bucket := model.RatingMin; bucket <= model.RatingMax; bucket++ {
		distribution[bucket] = 0
	}

	var rows []distributionRow
	err := r.db.Model(&model.Rating{}).
		Select("rating, COUNT(*) AS count").
		Where("store_id = ?", storeID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		distribution[row.Rating] = row.Count
	}
	return distribution, nil
}

func (r *ratingRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Rating{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *ratingRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Rating{}).Count(&count).Error
	return count, err
}

// RoundRating rounds a raw average to one decimal place. math.Round rounds
// half away from zero, matching how the platform has always displayed 4.25
// as 4.3.
func RoundRating(value float64) float64 {
	return math.Round(value*10) / 10
}
