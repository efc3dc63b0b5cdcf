package repository

import (
	"github.com/ikkim/ratehub-backend/internal/app/model"
	"github.com/ikkim/ratehub-backend/pkg/logger"
	"gorm.io/gorm"
)

// StoreFilter narrows a store listing before paging is applied.
type StoreFilter struct {
	Search       string // case-insensitive substring match
	SearchEmail  bool   // admin context also matches the email field
	OnlyActive   bool
	PreloadOwner bool
}

type StoreRepository interface {
	Create(store *model.Store) error
	Update(store *model.Store) error
	FindByID(id uint) (*model.Store, error)
	FindActiveByID(id uint) (*model.Store, error)
	FindActiveByOwner(ownerID uint) (*model.Store, error)
	FindByEmail(email string) (*model.Store, error)
	FindActiveByOwnerIDs(ownerIDs []uint) (map[uint][]model.Store, error)
	List(filter StoreFilter, params ListParams) ([]model.Store, int64, error)
	ListByAverageRating(filter StoreFilter, params ListParams) ([]model.Store, int64, error)
	CountActive() (int64, error)
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"name":     store.Name,
		"email":    store.Email,
		"owner_id": store.OwnerID,
	})

	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"name":  store.Name,
			"email": store.Email,
		})
		return err
	}
	return nil
}

func (r *storeRepository) Update(store *model.Store) error {
	if err := r.db.Save(store).Error; err != nil {
		logger.Error("Failed to update store in database", err, map[string]interface{}{
			"store_id": store.ID,
		})
		return err
	}
	return nil
}

func (r *storeRepository) FindByID(id uint) (*model.Store, error) {
	var store model.Store
	err := r.db.Preload("Owner").First(&store, id).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// FindActiveByID treats an inactive store exactly like a missing one, so a
// caller cannot probe whether a deactivated store exists.
func (r *storeRepository) FindActiveByID(id uint) (*model.Store, error) {
	var store model.Store
	err := r.db.Preload("Owner").Where("is_active = ?", true).First(&store, id).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// FindActiveByOwner resolves the single active store for a store-owner
// principal. Backed by the (owner_id, is_active) index; the one-active-store
// policy keeps the answer unambiguous.
func (r *storeRepository) FindActiveByOwner(ownerID uint) (*model.Store, error) {
	var store model.Store
	err := r.db.Where("owner_id = ? AND is_active = ?", ownerID, true).First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) FindByEmail(email string) (*model.Store, error) {
	var store model.Store
	err := r.db.Where("email = ?", email).First(&store).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// FindActiveByOwnerIDs loads the active stores for a set of owners in one
// query, keyed by owner id. Used to enrich admin user listings.
func (r *storeRepository) FindActiveByOwnerIDs(ownerIDs []uint) (map[uint][]model.Store, error) {
	result := make(map[uint][]model.Store, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return result, nil
	}

	var stores []model.Store
	err := r.db.Where("owner_id IN ? AND is_active = ?", ownerIDs, true).Find(&stores).Error
	if err != nil {
		return nil, err
	}

	for _, store := range stores {
		result[store.OwnerID] = append(result[store.OwnerID], store)
	}
	return result, nil
}

func (r *storeRepository) applyFilter(query *gorm.DB, filter StoreFilter) *gorm.DB {
	if filter.OnlyActive {
		query = query.Where("stores.is_active = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		if filter.SearchEmail {
			query = query.Where(
				"LOWER(stores.name) LIKE LOWER(?) OR LOWER(stores.email) LIKE LOWER(?) OR LOWER(stores.address) LIKE LOWER(?)",
				like, like, like,
			)
		} else {
			query = query.Where(
				"LOWER(stores.name) LIKE LOWER(?) OR LOWER(stores.address) LIKE LOWER(?)",
				like, like,
			)
		}
	}
	return query
}

// List is the plain path: filter, sort on a stored column, then page.
// Sorting by the derived average_rating field must go through
// ListByAverageRating instead.
func (r *storeRepository) List(filter StoreFilter, params ListParams) ([]model.Store, int64, error) {
	query := r.applyFilter(r.db.Model(&model.Store{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PreloadOwner {
		query = query.Preload("Owner")
	}

	var stores []model.Store
	err := query.
		Order(params.OrderClause()).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&stores).Error
	if err != nil {
		return nil, 0, err
	}

	return stores, total, nil
}

// ListByAverageRating is the aggregate path for the derived sort field. The
// per-store average is materialized with a grouped join over all matching
// stores, the full set is ordered by that value, and only then is the page
// sliced off. Paging on a stored column and averaging per page would order
// each page locally and break the global ordering.
func (r *storeRepository) ListByAverageRating(filter StoreFilter, params ListParams) ([]model.Store, int64, error) {
	base := r.applyFilter(r.db.Model(&model.Store{}), filter)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	statsQuery := r.db.Model(&model.Rating{}).
		Select("store_id, AVG(rating) AS avg_rating").
		Group("store_id")

	direction := "DESC"
	if params.SortOrder == "asc" {
		direction = "ASC"
	}

	query := r.applyFilter(r.db.Model(&model.Store{}), filter).
		Select("stores.*").
		Joins("LEFT JOIN (?) AS rating_stats ON rating_stats.store_id = stores.id", statsQuery).
		Order("COALESCE(rating_stats.avg_rating, 0) " + direction + ", stores.id ASC").
		Offset(params.Offset()).
		Limit(params.Limit)

	if filter.PreloadOwner {
		query = query.Preload("Owner")
	}

	var stores []model.Store
	if err := query.Find(&stores).Error; err != nil {
		return nil, 0, err
	}

	return stores, total, nil
}

func (r *storeRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.Store{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
