package repository

import (
	"github.com/ikkim/ratehub-backend/internal/app/model"
	"github.com/ikkim/ratehub-backend/pkg/logger"
	"gorm.io/gorm"
)

// UserFilter narrows an admin user listing. Role and the implicit
// active-only filter are mutually exclusive on purpose: filtering by role is
// an administrative view and must surface deactivated accounts of that role
// too, while the unfiltered listing hides them.
type UserFilter struct {
	Role   model.UserRole // empty means no role filter
	Search string         // case-insensitive substring over name/email/address
}

type UserRepository interface {
	Create(user *model.User) error
	Update(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindActiveStoreOwnerByName(name string) (*model.User, error)
	List(filter UserFilter, params ListParams) ([]model.User, int64, error)
	CountActive() (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}
	return nil
}

func (r *userRepository) Update(user *model.User) error {
	if err := r.db.Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return err
	}
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindActiveStoreOwnerByName resolves a store owner by (case-insensitive)
// name match, for admin store creation by owner name.
func (r *userRepository) FindActiveStoreOwnerByName(name string) (*model.User, error) {
	var user model.User
	err := r.db.
		Where("LOWER(name) LIKE LOWER(?)", "%"+name+"%").
		Where("role = ? AND is_active = ?", model.RoleStoreOwner, true).
		Order("id ASC").
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(filter UserFilter, params ListParams) ([]model.User, int64, error) {
	query := r.db.Model(&model.User{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	} else {
		query = query.Where("is_active = ?", true)
	}

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR LOWER(address) LIKE LOWER(?)",
			like, like, like,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	err := query.
		Order(params.OrderClause()).
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
