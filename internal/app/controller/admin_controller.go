package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/ratehub-backend/internal/app/model"
	"github.com/ikkim/ratehub-backend/internal/app/repository"
	"github.com/ikkim/ratehub-backend/internal/app/service"
	apperrors "github.com/ikkim/ratehub-backend/internal/errors"
	"github.com/ikkim/ratehub-backend/internal/middleware"
)

type AdminController struct {
	adminService service.AdminService
}

func NewAdminController(adminService service.AdminService) *AdminController {
	return &AdminController{
		adminService: adminService,
	}
}

type AdminCreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=60"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Address  string `json:"address" binding:"max=400"`
	Role     string `json:"role" binding:"omitempty,oneof=admin user store_owner"`
}

type AdminUpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=60"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Address  *string `json:"address" binding:"omitempty,max=400"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin user store_owner"`
	IsActive *bool   `json:"is_active"`
}

type AdminCreateStoreRequest struct {
	Name      string `json:"name" binding:"required,min=2,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Address   string `json:"address" binding:"required,max=400"`
	OwnerID   uint   `json:"owner_id"`
	OwnerName string `json:"owner_name"`
}

type AdminUpdateStoreRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=100"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Address  *string `json:"address" binding:"omitempty,max=400"`
	OwnerID  *uint   `json:"owner_id"`
	IsActive *bool   `json:"is_active"`
}

type SetStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// Dashboard returns the platform-wide counters
// GET /api/v1/admin/dashboard
func (ctrl *AdminController) Dashboard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	dashboard, err := ctrl.adminService.Dashboard()
	if err != nil {
		log.Error("Failed to load admin dashboard", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "load dashboard")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// ListUsers lists users, optionally filtered by role
// GET /api/v1/admin/users
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	params := parseListParams(c)
	filter := repository.UserFilter{
		Role:   model.UserRole(c.Query("role")),
		Search: params.Search,
	}

	users, pagination, err := ctrl.adminService.ListUsers(filter, params)
	if err != nil {
		if respondSortError(c, err) {
			return
		}
		if errors.Is(err, service.ErrInvalidRole) {
			apperrors.BadRequest(c, apperrors.UserInvalidRole, "Invalid role filter")
			return
		}
		log.Error("Failed to list users", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"pagination": pagination,
	})
}

// GetUser returns one user; store owners include their stores with stats
// GET /api/v1/admin/users/:id
func (ctrl *AdminController) GetUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID := parseIDParam(c, "id")
	if userID == 0 {
		return
	}

	user, err := ctrl.adminService.GetUser(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
			return
		}
		log.Error("Failed to get user", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// CreateUser creates a user with any role
// POST /api/v1/admin/users
func (ctrl *AdminController) CreateUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AdminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid user data")
		return
	}

	user, err := ctrl.adminService.CreateUser(service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Role:     model.UserRole(req.Role),
	})
	if err != nil {
		if respondPasswordPolicyError(c, err) {
			return
		}
		switch {
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "Email address is already registered")
		case errors.Is(err, service.ErrInvalidRole):
			apperrors.BadRequest(c, apperrors.UserInvalidRole, "Invalid role")
		default:
			log.Error("Failed to create user", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create user")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    userPayload(user),
	})
}

// UpdateUser updates user fields
// PUT /api/v1/admin/users/:id
func (ctrl *AdminController) UpdateUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID := parseIDParam(c, "id")
	if userID == 0 {
		return
	}

	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid user data")
		return
	}

	input := service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Address:  req.Address,
		IsActive: req.IsActive,
	}
	if req.Role != nil {
		role := model.UserRole(*req.Role)
		input.Role = &role
	}

	user, err := ctrl.adminService.UpdateUser(userID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "Email address is already registered")
		case errors.Is(err, service.ErrInvalidRole):
			apperrors.BadRequest(c, apperrors.UserInvalidRole, "Invalid role")
		default:
			log.Error("Failed to update user", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update user")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    userPayload(user),
	})
}

// DeleteUser soft-deletes a user by deactivating the account
// DELETE /api/v1/admin/users/:id
func (ctrl *AdminController) DeleteUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID := parseIDParam(c, "id")
	if userID == 0 {
		return
	}

	if _, err := ctrl.adminService.SetUserActive(userID, false); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
			return
		}
		log.Error("Failed to deactivate user", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "deactivate user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User deactivated successfully",
	})
}

// SetUserStatus activates or deactivates a user
// PATCH /api/v1/admin/users/:id/status
func (ctrl *AdminController) SetUserStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID := parseIDParam(c, "id")
	if userID == 0 {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "is_active is required")
		return
	}

	user, err := ctrl.adminService.SetUserActive(userID, *req.IsActive)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
			return
		}
		log.Error("Failed to change user status", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "change user status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User status updated successfully",
		"user":    userPayload(user),
	})
}

// ListStores lists stores with owner and rating stats
// GET /api/v1/admin/stores
func (ctrl *AdminController) ListStores(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	params := parseListParams(c)

	stores, pagination, err := ctrl.adminService.ListStores(params)
	if err != nil {
		if respondSortError(c, err) {
			return
		}
		log.Error("Failed to list stores", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list stores")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores":     stores,
		"pagination": pagination,
	})
}

// CreateStore creates a store for a store owner, resolved by id or name
// POST /api/v1/admin/stores
func (ctrl *AdminController) CreateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AdminCreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid store data")
		return
	}

	store, err := ctrl.adminService.CreateStore(service.CreateStoreInput{
		Name:      req.Name,
		Email:     req.Email,
		Address:   req.Address,
		OwnerID:   req.OwnerID,
		OwnerName: req.OwnerName,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreOwnerNotFound):
			apperrors.NotFound(c, apperrors.StoreOwnerNotFound, "Store owner not found")
		case errors.Is(err, service.ErrStoreEmailExists):
			apperrors.Conflict(c, apperrors.StoreEmailExists, "Store email is already registered")
		case errors.Is(err, service.ErrOwnerHasActiveStore):
			apperrors.Conflict(c, apperrors.StoreOwnerHasStore, "Owner already has an active store")
		default:
			log.Error("Failed to create store", err, map[string]interface{}{
				"email": req.Email,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create store")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Store created successfully",
		"store":   store,
	})
}

// UpdateStore updates store fields, including reassignment and activation
// PUT /api/v1/admin/stores/:id
func (ctrl *AdminController) UpdateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	storeID := parseIDParam(c, "id")
	if storeID == 0 {
		return
	}

	var req AdminUpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid store data")
		return
	}

	store, err := ctrl.adminService.UpdateStore(storeID, service.UpdateStoreInput{
		Name:     req.Name,
		Email:    req.Email,
		Address:  req.Address,
		OwnerID:  req.OwnerID,
		IsActive: req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreNotFound):
			apperrors.NotFound(c, apperrors.StoreNotFound, "Store not found")
		case errors.Is(err, service.ErrStoreOwnerNotFound):
			apperrors.NotFound(c, apperrors.StoreOwnerNotFound, "Store owner not found")
		case errors.Is(err, service.ErrStoreEmailExists):
			apperrors.Conflict(c, apperrors.StoreEmailExists, "Store email is already registered")
		case errors.Is(err, service.ErrOwnerHasActiveStore):
			apperrors.Conflict(c, apperrors.StoreOwnerHasStore, "Owner already has an active store")
		default:
			log.Error("Failed to update store", err, map[string]interface{}{
				"store_id": storeID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update store")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Store updated successfully",
		"store":   store,
	})
}

// DeleteStore soft-deletes a store by deactivating it
// DELETE /api/v1/admin/stores/:id
func (ctrl *AdminController) DeleteStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	storeID := parseIDParam(c, "id")
	if storeID == 0 {
		return
	}

	if _, err := ctrl.adminService.SetStoreActive(storeID, false); err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.NotFound(c, apperrors.StoreNotFound, "Store not found")
			return
		}
		log.Error("Failed to deactivate store", err, map[string]interface{}{
			"store_id": storeID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "deactivate store")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Store deactivated successfully",
	})
}

// SetStoreStatus activates or deactivates a store
// PATCH /api/v1/admin/stores/:id/status
func (ctrl *AdminController) SetStoreStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	storeID := parseIDParam(c, "id")
	if storeID == 0 {
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "is_active is required")
		return
	}

	store, err := ctrl.adminService.SetStoreActive(storeID, *req.IsActive)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreNotFound):
			apperrors.NotFound(c, apperrors.StoreNotFound, "Store not found")
		case errors.Is(err, service.ErrOwnerHasActiveStore):
			apperrors.Conflict(c, apperrors.StoreOwnerHasStore, "Owner already has an active store")
		default:
			log.Error("Failed to change store status", err, map[string]interface{}{
				"store_id": storeID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "change store status")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Store status updated successfully",
		"store":   store,
	})
}
