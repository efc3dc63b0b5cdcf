package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/ratehub-backend/internal/app/service"
	apperrors "github.com/ikkim/ratehub-backend/internal/errors"
	"github.com/ikkim/ratehub-backend/internal/middleware"
)

type OwnerController struct {
	ownerService service.OwnerService
}

func NewOwnerController(ownerService service.OwnerService) *OwnerController {
	return &OwnerController{
		ownerService: ownerService,
	}
}

// respondOwnerError handles the error shared by every owner endpoint: the
// authenticated owner has no active store. Returns false when the error was
// something else.
func respondOwnerError(c *gin.Context, err error) bool {
	if errors.Is(err, service.ErrNoOwnedStore) {
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzNoOwnedStore, "No active store is registered for this account")
		return true
	}
	return false
}

// Dashboard returns the owned store with stats and recent ratings
// GET /api/v1/owner/dashboard
func (ctrl *OwnerController) Dashboard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ownerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	dashboard, err := ctrl.ownerService.Dashboard(ownerID)
	if err != nil {
		if respondOwnerError(c, err) {
			return
		}
		log.Error("Failed to load owner dashboard", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "load dashboard")
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// ListRatings lists the owned store's ratings
// GET /api/v1/owner/ratings
func (ctrl *OwnerController) ListRatings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ownerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	params := parseListParams(c)

	ratings, pagination, err := ctrl.ownerService.ListRatings(ownerID, params)
	if err != nil {
		if respondOwnerError(c, err) || respondSortError(c, err) {
			return
		}
		log.Error("Failed to list store ratings", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list store ratings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ratings":    ratings,
		"pagination": pagination,
	})
}

// ListRaters lists the users who rated the owned store
// GET /api/v1/owner/users
func (ctrl *OwnerController) ListRaters(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ownerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	params := parseListParams(c)

	ratings, pagination, err := ctrl.ownerService.ListRaters(ownerID, params)
	if err != nil {
		if respondOwnerError(c, err) || respondSortError(c, err) {
			return
		}
		log.Error("Failed to list raters", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list raters")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ratings":    ratings,
		"pagination": pagination,
	})
}

// Statistics returns the owned store's rating distribution
// GET /api/v1/owner/statistics
func (ctrl *OwnerController) Statistics(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ownerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	statistics, err := ctrl.ownerService.Statistics(ownerID)
	if err != nil {
		if respondOwnerError(c, err) {
			return
		}
		log.Error("Failed to load store statistics", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "load statistics")
		return
	}

	c.JSON(http.StatusOK, statistics)
}

// StoreInfo returns the owned store with stats
// GET /api/v1/owner/store
func (ctrl *OwnerController) StoreInfo(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ownerID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	store, err := ctrl.ownerService.StoreInfo(ownerID)
	if err != nil {
		if respondOwnerError(c, err) {
			return
		}
		log.Error("Failed to load store info", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "load store info")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store": store,
	})
}
