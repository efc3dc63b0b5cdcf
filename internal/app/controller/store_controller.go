package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/ratehub-backend/internal/app/service"
	apperrors "github.com/ikkim/ratehub-backend/internal/errors"
	"github.com/ikkim/ratehub-backend/internal/middleware"
)

type StoreController struct {
	storeService service.StoreService
}

func NewStoreController(storeService service.StoreService) *StoreController {
	return &StoreController{
		storeService: storeService,
	}
}

// ListStores lists active stores with rating stats and the caller's own
// rating per store
// GET /api/v1/stores
func (ctrl *StoreController) ListStores(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	params := parseListParams(c)

	stores, pagination, err := ctrl.storeService.BrowseStores(userID, params)
	if err != nil {
		if respondSortError(c, err) {
			return
		}
		log.Error("Failed to list stores", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list stores")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores":     stores,
		"pagination": pagination,
	})
}

// GetStore returns one active store with stats and recent ratings
// GET /api/v1/stores/:id
func (ctrl *StoreController) GetStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	storeID := parseIDParam(c, "id")
	if storeID == 0 {
		return
	}

	detail, err := ctrl.storeService.GetStoreDetail(userID, storeID)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.NotFound(c, apperrors.StoreNotFound, "Store not found")
			return
		}
		log.Error("Failed to get store", err, map[string]interface{}{
			"store_id": storeID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get store")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store": detail,
	})
}
