package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/ratehub-backend/internal/app/service"
	apperrors "github.com/ikkim/ratehub-backend/internal/errors"
	"github.com/ikkim/ratehub-backend/internal/middleware"
)

type RatingController struct {
	ratingService service.RatingService
}

func NewRatingController(ratingService service.RatingService) *RatingController {
	return &RatingController{
		ratingService: ratingService,
	}
}

// SubmitRatingRequest leaves range checking of the rating value to the
// service so an out-of-range value gets its specific error code instead of a
// generic binding failure.
type SubmitRatingRequest struct {
	Rating int     `json:"rating"`
	Review *string `json:"review"`
}

// SubmitRating creates or overwrites the caller's rating for a store
// POST /api/v1/stores/:id/ratings
func (ctrl *RatingController) SubmitRating(c *gin.Context) {
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

	var req SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid rating data")
		return
	}

	rating, created, err := ctrl.ratingService.SubmitRating(userID, storeID, req.Rating, req.Review)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRating):
			apperrors.BadRequest(c, apperrors.RatingInvalidValue, "Rating must be an integer between 1 and 5")
		case errors.Is(err, service.ErrReviewTooLong):
			apperrors.BadRequest(c, apperrors.RatingReviewTooLong, "Review must be at most 500 characters")
		case errors.Is(err, service.ErrStoreNotFound):
			apperrors.NotFound(c, apperrors.StoreNotFound, "Store not found")
		default:
			log.Error("Failed to submit rating", err, map[string]interface{}{
				"user_id":  userID,
				"store_id": storeID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "submit rating")
		}
		return
	}

	status := http.StatusOK
	message := "Rating updated successfully"
	if created {
		status = http.StatusCreated
		message = "Rating submitted successfully"
	}

	c.JSON(status, gin.H{
		"message": message,
		"rating":  rating,
		"created": created,
	})
}

// ListMyRatings lists the caller's own ratings
// GET /api/v1/ratings
func (ctrl *RatingController) ListMyRatings(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	params := parseListParams(c)

	ratings, pagination, err := ctrl.ratingService.ListOwnRatings(userID, params)
	if err != nil {
		if respondSortError(c, err) {
			return
		}
		log.Error("Failed to list ratings", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list ratings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ratings":    ratings,
		"pagination": pagination,
	})
}

// DeleteRating removes the caller's own rating
// DELETE /api/v1/ratings/:id
func (ctrl *RatingController) DeleteRating(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	ratingID := parseIDParam(c, "id")
	if ratingID == 0 {
		return
	}

	if err := ctrl.ratingService.DeleteOwnRating(userID, ratingID); err != nil {
		if errors.Is(err, service.ErrRatingNotFound) {
			apperrors.NotFound(c, apperrors.RatingNotFound, "Rating not found")
			return
		}
		log.Error("Failed to delete rating", err, map[string]interface{}{
			"user_id":   userID,
			"rating_id": ratingID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete rating")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Rating deleted successfully",
	})
}

// GetProfile returns the caller's profile with rating activity
// GET /api/v1/profile
func (ctrl *RatingController) GetProfile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	user, totalRatings, recent, err := ctrl.ratingService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			apperrors.NotFound(c, apperrors.UserNotFound, "User not found")
			return
		}
		log.Error("Failed to get profile", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":           userPayload(user),
		"total_ratings":  totalRatings,
		"recent_ratings": recent,
	})
}
