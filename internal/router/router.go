package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/ratehub-backend/config"
	"github.com/ikkim/ratehub-backend/internal/app/controller"
	"github.com/ikkim/ratehub-backend/internal/app/model"
	"github.com/ikkim/ratehub-backend/internal/middleware"
)

type Router struct {
	authController   *controller.AuthController
	storeController  *controller.StoreController
	ratingController *controller.RatingController
	ownerController  *controller.OwnerController
	adminController  *controller.AdminController
	authMiddleware   *middleware.AuthMiddleware
	config           *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	storeController *controller.StoreController,
	ratingController *controller.RatingController,
	ownerController *controller.OwnerController,
	adminController *controller.AdminController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:   authController,
		storeController:  storeController,
		ratingController: ratingController,
		ownerController:  ownerController,
		adminController:  adminController,
		authMiddleware:   authMiddleware,
		config:           cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "RateHub API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/update-password", r.authMiddleware.Authenticate(), r.authController.UpdatePassword)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
		}

		stores := v1.Group("/stores")
		stores.Use(r.authMiddleware.Authenticate())
		{
			stores.GET("", r.storeController.ListStores)
			stores.GET("/:id", r.storeController.GetStore)
			stores.POST("/:id/ratings", r.ratingController.SubmitRating)
		}

		ratings := v1.Group("/ratings")
		ratings.Use(r.authMiddleware.Authenticate())
		{
			ratings.GET("", r.ratingController.ListMyRatings)
			ratings.DELETE("/:id", r.ratingController.DeleteRating)
		}

		v1.GET("/profile", r.authMiddleware.Authenticate(), r.ratingController.GetProfile)

		owner := v1.Group("/owner")
		owner.Use(r.authMiddleware.Authenticate())
		owner.Use(r.authMiddleware.RequireRole(model.RoleStoreOwner))
		{
			owner.GET("/dashboard", r.ownerController.Dashboard)
			owner.GET("/ratings", r.ownerController.ListRatings)
			owner.GET("/users", r.ownerController.ListRaters)
			owner.GET("/statistics", r.ownerController.Statistics)
			owner.GET("/store", r.ownerController.StoreInfo)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate())
		admin.Use(r.authMiddleware.RequireRole(model.RoleAdmin))
		{
			admin.GET("/dashboard", r.adminController.Dashboard)

			admin.GET("/users", r.adminController.ListUsers)
			admin.POST("/users", r.adminController.CreateUser)
			admin.GET("/users/:id", r.adminController.GetUser)
			admin.PUT("/users/:id", r.adminController.UpdateUser)
			admin.DELETE("/users/:id", r.adminController.DeleteUser)
			admin.PATCH("/users/:id/status", r.adminController.SetUserStatus)

			admin.GET("/stores", r.adminController.ListStores)
			admin.POST("/stores", r.adminController.CreateStore)
			admin.PUT("/stores/:id", r.adminController.UpdateStore)
			admin.DELETE("/stores/:id", r.adminController.DeleteStore)
			admin.PATCH("/stores/:id/status", r.adminController.SetStoreStatus)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
