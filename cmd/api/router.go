package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"foodgram-backend/internal/shared/middleware"
	"foodgram-backend/internal/shared/response"
	"foodgram-backend/pkg/container"
	"foodgram-backend/pkg/metrics"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		metrics.Middleware(),
	)

	router.GET("/metrics", metrics.Handler())
	router.NoRoute(func(ctx *gin.Context) {
		response.NotFound(ctx, "route not found")
	})

	api := router.Group("/api")
	{
		api.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(api, c)
		setupUserRoutes(api, c)
		setupTagRoutes(api, c)
		setupIngredientRoutes(api, c)
		setupRecipeRoutes(api, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(api *gin.RouterGroup, c *container.Container) {
	auth := api.Group("/auth/token")
	{
		auth.POST("/login", c.UserHandler.Login)
		auth.POST("/logout", c.Auth.AuthMiddleware(), c.UserHandler.Logout)
	}
}

// ========================================
// USER + SUBSCRIPTION ROUTES
// ========================================
func setupUserRoutes(api *gin.RouterGroup, c *container.Container) {
	users := api.Group("/users")
	{
		users.POST("", c.UserHandler.Register)
		users.GET("", c.Auth.OptionalAuthMiddleware(), c.UserHandler.List)

		// Static paths trước :id
		users.GET("/me", c.Auth.AuthMiddleware(), c.UserHandler.Me)
		users.POST("/set_password", c.Auth.AuthMiddleware(), c.UserHandler.SetPassword)
		users.GET("/subscriptions", c.Auth.AuthMiddleware(), c.FollowHandler.Subscriptions)

		users.GET("/:id", c.Auth.OptionalAuthMiddleware(), c.UserHandler.Get)

		subscribe := users.Group("/:id/subscribe", c.Auth.AuthMiddleware())
		{
			subscribe.GET("", c.FollowHandler.Subscribe)
			subscribe.POST("", c.FollowHandler.Subscribe)
			subscribe.DELETE("", c.FollowHandler.Unsubscribe)
		}
	}
}

// ========================================
// REFERENCE DATA ROUTES
// ========================================
func setupTagRoutes(api *gin.RouterGroup, c *container.Container) {
	tags := api.Group("/tags")
	{
		tags.GET("", c.TagHandler.List)
		tags.GET("/:id", c.TagHandler.Get)
	}
}

func setupIngredientRoutes(api *gin.RouterGroup, c *container.Container) {
	ingredients := api.Group("/ingredients")
	{
		ingredients.GET("", c.IngredientHandler.List)
		ingredients.GET("/:id", c.IngredientHandler.Get)

		admin := ingredients.Group("", c.Auth.AuthMiddleware(), middleware.AdminMiddleware())
		{
			admin.POST("", c.IngredientHandler.Create)
			admin.DELETE("/:id", c.IngredientHandler.Delete)
		}
	}
}

// ========================================
// RECIPE ROUTES
// ========================================
func setupRecipeRoutes(api *gin.RouterGroup, c *container.Container) {
	recipes := api.Group("/recipes")
	{
		recipes.GET("", c.Auth.OptionalAuthMiddleware(), c.RecipeHandler.List)
		recipes.GET("/:id", c.Auth.OptionalAuthMiddleware(), c.RecipeHandler.Get)

		protected := recipes.Group("", c.Auth.AuthMiddleware())
		{
			protected.POST("", c.RecipeHandler.Create)
			protected.GET("/download_shopping_cart", c.RecipeHandler.DownloadShoppingCart)
			protected.PATCH("/:id", c.RecipeHandler.Update)
			protected.DELETE("/:id", c.RecipeHandler.Delete)

			protected.GET("/:id/favorite", c.RecipeHandler.AddFavorite)
			protected.POST("/:id/favorite", c.RecipeHandler.AddFavorite)
			protected.DELETE("/:id/favorite", c.RecipeHandler.RemoveFavorite)

			protected.GET("/:id/shopping_cart", c.RecipeHandler.AddToCart)
			protected.POST("/:id/shopping_cart", c.RecipeHandler.AddToCart)
			protected.DELETE("/:id/shopping_cart", c.RecipeHandler.RemoveFromCart)
		}
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		// Check database
		dbStatus := "ok"
		var pool interface{}
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else if err := appCtx.DB.Ping(ctx); err != nil {
			dbStatus = "error: " + err.Error()
			health["status"] = "degraded"
		} else if stats, err := appCtx.DB.Stats(); err == nil {
			pool = stats
		}

		// Check redis (memory fallback luôn ok)
		cacheStatus := "ok"
		if appCtx.Cache == nil {
			cacheStatus = "disconnected"
		} else if err := appCtx.Cache.Ping(ctx); err != nil {
			cacheStatus = "error: " + err.Error()
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"pool":     pool,
			"cache":    cacheStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, health)
	}
}
