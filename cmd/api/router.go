package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"adoption-center-backend/internal/shared/middleware"
	"adoption-center-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupAnimalRoutes(v1, c)
		setupAdoptionRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
	}

	me := v1.Group("/me")
	me.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		me.GET("", c.UserHandler.GetProfile)
	}
}

// ========================================
// ANIMAL CATALOG ROUTES
// ========================================
func setupAnimalRoutes(v1 *gin.RouterGroup, c *container.Container) {
	// Public: browse catalog
	animals := v1.Group("/animals")
	{
		animals.GET("", c.AnimalHandler.ListAnimals)
		animals.GET("/:id", c.AnimalHandler.GetAnimal)
	}

	// Admin: manage catalog
	adminAnimals := v1.Group("/admin/animals")
	adminAnimals.Use(middleware.AuthMiddleware(c.Config.JWT.Secret), middleware.AdminMiddleware())
	{
		adminAnimals.POST("", c.AnimalHandler.RegisterAnimal)
		adminAnimals.DELETE("/:id", c.AnimalHandler.DeleteAnimal)
	}
}

// ========================================
// ADOPTION REQUEST ROUTES
// ========================================
func setupAdoptionRoutes(v1 *gin.RouterGroup, c *container.Container) {
	// Submit cần account (bất kỳ role nào)
	adoptions := v1.Group("/adoptions")
	adoptions.Use(middleware.AuthMiddleware(c.Config.JWT.Secret))
	{
		adoptions.POST("", c.ShelterHandler.SubmitRequest)
	}

	// Admin: review + approve
	adminAdoptions := v1.Group("/admin/adoptions")
	adminAdoptions.Use(middleware.AuthMiddleware(c.Config.JWT.Secret), middleware.AdminMiddleware())
	{
		adminAdoptions.GET("", c.ShelterHandler.ListRequests)
		adminAdoptions.GET("/pending", c.ShelterHandler.ListPendingRequests)
		adminAdoptions.POST("/:id/approve", c.ShelterHandler.ApproveRequest)
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
			"services":  gin.H{},
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check redis (non-critical)
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
