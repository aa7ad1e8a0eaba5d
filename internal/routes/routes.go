package routes

import (
	"net/http"

	_ "wedding_backend/docs"
	"wedding_backend/internal/handlers"
	"wedding_backend/internal/logger"
	"wedding_backend/internal/middleware"
	"wedding_backend/internal/models"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Options - зависимости маршрутов, которые не являются хэндлерами
type Options struct {
	Weddings   middleware.WeddingLoader
	PhotoLimit gin.HandlerFunc
	Swagger    bool
}

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers, opts Options) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// короткие ссылки печатаются в QR, поэтому без префикса API
	appHandlers.ShortLinkHandler.RegisterRoutes(ginRouter)

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.GuestHandler.RegisterRoutes(api, opts.PhotoLimit)
		appHandlers.ShortLinkHandler.RegisterRoutes(api)
		appHandlers.WebhookHandler.RegisterRoutes(api)
	}

	wedding := api.Group("/admin/weddings/:weddingId")
	wedding.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRoles(models.UserRoleWeddingAdmin, models.UserRolePlanner),
		middleware.WeddingAccessMiddleware(opts.Weddings),
	)
	{
		appHandlers.WeddingHandler.RegisterRoutes(wedding)
		appHandlers.FamilyHandler.RegisterRoutes(wedding)
		appHandlers.CommunicationHandler.RegisterRoutes(wedding)
		appHandlers.NotificationHandler.RegisterRoutes(wedding)
	}

	if opts.Swagger {
		ginRouter.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		logger.Info("Swagger UI registered", "path", "/swagger/index.html")
	}
}
