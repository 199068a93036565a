package app

import (
	"summit_training_backend/docs"
	"summit_training_backend/internal/config"
	"summit_training_backend/internal/middleware"
	"summit_training_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/me", c.auth.Me)

		training := authGroup.Group("/training")
		{
			training.POST("/activities", c.activity.Create)
			training.GET("/activities", c.activity.List)
			training.GET("/activities/:id", c.activity.Get)
			training.PUT("/activities/:id", c.activity.Update)
			training.DELETE("/activities/:id", c.activity.Delete)
			training.POST("/activities/:id/result", c.activity.RecordResult)
			training.POST("/activities/import", c.activity.Import)
			training.POST("/upload", c.activity.UploadPlan)
		}

		goals := authGroup.Group("/goals")
		{
			goals.POST("", c.goal.Create)
			goals.GET("", c.goal.List)
			goals.GET("/:id", c.goal.Get)
			goals.PUT("/:id", c.goal.Update)
			goals.DELETE("/:id", c.goal.Delete)
			goals.GET("/:id/progress", c.goal.Progress)
			goals.GET("/:id/insights", c.goal.Insights)
		}

		analytics := authGroup.Group("/analytics")
		{
			analytics.GET("/compliance", c.analytics.GetCompliance)
			analytics.POST("/compliance", c.analytics.Analyze)
			analytics.GET("/risk", c.analytics.GetRisk)
			analytics.GET("/predictions", c.analytics.GetPredictions)
		}
	}
}
