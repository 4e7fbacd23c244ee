package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emiilyxiia/microservices-3/controllers"
	"github.com/emiilyxiia/microservices-3/metrics"
	"github.com/emiilyxiia/microservices-3/middleware"
	"github.com/emiilyxiia/microservices-3/services"
)

// Initialize wires all routes and middlewares.
func Initialize(r *gin.Engine, svc *services.RankingService, log *logrus.Logger) {
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(Metrics())
	r.Use(services.SetServiceToContext(svc))

	lg := Logger(log)

	r.GET("/health", lg, controllers.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	ranking := r.Group("/ranking")
	ranking.GET("", lg, controllers.ListRankings)
	ranking.POST("", lg, controllers.CreateRanking)
	ranking.GET("/:id", lg, controllers.GetRanking)
	ranking.PUT("/:id", lg, controllers.ReplaceRanking)
	ranking.DELETE("/:id", lg, controllers.DeleteRanking)
	ranking.PATCH("/:id/item/:index", lg, controllers.UpdateRankingItem)

	log.Info("routes initialized")
}
