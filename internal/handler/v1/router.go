package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/config"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/internal/service"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/pkg/auth"
	"github.com/dmehra2102/prod-golang-projects/healthwallet/pkg/metrics"
)

type RouterDeps struct {
	Config     *config.Config
	Log        *zap.Logger
	Metrics    *metrics.Collector
	JWTManager *auth.JWTManager
	Auth       *service.AuthService
	Reports    *service.ReportService
	Shares     *service.ShareService
	Vitals     *service.VitalsService
	DB         *gorm.DB
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		RequestLogger(deps.Log),
		CORS(deps.Config.CORS),
		RateLimit(deps.Config.RateLimit),
		Metrics(deps.Metrics),
	)

	r.GET("/health", healthHandler(deps.DB))
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	authHandler := NewAuthHandler(deps.Auth)
	reportHandler := NewReportHandler(deps.Reports, deps.Metrics)
	shareHandler := NewShareHandler(deps.Shares, deps.Metrics)
	vitalsHandler := NewVitalsHandler(deps.Vitals, deps.Metrics)

	api := r.Group("/api/v1")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	authed := api.Group("", RequireAuth(deps.JWTManager))

	authed.GET("/auth/profile", authHandler.Profile)
	authed.PUT("/auth/profile", authHandler.UpdateProfile)

	authed.POST("/reports", reportHandler.Upload)
	authed.GET("/reports", reportHandler.List)
	authed.GET("/reports/:reportId", reportHandler.Get)
	authed.GET("/reports/:reportId/download", reportHandler.Download)
	authed.PUT("/reports/:reportId", reportHandler.Update)
	authed.DELETE("/reports/:reportId", reportHandler.Delete)

	authed.POST("/reports/:reportId/shares", shareHandler.Create)
	authed.GET("/reports/:reportId/shares", shareHandler.ListForReport)
	authed.DELETE("/reports/:reportId/shares/:shareId", shareHandler.Revoke)
	authed.PUT("/reports/:reportId/shares/:shareId", shareHandler.UpdateAccessLevel)
	authed.GET("/shares/shared-with-me", shareHandler.SharedWithMe)

	authed.POST("/vitals", vitalsHandler.Record)
	authed.GET("/vitals", vitalsHandler.List)
	authed.GET("/vitals/types", vitalsHandler.ListTypes)
	authed.GET("/vitals/summary/:vitalType", vitalsHandler.Summary)
	authed.DELETE("/vitals/:vitalId", vitalsHandler.Delete)

	return r
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
