package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"reflection-backend/internal/config"
	"reflection-backend/internal/email"
	"reflection-backend/internal/handlers"
	"reflection-backend/internal/middleware"
	"reflection-backend/internal/otp"
	"reflection-backend/internal/ratelimit"
	"reflection-backend/internal/reset"
)

func Register(router *gin.Engine, db *gorm.DB, rdb redis.UniversalClient, cfg config.Config) {
	router.Use(corsMiddleware(cfg.AllowedOriginsRaw))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "reflection-backend"})
	})

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	mailer := email.NewSender(email.Config{
		Host:     cfg.SmtpHost,
		Port:     cfg.SmtpPort,
		Username: cfg.SmtpUser,
		Password: cfg.SmtpPass,
		From:     cfg.SmtpFrom,
	})
	resetService := reset.NewService(
		otp.NewRedisStore(rdb),
		mailer,
		reset.NewGormCredentials(db),
		time.Duration(cfg.OtpMinutes)*time.Minute,
		cfg.OtpMaxAttempts,
	)
	resetLimiter := ratelimit.NewLimiter(rdb, "reset", cfg.ResetRateLimit, time.Duration(cfg.ResetRateSeconds)*time.Second)

	authHandler := handlers.NewAuthHandler(db, cfg)
	resetHandler := handlers.NewResetHandler(resetService, resetLimiter)
	journalHandler := handlers.NewJournalHandler(db)
	goalHandler := handlers.NewGoalHandler(db)
	insightsHandler := handlers.NewInsightsHandler(db)

	api := router.Group("/api")
	{
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/forgot-password/start", resetHandler.Start)
		api.POST("/auth/forgot-password/verify", resetHandler.Verify)
		api.POST("/auth/refresh", authHandler.Refresh)
		api.POST("/auth/logout", authHandler.Logout)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthRequired(cfg.JwtSecret))
	{
		protected.GET("/me", authHandler.Me)
		protected.PUT("/me/password", authHandler.ChangePassword)

		protected.GET("/journal", journalHandler.List)
		protected.POST("/journal", journalHandler.Create)
		protected.PUT("/journal/:id", journalHandler.Update)
		protected.DELETE("/journal/:id", journalHandler.Delete)

		protected.GET("/goals", goalHandler.List)
		protected.POST("/goals", goalHandler.Create)
		protected.PUT("/goals/:id", goalHandler.Update)
		protected.PATCH("/goals/:id/status", goalHandler.SetStatus)
		protected.DELETE("/goals/:id", goalHandler.Delete)

		protected.GET("/insights", insightsHandler.Get)
	}
}

func corsMiddleware(allowed string) gin.HandlerFunc {
	origins := []string{}
	for _, origin := range strings.Split(allowed, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}

	corsCfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = origins
	}

	return cors.New(corsCfg)
}
