package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	httpH "github.com/tomfenwick/studytrack/internal/http/handlers"
	httpMW "github.com/tomfenwick/studytrack/internal/http/middleware"
)

type RouterConfig struct {
	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware
	UserHandler    *httpH.UserHandler

	ProgressHandler    *httpH.ProgressHandler
	SessionHandler     *httpH.SessionHandler
	FlashcardHandler   *httpH.FlashcardHandler
	AchievementHandler *httpH.AchievementHandler

	HealthHandler *httpH.HealthHandler

	AllowedOrigins []string
	Logger         *zap.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Logger != nil {
		r.Use(httpMW.RequestLogger(cfg.Logger))
	}

	corsCfg := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/register", cfg.AuthHandler.Register)
			api.POST("/auth/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Profile
		if cfg.UserHandler != nil {
			protected.GET("/users/profile", cfg.UserHandler.GetProfile)
			protected.PUT("/users/profile", cfg.UserHandler.UpdateProfile)
			protected.PUT("/users/target-grades", cfg.UserHandler.SetTargetGrades)
		}

		// Progress dashboard and recording
		if cfg.ProgressHandler != nil {
			protected.GET("/progress", cfg.ProgressHandler.GetProgress)
			protected.POST("/progress/study-session", cfg.ProgressHandler.RecordStudySession)
			protected.POST("/progress/quiz-result", cfg.ProgressHandler.RecordQuizResult)
			protected.PUT("/progress/subjects/:subject", cfg.ProgressHandler.UpdateSubjectProgress)
			protected.GET("/progress/weekly-report", cfg.ProgressHandler.GetWeeklyReport)
			protected.GET("/progress/activity", cfg.ProgressHandler.GetRecentActivity)
			protected.GET("/progress/quiz-results", cfg.ProgressHandler.ListQuizResults)
			protected.GET("/analytics/dashboard", cfg.ProgressHandler.GetDashboardAnalytics)
		}

		// Study sessions
		if cfg.SessionHandler != nil {
			protected.GET("/study-sessions", cfg.SessionHandler.List)
			protected.POST("/study-sessions", cfg.SessionHandler.Create)
			protected.PATCH("/study-sessions/:id", cfg.SessionHandler.Update)
			protected.DELETE("/study-sessions/:id", cfg.SessionHandler.Delete)
		}

		// Flashcards
		if cfg.FlashcardHandler != nil {
			protected.GET("/flashcards", cfg.FlashcardHandler.List)
			protected.GET("/flashcards/due", cfg.FlashcardHandler.ListDue)
			protected.POST("/flashcards", cfg.FlashcardHandler.Create)
			protected.POST("/flashcards/:id/review", cfg.FlashcardHandler.Review)
			protected.DELETE("/flashcards/:id", cfg.FlashcardHandler.Delete)
		}

		// Achievements
		if cfg.AchievementHandler != nil {
			protected.GET("/achievements", cfg.AchievementHandler.GetReport)
			protected.GET("/achievements/catalog", cfg.AchievementHandler.GetCatalog)
		}
	}

	return r
}
