package router

import (
	"net/http"
	"time"

	"github.com/Ishaan583/foodshare/internal/analytics"
	"github.com/Ishaan583/foodshare/internal/auth"
	"github.com/Ishaan583/foodshare/internal/donation"
	"github.com/Ishaan583/foodshare/internal/llm"
	"github.com/Ishaan583/foodshare/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Log          *zap.Logger
	AllowOrigins []string
	Tokens       *auth.TokenManager
	Auth         *auth.Service
	Donations    *donation.Service
	Analytics    *analytics.Service
	Inference    *llm.Service
}

// inferencePaths carry their own CORS policy; see llm.CORS.
var inferencePaths = map[string]bool{
	"/predict-demand":  true,
	"/analyze-wastage": true,
}

func apiCORS(origins []string) gin.HandlerFunc {
	mw := cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
	return func(c *gin.Context) {
		if inferencePaths[c.Request.URL.Path] {
			c.Next()
			return
		}
		mw(c)
	}
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Log))
	if len(d.AllowOrigins) > 0 {
		r.Use(apiCORS(d.AllowOrigins))
	}

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ───────────────────────── INFERENCE ─────────────────────────
	llm.NewHandler(d.Inference, d.Log).Register(r)

	requireAuth := middleware.Auth(d.Tokens, d.Log)

	// ───────────────────────── AUTH ─────────────────────────
	authHandler := auth.NewHandler(d.Auth, d.Log)
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", requireAuth, authHandler.Me)
	}

	// ───────────────────────── DONATIONS ─────────────────────────
	donationHandler := donation.NewHandler(d.Donations, d.Log)
	donor := middleware.RequireRole(auth.RoleDonor)
	ngo := middleware.RequireRole(auth.RoleNGO)

	donations := r.Group("/donations")
	donations.Use(requireAuth)
	{
		donations.POST("", donor, donationHandler.Create)
		donations.GET("/mine", donor, donationHandler.ListMine)
		donations.GET("/impact", donor, donationHandler.Impact)
		donations.GET("/available", ngo, donationHandler.ListAvailable)
		donations.POST("/:id/request", ngo, donationHandler.Request)
		donations.POST("/:id/pickup", donor, donationHandler.ConfirmPickup)
		donations.POST("/:id/photo", donor, donationHandler.UploadPhoto)
	}

	// ───────────────────────── ANALYTICS ─────────────────────────
	analyticsHandler := analytics.NewHandler(d.Analytics, d.Log)

	stats := r.Group("/analytics")
	stats.Use(requireAuth)
	{
		stats.GET("/summary", analyticsHandler.Summary)
		stats.GET("/trends", analyticsHandler.Trends)
		stats.POST("/analyze", analyticsHandler.Analyze)
		stats.POST("/meals", middleware.RequireRole(auth.RoleAdmin), analyticsHandler.RecordMeal)
	}

	return r
}
