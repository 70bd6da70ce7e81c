package handler

import (
	"net/http"

	"pintperfect/pkg/logger"
	"pintperfect/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName = "pub-service"

// Handlers - все обработчики API; Seed == nil отключает /api/seed
type Handlers struct {
	Auth   *AuthHandler
	Pub    *PubHandler
	Rating *RatingHandler
	Photo  *PhotoHandler
	Seed   *SeedHandler
}

// DefaultMaxBodyBytes - лимит тела запроса, если он не задан в RouterConfig
const DefaultMaxBodyBytes int64 = 50 << 20

// RouterConfig - раздача загруженных файлов как статики и лимит тела запросов /api
type RouterConfig struct {
	UploadDir       string
	UploadPublicURL string
	MaxBodyBytes    int64
}

// SetupRoutes настраивает все маршруты приложения с использованием Gin
func SetupRoutes(h Handlers, authMiddleware *AuthMiddleware, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = 8 << 20

	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	// Recovery middleware для обработки panic
	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware(serviceName))

	// CORS для мобильного и web клиента
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:   []string{"X-Request-ID"},
		MaxAge:          300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": serviceName,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.UploadDir != "" && cfg.UploadPublicURL != "" {
		router.Static(cfg.UploadPublicURL, cfg.UploadDir)
	}

	auth := authMiddleware.Authenticate()
	api := router.Group("/api", BodyLimit(maxBody))

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.GET("/me", auth, h.Auth.Me)
		authGroup.POST("/logout", auth, h.Auth.Logout)
	}

	users := api.Group("/users", auth)
	{
		users.PUT("/me", h.Auth.UpdateMe)
		users.DELETE("/me", h.Auth.DeleteMe)
	}

	pubs := api.Group("/pubs")
	{
		pubs.GET("", h.Pub.ListPubs)
		pubs.GET("/nearby", h.Pub.Nearby)
		pubs.GET("/near", h.Pub.NearLegacy)
		pubs.GET("/:id", h.Pub.GetPub)
		pubs.POST("", auth, h.Pub.CreatePub)
		pubs.PUT("/:id", auth, h.Pub.UpdatePub)
		pubs.DELETE("/:id", auth, h.Pub.DeletePub)
	}

	ratings := api.Group("/ratings")
	{
		ratings.GET("/pub/:pubId", h.Rating.GetPubRatings)
		ratings.GET("/user/:userId", h.Rating.GetUserRatings)
		ratings.GET("/:id", h.Rating.GetRating)
		ratings.POST("", auth, h.Rating.CreateRating)
		ratings.PUT("/:id", auth, h.Rating.UpdateRating)
		ratings.DELETE("/:id", auth, h.Rating.DeleteRating)
	}

	photos := api.Group("/photos", auth)
	{
		photos.POST("", h.Photo.Upload)
		photos.POST("/base64", h.Photo.UploadBase64)
		photos.DELETE("/:id", h.Photo.DeletePhoto)
	}

	if h.Seed != nil {
		api.POST("/seed", h.Seed.Seed)
	}

	return router
}
