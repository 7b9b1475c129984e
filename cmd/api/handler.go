package api

import (
	kindnessDelivery "jeetsocial/internal/kindness/delivery"
	kindnessUsecasePkg "jeetsocial/internal/kindness/usecase"
	postDelivery "jeetsocial/internal/post/delivery"
	postUsecasePkg "jeetsocial/internal/post/usecase"
	"jeetsocial/pkg/config"
	"jeetsocial/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	postHandler     *postDelivery.PostHandler
	kindnessHandler *kindnessDelivery.KindnessHandler
	config          *config.Config
}

func NewHandler(postUc postUsecasePkg.PostUsecase, kindnessUc kindnessUsecasePkg.KindnessUsecase, cfg *config.Config) *Handler {
	limiter := ratelimit.New(cfg.RateLimitWindow, cfg.RateLimitMax)

	return &Handler{
		postHandler:     postDelivery.NewPostHandler(postUc, limiter),
		kindnessHandler: kindnessDelivery.NewKindnessHandler(kindnessUc, cfg.KindnessEnabled),
		config:          cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Setup routes
	SetupRoutes(r, h.postHandler, h.kindnessHandler)

	return r.Run(addr)
}
