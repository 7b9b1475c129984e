package api

import (
	"net/http"

	kindnessDelivery "jeetsocial/internal/kindness/delivery"
	postDelivery "jeetsocial/internal/post/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, postHandler *postDelivery.PostHandler, kindnessHandler *kindnessDelivery.KindnessHandler) {
	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Feed routes
		posts := api.Group("/posts")
		{
			posts.GET("", postHandler.GetFeed)
			posts.POST("", postHandler.CreatePost)
			posts.GET("/:id", postHandler.GetPost)
			posts.GET("/:id/kindness", postHandler.GetPostKindness)
		}

		// Kindness point routes
		kindness := api.Group("/kindness")
		{
			kindness.POST("/token", kindnessHandler.IssueToken)
			kindness.POST("/redeem", kindnessHandler.RedeemToken)
		}
	}
}
