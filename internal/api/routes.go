package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.Static("/uploads", handler.uploads.Dir())

	api := router.Group("/api")
	{
		api.POST("/signup", handler.Signup)
		api.POST("/login", handler.Login)
		api.POST("/logout", handler.Logout)

		listings := api.Group("/listings")
		{
			listings.GET("", handler.GetAllListings)
			listings.GET("/search", handler.SearchListings)
			listings.POST("", handler.RequireAuth, handler.CreateListing)
			listings.GET("/:id", handler.ShowListing)
			listings.PUT("/:id", handler.RequireAuth, handler.RequireListingOwner, handler.UpdateListing)
			listings.DELETE("/:id", handler.RequireAuth, handler.RequireListingOwner, handler.DeleteListing)

			listings.POST("/:id/reviews", handler.RequireAuth, handler.CreateReview)
			listings.DELETE("/:id/reviews/:reviewID", handler.RequireAuth, handler.RequireReviewAuthor, handler.DeleteReview)
		}
	}
}
