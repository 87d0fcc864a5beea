package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stayscout/internal/database"
	"stayscout/internal/service"
)

// CreateReview attaches a new review to a listing, authored by the
// authenticated user.
func (h *Handler) CreateReview(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in"})
		return
	}

	listingID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing you requested for does not exist"})
		return
	}

	var input service.ReviewInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review data"})
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), listingID, input, userID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing you requested for does not exist"})
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "New Review Created!",
		"review":  review,
	})
}

// DeleteReview removes a review from its listing; runs behind the
// authorship gate.
func (h *Handler) DeleteReview(c *gin.Context) {
	listingID, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing you requested for does not exist"})
		return
	}

	reviewID, ok := parseIDParam(c, "reviewID")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	if err := h.reviews.Delete(c.Request.Context(), listingID, reviewID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review Deleted!"})
}
