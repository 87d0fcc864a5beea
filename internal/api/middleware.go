package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stayscout/internal/database"
)

const contextUserKey = "userID"

// CurrentUserID returns the authenticated user ID stored by RequireAuth.
func CurrentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// RequireAuth validates the session token from the cookie or the
// Authorization header and stores the authenticated user ID on the
// context. The ownership gates below depend on it having run.
func (h *Handler) RequireAuth(c *gin.Context) {
	token := ""
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		token = cookie
	}
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		token = strings.TrimPrefix(header, "Bearer ")
	}

	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in"})
		return
	}

	userID, err := h.manager.ValidateToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in"})
		return
	}

	c.Set(contextUserKey, userID)
	c.Next()
}

// RequireListingOwner permits the request only when the authenticated
// user owns the listing. A missing listing short-circuits to not-found
// before the ownership comparison.
func (h *Handler) RequireListingOwner(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in"})
		return
	}

	id, ok := parseIDParam(c, "id")
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Listing you requested for does not exist"})
		return
	}

	listing, err := h.listings.Find(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Listing you requested for does not exist"})
			return
		}
		h.respondError(c, err)
		c.Abort()
		return
	}

	if listing.OwnerID != userID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You are not the owner!"})
		return
	}

	c.Next()
}

// RequireReviewAuthor permits the request only when the authenticated
// user wrote the review. A missing review short-circuits to not-found
// before the authorship comparison.
func (h *Handler) RequireReviewAuthor(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in"})
		return
	}

	reviewID, ok := parseIDParam(c, "reviewID")
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	review, err := h.reviews.Get(c.Request.Context(), reviewID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		h.respondError(c, err)
		c.Abort()
		return
	}

	if review.AuthorID != userID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You are not the author!"})
		return
	}

	c.Next()
}
