package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"stayscout/internal/auth"
	"stayscout/internal/database"
	"stayscout/internal/httperror"
	"stayscout/internal/models"
	"stayscout/internal/rating"
	"stayscout/internal/service"
	"stayscout/internal/uploads"
)

type Handler struct {
	listings *service.ListingService
	reviews  *service.ReviewService
	auth     *auth.Service
	manager  *auth.Manager
	uploads  *uploads.Store
	logger   *logrus.Logger
}

func NewHandler(
	listings *service.ListingService,
	reviews *service.ReviewService,
	authService *auth.Service,
	manager *auth.Manager,
	uploadStore *uploads.Store,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		listings: listings,
		reviews:  reviews,
		auth:     authService,
		manager:  manager,
		uploads:  uploadStore,
		logger:   logger,
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	var httpErr *httperror.Error
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing you requested for does not exist"})
	case errors.As(err, &httpErr):
		c.JSON(httpErr.Status, gin.H{"error": httpErr.Message})
	default:
		h.logger.WithError(err).Error("Request failed")
		internal := httperror.Internal()
		c.JSON(internal.Status, gin.H{"error": internal.Message})
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// GetAllListings returns every listing.
func (h *Handler) GetAllListings(c *gin.Context) {
	listings, err := h.listings.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// SearchListings filters listings by a case-insensitive substring over
// title, location and country.
func (h *Handler) SearchListings(c *gin.Context) {
	listings, err := h.listings.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// attachedImage saves the submitted image, when there is one.
func (h *Handler) attachedImage(c *gin.Context) (*models.Image, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil || fileHeader == nil {
		return nil, nil
	}
	image, err := h.uploads.Save(fileHeader)
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// CreateListing handles a multipart listing submission with an optional
// image attachment.
func (h *Handler) CreateListing(c *gin.Context) {
	userID, ok := CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in"})
		return
	}

	var input service.ListingInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing data"})
		return
	}

	image, err := h.attachedImage(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	var imageRef models.Image
	if image != nil {
		imageRef = *image
	}

	listing, err := h.listings.Create(c.Request.Context(), input, imageRef, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "New Listing Created",
		"listing": listing,
	})
}

// ShowListing returns one listing with its owner, reviews and the derived
// rating summary.
func (h *Handler) ShowListing(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing you requested for does not exist"})
		return
	}

	listing, err := h.listings.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listing": listing,
		"rating":  rating.Summarize(listing.Reviews),
	})
}

// UpdateListing overwrites a listing from the submission; runs behind the
// ownership gate.
func (h *Handler) UpdateListing(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing you requested for does not exist"})
		return
	}

	var input service.ListingInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing data"})
		return
	}

	image, err := h.attachedImage(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	listing, err := h.listings.Update(c.Request.Context(), id, input, image)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Listing Updated!",
		"listing": listing,
	})
}

// DeleteListing removes a listing and all of its reviews; runs behind the
// ownership gate.
func (h *Handler) DeleteListing(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing you requested for does not exist"})
		return
	}

	if err := h.listings.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing Deleted!"})
}
