package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"stayscout/internal/database"
	"stayscout/internal/geocoding"
	"stayscout/internal/models"
)

// DefaultImageURL is substituted when a submission arrives without an
// image reference.
const DefaultImageURL = "https://images.unsplash.com/photo-1625505826533-5c80aca7d157"

// ListingInput is a validated listing submission.
type ListingInput struct {
	Title       string  `form:"title"`
	Description string  `form:"description"`
	Price       float64 `form:"price"`
	Location    string  `form:"location"`
	Country     string  `form:"country"`
}

// ListingService orchestrates the listing lifecycle, coordinating the
// geocoder and the storage layer.
type ListingService struct {
	db       *database.Database
	geocoder geocoding.Service
	logger   *logrus.Logger
}

func NewListingService(db *database.Database, geocoder geocoding.Service, logger *logrus.Logger) *ListingService {
	return &ListingService{
		db:       db,
		geocoder: geocoder,
		logger:   logger,
	}
}

func (s *ListingService) List(ctx context.Context) ([]models.Listing, error) {
	return s.db.GetAllListings(ctx)
}

// Search returns listings whose title, location or country contains the
// trimmed query, case-insensitively. An empty or whitespace-only query is
// rejected before any query is issued.
func (s *ListingService) Search(ctx context.Context, query string) ([]models.Listing, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, validationError("Please enter a valid search term")
	}
	return s.db.SearchListings(ctx, query)
}

func (s *ListingService) validate(input ListingInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return validationError("Title is required")
	}
	if input.Price < 0 {
		return validationError("Price cannot be negative")
	}
	return nil
}

// Create validates the submission, geocodes its location and persists the
// listing. Geocoding is a hard dependency: when the location cannot be
// resolved nothing is persisted.
func (s *ListingService) Create(ctx context.Context, input ListingInput, image models.Image, ownerID uint) (*models.Listing, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	if image.URL == "" {
		image = models.Image{URL: DefaultImageURL}
	}

	coords := s.geocoder.Geocode(ctx, input.Location, input.Country)
	if coords == nil {
		return nil, validationError("Invalid location. Please enter a valid place.")
	}

	listing := &models.Listing{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Location:    input.Location,
		Country:     input.Country,
		Image:       image,
		Geometry:    models.NewPoint(coords.Lat, coords.Lng),
		OwnerID:     ownerID,
	}

	if err := s.db.CreateListing(ctx, listing); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"listing_id": listing.ID,
		"owner_id":   ownerID,
	}).Info("Listing created")

	return listing, nil
}

// Get fetches a listing for display, with owner and reviews (including
// each review's author) resolved.
func (s *ListingService) Get(ctx context.Context, id uint) (*models.Listing, error) {
	return s.db.GetListingForDisplay(ctx, id)
}

// Find fetches a bare listing without resolving references.
func (s *ListingService) Find(ctx context.Context, id uint) (*models.Listing, error) {
	return s.db.GetListingByID(ctx, id)
}

// Update overwrites the listing's fields from the submission. The location
// is re-geocoded only when location or country changed; a failed geocode
// aborts the update and leaves the stored record untouched. The image is
// replaced only when a new one is attached.
func (s *ListingService) Update(ctx context.Context, id uint, input ListingInput, image *models.Image) (*models.Listing, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	existing, err := s.db.GetListingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *existing
	next.Title = input.Title
	next.Description = input.Description
	next.Price = input.Price
	next.Location = input.Location
	next.Country = input.Country

	locationChanged := existing.Location != input.Location || existing.Country != input.Country
	if locationChanged {
		coords := s.geocoder.Geocode(ctx, input.Location, input.Country)
		if coords == nil {
			return nil, validationError("Invalid location. Please enter a valid place.")
		}
		next.Geometry = models.NewPoint(coords.Lat, coords.Lng)
	}

	if image != nil {
		next.Image = *image
	}

	if err := s.db.SaveListing(ctx, &next); err != nil {
		return nil, err
	}

	s.logger.WithField("listing_id", id).Info("Listing updated")

	return &next, nil
}

// Delete removes the listing and cascade-deletes all of its reviews.
func (s *ListingService) Delete(ctx context.Context, id uint) error {
	if err := s.db.DeleteListingCascade(ctx, id); err != nil {
		return err
	}

	s.logger.WithField("listing_id", id).Info("Listing deleted")

	return nil
}
