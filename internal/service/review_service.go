package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"stayscout/internal/database"
	"stayscout/internal/models"
)

// ReviewInput is a validated review submission.
type ReviewInput struct {
	Comment string `form:"comment" json:"comment"`
	Rating  int    `form:"rating" json:"rating"`
}

// ReviewService orchestrates the review lifecycle for a listing.
type ReviewService struct {
	db     *database.Database
	logger *logrus.Logger
}

func NewReviewService(db *database.Database, logger *logrus.Logger) *ReviewService {
	return &ReviewService{
		db:     db,
		logger: logger,
	}
}

// Create attaches a new review to the identified listing.
func (s *ReviewService) Create(ctx context.Context, listingID uint, input ReviewInput, authorID uint) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, validationError("Rating must be between 1 and 5")
	}
	if strings.TrimSpace(input.Comment) == "" {
		return nil, validationError("Comment is required")
	}

	review := &models.Review{
		Comment:  input.Comment,
		Rating:   input.Rating,
		AuthorID: authorID,
	}

	if err := s.db.CreateReview(ctx, listingID, review); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"review_id":  review.ID,
		"listing_id": listingID,
	}).Info("Review created")

	return review, nil
}

// Get fetches a single review by identifier.
func (s *ReviewService) Get(ctx context.Context, id uint) (*models.Review, error) {
	return s.db.GetReviewByID(ctx, id)
}

// Delete removes the review from its listing.
func (s *ReviewService) Delete(ctx context.Context, listingID, reviewID uint) error {
	if err := s.db.DeleteReview(ctx, listingID, reviewID); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"review_id":  reviewID,
		"listing_id": listingID,
	}).Info("Review deleted")

	return nil
}
