package rating

import (
	"math"

	"stayscout/internal/models"
)

// Summary is the derived rating breakdown for a listing.
type Summary struct {
	// Counts maps each star value 1..5 to its occurrence count. All five
	// keys are always present.
	Counts map[int]int `json:"counts"`

	Total int `json:"total"`

	// Average is the mean rating rounded to one decimal place, 0 when
	// there are no reviews.
	Average float64 `json:"average"`
}

// Summarize computes the rating breakdown for a review set. It is
// deterministic for a given set regardless of order.
func Summarize(reviews []models.Review) Summary {
	counts := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}

	sum := 0
	for _, review := range reviews {
		counts[review.Rating]++
		sum += review.Rating
	}

	average := 0.0
	if len(reviews) > 0 {
		average = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	}

	return Summary{
		Counts:  counts,
		Total:   len(reviews),
		Average: average,
	}
}
