package backfill

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"stayscout/internal/database"
	"stayscout/internal/geocoding"
	"stayscout/internal/models"
)

// Job geocodes listings that were stored without coordinates. It runs
// serialized on purpose: one geocoding call in flight at a time, with a
// fixed minimum delay between calls to honor the lookup service's rate
// policy. Each successful geocode is persisted immediately so partial
// progress survives an interruption.
type Job struct {
	db       *database.Database
	geocoder geocoding.Service
	logger   *logrus.Logger
	delay    time.Duration
}

// Result reports what the job did.
type Result struct {
	Scanned int
	Updated int
	Skipped int
}

func NewJob(db *database.Database, geocoder geocoding.Service, logger *logrus.Logger, delay time.Duration) *Job {
	return &Job{
		db:       db,
		geocoder: geocoder,
		logger:   logger,
		delay:    delay,
	}
}

// Run scans for listings lacking geometry and geocodes them one by one.
// A listing that cannot be geocoded is logged and skipped; only scan or
// persistence failures abort the job.
func (j *Job) Run(ctx context.Context) (Result, error) {
	var result Result

	listings, err := j.db.ListingsMissingGeometry(ctx)
	if err != nil {
		return result, err
	}
	result.Scanned = len(listings)

	if len(listings) == 0 {
		j.logger.Info("No listings need geocoding")
		return result, nil
	}

	j.logger.WithField("count", len(listings)).Info("Found listings that need geocoding")

	for i, listing := range listings {
		if i > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(j.delay):
			}
		}

		coords := j.geocoder.Geocode(ctx, listing.Location, listing.Country)
		if coords == nil {
			j.logger.WithFields(logrus.Fields{
				"listing_id": listing.ID,
				"location":   listing.Location,
				"country":    listing.Country,
			}).Warn("Skipping listing that could not be geocoded")
			result.Skipped++
			continue
		}

		if err := j.db.SaveListingGeometry(ctx, listing.ID, models.NewPoint(coords.Lat, coords.Lng)); err != nil {
			return result, err
		}
		result.Updated++

		j.logger.WithFields(logrus.Fields{
			"listing_id": listing.ID,
			"progress":   i + 1,
			"total":      len(listings),
		}).Info("Updated listing coordinates")
	}

	j.logger.WithFields(logrus.Fields{
		"scanned": result.Scanned,
		"updated": result.Updated,
		"skipped": result.Skipped,
	}).Info("Geocoding backfill completed")

	return result, nil
}
