package service

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"stayscout/internal/database"
	"stayscout/internal/geocoding"
	"stayscout/internal/models"
)

// fakeGeocoder is a call-counting geocoder stand-in.
type fakeGeocoder struct {
	coords *geocoding.Coordinates
	calls  int
}

func (f *fakeGeocoder) Geocode(ctx context.Context, location, country string) *geocoding.Coordinates {
	f.calls++
	return f.coords
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestDatabase(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *database.Database, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "irrelevant",
	}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func createTestListing(t *testing.T, db *database.Database, ownerID uint) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		Title:    "Seaside Cottage",
		Price:    120,
		Location: "Brighton",
		Country:  "UK",
		Image:    models.Image{URL: DefaultImageURL},
		Geometry: models.NewPoint(50.82, -0.14),
		OwnerID:  ownerID,
	}
	require.NoError(t, db.CreateListing(context.Background(), listing))
	return listing
}
