package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayscout/internal/auth"
	"stayscout/internal/database"
	"stayscout/internal/geocoding"
	"stayscout/internal/models"
	"stayscout/internal/service"
	"stayscout/internal/uploads"
)

type fakeGeocoder struct {
	coords *geocoding.Coordinates
	calls  int
}

func (f *fakeGeocoder) Geocode(ctx context.Context, location, country string) *geocoding.Coordinates {
	f.calls++
	return f.coords
}

type testApp struct {
	router  *gin.Engine
	db      *database.Database
	manager *auth.Manager
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	uploadStore, err := uploads.NewStore(t.TempDir())
	require.NoError(t, err)

	manager := auth.NewManager("test-secret-test-secret-test-secret", time.Hour)
	geocoder := &fakeGeocoder{coords: &geocoding.Coordinates{Lat: 1, Lng: 2}}

	handler := NewHandler(
		service.NewListingService(db, geocoder, logger),
		service.NewReviewService(db, logger),
		auth.NewService(db, manager, logger),
		manager,
		uploadStore,
		logger,
	)

	router := gin.New()
	SetupRoutes(router, handler)

	return &testApp{router: router, db: db, manager: manager}
}

func (app *testApp) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", PasswordHash: "irrelevant"}
	require.NoError(t, app.db.CreateUser(context.Background(), user))
	return user
}

func (app *testApp) createListing(t *testing.T, ownerID uint) *models.Listing {
	t.Helper()
	listing := &models.Listing{
		Title:    "Cabin",
		Location: "Boulder",
		Country:  "USA",
		Geometry: models.NewPoint(40.0, -105.3),
		OwnerID:  ownerID,
	}
	require.NoError(t, app.db.CreateListing(context.Background(), listing))
	return listing
}

func (app *testApp) createReview(t *testing.T, listingID, authorID uint) *models.Review {
	t.Helper()
	review := &models.Review{Comment: "Nice", Rating: 4, AuthorID: authorID}
	require.NoError(t, app.db.CreateReview(context.Background(), listingID, review))
	return review
}

func (app *testApp) do(t *testing.T, method, path string, asUser *models.User) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if asUser != nil {
		token, err := app.manager.GenerateToken(asUser.ID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	app.router.ServeHTTP(recorder, req)
	return recorder
}

func errorMessage(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	message, _ := body["error"].(string)
	return message
}

func TestListingMutation_RequiresAuthentication(t *testing.T) {
	app := newTestApp(t)
	owner := app.createUser(t, "alice")
	listing := app.createListing(t, owner.ID)

	recorder := app.do(t, http.MethodDelete, fmt.Sprintf("/api/listings/%d", listing.ID), nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	// still there
	_, err := app.db.GetListingByID(context.Background(), listing.ID)
	assert.NoError(t, err)
}

func TestOwnershipGate_PermitsOwner(t *testing.T) {
	app := newTestApp(t)
	owner := app.createUser(t, "alice")
	listing := app.createListing(t, owner.ID)

	recorder := app.do(t, http.MethodDelete, fmt.Sprintf("/api/listings/%d", listing.ID), owner)
	assert.Equal(t, http.StatusOK, recorder.Code)

	_, err := app.db.GetListingByID(context.Background(), listing.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestOwnershipGate_DeniesNonOwner(t *testing.T) {
	app := newTestApp(t)
	owner := app.createUser(t, "alice")
	intruder := app.createUser(t, "mallory")
	listing := app.createListing(t, owner.ID)

	recorder := app.do(t, http.MethodDelete, fmt.Sprintf("/api/listings/%d", listing.ID), intruder)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "You are not the owner!", errorMessage(t, recorder))

	// no state change
	_, err := app.db.GetListingByID(context.Background(), listing.ID)
	assert.NoError(t, err)
}

func TestOwnershipGate_MissingListingShortCircuits(t *testing.T) {
	app := newTestApp(t)
	user := app.createUser(t, "alice")

	recorder := app.do(t, http.MethodDelete, "/api/listings/4242", user)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestAuthorshipGate_PermitsAuthor(t *testing.T) {
	app := newTestApp(t)
	owner := app.createUser(t, "alice")
	author := app.createUser(t, "bob")
	listing := app.createListing(t, owner.ID)
	review := app.createReview(t, listing.ID, author.ID)

	recorder := app.do(t, http.MethodDelete,
		fmt.Sprintf("/api/listings/%d/reviews/%d", listing.ID, review.ID), author)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestAuthorshipGate_DeniesNonAuthor(t *testing.T) {
	app := newTestApp(t)
	owner := app.createUser(t, "alice")
	author := app.createUser(t, "bob")
	listing := app.createListing(t, owner.ID)
	review := app.createReview(t, listing.ID, author.ID)

	// even the listing owner cannot delete someone else's review
	recorder := app.do(t, http.MethodDelete,
		fmt.Sprintf("/api/listings/%d/reviews/%d", listing.ID, review.ID), owner)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "You are not the author!", errorMessage(t, recorder))
}

func TestAuthorshipGate_MissingReviewShortCircuits(t *testing.T) {
	app := newTestApp(t)
	owner := app.createUser(t, "alice")
	listing := app.createListing(t, owner.ID)

	recorder := app.do(t, http.MethodDelete,
		fmt.Sprintf("/api/listings/%d/reviews/4242", listing.ID), owner)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestSearch_BlankQueryRejected(t *testing.T) {
	app := newTestApp(t)

	recorder := app.do(t, http.MethodGet, "/api/listings/search?q=%20%20", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.NotEmpty(t, errorMessage(t, recorder))
}

func TestShowListing_NotFound(t *testing.T) {
	app := newTestApp(t)

	recorder := app.do(t, http.MethodGet, "/api/listings/4242", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "Listing you requested for does not exist", errorMessage(t, recorder))
}

func TestShowListing_IncludesRatingSummary(t *testing.T) {
	app := newTestApp(t)
	owner := app.createUser(t, "alice")
	author := app.createUser(t, "bob")
	listing := app.createListing(t, owner.ID)
	app.createReview(t, listing.ID, author.ID)

	recorder := app.do(t, http.MethodGet, fmt.Sprintf("/api/listings/%d", listing.ID), nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Rating struct {
			Counts  map[string]int `json:"counts"`
			Total   int            `json:"total"`
			Average float64        `json:"average"`
		} `json:"rating"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Rating.Total)
	assert.Equal(t, 4.0, body.Rating.Average)
	assert.Len(t, body.Rating.Counts, 5)
}
