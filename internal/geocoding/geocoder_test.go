package geocoding

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *Geocoder {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewGeocoder(testLogger(), WithBaseURL(server.URL), WithUserAgent("stayscout-test"))
}

func TestGeocode_Success(t *testing.T) {
	var gotQuery, gotUserAgent string
	geocoder := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotUserAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`[{"lat": "40.0", "lon": "-105.3"}]`))
	})

	coords := geocoder.Geocode(context.Background(), "Boulder", "USA")

	require.NotNil(t, coords)
	assert.Equal(t, 40.0, coords.Lat)
	assert.Equal(t, -105.3, coords.Lng)
	assert.Equal(t, "Boulder, USA", gotQuery)
	assert.Equal(t, "stayscout-test", gotUserAgent)
}

func TestGeocode_NumericCoordinates(t *testing.T) {
	geocoder := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat": 52.37, "lon": 4.89}]`))
	})

	coords := geocoder.Geocode(context.Background(), "Amsterdam", "Netherlands")

	require.NotNil(t, coords)
	assert.Equal(t, 52.37, coords.Lat)
	assert.Equal(t, 4.89, coords.Lng)
}

func TestGeocode_RequestsSingleCandidate(t *testing.T) {
	var gotLimit, gotFormat string
	geocoder := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		gotFormat = r.URL.Query().Get("format")
		w.Write([]byte(`[{"lat": "1", "lon": "2"}]`))
	})

	geocoder.Geocode(context.Background(), "Anywhere", "Nowhere")

	assert.Equal(t, "1", gotLimit)
	assert.Equal(t, "json", gotFormat)
}

func TestGeocode_FailuresCollapseToNil(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "empty result set",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[]`))
			},
		},
		{
			name: "malformed response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{not json`))
			},
		},
		{
			name: "unparseable coordinates",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[{"lat": "north", "lon": "west"}]`))
			},
		},
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geocoder := newTestGeocoder(t, tt.handler)
			assert.Nil(t, geocoder.Geocode(context.Background(), "Somewhere", "Someland"))
		})
	}
}

func TestGeocode_NetworkFailureReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // unreachable on purpose

	geocoder := NewGeocoder(testLogger(), WithBaseURL(server.URL))
	assert.Nil(t, geocoder.Geocode(context.Background(), "Somewhere", "Someland"))
}

func TestGeocode_TimeoutReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[{"lat": "1", "lon": "2"}]`))
	}))
	t.Cleanup(server.Close)

	geocoder := NewGeocoder(testLogger(),
		WithBaseURL(server.URL),
		WithTimeout(20*time.Millisecond),
	)

	assert.Nil(t, geocoder.Geocode(context.Background(), "Somewhere", "Someland"))
}
