package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Coordinates is a successful geocoding result.
type Coordinates struct {
	Lat float64
	Lng float64
}

// Service converts a free-text location and country into coordinates.
// A nil result means the place could not be geocoded; callers must not
// distinguish between transient and permanent failures.
type Service interface {
	Geocode(ctx context.Context, location, country string) *Coordinates
}

type Geocoder struct {
	logger    *logrus.Logger
	client    *http.Client
	baseURL   string
	userAgent string
}

type Option func(*Geocoder)

func WithBaseURL(baseURL string) Option {
	return func(g *Geocoder) { g.baseURL = baseURL }
}

func WithTimeout(timeout time.Duration) Option {
	return func(g *Geocoder) { g.client.Timeout = timeout }
}

func WithUserAgent(userAgent string) Option {
	return func(g *Geocoder) { g.userAgent = userAgent }
}

func NewGeocoder(logger *logrus.Logger, opts ...Option) *Geocoder {
	g := &Geocoder{
		logger:    logger,
		client:    &http.Client{Timeout: 15 * time.Second},
		baseURL:   "https://nominatim.openstreetmap.org/search",
		userAgent: "StayScout/1.0",
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// flexFloat tolerates the lookup service returning coordinates either as
// JSON numbers or as quoted strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

type searchResponse []struct {
	Lat flexFloat `json:"lat"`
	Lon flexFloat `json:"lon"`
}

// Geocode looks up "location, country" and returns the best candidate's
// coordinates. Every failure mode collapses to nil: empty result set,
// malformed response, network failure or timeout.
func (g *Geocoder) Geocode(ctx context.Context, location, country string) *Coordinates {
	query := fmt.Sprintf("%s, %s", location, country)

	params := url.Values{
		"q":      []string{query},
		"format": []string{"json"},
		"limit":  []string{"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL, nil)
	if err != nil {
		g.logger.WithError(err).WithField("query", query).Error("Failed to create geocoding request")
		return nil
	}
	req.URL.RawQuery = params.Encode()
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.WithError(err).WithField("query", query).Error("Geocoding request failed")
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		g.logger.WithError(err).WithField("query", query).Error("Failed to read geocoding response")
		return nil
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		g.logger.WithError(err).WithField("query", query).Error("Failed to parse geocoding response")
		return nil
	}

	if len(result) == 0 {
		g.logger.WithField("query", query).Warn("No geocoding results found")
		return nil
	}

	coords := &Coordinates{
		Lat: float64(result[0].Lat),
		Lng: float64(result[0].Lon),
	}

	g.logger.WithFields(logrus.Fields{
		"query":     query,
		"latitude":  coords.Lat,
		"longitude": coords.Lng,
	}).Info("Successfully geocoded location")

	return coords
}
