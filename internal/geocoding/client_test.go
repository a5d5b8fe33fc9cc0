package geocoding

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"assistance-service/internal/apperrors"
	"assistance-service/internal/config"
)

func newTestGeocoder(baseURL string) *HTTPGeocoder {
	return NewHTTPGeocoder(config.GeocoderConfig{BaseURL: baseURL, TimeoutSeconds: 5})
}

func TestGeocode_ParsesFirstResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Paris", r.URL.Query().Get("q"))
		w.Write([]byte(`[{"lat":"48.85","lon":"2.35"},{"lat":"0","lon":"0"}]`))
	}))
	defer server.Close()

	lat, lng, err := newTestGeocoder(server.URL).Geocode(context.Background(), "Paris")

	assert.NoError(t, err)
	assert.InDelta(t, 48.85, lat, 1e-9)
	assert.InDelta(t, 2.35, lng, 1e-9)
}

func TestGeocode_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, _, err := newTestGeocoder(server.URL).Geocode(context.Background(), "nowhere at all")

	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestGeocode_DeadlineClassifiesAsTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, err := newTestGeocoder(server.URL).Geocode(ctx, "Paris")

	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindTimeout))
}

func TestGeocode_ConnectionFailureIsNotATimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, _, err := newTestGeocoder(server.URL).Geocode(context.Background(), "Paris")

	assert.Error(t, err)
	assert.False(t, apperrors.Is(err, apperrors.KindTimeout))
}
