package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"socialeats_server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlacesService(handler http.HandlerFunc) (*PlacesService, *httptest.Server) {
	server := httptest.NewServer(handler)
	svc := NewPlacesService("test-key", server.URL, time.Minute, nil)
	return svc, server
}

func TestSearchNearby(t *testing.T) {
	svc, server := newTestPlacesService(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nearbysearch/json", r.URL.Path)
		assert.Equal(t, "restaurant", r.URL.Query().Get("type"))
		assert.Equal(t, "1500", r.URL.Query().Get("radius"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		json.NewEncoder(w).Encode(models.PlacesResponse{
			Status: "OK",
			Results: []models.Place{
				{
					PlaceID:  "place-1",
					Name:     "Trattoria",
					Vicinity: "12 Main St",
					Geometry: models.PlaceGeometry{Location: models.PlaceLocation{Lat: 40.7, Lng: -74.0}},
					Rating:   4.3,
				},
			},
		})
	})
	defer server.Close()

	restaurants, err := svc.SearchNearby(context.Background(), 40.7, -74.0, 1500)
	require.NoError(t, err)

	require.Len(t, restaurants, 1)
	assert.Equal(t, "place-1", restaurants[0].ID)
	assert.Equal(t, "Trattoria", restaurants[0].Name)
	assert.Equal(t, "12 Main St", restaurants[0].Address)
}

func TestSearchNearbyZeroResults(t *testing.T) {
	svc, server := newTestPlacesService(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.PlacesResponse{Status: "ZERO_RESULTS"})
	})
	defer server.Close()

	restaurants, err := svc.SearchNearby(context.Background(), 0, 0, 500)
	require.NoError(t, err)
	assert.Empty(t, restaurants)
}

func TestSearchNearbyAPIError(t *testing.T) {
	svc, server := newTestPlacesService(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.PlacesResponse{Status: "REQUEST_DENIED"})
	})
	defer server.Close()

	_, err := svc.SearchNearby(context.Background(), 0, 0, 500)
	assert.ErrorContains(t, err, "REQUEST_DENIED")
}

func TestDetails(t *testing.T) {
	svc, server := newTestPlacesService(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/details/json", r.URL.Path)
		assert.Equal(t, "place-1", r.URL.Query().Get("place_id"))

		json.NewEncoder(w).Encode(models.PlaceDetailsResponse{
			Status: "OK",
			Result: models.Place{
				PlaceID:          "place-1",
				Name:             "Trattoria",
				FormattedAddress: "12 Main St, Springfield",
				Website:          "https://trattoria.example",
			},
		})
	})
	defer server.Close()

	restaurant, err := svc.Details(context.Background(), "place-1")
	require.NoError(t, err)

	assert.Equal(t, "Trattoria", restaurant.Name)
	assert.Equal(t, "12 Main St, Springfield", restaurant.Address)
	assert.Equal(t, "https://trattoria.example", restaurant.Website)
}

func TestDetailsNotFound(t *testing.T) {
	svc, server := newTestPlacesService(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.PlaceDetailsResponse{Status: "NOT_FOUND"})
	})
	defer server.Close()

	_, err := svc.Details(context.Background(), "nope")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDetailsRequiresPlaceID(t *testing.T) {
	svc := NewPlacesService("k", "http://unused", time.Minute, nil)

	_, err := svc.Details(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestPhotoURL(t *testing.T) {
	svc := NewPlacesService("test-key", "https://places.example", time.Minute, nil)

	url := svc.PhotoURL("ref-1", 0)
	assert.Contains(t, url, "https://places.example/photo?")
	assert.Contains(t, url, "photo_reference=ref-1")
	assert.Contains(t, url, "maxwidth=400")

	assert.Empty(t, svc.PhotoURL("", 400))
}
