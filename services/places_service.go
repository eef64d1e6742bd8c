package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"socialeats_server/models"

	"github.com/redis/go-redis/v9"
)

// PlacesService wraps the Google Places API for restaurant discovery.
// Nearby search results are cached in Redis for a short TTL; the cache
// is optional and a nil client disables it.
type PlacesService struct {
	HTTPClient *http.Client
	Cache      *redis.Client
	APIKey     string
	BaseURL    string
	CacheTTL   time.Duration
}

// NewPlacesService builds a Places client. cache may be nil.
func NewPlacesService(apiKey, baseURL string, cacheTTL time.Duration, cache *redis.Client) *PlacesService {
	return &PlacesService{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Cache:      cache,
		APIKey:     apiKey,
		BaseURL:    baseURL,
		CacheTTL:   cacheTTL,
	}
}

// SearchNearby finds restaurants around a coordinate within radius
// meters.
func (s *PlacesService) SearchNearby(ctx context.Context, lat, lng float64, radius int) ([]models.Restaurant, error) {
	cacheKey := fmt.Sprintf("places:nearby:%.4f:%.4f:%d", lat, lng, radius)
	if cached := s.readCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	query := url.Values{}
	query.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	query.Set("radius", strconv.Itoa(radius))
	query.Set("type", "restaurant")
	query.Set("key", s.APIKey)

	var response models.PlacesResponse
	if err := s.call(ctx, "/nearbysearch/json", query, &response); err != nil {
		return nil, err
	}
	switch response.Status {
	case "OK":
	case "ZERO_RESULTS":
		return []models.Restaurant{}, nil
	default:
		return nil, fmt.Errorf("places nearby search failed with status %s", response.Status)
	}

	restaurants := make([]models.Restaurant, 0, len(response.Results))
	for _, place := range response.Results {
		restaurants = append(restaurants, place.ToRestaurant())
	}

	s.writeCache(ctx, cacheKey, restaurants)
	return restaurants, nil
}

// Details fetches one restaurant by its Places id.
func (s *PlacesService) Details(ctx context.Context, placeID string) (models.Restaurant, error) {
	if placeID == "" {
		return models.Restaurant{}, fmt.Errorf("%w: placeId is required", models.ErrValidation)
	}

	query := url.Values{}
	query.Set("place_id", placeID)
	query.Set("fields", "place_id,name,formatted_address,geometry,rating,price_level,photos,types,opening_hours,formatted_phone_number,website")
	query.Set("key", s.APIKey)

	var response models.PlaceDetailsResponse
	if err := s.call(ctx, "/details/json", query, &response); err != nil {
		return models.Restaurant{}, err
	}
	switch response.Status {
	case "OK":
		return response.Result.ToRestaurant(), nil
	case "NOT_FOUND", "ZERO_RESULTS":
		return models.Restaurant{}, models.ErrNotFound
	default:
		return models.Restaurant{}, fmt.Errorf("places details failed with status %s", response.Status)
	}
}

// PhotoURL builds the redirect URL for a Places photo reference.
func (s *PlacesService) PhotoURL(photoReference string, maxWidth int) string {
	if photoReference == "" {
		return ""
	}
	if maxWidth <= 0 {
		maxWidth = 400
	}
	query := url.Values{}
	query.Set("photo_reference", photoReference)
	query.Set("maxwidth", strconv.Itoa(maxWidth))
	query.Set("key", s.APIKey)
	return s.BaseURL + "/photo?" + query.Encode()
}

func (s *PlacesService) call(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build places request: %w", err)
	}

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("places API returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode places response: %w", err)
	}
	return nil
}

func (s *PlacesService) readCache(ctx context.Context, key string) []models.Restaurant {
	if s.Cache == nil {
		return nil
	}
	raw, err := s.Cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("places cache read failed", "key", key, "error", err)
		}
		return nil
	}
	var restaurants []models.Restaurant
	if err := json.Unmarshal(raw, &restaurants); err != nil {
		return nil
	}
	return restaurants
}

func (s *PlacesService) writeCache(ctx context.Context, key string, restaurants []models.Restaurant) {
	if s.Cache == nil {
		return
	}
	raw, err := json.Marshal(restaurants)
	if err != nil {
		return
	}
	if err := s.Cache.Set(ctx, key, raw, s.CacheTTL).Err(); err != nil {
		slog.Warn("places cache write failed", "key", key, "error", err)
	}
}
