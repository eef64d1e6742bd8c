package controllers

import (
	"net/http"
	"strconv"

	"socialeats_server/services"

	"github.com/gorilla/mux"
)

// RestaurantController handles HTTP requests for restaurant discovery
// through the Places API.
type RestaurantController struct {
	PlacesService *services.PlacesService
	DefaultRadius int
}

// SearchNearbyHandler finds restaurants around a coordinate.
func (c *RestaurantController) SearchNearbyHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	lat, latErr := strconv.ParseFloat(query.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(query.Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		http.Error(w, "lat and lng query parameters are required", http.StatusBadRequest)
		return
	}

	radius := c.DefaultRadius
	if raw := query.Get("radius"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "radius must be a positive integer", http.StatusBadRequest)
			return
		}
		radius = parsed
	}

	restaurants, err := c.PlacesService.SearchNearby(r.Context(), lat, lng, radius)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

// GetRestaurantHandler fetches one restaurant by its Places id.
func (c *RestaurantController) GetRestaurantHandler(w http.ResponseWriter, r *http.Request) {
	placeID := mux.Vars(r)["placeId"]
	restaurant, err := c.PlacesService.Details(r.Context(), placeID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}

// GetPhotoURLHandler redirects to the Places photo for a reference.
func (c *RestaurantController) GetPhotoURLHandler(w http.ResponseWriter, r *http.Request) {
	reference := r.URL.Query().Get("reference")
	if reference == "" {
		http.Error(w, "reference query parameter is required", http.StatusBadRequest)
		return
	}
	maxWidth, _ := strconv.Atoi(r.URL.Query().Get("maxwidth"))

	writeJSON(w, http.StatusOK, map[string]string{"url": c.PlacesService.PhotoURL(reference, maxWidth)})
}
