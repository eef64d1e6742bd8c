package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"socialeats_server/models"
	"socialeats_server/services"

	"github.com/gorilla/mux"
)

// PhotoController handles HTTP requests for shared restaurant photos.
type PhotoController struct {
	PhotoService *services.PhotoService
}

// CreatePhotoHandler stores a photo document after the client uploaded
// the bytes through a presigned URL.
func (c *PhotoController) CreatePhotoHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		RestaurantID      string   `json:"restaurantId"`
		RestaurantName    string   `json:"restaurantName"`
		RestaurantAddress string   `json:"restaurantAddress"`
		UserID            string   `json:"userId"`
		PhotoURL          string   `json:"photoURL"`
		Caption           string   `json:"caption"`
		Tags              []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	photo, err := c.PhotoService.CreatePhoto(r.Context(), services.CreatePhotoParams{
		Restaurant: models.RestaurantDisplay{
			RestaurantID:      request.RestaurantID,
			RestaurantName:    request.RestaurantName,
			RestaurantAddress: request.RestaurantAddress,
		},
		UserID:   request.UserID,
		PhotoURL: request.PhotoURL,
		Caption:  request.Caption,
		Tags:     request.Tags,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, photo)
}

// GetPhotosForRestaurantHandler lists a restaurant's photos.
func (c *PhotoController) GetPhotosForRestaurantHandler(w http.ResponseWriter, r *http.Request) {
	restaurantID := mux.Vars(r)["restaurantId"]
	photos, err := c.PhotoService.GetPhotosForRestaurant(r.Context(), restaurantID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

// GetUserPhotosHandler lists a user's photos.
func (c *PhotoController) GetUserPhotosHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	photos, err := c.PhotoService.GetUserPhotos(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

// GetFriendsPhotoFeedHandler merges friends' recent photos into a feed.
func (c *PhotoController) GetFriendsPhotoFeedHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	feed, err := c.PhotoService.GetFriendsPhotoFeed(r.Context(), userID, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

// GetPhotoTagsHandler returns the predefined tag set.
func (c *PhotoController) GetPhotoTagsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.PhotoService.PhotoTags())
}

// LikePhotoHandler records a like on a photo.
func (c *PhotoController) LikePhotoHandler(w http.ResponseWriter, r *http.Request) {
	photoID, userID, ok := likeRequest(w, r, "photoId")
	if !ok {
		return
	}
	if err := c.PhotoService.LikePhoto(r.Context(), photoID, userID); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Photo liked"})
}

// UnlikePhotoHandler removes a like from a photo.
func (c *PhotoController) UnlikePhotoHandler(w http.ResponseWriter, r *http.Request) {
	photoID, userID, ok := likeRequest(w, r, "photoId")
	if !ok {
		return
	}
	if err := c.PhotoService.UnlikePhoto(r.Context(), photoID, userID); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Photo unliked"})
}
