package controllers

import (
	"encoding/json"
	"net/http"

	"socialeats_server/services"
)

// S3Controller handles presigned URL generation for photo uploads.
type S3Controller struct {
	S3Service *services.S3Service
}

// GenerateUploadURLHandler returns a presigned PUT URL for a new photo.
func (c *S3Controller) GenerateUploadURLHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		RestaurantID string `json:"restaurantId"`
		FileName     string `json:"fileName"`
		FileType     string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	url, key, err := c.S3Service.GenerateUploadURL(r.Context(), payload.RestaurantID, payload.FileName, payload.FileType)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url, "key": key})
}

// GenerateReadURLHandler returns a presigned GET URL for a stored photo.
func (c *S3Controller) GenerateReadURLHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Key string `json:"key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Key == "" {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	url, err := c.S3Service.GenerateReadURL(r.Context(), payload.Key)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
