package controllers

import (
	"encoding/json"
	"net/http"

	"socialeats_server/models"
	"socialeats_server/services"

	"github.com/gorilla/mux"
)

// ReviewController handles HTTP requests for reviews and restaurant
// ratings.
type ReviewController struct {
	ReviewService *services.ReviewService
}

// SubmitReviewHandler creates a review and updates the rating aggregate.
func (c *ReviewController) SubmitReviewHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		RestaurantID      string   `json:"restaurantId"`
		RestaurantName    string   `json:"restaurantName"`
		RestaurantAddress string   `json:"restaurantAddress"`
		UserID            string   `json:"userId"`
		Rating            float64  `json:"rating"`
		ReviewText        string   `json:"reviewText"`
		Photos            []string `json:"photos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	review, err := c.ReviewService.SubmitReview(r.Context(), services.SubmitReviewParams{
		Restaurant: models.RestaurantDisplay{
			RestaurantID:      request.RestaurantID,
			RestaurantName:    request.RestaurantName,
			RestaurantAddress: request.RestaurantAddress,
		},
		UserID:     request.UserID,
		Rating:     request.Rating,
		ReviewText: request.ReviewText,
		Photos:     request.Photos,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// EditReviewRatingHandler revises the rating on an existing review.
func (c *ReviewController) EditReviewRatingHandler(w http.ResponseWriter, r *http.Request) {
	reviewID := mux.Vars(r)["reviewId"]
	var request struct {
		UserID string  `json:"userId"`
		Rating float64 `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	review, err := c.ReviewService.EditReviewRating(r.Context(), reviewID, request.UserID, request.Rating)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

// GetReviewsHandler lists a restaurant's reviews.
func (c *ReviewController) GetReviewsHandler(w http.ResponseWriter, r *http.Request) {
	restaurantID := mux.Vars(r)["restaurantId"]
	reviews, err := c.ReviewService.GetReviews(r.Context(), restaurantID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// GetUserReviewsHandler lists a user's reviews.
func (c *ReviewController) GetUserReviewsHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	reviews, err := c.ReviewService.GetUserReviews(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

// GetRestaurantRatingHandler returns the rating aggregate. A restaurant
// with no reviews yet reports the zero aggregate.
func (c *ReviewController) GetRestaurantRatingHandler(w http.ResponseWriter, r *http.Request) {
	restaurantID := mux.Vars(r)["restaurantId"]
	aggregate, err := c.ReviewService.GetRestaurantRating(r.Context(), restaurantID)
	if err != nil {
		respondError(w, err)
		return
	}
	if aggregate == nil {
		zero := models.NewRatingAggregate(restaurantID)
		aggregate = &zero
	}
	writeJSON(w, http.StatusOK, aggregate)
}

// LikeReviewHandler records a like on a review.
func (c *ReviewController) LikeReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, userID, ok := likeRequest(w, r, "reviewId")
	if !ok {
		return
	}
	if err := c.ReviewService.LikeReview(r.Context(), reviewID, userID); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Review liked"})
}

// UnlikeReviewHandler removes a like from a review.
func (c *ReviewController) UnlikeReviewHandler(w http.ResponseWriter, r *http.Request) {
	reviewID, userID, ok := likeRequest(w, r, "reviewId")
	if !ok {
		return
	}
	if err := c.ReviewService.UnlikeReview(r.Context(), reviewID, userID); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Review unliked"})
}

// likeRequest extracts the path id and the liking user from a like or
// unlike request body.
func likeRequest(w http.ResponseWriter, r *http.Request, pathVar string) (string, string, bool) {
	id := mux.Vars(r)[pathVar]
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.UserID == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return "", "", false
	}
	return id, request.UserID, true
}
