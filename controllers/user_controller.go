package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"socialeats_server/models"
	"socialeats_server/services"

	"github.com/gorilla/mux"
)

// UserController handles HTTP requests for user profiles and the dining
// selection.
type UserController struct {
	UserService *services.UserService
}

// CreateUserHandler registers a new user.
func (c *UserController) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var user models.User
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := c.UserService.CreateUser(r.Context(), user)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetUserHandler fetches a user by id.
func (c *UserController) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	user, err := c.UserService.GetUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateUserHandler updates mutable profile fields.
func (c *UserController) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	var request struct {
		DisplayName string `json:"displayName"`
		PhotoURL    string `json:"photoURL"`
		FCMToken    string `json:"fcmToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := c.UserService.UpdateUser(r.Context(), userID, request.DisplayName, request.PhotoURL, request.FCMToken)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// SearchUsersHandler looks users up by email.
func (c *UserController) SearchUsersHandler(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		http.Error(w, "email query parameter is required", http.StatusBadRequest)
		return
	}

	users, err := c.UserService.SearchUsersByEmail(r.Context(), email)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// SelectRestaurantHandler stamps a fresh "dining at" selection.
func (c *UserController) SelectRestaurantHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	var request struct {
		RestaurantID   string `json:"restaurantId"`
		RestaurantName string `json:"restaurantName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	selection, err := c.UserService.SelectRestaurant(r.Context(), userID, request.RestaurantID, request.RestaurantName, time.Now())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, selection)
}

// ClearSelectionHandler removes the user's dining selection.
func (c *UserController) ClearSelectionHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	if err := c.UserService.ClearSelection(r.Context(), userID); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Selection cleared"})
}
