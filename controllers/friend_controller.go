package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"socialeats_server/services"

	"github.com/gorilla/mux"
)

// FriendController handles HTTP requests for the friend graph and friend
// requests.
type FriendController struct {
	UserService *services.UserService
}

// GetFriendsHandler lists the user's friends with their active
// selections.
func (c *FriendController) GetFriendsHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	friends, err := c.UserService.GetFriends(r.Context(), userID, time.Now())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, friends)
}

// GetFriendsAtRestaurantHandler lists the user's friends currently dining
// at the restaurant.
func (c *FriendController) GetFriendsAtRestaurantHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	friends, err := c.UserService.GetFriendsAtRestaurant(r.Context(), vars["userId"], vars["restaurantId"], time.Now())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, friends)
}

// RemoveFriendHandler removes both sides of a friendship.
func (c *FriendController) RemoveFriendHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := c.UserService.RemoveFriend(r.Context(), vars["userId"], vars["friendId"]); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Friend removed"})
}

// SendFriendRequestHandler creates a pending friend request.
func (c *FriendController) SendFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		FromUserID string `json:"fromUserId"`
		ToUserID   string `json:"toUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	created, err := c.UserService.SendFriendRequest(r.Context(), request.FromUserID, request.ToUserID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetPendingFriendRequestsHandler lists pending requests addressed to the
// user.
func (c *FriendController) GetPendingFriendRequestsHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	requests, err := c.UserService.GetPendingFriendRequests(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// RespondToFriendRequestHandler accepts or declines a pending request.
func (c *FriendController) RespondToFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	requestID := mux.Vars(r)["requestId"]
	var request struct {
		UserID string `json:"userId"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := c.UserService.RespondToFriendRequest(r.Context(), requestID, request.UserID, request.Status); err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Friend request " + request.Status})
}
