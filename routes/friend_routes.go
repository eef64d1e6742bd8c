package routes

import (
	"socialeats_server/controllers"
	"socialeats_server/services"

	"github.com/gorilla/mux"
)

// RegisterFriendRoutes registers friend graph and friend request routes
// under `/api/friends`.
func RegisterFriendRoutes(router *mux.Router, userService *services.UserService) {
	controller := &controllers.FriendController{UserService: userService}

	friendRouter := router.PathPrefix("/api/friends").Subrouter()
	friendRouter.HandleFunc("/requests", controller.SendFriendRequestHandler).Methods("POST")
	friendRouter.HandleFunc("/requests/pending/{userId}", controller.GetPendingFriendRequestsHandler).Methods("GET")
	friendRouter.HandleFunc("/requests/{requestId}/respond", controller.RespondToFriendRequestHandler).Methods("PUT")
	friendRouter.HandleFunc("/{userId}", controller.GetFriendsHandler).Methods("GET")
	friendRouter.HandleFunc("/{userId}/at/{restaurantId}", controller.GetFriendsAtRestaurantHandler).Methods("GET")
	friendRouter.HandleFunc("/{userId}/{friendId}", controller.RemoveFriendHandler).Methods("DELETE")
}
