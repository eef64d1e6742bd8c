package routes

import (
	"socialeats_server/controllers"
	"socialeats_server/services"

	"github.com/gorilla/mux"
)

// RegisterRestaurantRoutes registers discovery routes under
// `/api/restaurants`.
func RegisterRestaurantRoutes(router *mux.Router, placesService *services.PlacesService, defaultRadius int) {
	controller := &controllers.RestaurantController{PlacesService: placesService, DefaultRadius: defaultRadius}

	restaurantRouter := router.PathPrefix("/api/restaurants").Subrouter()
	restaurantRouter.HandleFunc("/nearby", controller.SearchNearbyHandler).Methods("GET")
	restaurantRouter.HandleFunc("/photo", controller.GetPhotoURLHandler).Methods("GET")
	restaurantRouter.HandleFunc("/{placeId}", controller.GetRestaurantHandler).Methods("GET")
}
