package routes

import (
	"socialeats_server/controllers"
	"socialeats_server/services"

	"github.com/gorilla/mux"
)

// RegisterPhotoRoutes registers photo routes under `/api/photos`.
func RegisterPhotoRoutes(router *mux.Router, photoService *services.PhotoService) {
	controller := &controllers.PhotoController{PhotoService: photoService}

	photoRouter := router.PathPrefix("/api/photos").Subrouter()
	photoRouter.HandleFunc("", controller.CreatePhotoHandler).Methods("POST")
	photoRouter.HandleFunc("/tags", controller.GetPhotoTagsHandler).Methods("GET")
	photoRouter.HandleFunc("/restaurant/{restaurantId}", controller.GetPhotosForRestaurantHandler).Methods("GET")
	photoRouter.HandleFunc("/user/{userId}", controller.GetUserPhotosHandler).Methods("GET")
	photoRouter.HandleFunc("/feed/{userId}", controller.GetFriendsPhotoFeedHandler).Methods("GET")
	photoRouter.HandleFunc("/{photoId}/like", controller.LikePhotoHandler).Methods("POST")
	photoRouter.HandleFunc("/{photoId}/like", controller.UnlikePhotoHandler).Methods("DELETE")
}
