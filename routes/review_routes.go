package routes

import (
	"socialeats_server/controllers"
	"socialeats_server/services"

	"github.com/gorilla/mux"
)

// RegisterReviewRoutes registers review and rating routes under
// `/api/reviews`.
func RegisterReviewRoutes(router *mux.Router, reviewService *services.ReviewService) {
	controller := &controllers.ReviewController{ReviewService: reviewService}

	reviewRouter := router.PathPrefix("/api/reviews").Subrouter()
	reviewRouter.HandleFunc("", controller.SubmitReviewHandler).Methods("POST")
	reviewRouter.HandleFunc("/restaurant/{restaurantId}", controller.GetReviewsHandler).Methods("GET")
	reviewRouter.HandleFunc("/restaurant/{restaurantId}/rating", controller.GetRestaurantRatingHandler).Methods("GET")
	reviewRouter.HandleFunc("/user/{userId}", controller.GetUserReviewsHandler).Methods("GET")
	reviewRouter.HandleFunc("/{reviewId}/rating", controller.EditReviewRatingHandler).Methods("PUT")
	reviewRouter.HandleFunc("/{reviewId}/like", controller.LikeReviewHandler).Methods("POST")
	reviewRouter.HandleFunc("/{reviewId}/like", controller.UnlikeReviewHandler).Methods("DELETE")
}
