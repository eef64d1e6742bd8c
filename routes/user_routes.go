package routes

import (
	"socialeats_server/controllers"
	"socialeats_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserRoutes registers user and selection routes under `/api/users`.
func RegisterUserRoutes(router *mux.Router, userService *services.UserService) {
	controller := &controllers.UserController{UserService: userService}

	userRouter := router.PathPrefix("/api/users").Subrouter()
	userRouter.HandleFunc("", controller.CreateUserHandler).Methods("POST")
	userRouter.HandleFunc("/search", controller.SearchUsersHandler).Methods("GET")
	userRouter.HandleFunc("/{userId}", controller.GetUserHandler).Methods("GET")
	userRouter.HandleFunc("/{userId}", controller.UpdateUserHandler).Methods("PUT")
	userRouter.HandleFunc("/{userId}/selection", controller.SelectRestaurantHandler).Methods("PUT")
	userRouter.HandleFunc("/{userId}/selection", controller.ClearSelectionHandler).Methods("DELETE")
}
