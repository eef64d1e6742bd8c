package routes

import (
	"socialeats_server/controllers"
	"socialeats_server/services"

	"github.com/gorilla/mux"
)

// RegisterGroupDiningRoutes registers group event and invitation routes
// under `/api/group-dinings`.
func RegisterGroupDiningRoutes(router *mux.Router, groupDiningService *services.GroupDiningService) {
	controller := &controllers.GroupDiningController{GroupDiningService: groupDiningService}

	groupRouter := router.PathPrefix("/api/group-dinings").Subrouter()
	groupRouter.HandleFunc("", controller.CreateGroupDiningHandler).Methods("POST")
	groupRouter.HandleFunc("/upcoming", controller.GetUpcomingGroupDiningsHandler).Methods("GET")
	groupRouter.HandleFunc("/user/{userId}", controller.GetGroupDiningsForUserHandler).Methods("GET")
	groupRouter.HandleFunc("/restaurant/{restaurantId}", controller.GetGroupDiningsForRestaurantHandler).Methods("GET")
	groupRouter.HandleFunc("/invitations/{userId}", controller.GetInvitationsHandler).Methods("GET")
	groupRouter.HandleFunc("/invitations/{invitationId}/respond", controller.RespondToInvitationHandler).Methods("PUT")
	groupRouter.HandleFunc("/{eventId}", controller.GetGroupDiningHandler).Methods("GET")
	groupRouter.HandleFunc("/{eventId}/join", controller.JoinGroupDiningHandler).Methods("POST")
	groupRouter.HandleFunc("/{eventId}/leave", controller.LeaveGroupDiningHandler).Methods("POST")
	groupRouter.HandleFunc("/{eventId}/cancel", controller.CancelGroupDiningHandler).Methods("POST")
	groupRouter.HandleFunc("/{eventId}/complete", controller.CompleteGroupDiningHandler).Methods("POST")
	groupRouter.HandleFunc("/{eventId}/invite", controller.InviteToGroupDiningHandler).Methods("POST")
}
