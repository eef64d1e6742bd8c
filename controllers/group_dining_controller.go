package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"socialeats_server/models"
	"socialeats_server/services"

	"github.com/gorilla/mux"
)

// GroupDiningController handles HTTP requests for group dining events
// and invitations.
type GroupDiningController struct {
	GroupDiningService *services.GroupDiningService
}

// CreateGroupDiningHandler creates a new event.
func (c *GroupDiningController) CreateGroupDiningHandler(w http.ResponseWriter, r *http.Request) {
	var request struct {
		RestaurantID      string    `json:"restaurantId"`
		RestaurantName    string    `json:"restaurantName"`
		RestaurantAddress string    `json:"restaurantAddress"`
		OrganizerID       string    `json:"organizerId"`
		Title             string    `json:"title"`
		Description       string    `json:"description"`
		ScheduledDate     time.Time `json:"scheduledDate"`
		MaxParticipants   int       `json:"maxParticipants"`
		InvitedUsers      []string  `json:"invitedUsers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	event, err := c.GroupDiningService.CreateGroupDining(r.Context(), services.CreateGroupDiningParams{
		Restaurant: models.RestaurantDisplay{
			RestaurantID:      request.RestaurantID,
			RestaurantName:    request.RestaurantName,
			RestaurantAddress: request.RestaurantAddress,
		},
		OrganizerID:     request.OrganizerID,
		Title:           request.Title,
		Description:     request.Description,
		ScheduledDate:   request.ScheduledDate,
		MaxParticipants: request.MaxParticipants,
		InvitedUsers:    request.InvitedUsers,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// GetGroupDiningHandler fetches one event.
func (c *GroupDiningController) GetGroupDiningHandler(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventId"]
	event, err := c.GroupDiningService.GetGroupDining(r.Context(), eventID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// GetUpcomingGroupDiningsHandler lists active future events.
func (c *GroupDiningController) GetUpcomingGroupDiningsHandler(w http.ResponseWriter, r *http.Request) {
	events, err := c.GroupDiningService.GetUpcomingGroupDinings(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// GetGroupDiningsForUserHandler lists the events the user participates
// in.
func (c *GroupDiningController) GetGroupDiningsForUserHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	events, err := c.GroupDiningService.GetGroupDiningsForUser(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// GetGroupDiningsForRestaurantHandler lists a restaurant's active events.
func (c *GroupDiningController) GetGroupDiningsForRestaurantHandler(w http.ResponseWriter, r *http.Request) {
	restaurantID := mux.Vars(r)["restaurantId"]
	events, err := c.GroupDiningService.GetGroupDiningsForRestaurant(r.Context(), restaurantID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// JoinGroupDiningHandler adds the requesting user to an event.
func (c *GroupDiningController) JoinGroupDiningHandler(w http.ResponseWriter, r *http.Request) {
	c.membershipChange(w, r, c.GroupDiningService.JoinGroupDining)
}

// LeaveGroupDiningHandler removes the requesting user from an event.
func (c *GroupDiningController) LeaveGroupDiningHandler(w http.ResponseWriter, r *http.Request) {
	c.membershipChange(w, r, c.GroupDiningService.LeaveGroupDining)
}

// CancelGroupDiningHandler cancels an event. Organizer only.
func (c *GroupDiningController) CancelGroupDiningHandler(w http.ResponseWriter, r *http.Request) {
	c.membershipChange(w, r, c.GroupDiningService.CancelGroupDining)
}

// CompleteGroupDiningHandler marks an event completed. Organizer only.
func (c *GroupDiningController) CompleteGroupDiningHandler(w http.ResponseWriter, r *http.Request) {
	c.membershipChange(w, r, c.GroupDiningService.CompleteGroupDining)
}

// InviteToGroupDiningHandler sends an invitation to another user.
func (c *GroupDiningController) InviteToGroupDiningHandler(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventId"]
	var request struct {
		FromUserID string `json:"fromUserId"`
		ToUserID   string `json:"toUserId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	invitation, err := c.GroupDiningService.InviteToGroupDining(r.Context(), eventID, request.FromUserID, request.ToUserID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, invitation)
}

// GetInvitationsHandler lists the user's pending invitations.
func (c *GroupDiningController) GetInvitationsHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]
	invitations, err := c.GroupDiningService.GetInvitations(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, invitations)
}

// RespondToInvitationHandler accepts or declines an invitation and
// reports whether the accept also joined the event.
func (c *GroupDiningController) RespondToInvitationHandler(w http.ResponseWriter, r *http.Request) {
	invitationID := mux.Vars(r)["invitationId"]
	var request struct {
		UserID string `json:"userId"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	outcome, err := c.GroupDiningService.RespondToInvitation(r.Context(), invitationID, request.UserID, request.Status)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (c *GroupDiningController) membershipChange(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, eventID, userID string) (models.GroupDining, error)) {
	eventID := mux.Vars(r)["eventId"]
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.UserID == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	event, err := op(r.Context(), eventID, request.UserID)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}
