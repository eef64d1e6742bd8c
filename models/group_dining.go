package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	GroupDiningStatusActive    = "active"
	GroupDiningStatusCancelled = "cancelled"
	GroupDiningStatusCompleted = "completed"

	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusDeclined = "declined"

	// MinGroupParticipants is the lower bound on event capacity. The
	// organizer always occupies one spot.
	MinGroupParticipants = 2
)

// GroupDining is a scheduled multi-person dining event. The organizer is
// always a current participant and can never leave. Cancelled and
// completed are terminal: no operation mutates participants once the
// event leaves the active state.
type GroupDining struct {
	ID string `json:"id" dynamodbav:"id"`
	RestaurantDisplay
	OrganizerID         string    `json:"organizerId" dynamodbav:"organizerId"`
	OrganizerName       string    `json:"organizerName" dynamodbav:"organizerName"`
	Title               string    `json:"title" dynamodbav:"title"`
	Description         string    `json:"description,omitempty" dynamodbav:"description,omitempty"`
	ScheduledDate       time.Time `json:"scheduledDate" dynamodbav:"scheduledDate"`
	MaxParticipants     int       `json:"maxParticipants" dynamodbav:"maxParticipants"`
	CurrentParticipants []string  `json:"currentParticipants" dynamodbav:"currentParticipants,stringset"`
	InvitedUsers        []string  `json:"invitedUsers,omitempty" dynamodbav:"invitedUsers,stringset,omitempty"`
	CreatedAt           time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
	Status              string    `json:"status" dynamodbav:"status"`
}

// TableName returns the DynamoDB table name for group dining events.
func (GroupDining) TableName() string { return "GroupDinings" }

// NewGroupDining creates an active event with the organizer as the first
// participant. invited may pre-populate the invitedUsers set (the create
// flow lets the organizer pick friends up front); sending the actual
// invitations is a separate operation.
func NewGroupDining(restaurant RestaurantDisplay, organizerID, organizerName, title, description string, scheduledDate time.Time, maxParticipants int, invited []string, now time.Time) (GroupDining, error) {
	if organizerID == "" || title == "" || restaurant.RestaurantID == "" {
		return GroupDining{}, fmt.Errorf("%w: organizerId, title and restaurantId are required", ErrValidation)
	}
	if maxParticipants < MinGroupParticipants {
		return GroupDining{}, fmt.Errorf("%w: maxParticipants must be at least %d", ErrValidation, MinGroupParticipants)
	}
	if !scheduledDate.After(now) {
		return GroupDining{}, fmt.Errorf("%w: scheduledDate must be in the future", ErrValidation)
	}

	now = now.UTC()
	return GroupDining{
		ID:                  uuid.New().String(),
		RestaurantDisplay:   restaurant,
		OrganizerID:         organizerID,
		OrganizerName:       organizerName,
		Title:               title,
		Description:         description,
		ScheduledDate:       scheduledDate.UTC(),
		MaxParticipants:     maxParticipants,
		CurrentParticipants: []string{organizerID},
		InvitedUsers:        dedupeExcluding(invited, organizerID),
		CreatedAt:           now,
		UpdatedAt:           now,
		Status:              GroupDiningStatusActive,
	}, nil
}

// IsExpiredAt reports whether the scheduled date has passed. An event is
// not expired at the scheduled instant itself, only after it.
func (g GroupDining) IsExpiredAt(now time.Time) bool {
	return now.After(g.ScheduledDate)
}

// IsFull reports whether the participant set has reached capacity.
func (g GroupDining) IsFull() bool {
	return len(g.CurrentParticipants) >= g.MaxParticipants
}

// AvailableSpots returns remaining capacity, clamped at zero.
func (g GroupDining) AvailableSpots() int {
	spots := g.MaxParticipants - len(g.CurrentParticipants)
	if spots < 0 {
		return 0
	}
	return spots
}

// HasParticipant reports whether userID has joined the event.
func (g GroupDining) HasParticipant(userID string) bool {
	return containsID(g.CurrentParticipants, userID)
}

// IsInvited reports whether userID is in the invited set.
func (g GroupDining) IsInvited(userID string) bool {
	return containsID(g.InvitedUsers, userID)
}

// JoinEligibility returns nil when userID may join at now, or an
// IneligibleError naming the first failing precondition. The check order
// fixes which reason is reported; all of them must hold for a join.
func (g GroupDining) JoinEligibility(userID string, now time.Time) error {
	switch {
	case g.HasParticipant(userID):
		return Ineligible("user is already a participant")
	case g.IsFull():
		return Ineligible("event is full")
	case g.IsExpiredAt(now):
		return Ineligible("event has already taken place")
	case g.Status != GroupDiningStatusActive:
		return Ineligible("event is " + g.Status)
	}
	return nil
}

// CanJoin reports whether userID may join the event at now.
func (g GroupDining) CanJoin(userID string, now time.Time) bool {
	return g.JoinEligibility(userID, now) == nil
}

// LeaveEligibility returns nil when userID may leave. The organizer can
// never leave their own event.
func (g GroupDining) LeaveEligibility(userID string) error {
	switch {
	case userID == g.OrganizerID:
		return Ineligible("the organizer cannot leave their own event")
	case !g.HasParticipant(userID):
		return Ineligible("user is not a participant")
	}
	return nil
}

// CanLeave reports whether userID may leave the event.
func (g GroupDining) CanLeave(userID string) bool {
	return g.LeaveEligibility(userID) == nil
}

// InviteEligibility returns nil when toUserID may be invited: not yet a
// participant and not already in the invited set. Outstanding pending
// invitations are checked separately against storage.
func (g GroupDining) InviteEligibility(toUserID string) error {
	switch {
	case g.HasParticipant(toUserID):
		return Ineligible("user is already a participant")
	case g.IsInvited(toUserID):
		return Ineligible("user has already been invited")
	case g.Status != GroupDiningStatusActive:
		return Ineligible("event is " + g.Status)
	}
	return nil
}

// Join adds userID to the participant set. Precondition JoinEligibility.
func (g GroupDining) Join(userID string, now time.Time) (GroupDining, error) {
	if err := g.JoinEligibility(userID, now); err != nil {
		return g, err
	}
	g.CurrentParticipants = append(copyIDs(g.CurrentParticipants), userID)
	g.UpdatedAt = now.UTC()
	return g, nil
}

// Leave removes userID from the participant set. Terminal states refuse
// membership changes even for otherwise-eligible participants.
func (g GroupDining) Leave(userID string, now time.Time) (GroupDining, error) {
	if g.Status != GroupDiningStatusActive {
		return g, Ineligible("event is " + g.Status)
	}
	if err := g.LeaveEligibility(userID); err != nil {
		return g, err
	}
	remaining := make([]string, 0, len(g.CurrentParticipants)-1)
	for _, id := range g.CurrentParticipants {
		if id != userID {
			remaining = append(remaining, id)
		}
	}
	g.CurrentParticipants = remaining
	g.UpdatedAt = now.UTC()
	return g, nil
}

// Cancel moves an active event to cancelled. Organizer-only, allowed any
// time regardless of fullness or expiry.
func (g GroupDining) Cancel(requesterID string, now time.Time) (GroupDining, error) {
	if requesterID != g.OrganizerID {
		return g, Ineligible("only the organizer can cancel the event")
	}
	if g.Status != GroupDiningStatusActive {
		return g, Ineligible("event is " + g.Status)
	}
	g.Status = GroupDiningStatusCancelled
	g.UpdatedAt = now.UTC()
	return g, nil
}

// MarkCompleted moves an active event to completed. This is an explicit,
// separately invoked organizer action; nothing triggers it automatically.
func (g GroupDining) MarkCompleted(requesterID string, now time.Time) (GroupDining, error) {
	if requesterID != g.OrganizerID {
		return g, Ineligible("only the organizer can complete the event")
	}
	if g.Status != GroupDiningStatusActive {
		return g, Ineligible("event is " + g.Status)
	}
	g.Status = GroupDiningStatusCompleted
	g.UpdatedAt = now.UTC()
	return g, nil
}

// GroupDiningInvitation carries denormalized display fields so the
// invitee's inbox renders without extra reads. Accepting does not remove
// the user from the event's invitedUsers set; the invited-set gate only
// applies at invite time.
type GroupDiningInvitation struct {
	ID             string    `json:"id" dynamodbav:"id"`
	GroupDiningID  string    `json:"groupDiningId" dynamodbav:"groupDiningId"`
	FromUserID     string    `json:"fromUserId" dynamodbav:"fromUserId"`
	ToUserID       string    `json:"toUserId" dynamodbav:"toUserId"`
	FromUserName   string    `json:"fromUserName" dynamodbav:"fromUserName"`
	GroupTitle     string    `json:"groupTitle" dynamodbav:"groupTitle"`
	RestaurantName string    `json:"restaurantName" dynamodbav:"restaurantName"`
	ScheduledDate  time.Time `json:"scheduledDate" dynamodbav:"scheduledDate"`
	SentAt         time.Time `json:"sentAt" dynamodbav:"sentAt"`
	Status         string    `json:"status" dynamodbav:"status"`
}

// TableName returns the DynamoDB table name for invitations.
func (GroupDiningInvitation) TableName() string { return "GroupDiningInvitations" }

// NewGroupDiningInvitation builds a pending invitation for toUserID.
func NewGroupDiningInvitation(event GroupDining, fromUserID, fromUserName, toUserID string, now time.Time) GroupDiningInvitation {
	return GroupDiningInvitation{
		ID:             uuid.New().String(),
		GroupDiningID:  event.ID,
		FromUserID:     fromUserID,
		ToUserID:       toUserID,
		FromUserName:   fromUserName,
		GroupTitle:     event.Title,
		RestaurantName: event.RestaurantName,
		ScheduledDate:  event.ScheduledDate,
		SentAt:         now.UTC(),
		Status:         InvitationStatusPending,
	}
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func copyIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func dedupeExcluding(ids []string, exclude string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == exclude || id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
