package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRestaurant() RestaurantDisplay {
	return RestaurantDisplay{
		RestaurantID:      "place-1",
		RestaurantName:    "Trattoria",
		RestaurantAddress: "12 Main St",
	}
}

func testEvent(t *testing.T, maxParticipants int) GroupDining {
	t.Helper()
	now := time.Now()
	event, err := NewGroupDining(testRestaurant(), "org", "Olivia", "Pasta night", "",
		now.Add(24*time.Hour), maxParticipants, nil, now)
	require.NoError(t, err)
	return event
}

func TestNewGroupDiningValidation(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)

	_, err := NewGroupDining(testRestaurant(), "", "Olivia", "Dinner", "", future, 4, nil, now)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewGroupDining(testRestaurant(), "org", "Olivia", "", "", future, 4, nil, now)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewGroupDining(testRestaurant(), "org", "Olivia", "Dinner", "", future, 1, nil, now)
	assert.ErrorIs(t, err, ErrValidation, "capacity below two leaves no room for anyone but the organizer")

	_, err = NewGroupDining(testRestaurant(), "org", "Olivia", "Dinner", "", now.Add(-time.Minute), 4, nil, now)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewGroupDiningOrganizerIsParticipant(t *testing.T) {
	event := testEvent(t, 4)

	assert.Equal(t, GroupDiningStatusActive, event.Status)
	assert.Equal(t, []string{"org"}, event.CurrentParticipants)
	assert.Equal(t, 3, event.AvailableSpots())
}

func TestNewGroupDiningDedupesInvited(t *testing.T) {
	now := time.Now()
	event, err := NewGroupDining(testRestaurant(), "org", "Olivia", "Dinner", "",
		now.Add(time.Hour), 4, []string{"a", "org", "a", "", "b"}, now)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, event.InvitedUsers)
}

func TestJoinEligibilityOrder(t *testing.T) {
	event := testEvent(t, 2)
	now := time.Now()

	// Already a participant wins over every other reason.
	err := event.JoinEligibility("org", now)
	require.Error(t, err)
	assert.Equal(t, "user is already a participant", err.Error())

	// Full is reported before expiry.
	full, err := event.Join("u1", now)
	require.NoError(t, err)
	err = full.JoinEligibility("u2", full.ScheduledDate.Add(time.Hour))
	require.Error(t, err)
	assert.Equal(t, "event is full", err.Error())

	// Expired is reported before status for a non-full event.
	cancelled, err := event.Cancel("org", now)
	require.NoError(t, err)
	err = cancelled.JoinEligibility("u2", cancelled.ScheduledDate.Add(time.Hour))
	require.Error(t, err)
	assert.Equal(t, "event has already taken place", err.Error())

	// Status is the last check.
	err = cancelled.JoinEligibility("u2", now)
	require.Error(t, err)
	assert.Equal(t, "event is cancelled", err.Error())
}

func TestJoinAtCapacityBoundary(t *testing.T) {
	event := testEvent(t, 2)
	now := time.Now()

	joined, err := event.Join("u1", now)
	require.NoError(t, err)
	assert.True(t, joined.IsFull())
	assert.Equal(t, 0, joined.AvailableSpots())

	_, err = joined.Join("u2", now)
	assert.True(t, IsIneligible(err))
}

func TestJoinExpiryBoundary(t *testing.T) {
	event := testEvent(t, 4)

	// Joining exactly at the scheduled instant is still allowed.
	assert.True(t, event.CanJoin("u1", event.ScheduledDate))
	assert.False(t, event.CanJoin("u1", event.ScheduledDate.Add(time.Nanosecond)))
}

func TestLeaveRules(t *testing.T) {
	event := testEvent(t, 4)
	now := time.Now()
	event, err := event.Join("u1", now)
	require.NoError(t, err)

	assert.False(t, event.CanLeave("org"), "the organizer can never leave")
	assert.False(t, event.CanLeave("stranger"))
	assert.True(t, event.CanLeave("u1"))

	left, err := event.Leave("u1", now)
	require.NoError(t, err)
	assert.False(t, left.HasParticipant("u1"))
	assert.True(t, left.HasParticipant("org"))
}

func TestTerminalStatesRefuseMembershipChanges(t *testing.T) {
	event := testEvent(t, 4)
	now := time.Now()
	event, err := event.Join("u1", now)
	require.NoError(t, err)

	cancelled, err := event.Cancel("org", now)
	require.NoError(t, err)

	_, err = cancelled.Join("u2", now)
	assert.True(t, IsIneligible(err))
	_, err = cancelled.Leave("u1", now)
	assert.True(t, IsIneligible(err))
	_, err = cancelled.Cancel("org", now)
	assert.True(t, IsIneligible(err))
	_, err = cancelled.MarkCompleted("org", now)
	assert.True(t, IsIneligible(err))
}

func TestCancelAndCompleteAreOrganizerOnly(t *testing.T) {
	event := testEvent(t, 4)
	now := time.Now()

	_, err := event.Cancel("u1", now)
	assert.True(t, IsIneligible(err))
	_, err = event.MarkCompleted("u1", now)
	assert.True(t, IsIneligible(err))

	completed, err := event.MarkCompleted("org", now)
	require.NoError(t, err)
	assert.Equal(t, GroupDiningStatusCompleted, completed.Status)
}

func TestAvailableSpotsClamped(t *testing.T) {
	event := testEvent(t, 2)
	// Overfull state can only arise from historical data; reads clamp.
	event.CurrentParticipants = []string{"org", "u1", "u2"}

	assert.Equal(t, 0, event.AvailableSpots())
	assert.True(t, event.IsFull())
}

func TestInviteEligibility(t *testing.T) {
	event := testEvent(t, 4)
	now := time.Now()
	event, err := event.Join("u1", now)
	require.NoError(t, err)
	event.InvitedUsers = []string{"u2"}

	assert.Error(t, event.InviteEligibility("u1"))
	assert.Error(t, event.InviteEligibility("u2"))
	assert.NoError(t, event.InviteEligibility("u3"))

	cancelled, err := event.Cancel("org", now)
	require.NoError(t, err)
	assert.Error(t, cancelled.InviteEligibility("u3"))
}

func TestJoinDoesNotMutateReceiver(t *testing.T) {
	event := testEvent(t, 4)
	now := time.Now()

	joined, err := event.Join("u1", now)
	require.NoError(t, err)

	assert.Len(t, event.CurrentParticipants, 1)
	assert.Len(t, joined.CurrentParticipants, 2)
}

func TestNewGroupDiningInvitation(t *testing.T) {
	event := testEvent(t, 4)
	now := time.Now()

	inv := NewGroupDiningInvitation(event, "org", "Olivia", "u1", now)

	assert.Equal(t, event.ID, inv.GroupDiningID)
	assert.Equal(t, "u1", inv.ToUserID)
	assert.Equal(t, event.Title, inv.GroupTitle)
	assert.Equal(t, event.RestaurantName, inv.RestaurantName)
	assert.Equal(t, InvitationStatusPending, inv.Status)
	assert.NotEmpty(t, inv.ID)
}
