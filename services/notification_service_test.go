package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPostsAuthorizedPayload(t *testing.T) {
	var received PushNotification
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewNotificationService(server.URL, "secret")
	n := FriendRequestNotification("token-1", "Olivia")

	err := svc.Send(context.Background(), n)
	require.NoError(t, err)

	assert.Equal(t, "key=secret", authHeader)
	assert.Equal(t, "token-1", received.To)
	assert.Equal(t, "New Friend Request", received.Notification.Title)
	assert.Equal(t, "friend_request", received.Data["type"])
}

func TestSendReportsRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	svc := NewNotificationService(server.URL, "bad-key")
	err := svc.Send(context.Background(), FriendRequestNotification("token-1", "Olivia"))

	assert.Error(t, err)
}

func TestDispatchSkipsWithoutKeyOrToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer server.Close()

	NewNotificationService(server.URL, "").Dispatch(FriendRequestNotification("token-1", "Olivia"))
	NewNotificationService(server.URL, "secret").Dispatch(FriendRequestNotification("", "Olivia"))

	time.Sleep(50 * time.Millisecond)
}

func TestNotificationBodies(t *testing.T) {
	scheduled := time.Date(2025, 6, 14, 19, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		n    PushNotification
		body string
	}{
		{
			name: "friend activity",
			n:    FriendActivityNotification("t", "Olivia", "Trattoria"),
			body: "Olivia is now dining at Trattoria",
		},
		{
			name: "new review",
			n:    NewReviewNotification("t", "Olivia", "Trattoria", 4),
			body: "Olivia reviewed Trattoria - 4 stars",
		},
		{
			name: "review liked",
			n:    ReviewLikedNotification("t", "Sam", "Trattoria"),
			body: "Sam liked your review of Trattoria",
		},
		{
			name: "group invitation",
			n:    GroupDiningInvitationNotification("t", "Olivia", "Pasta night", "Trattoria", scheduled),
			body: "Olivia invited you to Pasta night at Trattoria on Jun 14, 2025 at 7:30 PM",
		},
		{
			name: "group reminder",
			n:    GroupDiningReminderNotification("t", "Pasta night", "Trattoria", scheduled),
			body: "Don't forget about Pasta night at Trattoria at 7:30 PM",
		},
		{
			name: "new photo",
			n:    NewPhotoNotification("t", "Olivia", "Trattoria"),
			body: "Olivia shared a photo from Trattoria",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.body, tc.n.Notification.Body)
			assert.Equal(t, "t", tc.n.To)
			assert.NotEmpty(t, tc.n.Data["type"])
		})
	}
}
