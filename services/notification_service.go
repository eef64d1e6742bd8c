package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// PushNotification is the FCM legacy HTTP payload.
type PushNotification struct {
	To           string              `json:"to"`
	Notification NotificationPayload `json:"notification"`
	Data         map[string]string   `json:"data"`
}

type NotificationPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// NotificationService delivers push notifications through FCM.
// Delivery is fire-and-forget: failures are logged, never retried, and
// never block the operation that triggered them.
type NotificationService struct {
	Endpoint   string
	ServerKey  string
	HTTPClient *http.Client
}

// NewNotificationService builds a dispatcher for the given FCM endpoint.
// An empty server key disables delivery (useful in development).
func NewNotificationService(endpoint, serverKey string) *NotificationService {
	return &NotificationService{
		Endpoint:   endpoint,
		ServerKey:  serverKey,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts one notification synchronously. Most callers want Dispatch.
func (s *NotificationService) Send(ctx context.Context, n PushNotification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.ServerKey)

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push notification rejected with status %d", resp.StatusCode)
	}
	return nil
}

// Dispatch sends a notification in the background. A missing recipient
// token or server key turns it into a no-op.
func (s *NotificationService) Dispatch(n PushNotification) {
	if s == nil || s.ServerKey == "" || n.To == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Send(ctx, n); err != nil {
			slog.Warn("push notification failed", "type", n.Data["type"], "error", err)
		}
	}()
}

// Payload builders, one per notification type the app sends.

func FriendActivityNotification(token, friendName, restaurantName string) PushNotification {
	return PushNotification{
		To: token,
		Notification: NotificationPayload{
			Title: "Friend Activity",
			Body:  fmt.Sprintf("%s is now dining at %s", friendName, restaurantName),
		},
		Data: map[string]string{
			"type":            "friend_activity",
			"friend_name":     friendName,
			"restaurant_name": restaurantName,
		},
	}
}

func FriendRequestNotification(token, fromName string) PushNotification {
	return PushNotification{
		To: token,
		Notification: NotificationPayload{
			Title: "New Friend Request",
			Body:  fmt.Sprintf("%s sent you a friend request", fromName),
		},
		Data: map[string]string{
			"type":      "friend_request",
			"from_name": fromName,
		},
	}
}

func NewReviewNotification(token, reviewerName, restaurantName string, rating float64) PushNotification {
	return PushNotification{
		To: token,
		Notification: NotificationPayload{
			Title: "New Restaurant Review",
			Body:  fmt.Sprintf("%s reviewed %s - %d stars", reviewerName, restaurantName, int(rating)),
		},
		Data: map[string]string{
			"type":            "new_review",
			"reviewer_name":   reviewerName,
			"restaurant_name": restaurantName,
			"rating":          fmt.Sprintf("%g", rating),
		},
	}
}

func ReviewLikedNotification(token, likerName, restaurantName string) PushNotification {
	return PushNotification{
		To: token,
		Notification: NotificationPayload{
			Title: "Review Liked",
			Body:  fmt.Sprintf("%s liked your review of %s", likerName, restaurantName),
		},
		Data: map[string]string{
			"type":            "review_liked",
			"liker_name":      likerName,
			"restaurant_name": restaurantName,
		},
	}
}

func GroupDiningInvitationNotification(token, fromUserName, groupTitle, restaurantName string, scheduledDate time.Time) PushNotification {
	return PushNotification{
		To: token,
		Notification: NotificationPayload{
			Title: "Group Dining Invitation",
			Body: fmt.Sprintf("%s invited you to %s at %s on %s",
				fromUserName, groupTitle, restaurantName, scheduledDate.Format("Jan 2, 2006 at 3:04 PM")),
		},
		Data: map[string]string{
			"type":            "group_dining_invitation",
			"from_user_name":  fromUserName,
			"group_title":     groupTitle,
			"restaurant_name": restaurantName,
			"scheduled_date":  scheduledDate.UTC().Format(time.RFC3339),
		},
	}
}

func GroupDiningReminderNotification(token, groupTitle, restaurantName string, scheduledDate time.Time) PushNotification {
	return PushNotification{
		To: token,
		Notification: NotificationPayload{
			Title: "Group Dining Reminder",
			Body: fmt.Sprintf("Don't forget about %s at %s at %s",
				groupTitle, restaurantName, scheduledDate.Format("3:04 PM")),
		},
		Data: map[string]string{
			"type":            "group_dining_reminder",
			"group_title":     groupTitle,
			"restaurant_name": restaurantName,
			"scheduled_date":  scheduledDate.UTC().Format(time.RFC3339),
		},
	}
}

func NewPhotoNotification(token, userName, restaurantName string) PushNotification {
	return PushNotification{
		To: token,
		Notification: NotificationPayload{
			Title: "New Photo Shared",
			Body:  fmt.Sprintf("%s shared a photo from %s", userName, restaurantName),
		},
		Data: map[string]string{
			"type":            "new_photo",
			"user_name":       userName,
			"restaurant_name": restaurantName,
		},
	}
}
