package models

import "time"

const (
	// DefaultSelectionWindow is how long a "currently dining at X" claim
	// stays valid after the user picks a restaurant.
	DefaultSelectionWindow = 12 * time.Hour

	// onlineThreshold bounds how recent lastSeen must be for a friend to
	// show as online.
	onlineThreshold = 5 * time.Minute
)

// SelectedRestaurant is a user's active dining claim. Expiry is a
// read-time check; expired selections are not proactively deleted from
// storage, so every reader must consult IsExpiredAt.
type SelectedRestaurant struct {
	RestaurantID   string    `json:"restaurantId" dynamodbav:"restaurantId"`
	RestaurantName string    `json:"restaurantName" dynamodbav:"restaurantName"`
	SelectedAt     time.Time `json:"selectedAt" dynamodbav:"selectedAt"`
	ExpiresAt      time.Time `json:"expiresAt" dynamodbav:"expiresAt"`
}

// NewSelectedRestaurant stamps a selection window starting at now.
func NewSelectedRestaurant(restaurantID, restaurantName string, now time.Time, window time.Duration) SelectedRestaurant {
	if window <= 0 {
		window = DefaultSelectionWindow
	}
	now = now.UTC()
	return SelectedRestaurant{
		RestaurantID:   restaurantID,
		RestaurantName: restaurantName,
		SelectedAt:     now,
		ExpiresAt:      now.Add(window),
	}
}

// IsExpiredAt reports whether the selection window has passed. The window
// is inclusive of ExpiresAt itself.
func (s SelectedRestaurant) IsExpiredAt(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// User is the per-user document. Friends holds user ids; the organizer of
// a friendship edge is not tracked, both sides carry the other's id.
type User struct {
	ID                 string              `json:"id" dynamodbav:"id"`
	Email              string              `json:"email" dynamodbav:"email"`
	DisplayName        string              `json:"displayName" dynamodbav:"displayName"`
	PhotoURL           string              `json:"photoURL,omitempty" dynamodbav:"photoURL,omitempty"`
	FCMToken           string              `json:"fcmToken,omitempty" dynamodbav:"fcmToken,omitempty"`
	Friends            []string            `json:"friends,omitempty" dynamodbav:"friends,stringset,omitempty"`
	SelectedRestaurant *SelectedRestaurant `json:"selectedRestaurant,omitempty" dynamodbav:"selectedRestaurant,omitempty"`
	CreatedAt          time.Time           `json:"createdAt" dynamodbav:"createdAt"`
	LastSeen           time.Time           `json:"lastSeen" dynamodbav:"lastSeen"`
}

// TableName returns the DynamoDB table name for users.
func (User) TableName() string { return "Users" }

// ActiveSelection returns the user's selection if one exists and has not
// expired, nil otherwise.
func (u User) ActiveSelection(now time.Time) *SelectedRestaurant {
	if u.SelectedRestaurant == nil || u.SelectedRestaurant.IsExpiredAt(now) {
		return nil
	}
	return u.SelectedRestaurant
}

// HasFriend reports whether friendID is in the user's friend list.
func (u User) HasFriend(friendID string) bool {
	for _, id := range u.Friends {
		if id == friendID {
			return true
		}
	}
	return false
}

// Friend is the enriched view of a user's friend, with the friend's
// active selection (already expiry-filtered by the service) attached.
type Friend struct {
	ID                 string              `json:"id"`
	DisplayName        string              `json:"displayName"`
	Email              string              `json:"email"`
	PhotoURL           string              `json:"photoURL,omitempty"`
	SelectedRestaurant *SelectedRestaurant `json:"selectedRestaurant,omitempty"`
	LastSeen           time.Time           `json:"lastSeen"`
	IsOnline           bool                `json:"isOnline"`
}

// OnlineAt reports whether lastSeen falls within the online threshold.
func OnlineAt(lastSeen, now time.Time) bool {
	return lastSeen.After(now.Add(-onlineThreshold))
}
