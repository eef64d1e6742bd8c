package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	FriendRequestStatusPending  = "pending"
	FriendRequestStatusAccepted = "accepted"
	FriendRequestStatusDeclined = "declined"
)

// FriendRequest carries denormalized sender display fields so the
// recipient's inbox renders without extra reads.
type FriendRequest struct {
	ID               string    `json:"id" dynamodbav:"id"`
	FromUserID       string    `json:"fromUserId" dynamodbav:"fromUserId"`
	ToUserID         string    `json:"toUserId" dynamodbav:"toUserId"`
	FromUserName     string    `json:"fromUserName" dynamodbav:"fromUserName"`
	FromUserEmail    string    `json:"fromUserEmail" dynamodbav:"fromUserEmail"`
	FromUserPhotoURL string    `json:"fromUserPhotoURL,omitempty" dynamodbav:"fromUserPhotoURL,omitempty"`
	SentAt           time.Time `json:"sentAt" dynamodbav:"sentAt"`
	Status           string    `json:"status" dynamodbav:"status"`
}

// TableName returns the DynamoDB table name for friend requests.
func (FriendRequest) TableName() string { return "FriendRequests" }

// NewFriendRequest builds a pending request from the sender's profile.
func NewFriendRequest(from User, toUserID string, now time.Time) FriendRequest {
	return FriendRequest{
		ID:               uuid.New().String(),
		FromUserID:       from.ID,
		ToUserID:         toUserID,
		FromUserName:     from.DisplayName,
		FromUserEmail:    from.Email,
		FromUserPhotoURL: from.PhotoURL,
		SentAt:           now.UTC(),
		Status:           FriendRequestStatusPending,
	}
}
