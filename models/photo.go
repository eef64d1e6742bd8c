package models

import (
	"time"

	"github.com/google/uuid"
)

// RestaurantPhoto is a user-shared photo of a restaurant visit. The photo
// bytes live in S3; this document holds the URL plus display metadata.
type RestaurantPhoto struct {
	ID string `json:"id" dynamodbav:"id"`
	RestaurantDisplay
	UserID       string    `json:"userId" dynamodbav:"userId"`
	UserName     string    `json:"userName" dynamodbav:"userName"`
	UserPhotoURL string    `json:"userPhotoURL,omitempty" dynamodbav:"userPhotoURL,omitempty"`
	PhotoURL     string    `json:"photoURL" dynamodbav:"photoURL"`
	Caption      string    `json:"caption,omitempty" dynamodbav:"caption,omitempty"`
	Tags         []string  `json:"tags,omitempty" dynamodbav:"tags,omitempty"`
	Likes        []string  `json:"likes,omitempty" dynamodbav:"likes,stringset,omitempty"`
	CreatedAt    time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
	IsVerified   bool      `json:"isVerified" dynamodbav:"isVerified"`
}

// TableName returns the DynamoDB table name for restaurant photos.
func (RestaurantPhoto) TableName() string { return "RestaurantPhotos" }

// NewRestaurantPhoto builds a photo document. The verified flag is true
// when the author's active selection matched the restaurant at upload.
func NewRestaurantPhoto(restaurant RestaurantDisplay, author User, photoURL, caption string, tags []string, verified bool, now time.Time) RestaurantPhoto {
	now = now.UTC()
	return RestaurantPhoto{
		ID:                uuid.New().String(),
		RestaurantDisplay: restaurant,
		UserID:            author.ID,
		UserName:          author.DisplayName,
		UserPhotoURL:      author.PhotoURL,
		PhotoURL:          photoURL,
		Caption:           caption,
		Tags:              tags,
		CreatedAt:         now,
		UpdatedAt:         now,
		IsVerified:        verified,
	}
}

// LikeCount returns how many users liked the photo.
func (p RestaurantPhoto) LikeCount() int { return len(p.Likes) }

// PhotoTag is a predefined category a photo can be labeled with.
type PhotoTag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Color string `json:"color"`
}

// PredefinedPhotoTags is the fixed tag set the client offers.
var PredefinedPhotoTags = []PhotoTag{
	{ID: "food", Name: "Food", Emoji: "🍽️", Color: "#FF6B35"},
	{ID: "drinks", Name: "Drinks", Emoji: "🍹", Color: "#4ECDC4"},
	{ID: "interior", Name: "Interior", Emoji: "🏛️", Color: "#45B7D1"},
	{ID: "menu", Name: "Menu", Emoji: "📋", Color: "#96CEB4"},
	{ID: "dessert", Name: "Dessert", Emoji: "🍰", Color: "#FFEAA7"},
	{ID: "group", Name: "Group", Emoji: "👥", Color: "#DDA0DD"},
	{ID: "special", Name: "Special Dish", Emoji: "⭐", Color: "#FFD93D"},
	{ID: "view", Name: "View", Emoji: "🏞️", Color: "#6C5CE7"},
}

// ValidPhotoTag reports whether id is one of the predefined tags.
func ValidPhotoTag(id string) bool {
	for _, t := range PredefinedPhotoTags {
		if t.ID == id {
			return true
		}
	}
	return false
}
