package models

import (
	"time"

	"github.com/google/uuid"
)

// RestaurantReview is one user's review of one restaurant. Display fields
// for the restaurant and the author are denormalized into the document.
// Review deletion is out of scope; the rating aggregate only ever counts
// a review once (edits revise, never remove).
type RestaurantReview struct {
	ID string `json:"id" dynamodbav:"id"`
	RestaurantDisplay
	UserID          string    `json:"userId" dynamodbav:"userId"`
	UserName        string    `json:"userName" dynamodbav:"userName"`
	UserPhotoURL    string    `json:"userPhotoURL,omitempty" dynamodbav:"userPhotoURL,omitempty"`
	Rating          float64   `json:"rating" dynamodbav:"rating"`
	ReviewText      string    `json:"reviewText" dynamodbav:"reviewText"`
	Photos          []string  `json:"photos,omitempty" dynamodbav:"photos,omitempty"`
	CreatedAt       time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
	Likes           []string  `json:"likes,omitempty" dynamodbav:"likes,stringset,omitempty"`
	IsVerifiedVisit bool      `json:"isVerifiedVisit" dynamodbav:"isVerifiedVisit"`
}

// TableName returns the DynamoDB table name for reviews.
func (RestaurantReview) TableName() string { return "Reviews" }

// NewRestaurantReview builds a review document. The verified-visit flag
// is stamped by the service from the author's active selection window.
func NewRestaurantReview(restaurant RestaurantDisplay, author User, rating float64, reviewText string, photos []string, verified bool, now time.Time) RestaurantReview {
	now = now.UTC()
	return RestaurantReview{
		ID:                uuid.New().String(),
		RestaurantDisplay: restaurant,
		UserID:            author.ID,
		UserName:          author.DisplayName,
		UserPhotoURL:      author.PhotoURL,
		Rating:            rating,
		ReviewText:        reviewText,
		Photos:            photos,
		CreatedAt:         now,
		UpdatedAt:         now,
		IsVerifiedVisit:   verified,
	}
}

// LikeCount returns how many users liked the review.
func (r RestaurantReview) LikeCount() int { return len(r.Likes) }
