package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidPhotoTag(t *testing.T) {
	for _, tag := range PredefinedPhotoTags {
		assert.True(t, ValidPhotoTag(tag.ID))
	}
	assert.False(t, ValidPhotoTag("selfie"))
	assert.False(t, ValidPhotoTag(""))
}

func TestNewRestaurantPhoto(t *testing.T) {
	now := time.Now()
	author := User{ID: "u1", DisplayName: "Olivia", PhotoURL: "https://img/u1.jpg"}

	photo := NewRestaurantPhoto(testRestaurant(), author, "https://img/p1.jpg", "great pasta", []string{"food"}, true, now)

	assert.NotEmpty(t, photo.ID)
	assert.Equal(t, "place-1", photo.RestaurantID)
	assert.Equal(t, "u1", photo.UserID)
	assert.Equal(t, "Olivia", photo.UserName)
	assert.True(t, photo.IsVerified)
	assert.Equal(t, 0, photo.LikeCount())

	photo.Likes = []string{"a", "b"}
	assert.Equal(t, 2, photo.LikeCount())
}
