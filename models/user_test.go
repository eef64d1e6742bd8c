package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectedRestaurantWindow(t *testing.T) {
	t0 := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	sel := NewSelectedRestaurant("place-1", "Trattoria", t0, DefaultSelectionWindow)

	assert.Equal(t, t0, sel.SelectedAt)
	assert.Equal(t, t0.Add(12*time.Hour), sel.ExpiresAt)

	assert.False(t, sel.IsExpiredAt(t0.Add(11*time.Hour+59*time.Minute)))
	assert.False(t, sel.IsExpiredAt(sel.ExpiresAt), "the window is inclusive of its last instant")
	assert.True(t, sel.IsExpiredAt(t0.Add(12*time.Hour+time.Minute)))
}

func TestNewSelectedRestaurantDefaultsWindow(t *testing.T) {
	t0 := time.Now()
	sel := NewSelectedRestaurant("place-1", "Trattoria", t0, 0)

	assert.Equal(t, DefaultSelectionWindow, sel.ExpiresAt.Sub(sel.SelectedAt))
}

func TestActiveSelection(t *testing.T) {
	t0 := time.Now()
	sel := NewSelectedRestaurant("place-1", "Trattoria", t0, time.Hour)
	user := User{ID: "u1", SelectedRestaurant: &sel}

	require.NotNil(t, user.ActiveSelection(t0.Add(30*time.Minute)))
	assert.Nil(t, user.ActiveSelection(t0.Add(2*time.Hour)), "expired selections read as absent")

	none := User{ID: "u2"}
	assert.Nil(t, none.ActiveSelection(t0))
}

func TestHasFriend(t *testing.T) {
	user := User{ID: "u1", Friends: []string{"a", "b"}}

	assert.True(t, user.HasFriend("a"))
	assert.False(t, user.HasFriend("c"))
	assert.False(t, User{}.HasFriend("a"))
}

func TestOnlineAt(t *testing.T) {
	now := time.Now()

	assert.True(t, OnlineAt(now.Add(-time.Minute), now))
	assert.False(t, OnlineAt(now.Add(-10*time.Minute), now))
	assert.False(t, OnlineAt(time.Time{}, now))
}
