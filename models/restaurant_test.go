package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceToRestaurant(t *testing.T) {
	place := Place{
		PlaceID:  "place-1",
		Name:     "Trattoria",
		Vicinity: "12 Main St",
		Geometry: PlaceGeometry{Location: PlaceLocation{Lat: 40.7, Lng: -74.0}},
		Rating:   4.3,
		Photos:   []PlacePhoto{{PhotoReference: "ref-a"}, {PhotoReference: "ref-b"}},
		Types:    []string{"restaurant", "food"},
		OpeningHours: &PlaceOpeningHours{
			OpenNow:     true,
			WeekdayText: []string{"Monday: 9AM-10PM"},
		},
	}

	r := place.ToRestaurant()

	assert.Equal(t, "place-1", r.ID)
	assert.Equal(t, "place-1", r.PlaceID)
	assert.Equal(t, "Trattoria", r.Name)
	assert.Equal(t, "12 Main St", r.Address)
	assert.Equal(t, 40.7, r.Latitude)
	assert.Equal(t, -74.0, r.Longitude)
	assert.Equal(t, "ref-a", r.PhotoReference, "only the first photo reference carries over")
	require.NotNil(t, r.OpeningHours)
	assert.True(t, r.OpeningHours.OpenNow)
}

func TestPlaceToRestaurantAddressFallback(t *testing.T) {
	place := Place{
		PlaceID:          "place-1",
		Name:             "Trattoria",
		FormattedAddress: "12 Main St, Springfield",
	}

	r := place.ToRestaurant()

	assert.Equal(t, "12 Main St, Springfield", r.Address)
	assert.Empty(t, r.PhotoReference)
	assert.Nil(t, r.OpeningHours)
}

func TestRestaurantDisplay(t *testing.T) {
	r := Restaurant{ID: "place-1", Name: "Trattoria", Address: "12 Main St"}

	d := r.Display()

	assert.Equal(t, RestaurantDisplay{
		RestaurantID:      "place-1",
		RestaurantName:    "Trattoria",
		RestaurantAddress: "12 Main St",
	}, d)
}
