package models

// Restaurant is the normalized view of a Google Places result. The id is
// the Places place_id; SocialEats stores no restaurant documents of its
// own, every other entity carries a denormalized display copy instead.
type Restaurant struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Address        string        `json:"address"`
	Latitude       float64       `json:"latitude"`
	Longitude      float64       `json:"longitude"`
	Rating         float64       `json:"rating,omitempty"`
	PriceLevel     int           `json:"priceLevel,omitempty"`
	PhotoReference string        `json:"photoReference,omitempty"`
	PlaceID        string        `json:"placeId"`
	PhoneNumber    string        `json:"phoneNumber,omitempty"`
	Website        string        `json:"website,omitempty"`
	OpeningHours   *OpeningHours `json:"openingHours,omitempty"`
	Types          []string      `json:"types,omitempty"`
}

// OpeningHours is the subset of Places opening data the client renders.
type OpeningHours struct {
	OpenNow     bool     `json:"openNow"`
	WeekdayText []string `json:"weekdayText,omitempty"`
}

// RestaurantDisplay is the denormalized copy of restaurant identity that
// events, reviews and photos embed. Materializing it through one helper
// keeps the duplicated fields from drifting between entities.
type RestaurantDisplay struct {
	RestaurantID      string `json:"restaurantId" dynamodbav:"restaurantId"`
	RestaurantName    string `json:"restaurantName" dynamodbav:"restaurantName"`
	RestaurantAddress string `json:"restaurantAddress,omitempty" dynamodbav:"restaurantAddress,omitempty"`
}

// Display materializes the denormalized copy for embedding.
func (r Restaurant) Display() RestaurantDisplay {
	return RestaurantDisplay{
		RestaurantID:      r.ID,
		RestaurantName:    r.Name,
		RestaurantAddress: r.Address,
	}
}

// Google Places API response shapes.

type PlacesResponse struct {
	Results       []Place `json:"results"`
	Status        string  `json:"status"`
	NextPageToken string  `json:"next_page_token,omitempty"`
}

type PlaceDetailsResponse struct {
	Result Place  `json:"result"`
	Status string `json:"status"`
}

type Place struct {
	PlaceID          string             `json:"place_id"`
	Name             string             `json:"name"`
	Vicinity         string             `json:"vicinity"`
	FormattedAddress string             `json:"formatted_address"`
	Geometry         PlaceGeometry      `json:"geometry"`
	Rating           float64            `json:"rating"`
	PriceLevel       int                `json:"price_level"`
	Photos           []PlacePhoto       `json:"photos"`
	Types            []string           `json:"types"`
	OpeningHours     *PlaceOpeningHours `json:"opening_hours"`
	PhoneNumber      string             `json:"formatted_phone_number"`
	Website          string             `json:"website"`
}

type PlaceGeometry struct {
	Location PlaceLocation `json:"location"`
}

type PlaceLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type PlacePhoto struct {
	PhotoReference string `json:"photo_reference"`
	Height         int    `json:"height"`
	Width          int    `json:"width"`
}

type PlaceOpeningHours struct {
	OpenNow     bool     `json:"open_now"`
	WeekdayText []string `json:"weekday_text"`
}

// ToRestaurant maps a Places result onto the client model. Nearby search
// responses carry vicinity; details responses carry formatted_address.
func (p Place) ToRestaurant() Restaurant {
	address := p.Vicinity
	if address == "" {
		address = p.FormattedAddress
	}

	r := Restaurant{
		ID:          p.PlaceID,
		Name:        p.Name,
		Address:     address,
		Latitude:    p.Geometry.Location.Lat,
		Longitude:   p.Geometry.Location.Lng,
		Rating:      p.Rating,
		PriceLevel:  p.PriceLevel,
		PlaceID:     p.PlaceID,
		PhoneNumber: p.PhoneNumber,
		Website:     p.Website,
		Types:       p.Types,
	}
	if len(p.Photos) > 0 {
		r.PhotoReference = p.Photos[0].PhotoReference
	}
	if p.OpeningHours != nil {
		r.OpeningHours = &OpeningHours{
			OpenNow:     p.OpeningHours.OpenNow,
			WeekdayText: p.OpeningHours.WeekdayText,
		}
	}
	return r
}
