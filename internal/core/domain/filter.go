package domain

import "time"

// HouseType is a coarse building category selectable in a saved filter.
type HouseType string

const (
	HouseDetached     HouseType = "detached"
	HouseSemiDetached HouseType = "semi_detached"
	HouseTownhouse    HouseType = "townhouse"
	HouseCondo        HouseType = "condo"
	HouseMultiplex    HouseType = "multiplex"
	HouseOther        HouseType = "other"
)

// Valid reports whether t is a known house type.
func (t HouseType) Valid() bool {
	switch t {
	case HouseDetached, HouseSemiDetached, HouseTownhouse, HouseCondo, HouseMultiplex, HouseOther:
		return true
	}
	return false
}

// RoomsOrMore is the cardinality sentinel meaning "6 or more".
const RoomsOrMore = 6

// PriceRange bounds are independent; a nil bound is not applied.
type PriceRange struct {
	Min *float64 `json:"min,omitempty" bson:"min,omitempty"`
	Max *float64 `json:"max,omitempty" bson:"max,omitempty"`
}

// Location is a search center with a radius in kilometres.
type Location struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
	Radius    float64 `json:"radius" bson:"radius"`
}

// Filter is the saved search profile of a single user.
type Filter struct {
	ID            string      `json:"id" bson:"_id,omitempty"`
	UserID        string      `json:"userId" bson:"userId"`
	StreetAddress string      `json:"streetAddress,omitempty" bson:"streetAddress,omitempty"`
	Province      string      `json:"province,omitempty" bson:"province,omitempty"`
	Bedroom       []int       `json:"bedroom,omitempty" bson:"bedroom,omitempty"`
	Bathroom      []int       `json:"bathroom,omitempty" bson:"bathroom,omitempty"`
	Parking       []int       `json:"parking,omitempty" bson:"parking,omitempty"`
	PriceRange    *PriceRange `json:"priceRange,omitempty" bson:"priceRange,omitempty"`
	Keywords      []string    `json:"keywords,omitempty" bson:"keywords,omitempty"`
	HouseType     []HouseType `json:"houseType,omitempty" bson:"houseType,omitempty"`
	Location      *Location   `json:"location,omitempty" bson:"location,omitempty"`
	CreatedAt     time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt" bson:"updatedAt"`
}
