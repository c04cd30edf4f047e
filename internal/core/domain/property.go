package domain

import "time"

// Fixed constraints applied to every property search.
const (
	TransactionForSale = "For sale"

	// GeoProvinceRadiusKm is the radius from which a saved location stops being
	// a distance query and collapses to the filter's province.
	GeoProvinceRadiusKm = 50
)

// SearchableProvinces is the allow-list applied to every property search.
var SearchableProvinces = []string{"British Columbia", "Ontario"}

// Building holds the structural attributes of a listing.
type Building struct {
	BathroomTotal               RoomCount `json:"bathroomTotal" bson:"bathroomTotal"`
	BedroomsTotal               RoomCount `json:"bedroomsTotal" bson:"bedroomsTotal"`
	BedroomsAboveGround         RoomCount `json:"bedroomsAboveGround,omitempty" bson:"bedroomsAboveGround,omitempty"`
	BedroomsBelowGround         RoomCount `json:"bedroomsBelowGround,omitempty" bson:"bedroomsBelowGround,omitempty"`
	BasementType                string    `json:"basementType,omitempty" bson:"basementType,omitempty"`
	ConstructionStyleAttachment string    `json:"constructionStyleAttachment,omitempty" bson:"constructionStyleAttachment,omitempty"`
	CoolingType                 string    `json:"coolingType,omitempty" bson:"coolingType,omitempty"`
	HeatingType                 string    `json:"heatingType,omitempty" bson:"heatingType,omitempty"`
	SizeInterior                string    `json:"sizeInterior,omitempty" bson:"sizeInterior,omitempty"`
	StoriesTotal                string    `json:"storiesTotal,omitempty" bson:"storiesTotal,omitempty"`
	Type                        string    `json:"type" bson:"type"`
}

// Land describes the lot.
type Land struct {
	SizeTotalText string `json:"sizeTotalText,omitempty" bson:"sizeTotalText,omitempty"`
	Acreage       string `json:"acreage,omitempty" bson:"acreage,omitempty"`
	Amenities     string `json:"amenities,omitempty" bson:"amenities,omitempty"`
}

// Address is the postal address of a listing.
type Address struct {
	StreetAddress string `json:"streetAddress" bson:"streetAddress"`
	City          string `json:"city" bson:"city"`
	Province      string `json:"province" bson:"province"`
	PostalCode    string `json:"postalCode" bson:"postalCode"`
	Country       string `json:"country" bson:"country"`
	CommunityName string `json:"communityName,omitempty" bson:"communityName,omitempty"`
}

// GeoPoint is a GeoJSON point; Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string     `json:"type" bson:"type"`
	Coordinates [2]float64 `json:"coordinates" bson:"coordinates"`
}

// NewGeoPoint returns a GeoJSON point for the given coordinates.
func NewGeoPoint(longitude, latitude float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: [2]float64{longitude, latitude}}
}

// Agent is the listing agent as delivered by the ingestion feed.
type Agent struct {
	ID       string `json:"id" bson:"id"`
	Name     string `json:"name" bson:"name"`
	Position string `json:"position,omitempty" bson:"position,omitempty"`
}

// Property is an externally sourced listing. ID is the feed identifier, not
// the store's primary key.
type Property struct {
	ID              string     `json:"id" bson:"id"`
	ListingID       string     `json:"listingId" bson:"listingId"`
	URL             string     `json:"url,omitempty" bson:"url,omitempty"`
	Building        Building   `json:"building" bson:"building"`
	Land            Land       `json:"land" bson:"land"`
	Address         Address    `json:"address" bson:"address"`
	Location        GeoPoint   `json:"location" bson:"location"`
	Agent           []Agent    `json:"agent,omitempty" bson:"agent,omitempty"`
	Features        string     `json:"features,omitempty" bson:"features,omitempty"`
	OwnershipType   string     `json:"ownershipType,omitempty" bson:"ownershipType,omitempty"`
	Images          []string   `json:"images,omitempty" bson:"images,omitempty"`
	Price           float64    `json:"price" bson:"price"`
	PropertyType    string     `json:"propertyType" bson:"propertyType"`
	TransactionType string     `json:"transactionType" bson:"transactionType"`
	Description     string     `json:"description,omitempty" bson:"description,omitempty"`
	LastUpdated     time.Time  `json:"lastUpdated" bson:"lastUpdated"`
	IsDeleted       bool       `json:"isDeleted" bson:"isDeleted"`
	DeletedAt       *time.Time `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"`
}
