package models

// Location represents a geographical location with latitude and longitude coordinates.
type Location struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lon float64 `bson:"lon" json:"lon"`
}

// DefaultLocation is used for vehicles that have never reported a position (Nairobi).
var DefaultLocation = Location{Lat: -1.2921, Lon: 36.8219}
