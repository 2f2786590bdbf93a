package types

// Coordinates is a raw lat/lng pair as reported by the browser geolocation API.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
