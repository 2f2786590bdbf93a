package geo

import (
	"context"

	"github.com/kiranakart/kiranakart-backend/pkg/types"
)

// Centroid is a known settlement with a match radius expressed in raw
// degrees. Distances are compared in degree space, which is accurate
// enough at district scale and keeps the match deterministic.
type Centroid struct {
	City   string
	Coords types.Coordinates
	Radius float64
}

// AnantapurCentroids covers the towns the storefront launched in plus the
// surrounding mandal headquarters, so near-miss fixes still land on a city.
var AnantapurCentroids = []Centroid{
	{City: "Anantapur", Coords: types.Coordinates{Lat: 14.6819, Lng: 77.6006}, Radius: 0.18},
	{City: "Kalyandurg", Coords: types.Coordinates{Lat: 14.5450, Lng: 77.1052}, Radius: 0.15},
	{City: "Ramagiri", Coords: types.Coordinates{Lat: 14.1470, Lng: 77.4680}, Radius: 0.12},
	{City: "Dharmavaram", Coords: types.Coordinates{Lat: 14.4137, Lng: 77.7126}, Radius: 0.15},
	{City: "Tadipatri", Coords: types.Coordinates{Lat: 14.9070, Lng: 78.0100}, Radius: 0.15},
	{City: "Guntakal", Coords: types.Coordinates{Lat: 15.1711, Lng: 77.3624}, Radius: 0.15},
	{City: "Hindupur", Coords: types.Coordinates{Lat: 13.8280, Lng: 77.4910}, Radius: 0.15},
	{City: "Kadiri", Coords: types.Coordinates{Lat: 14.1122, Lng: 78.1599}, Radius: 0.15},
	{City: "Penukonda", Coords: types.Coordinates{Lat: 14.0833, Lng: 77.5960}, Radius: 0.12},
	{City: "Rayadurg", Coords: types.Coordinates{Lat: 14.7000, Lng: 76.8500}, Radius: 0.12},
}

// CentroidMatcher is the offline fallback resolver. It never calls the
// network and only answers when the fix lands inside a known radius.
type CentroidMatcher struct {
	centroids []Centroid
}

// NewCentroidMatcher builds a matcher over the given table, defaulting to
// the Anantapur district set when the table is empty.
func NewCentroidMatcher(centroids []Centroid) *CentroidMatcher {
	if len(centroids) == 0 {
		centroids = AnantapurCentroids
	}
	return &CentroidMatcher{centroids: centroids}
}

// ReverseGeocode returns the nearest centroid's city when the fix falls
// within that centroid's radius, otherwise ErrNoResult.
func (m *CentroidMatcher) ReverseGeocode(_ context.Context, lat, lng float64) (string, error) {
	bestCity := ""
	bestDistSq := 0.0
	bestRadius := 0.0

	for _, c := range m.centroids {
		dLat := lat - c.Coords.Lat
		dLng := lng - c.Coords.Lng
		distSq := dLat*dLat + dLng*dLng
		if bestCity == "" || distSq < bestDistSq {
			bestCity = c.City
			bestDistSq = distSq
			bestRadius = c.Radius
		}
	}

	if bestCity == "" || bestDistSq > bestRadius*bestRadius {
		return "", ErrNoResult
	}
	return bestCity, nil
}
