// Package geo provides geospatial primitives for candidate proximity search
// and coarse location display.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distance.
const EarthRadiusKm = 6371.0

// DistanceKm computes the great-circle (Haversine) distance in kilometers
// between two points given in decimal degrees.
//
// Valid input ranges are latitude [-90, 90] and longitude [-180, 180].
// Inputs are not validated; callers own range checking. Identical
// coordinates yield exactly 0.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	if lat1 == lat2 && lon1 == lon2 {
		return 0
	}

	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}
