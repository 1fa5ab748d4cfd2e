package scoring

import "math"

const earthRadiusKm = 6371

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// WithinDistance is the hard geographic filter: candidates whose destination
// is farther than thresholdKm are excluded from discovery entirely, never
// scored.
func WithinDistance(lat1, lon1, lat2, lon2, thresholdKm float64) bool {
	return HaversineKm(lat1, lon1, lat2, lon2) <= thresholdKm
}
