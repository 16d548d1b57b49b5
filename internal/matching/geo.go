package matching

import (
	"math"
)

// earthRadiusKM is the mean Earth radius used for great-circle distance.
const earthRadiusKM = 6371.0

// DistanceKM computes the great-circle distance in kilometers between
// two (latitude, longitude) pairs given in degrees, using the haversine
// formula.
func DistanceKM(lat1, long1, lat2, long2 float64) float64 {
	phi1 := radians(lat1)
	phi2 := radians(lat2)
	dPhi := radians(lat2 - lat1)
	dLambda := radians(long2 - long1)

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}

// WithinRadius reports whether the two points are at most radiusKM
// apart. The boundary is inclusive: a point exactly at the radius
// matches.
func WithinRadius(lat1, long1, lat2, long2, radiusKM float64) bool {
	return DistanceKM(lat1, long1, lat2, long2) <= radiusKM
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
