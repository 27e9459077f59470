package geo

import "math"

// EarthRadiusMeters is the mean Earth radius used by Distance.
const EarthRadiusMeters = 6371000

// Point is a coordinate in decimal degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Origin is stored in place of a location when none was reported.
var Origin = Point{}

// Valid reports whether the point lies within the latitude/longitude ranges.
func (p Point) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180
}

// Distance returns the great-circle distance between a and b in meters (haversine).
func Distance(a, b Point) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	lat1 := toRadians(a.Latitude)
	lat2 := toRadians(b.Latitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1)*math.Cos(lat2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

func toRadians(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}

// Fence is a circular perimeter around an office.
type Fence struct {
	Center       Point
	RadiusMeters float64
}

// NewFence builds a fence around center.
func NewFence(center Point, radiusMeters float64) Fence {
	return Fence{Center: center, RadiusMeters: radiusMeters}
}

// DistanceFrom returns how far p is from the fence center in meters.
func (f Fence) DistanceFrom(p Point) float64 {
	return Distance(p, f.Center)
}

// Contains reports whether p lies on or inside the perimeter.
func (f Fence) Contains(p Point) bool {
	return f.DistanceFrom(p) <= f.RadiusMeters
}
