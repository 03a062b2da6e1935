// Package geo provides the great-circle distance used to estimate lane mileage.
package geo

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

const (
	// EarthRadiusKM is the mean earth radius used by the haversine formula.
	EarthRadiusKM = 6371.0

	// MilesPerKM converts kilometres to statute miles.
	MilesPerKM = 0.621371
)

// Coordinate is a latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Validate reports whether the coordinate lies within [-90,90] x [-180,180].
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || !s2.LatLngFromDegrees(c.Lat, c.Lon).IsValid() {
		return fmt.Errorf("invalid coordinate (%g, %g)", c.Lat, c.Lon)
	}
	return nil
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// HaversineKM computes the great-circle distance between two points in kilometres.
func HaversineKM(from, to Coordinate) float64 {
	dLat := toRadians(to.Lat - from.Lat)
	dLon := toRadians(to.Lon - from.Lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(from.Lat))*math.Cos(toRadians(to.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKM * c
}

// Miles returns the haversine distance in miles rounded to the nearest integer.
func Miles(from, to Coordinate) int {
	return int(math.Round(HaversineKM(from, to) * MilesPerKM))
}
