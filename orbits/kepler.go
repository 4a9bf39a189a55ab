package orbits

import (
	"math"

	"github.com/example/ldmrsat/geometry"
)

const (
	// EarthMu is the standard gravitational parameter for Earth in km^3/s^2.
	EarthMu = 398600.4418
	twoPi   = 2 * math.Pi
)

// CircularOrbitPeriodSeconds returns the orbital period, in seconds, of a
// circular orbit with the given radius (Earth's gravitational parameter,
// Kepler's third law).
func CircularOrbitPeriodSeconds(radiusKm float64) float64 {
	return twoPi * math.Sqrt(math.Pow(radiusKm, 3)/EarthMu)
}

// CircularPosition returns the Earth-centered Cartesian position of a
// satellite at in-plane index satIdx of plane planeIdx (out of numPlanes
// planes, satsPerPlane satellites per plane), on a circular orbit of the
// given radius and inclination, at time t seconds since epoch. This is the
// walker-constellation position model used by the constellation builder.
func CircularPosition(radiusKm, inclinationRad float64, planeIdx, satIdx, numPlanes, satsPerPlane int, tSeconds float64) geometry.Position {
	period := CircularOrbitPeriodSeconds(radiusKm)
	raan := twoPi * float64(planeIdx) / float64(numPlanes)
	theta := twoPi*float64(satIdx)/float64(satsPerPlane) + twoPi*tSeconds/period

	cosTheta, sinTheta := math.Cos(theta), math.Sin(theta)
	cosRaan, sinRaan := math.Cos(raan), math.Sin(raan)
	cosI, sinI := math.Cos(inclinationRad), math.Sin(inclinationRad)

	return geometry.Position{
		X: radiusKm * (cosTheta*cosRaan - sinTheta*sinRaan*cosI),
		Y: radiusKm * (cosTheta*sinRaan + sinTheta*cosRaan*cosI),
		Z: radiusKm * sinTheta * sinI,
	}
}
