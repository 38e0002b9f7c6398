package domain

import (
	"math"
	"testing"
)

func TestGreatCircleKm(t *testing.T) {
	origin := Coordinates{Lon: 0, Lat: 0}

	// One degree along the equator is R * pi / 180.
	oneDegreeEast := Coordinates{Lon: 1, Lat: 0}
	want := 6371.0 * math.Pi / 180
	if got := GreatCircleKm(origin, oneDegreeEast); math.Abs(got-want) > 0.01 {
		t.Errorf("equator degree = %f km, want %f", got, want)
	}

	// Same arc along a meridian.
	oneDegreeNorth := Coordinates{Lon: 0, Lat: 1}
	if got := GreatCircleKm(origin, oneDegreeNorth); math.Abs(got-want) > 0.01 {
		t.Errorf("meridian degree = %f km, want %f", got, want)
	}

	// Antipodal points are half a circumference apart.
	antipode := Coordinates{Lon: 180, Lat: 0}
	if got := GreatCircleKm(origin, antipode); math.Abs(got-6371.0*math.Pi) > 0.1 {
		t.Errorf("antipodal distance = %f km, want %f", got, 6371.0*math.Pi)
	}
}

func TestGreatCircleKmSymmetry(t *testing.T) {
	a := Coordinates{Lon: 13.4050, Lat: 52.5200}
	b := Coordinates{Lon: 2.3522, Lat: 48.8566}

	if GreatCircleKm(a, b) != GreatCircleKm(b, a) {
		t.Error("great-circle distance should be symmetric")
	}
	if GreatCircleKm(a, a) != 0 {
		t.Error("distance to self should be zero")
	}
}
