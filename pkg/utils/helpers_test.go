package utils

import (
	"math"
	"testing"
)

func TestHaversine_OffsetNorth(t *testing.T) {
	for _, km := range []float64{1, 15, 25, 99.5} {
		lat := OffsetNorth(-27, km)
		if got := Haversine(-27, 153, lat, 153); math.Abs(got-km) > 1e-9 {
			t.Fatalf("Haversine after OffsetNorth(%v)=%v", km, got)
		}
	}
}

func TestHaversine_KnownDistance(t *testing.T) {
	// Brisbane to Toowoomba, roughly 100 km
	got := Haversine(-27.4698, 153.0251, -27.5606, 151.9539)
	if got < 100 || got > 110 {
		t.Fatalf("distance=%v outside expected band", got)
	}
}

func TestRoundTo(t *testing.T) {
	cases := []struct {
		in   float64
		p    int
		want float64
	}{
		{12.346, 2, 12.35},
		{12.344, 2, 12.34},
		{1.5, 0, 2},
		{-1.5, 0, -2},
	}
	for _, c := range cases {
		if got := RoundTo(c.in, c.p); got != c.want {
			t.Errorf("RoundTo(%v,%d)=%v want %v", c.in, c.p, got, c.want)
		}
	}
}
