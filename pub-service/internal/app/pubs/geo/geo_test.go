package geo

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	dublin = Point{Lat: 53.349805, Lng: -6.26031}
	galway = Point{Lat: 53.270668, Lng: -9.056791}
)

func TestNewBoundingBox_Deltas(t *testing.T) {
	box, err := NewBoundingBox(Point{Lat: 0, Lng: 0}, 111)
	require.NoError(t, err)

	assert.InDelta(t, -1.0, box.MinLat, 1e-9)
	assert.InDelta(t, 1.0, box.MaxLat, 1e-9)
	assert.InDelta(t, -1.0, box.MinLng, 1e-9)
	assert.InDelta(t, 1.0, box.MaxLng, 1e-9)
}

func TestNewBoundingBox_LongitudeWidensWithLatitude(t *testing.T) {
	box, err := NewBoundingBox(Point{Lat: 60, Lng: 10}, 111)
	require.NoError(t, err)

	// cos(60°) = 0.5
	assert.InDelta(t, 8.0, box.MinLng, 1e-9)
	assert.InDelta(t, 12.0, box.MaxLng, 1e-9)
}

func TestNewBoundingBox_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		center Point
		radius float64
	}{
		{"zero radius", dublin, 0},
		{"negative radius", dublin, -1},
		{"NaN radius", dublin, math.NaN()},
		{"infinite radius", dublin, math.Inf(1)},
		{"latitude above 90", Point{Lat: 91, Lng: 0}, 1},
		{"longitude below -180", Point{Lat: 0, Lng: -181}, 1},
		{"NaN latitude", Point{Lat: math.NaN(), Lng: 0}, 1},
		{"near north pole", Point{Lat: 85.5, Lng: 0}, 1},
		{"near south pole", Point{Lat: -89.9, Lng: 0}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBoundingBox(tt.center, tt.radius)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestNewBoundingBox_AcceptsPoleGuardBoundary(t *testing.T) {
	_, err := NewBoundingBox(Point{Lat: 85, Lng: 0}, 1)
	assert.NoError(t, err)
	_, err = NewBoundingBox(Point{Lat: -85, Lng: 0}, 1)
	assert.NoError(t, err)
}

func TestNewBoundingBox_ClampsLatitude(t *testing.T) {
	box, err := NewBoundingBox(Point{Lat: 84.9, Lng: 0}, 1000)
	require.NoError(t, err)
	assert.Equal(t, 90.0, box.MaxLat)
}

func TestContains_DublinGalway(t *testing.T) {
	box, err := NewBoundingBox(dublin, 2)
	require.NoError(t, err)

	assert.True(t, box.Contains(dublin))
	assert.False(t, box.Contains(galway))
}

func TestContains_InclusiveBounds(t *testing.T) {
	box, err := NewBoundingBox(Point{Lat: 0, Lng: 0}, 111)
	require.NoError(t, err)

	assert.True(t, box.Contains(Point{Lat: box.MaxLat, Lng: box.MaxLng}))
	assert.True(t, box.Contains(Point{Lat: box.MinLat, Lng: box.MinLng}))
	assert.False(t, box.Contains(Point{Lat: box.MaxLat + 1e-9, Lng: 0}))
}

func TestLngRanges(t *testing.T) {
	t.Run("no wrap", func(t *testing.T) {
		box, err := NewBoundingBox(dublin, 5)
		require.NoError(t, err)
		ranges := box.LngRanges()
		require.Len(t, ranges, 1)
		assert.Equal(t, box.MinLng, ranges[0].Min)
		assert.Equal(t, box.MaxLng, ranges[0].Max)
	})

	t.Run("wraps east", func(t *testing.T) {
		box, err := NewBoundingBox(Point{Lat: 0, Lng: 179.9}, 111)
		require.NoError(t, err)
		ranges := box.LngRanges()
		require.Len(t, ranges, 2)
		assert.InDelta(t, 178.9, ranges[0].Min, 1e-9)
		assert.Equal(t, 180.0, ranges[0].Max)
		assert.Equal(t, -180.0, ranges[1].Min)
		assert.InDelta(t, -179.1, ranges[1].Max, 1e-9)

		assert.True(t, box.Contains(Point{Lat: 0, Lng: -179.5}))
		assert.False(t, box.Contains(Point{Lat: 0, Lng: -170}))
	})

	t.Run("wraps west", func(t *testing.T) {
		box, err := NewBoundingBox(Point{Lat: 0, Lng: -179.9}, 111)
		require.NoError(t, err)
		ranges := box.LngRanges()
		require.Len(t, ranges, 2)
		assert.True(t, box.Contains(Point{Lat: 0, Lng: 179.5}))
	})

	t.Run("whole circle", func(t *testing.T) {
		box, err := NewBoundingBox(Point{Lat: 80, Lng: 0}, 10000)
		require.NoError(t, err)
		assert.Equal(t, []LngRange{{Min: -180, Max: 180}}, box.LngRanges())
	})
}

func TestDistanceKm(t *testing.T) {
	assert.Equal(t, 0.0, DistanceKm(dublin, dublin))

	d := DistanceKm(dublin, galway)
	assert.InDelta(t, 186, d, 5)
	assert.InDelta(t, d, DistanceKm(galway, dublin), 1e-9)
}

func TestWithinRadius_CornerIsOutsideCircle(t *testing.T) {
	center := Point{Lat: 0, Lng: 0}
	box, err := NewBoundingBox(center, 10)
	require.NoError(t, err)

	corner := Point{Lat: box.MaxLat, Lng: box.MaxLng}
	assert.True(t, box.Contains(corner))
	assert.False(t, WithinRadius(center, 10, corner))
	assert.LessOrEqual(t, DistanceKm(center, corner), 10*math.Sqrt2)
}

// destination - точка на расстоянии distKm от start по азимуту bearing (радианы)
func destination(start Point, distKm, bearing float64) Point {
	lat1 := start.Lat * math.Pi / 180
	lng1 := start.Lng * math.Pi / 180
	delta := distKm / EarthRadiusKm

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(bearing))
	lng2 := lng1 + math.Atan2(
		math.Sin(bearing)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)

	lng := lng2 * 180 / math.Pi
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return Point{Lat: lat2 * 180 / math.Pi, Lng: lng}
}

func TestBoundingBox_NoFalseNegatives(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		center := Point{
			Lat: rng.Float64()*2*MaxSearchLatitude - MaxSearchLatitude,
			Lng: rng.Float64()*360 - 180,
		}
		radius := 0.1 + rng.Float64()*49.9

		box, err := NewBoundingBox(center, radius)
		require.NoError(t, err)

		for j := 0; j < 20; j++ {
			dist := rng.Float64() * radius
			bearing := rng.Float64() * 2 * math.Pi
			p := destination(center, dist, bearing)

			if !WithinRadius(center, radius, p) {
				continue
			}
			if !box.Contains(p) {
				t.Fatalf("point %+v at %.4f km is inside radius %.4f of %+v but outside the box", p, DistanceKm(center, p), radius, center)
			}
		}
	}
}

func TestBoundingBox_NoFalseNegativesForLargeRadii(t *testing.T) {
	rng := rand.New(rand.NewSource(1500))

	for i := 0; i < 2000; i++ {
		center := Point{
			Lat: rng.Float64()*2*MaxSearchLatitude - MaxSearchLatitude,
			Lng: rng.Float64()*360 - 180,
		}
		radius := 50 + rng.Float64()*4950

		box, err := NewBoundingBox(center, radius)
		require.NoError(t, err)

		for j := 0; j < 20; j++ {
			// половина точек у самой границы круга
			dist := radius * (0.999 + rng.Float64()*0.001)
			if j%2 == 0 {
				dist = rng.Float64() * radius
			}
			p := destination(center, dist, rng.Float64()*2*math.Pi)

			if !WithinRadius(center, radius, p) {
				continue
			}
			if !box.Contains(p) {
				t.Fatalf("point %+v at %.4f km is inside radius %.4f of %+v but outside the box", p, DistanceKm(center, p), radius, center)
			}
		}
	}
}

func TestNewBoundingBox_LargeRadiusCases(t *testing.T) {
	tests := []struct {
		name   string
		center Point
		radius float64
		p      Point
	}{
		{"across the north pole", Point{Lat: 80, Lng: 0}, 1500, Point{Lat: 88, Lng: 180}},
		{"widest longitude above center", Point{Lat: 60, Lng: 0}, 1000, Point{Lat: 61.26, Lng: 18.15}},
		{"across the south pole", Point{Lat: -84, Lng: 30}, 1200, Point{Lat: -87, Lng: -150}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, WithinRadius(tt.center, tt.radius, tt.p))

			box, err := NewBoundingBox(tt.center, tt.radius)
			require.NoError(t, err)
			assert.True(t, box.Contains(tt.p))
		})
	}
}

func TestNewBoundingBox_PoleInsideBoxCoversAllLongitudes(t *testing.T) {
	box, err := NewBoundingBox(Point{Lat: -80, Lng: 45}, 1200)
	require.NoError(t, err)

	assert.Equal(t, -90.0, box.MinLat)
	assert.Equal(t, []LngRange{{Min: -180, Max: 180}}, box.LngRanges())
}

func TestNewBoundingBox_SmallRadiusKeepsFlatFormula(t *testing.T) {
	box, err := NewBoundingBox(dublin, 5)
	require.NoError(t, err)

	lngDelta := 5 / (KmPerDegreeLat * math.Cos(dublin.Lat*math.Pi/180))
	assert.InDelta(t, dublin.Lng-lngDelta, box.MinLng, 1e-12)
	assert.InDelta(t, dublin.Lng+lngDelta, box.MaxLng, 1e-12)
}

func TestBoundingBox_FalsePositivesBoundedBySqrt2(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	center := Point{Lat: 40, Lng: 20}
	radius := 10.0

	box, err := NewBoundingBox(center, radius)
	require.NoError(t, err)

	for i := 0; i < 5000; i++ {
		p := Point{
			Lat: box.MinLat + rng.Float64()*(box.MaxLat-box.MinLat),
			Lng: box.MinLng + rng.Float64()*(box.MaxLng-box.MinLng),
		}
		// небольшой запас на разницу между 111 км и длиной градуса по сфере
		assert.LessOrEqual(t, DistanceKm(center, p), radius*math.Sqrt2*1.01)
	}
}

func TestFilter(t *testing.T) {
	type pub struct {
		name string
		at   Point
	}
	pubs := []pub{{"Temple Bar", dublin}, {"Tigh Neachtain", galway}}

	box, err := NewBoundingBox(dublin, 2)
	require.NoError(t, err)

	result := Filter(pubs, box, func(p pub) Point { return p.at })
	require.Len(t, result, 1)
	assert.Equal(t, "Temple Bar", result[0].name)
}
