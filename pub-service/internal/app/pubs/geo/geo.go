// Package geo отбирает пабы вокруг точки по прямоугольнику широта/долгота.
//
// Прямоугольник приближает круг радиуса r: пабы в углах могут быть дальше r
// (до r·√2). Для точного круга используется WithinRadius как пост-фильтр.
package geo

import (
	"errors"
	"fmt"
	"math"
)

const (
	// KmPerDegreeLat - длина одного градуса широты
	KmPerDegreeLat = 111.0

	// EarthRadiusKm - средний радиус Земли для haversine
	EarthRadiusKm = 6371.0

	// MaxSearchLatitude - выше этой широты cos(lat) -> 0 и окно долготы расходится
	MaxSearchLatitude = 85.0
)

var ErrInvalidInput = errors.New("invalid geo input")

// Point - координаты в градусах
type Point struct {
	Lat float64
	Lng float64
}

// Validate проверяет что координаты конечны и в допустимых диапазонах
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return fmt.Errorf("%w: coordinates must be finite numbers", ErrInvalidInput)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidInput)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidInput)
	}
	return nil
}

// LngRange - отрезок долгот [Min, Max], Min <= Max
type LngRange struct {
	Min float64
	Max float64
}

type BoundingBox struct {
	Center   Point
	RadiusKm float64

	MinLat float64
	MaxLat float64

	// Окно долготы до нормализации, может выходить за ±180
	MinLng float64
	MaxLng float64
}

// NewBoundingBox строит прямоугольник вокруг center:
// Δlat = r/111, Δlng = r/(111·cos(lat)).
// Для больших r окно долготы расширяется до точной полуширины круга
// asin(sin(r/R)/cos(lat)), а если прямоугольник достает до полюса, берутся все долготы.
func NewBoundingBox(center Point, radiusKm float64) (BoundingBox, error) {
	if err := center.Validate(); err != nil {
		return BoundingBox{}, err
	}
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm <= 0 {
		return BoundingBox{}, fmt.Errorf("%w: radius must be a positive number", ErrInvalidInput)
	}
	if math.Abs(center.Lat) > MaxSearchLatitude {
		return BoundingBox{}, fmt.Errorf("%w: latitude must be within ±%.0f for proximity search", ErrInvalidInput, MaxSearchLatitude)
	}

	latDelta := radiusKm / KmPerDegreeLat
	box := BoundingBox{
		Center:   center,
		RadiusKm: radiusKm,
		MinLat:   math.Max(center.Lat-latDelta, -90),
		MaxLat:   math.Min(center.Lat+latDelta, 90),
	}

	// Круг накрывает полюс: ему принадлежат точки любой долготы
	if box.MinLat <= -90 || box.MaxLat >= 90 {
		box.MinLng, box.MaxLng = -180, 180
		return box, nil
	}

	lngDelta := math.Max(
		radiusKm/(KmPerDegreeLat*math.Cos(center.Lat*math.Pi/180)),
		sphericalLngDelta(center.Lat, radiusKm),
	)
	box.MinLng = center.Lng - lngDelta
	box.MaxLng = center.Lng + lngDelta
	return box, nil
}

// sphericalLngDelta - наибольшее отклонение по долготе точек круга, в градусах.
// Вызывается только когда круг не доходит до полюса, т.е. sin(r/R) < cos(lat).
func sphericalLngDelta(lat, radiusKm float64) float64 {
	ratio := math.Sin(radiusKm/EarthRadiusKm) / math.Cos(lat*math.Pi/180)
	if ratio >= 1 {
		return 180
	}
	// запас на погрешность вычислений на самой границе круга
	return math.Asin(ratio)*180/math.Pi + 1e-9
}

// LngRanges возвращает окно долготы в пределах [-180, 180].
// Окно через антимеридиан делится на два отрезка.
func (b BoundingBox) LngRanges() []LngRange {
	if b.MaxLng-b.MinLng >= 360 {
		return []LngRange{{Min: -180, Max: 180}}
	}
	switch {
	case b.MinLng < -180:
		return []LngRange{
			{Min: b.MinLng + 360, Max: 180},
			{Min: -180, Max: b.MaxLng},
		}
	case b.MaxLng > 180:
		return []LngRange{
			{Min: b.MinLng, Max: 180},
			{Min: -180, Max: b.MaxLng - 360},
		}
	default:
		return []LngRange{{Min: b.MinLng, Max: b.MaxLng}}
	}
}

// Contains - тот же предикат, что и BETWEEN в SQL (границы включены)
func (b BoundingBox) Contains(p Point) bool {
	if p.Lat < b.MinLat || p.Lat > b.MaxLat {
		return false
	}
	for _, r := range b.LngRanges() {
		if p.Lng >= r.Min && p.Lng <= r.Max {
			return true
		}
	}
	return false
}

// DistanceKm - расстояние по большому кругу (haversine)
func DistanceKm(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusKm * c
}

// WithinRadius - точная проверка попадания в круг
func WithinRadius(center Point, radiusKm float64, p Point) bool {
	return DistanceKm(center, p) <= radiusKm
}

// Filter - линейный проход по кандидатам, тот же отбор что и в репозитории
func Filter[T any](items []T, box BoundingBox, point func(T) Point) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if box.Contains(point(item)) {
			result = append(result, item)
		}
	}
	return result
}
