// Package rating считает агрегированную оценку паба.
// Оценка не хранится в таблице пабов, а вычисляется из живых оценок при чтении.
package rating

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
)

const (
	MinScore = 1.0
	MaxScore = 10.0

	// NoRatingDisplay - отображение для паба без оценок
	NoRatingDisplay = "—"
)

var ErrInvalidScore = errors.New("score must be between 1 and 10")

// Aggregate - средняя оценка и количество оценок.
// Average == nil означает "оценок пока нет", что отличается от среднего 0.0.
type Aggregate struct {
	Average *float64 `json:"average"`
	Count   int      `json:"count"`
}

// HasRatings - есть ли хотя бы одна оценка
func (a Aggregate) HasRatings() bool {
	return a.Average != nil
}

// Mean - среднее арифметическое, nil для пустого набора
func Mean(scores []float64) Aggregate {
	if len(scores) == 0 {
		return Aggregate{}
	}

	var sum float64
	for _, s := range scores {
		sum += s
	}
	avg := sum / float64(len(scores))

	return Aggregate{Average: &avg, Count: len(scores)}
}

// FromSQL конвертирует строку AVG/COUNT из сгруппированного запроса
func FromSQL(avg sql.NullFloat64, count int64) Aggregate {
	if !avg.Valid || count == 0 {
		return Aggregate{}
	}
	value := avg.Float64
	return Aggregate{Average: &value, Count: int(count)}
}

// Display округляет среднее до одного знака: 9.1666 -> "9.2"
func Display(a Aggregate) string {
	if a.Average == nil {
		return NoRatingDisplay
	}
	return strconv.FormatFloat(math.Round(*a.Average*10)/10, 'f', 1, 64)
}

// ValidateScore проверяет что оценка в [1, 10]
func ValidateScore(score float64) error {
	if math.IsNaN(score) || math.IsInf(score, 0) || score < MinScore || score > MaxScore {
		return fmt.Errorf("%w: got %v", ErrInvalidScore, score)
	}
	return nil
}

// Less - порядок "лучшие сверху": по убыванию среднего, пабы без оценок в конце
func Less(a, b Aggregate) bool {
	switch {
	case a.Average == nil:
		return false
	case b.Average == nil:
		return true
	default:
		return *a.Average > *b.Average
	}
}
