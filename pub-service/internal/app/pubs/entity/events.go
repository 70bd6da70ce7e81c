package entity

import "time"

// Типы событий топика pub_events
const (
	EventPubCreated    = "PUB_CREATED"
	EventPubDeleted    = "PUB_DELETED"
	EventRatingCreated = "RATING_CREATED"
	EventRatingUpdated = "RATING_UPDATED"
	EventRatingDeleted = "RATING_DELETED"
	EventPhotoUploaded = "PHOTO_UPLOADED"
)

type PubEvent struct {
	EventType string    `json:"eventType"`
	PubID     string    `json:"pubId"`
	Name      string    `json:"name,omitempty"`
	Latitude  float64   `json:"latitude,omitempty"`
	Longitude float64   `json:"longitude,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type RatingEvent struct {
	EventType string    `json:"eventType"`
	RatingID  string    `json:"ratingId"`
	PubID     string    `json:"pubId"`
	UserID    string    `json:"userId"`
	Score     float64   `json:"score,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type PhotoEvent struct {
	EventType string    `json:"eventType"`
	PhotoID   string    `json:"photoId"`
	UserID    string    `json:"userId"`
	PubID     *string   `json:"pubId,omitempty"`
	RatingID  *string   `json:"ratingId,omitempty"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
}
