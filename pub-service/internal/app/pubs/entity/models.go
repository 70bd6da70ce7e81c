package entity

import (
	"time"

	"pintperfect/pub-service/internal/app/pubs/geo"
)

// User - пользователь приложения
type User struct {
	ID             string    `json:"id" gorm:"type:uuid;primaryKey"`
	Username       string    `json:"username" gorm:"type:varchar(50);not null;uniqueIndex"`
	Email          string    `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash   string    `json:"-" gorm:"type:varchar(255);not null"` // Никогда не отдается клиенту
	ProfilePicture *string   `json:"profilePicture" gorm:"type:text"`
	CreatedAt      time.Time `json:"createdAt" gorm:"autoCreateTime"`

	// Связи нужны только для каскадного удаления
	Ratings []Rating `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Photos  []Photo  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string {
	return "users"
}

// Pub - заведение с фиксированными координатами
// Средняя оценка здесь не хранится, она считается при чтении
type Pub struct {
	ID           string    `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Address      string    `json:"address" gorm:"type:text;not null"`
	Latitude     float64   `json:"latitude" gorm:"not null;index:idx_pubs_location,priority:1"`
	Longitude    float64   `json:"longitude" gorm:"not null;index:idx_pubs_location,priority:2"`
	PhoneNumber  *string   `json:"phoneNumber" gorm:"type:varchar(50)"`
	Website      *string   `json:"website" gorm:"type:text"`
	OpeningHours *string   `json:"openingHours" gorm:"type:text"`
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`

	Ratings []Rating `json:"-" gorm:"foreignKey:PubID;constraint:OnDelete:CASCADE"`
	Photos  []Photo  `json:"-" gorm:"foreignKey:PubID;constraint:OnDelete:CASCADE"`
}

func (Pub) TableName() string {
	return "pubs"
}

// Location возвращает координаты паба для гео-фильтра
func (p Pub) Location() geo.Point {
	return geo.Point{Lat: p.Latitude, Lng: p.Longitude}
}

// Rating - оценка паба пользователем (1-10)
type Rating struct {
	ID      string    `json:"id" gorm:"type:uuid;primaryKey"`
	UserID  string    `json:"userId" gorm:"type:uuid;not null;index"`
	PubID   string    `json:"pubId" gorm:"type:uuid;not null;index"`
	Score   float64   `json:"score" gorm:"not null;check:score >= 1 AND score <= 10"`
	Comment *string   `json:"comment" gorm:"type:text"`
	Date    time.Time `json:"date" gorm:"autoCreateTime"`

	Photos []Photo `json:"photos" gorm:"foreignKey:RatingID;constraint:OnDelete:CASCADE"`
}

func (Rating) TableName() string {
	return "ratings"
}

// Photo - фотография, привязанная к пабу и/или оценке
type Photo struct {
	ID        string    `json:"id" gorm:"type:uuid;primaryKey"`
	URL       string    `json:"url" gorm:"type:text;not null"`
	UserID    string    `json:"userId" gorm:"type:uuid;not null;index"`
	PubID     *string   `json:"pubId" gorm:"type:uuid;index"`
	RatingID  *string   `json:"ratingId" gorm:"type:uuid;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (Photo) TableName() string {
	return "photos"
}
