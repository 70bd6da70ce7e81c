package entity

import (
	"pintperfect/pub-service/internal/app/pubs/geo"
	"pintperfect/pub-service/internal/app/pubs/rating"
)

// APIResponse - единый конверт ответа {success, data?, error?, message?}
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ===================== Auth / Users =====================

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// UpdateUserRequest - частичное обновление профиля, nil поля не меняются
type UpdateUserRequest struct {
	Username       *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email          *string `json:"email" validate:"omitempty,email"`
	ProfilePicture *string `json:"profilePicture" validate:"omitempty,max=2048"`
}

// UserSummary - публичная часть пользователя для вложения в оценки
type UserSummary struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	ProfilePicture *string `json:"profilePicture"`
}

// ===================== Pubs =====================

// CreatePubRequest - координаты указателями, чтобы 0.0 отличался от отсутствия
type CreatePubRequest struct {
	Name         string   `json:"name" validate:"required,max=255"`
	Address      string   `json:"address" validate:"required"`
	Latitude     *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude    *float64 `json:"longitude" validate:"required,min=-180,max=180"`
	PhoneNumber  *string  `json:"phoneNumber" validate:"omitempty,max=50"`
	Website      *string  `json:"website" validate:"omitempty,max=2048"`
	OpeningHours *string  `json:"openingHours"`
}

type UpdatePubRequest struct {
	Name         *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Address      *string  `json:"address" validate:"omitempty,min=1"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
	PhoneNumber  *string  `json:"phoneNumber" validate:"omitempty,max=50"`
	Website      *string  `json:"website" validate:"omitempty,max=2048"`
	OpeningHours *string  `json:"openingHours"`
}

// PubWithRating - паб с производной оценкой
type PubWithRating struct {
	Pub
	AverageRating *float64 `json:"averageRating"` // null - оценок пока нет
	RatingCount   int      `json:"ratingCount"`
	DisplayRating string   `json:"displayRating"`
	DistanceKm    *float64 `json:"distanceKm,omitempty"`
	Photos        []Photo  `json:"photos,omitempty"`
}

// NewPubWithRating собирает ответ из паба и агрегата
func NewPubWithRating(pub Pub, agg rating.Aggregate) PubWithRating {
	return PubWithRating{
		Pub:           pub,
		AverageRating: agg.Average,
		RatingCount:   agg.Count,
		DisplayRating: rating.Display(agg),
	}
}

// Aggregate возвращает оценку паба в виде агрегата
func (p PubWithRating) Aggregate() rating.Aggregate {
	return rating.Aggregate{Average: p.AverageRating, Count: p.RatingCount}
}

// PubSummary - краткая информация о пабе для вложения в оценки
type PubSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// NearbyRequest - нормализованный запрос поиска рядом
type NearbyRequest struct {
	Center       geo.Point
	RadiusKm     float64
	Strict       bool // точный круг вместо прямоугольника
	SortByRating bool // лучшие сверху, без оценок в конце
}

// ListPubsRequest - параметры списка всех пабов
type ListPubsRequest struct {
	SortByRating bool
}

// ===================== Ratings =====================

type CreateRatingRequest struct {
	PubID   string   `json:"pubId" validate:"required"`
	Score   *float64 `json:"score" validate:"required"`
	Comment *string  `json:"comment" validate:"omitempty,max=2000"`
}

type UpdateRatingRequest struct {
	Score   *float64 `json:"score"`
	Comment *string  `json:"comment" validate:"omitempty,max=2000"`
}

// RatingWithDetails - оценка с автором или пабом
type RatingWithDetails struct {
	Rating
	User *UserSummary `json:"user,omitempty"`
	Pub  *PubSummary  `json:"pub,omitempty"`
}

// ===================== Photos =====================

// UploadPhotoRequest - привязка загружаемой фотографии
type UploadPhotoRequest struct {
	PubID    *string
	RatingID *string
}

// UploadPhotoBase64Request - фотография в виде data URL (data:image/jpeg;base64,...)
type UploadPhotoBase64Request struct {
	Image    string  `json:"image" validate:"required"`
	PubID    *string `json:"pubId"`
	RatingID *string `json:"ratingId"`
}

// ===================== Seed =====================

type SeedResult struct {
	Users   int  `json:"userCount"`
	Pubs    int  `json:"pubCount"`
	Ratings int  `json:"ratingCount"`
	Skipped bool `json:"skipped,omitempty"` // данные уже есть, ничего не создано
}
