package repository

import (
	"context"
	"time"

	"pintperfect/pub-service/internal/app/pubs/entity"
	"pintperfect/pub-service/internal/app/pubs/geo"
	"pintperfect/pub-service/internal/app/pubs/rating"
)

// serviceName - метка service для метрик репозиториев
const serviceName = "pub-service"

// PubRepository определяет методы для работы с пабами в PostgreSQL
type PubRepository interface {
	Create(ctx context.Context, pub *entity.Pub) error
	GetByID(ctx context.Context, id string) (*entity.Pub, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Pub, error)
	List(ctx context.Context) ([]entity.Pub, error)
	// FindInBoundingBox выбирает пабы внутри прямоугольника (границы включены)
	FindInBoundingBox(ctx context.Context, box geo.BoundingBox) ([]entity.Pub, error)
	Update(ctx context.Context, pub *entity.Pub) error
	Delete(ctx context.Context, id string) error // Оценки и фото удаляются через CASCADE
}

// RatingRepository определяет методы для работы с оценками
type RatingRepository interface {
	Create(ctx context.Context, r *entity.Rating) error
	GetByID(ctx context.Context, id string) (*entity.Rating, error)
	ListByPub(ctx context.Context, pubID string) ([]entity.Rating, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Rating, error)
	Update(ctx context.Context, r *entity.Rating) error
	Delete(ctx context.Context, id string) error
	// AggregateByPubIDs считает среднее и количество одним сгруппированным запросом.
	// В результате есть ключ для каждого переданного ID, даже без оценок.
	AggregateByPubIDs(ctx context.Context, pubIDs []string) (map[string]rating.Aggregate, error)
}

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// PhotoRepository определяет методы для работы с фотографиями
type PhotoRepository interface {
	Create(ctx context.Context, photo *entity.Photo) error
	GetByID(ctx context.Context, id string) (*entity.Photo, error)
	ListByPub(ctx context.Context, pubID string) ([]entity.Photo, error)
	ListURLs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}

// CachedRating - результат чтения кэша.
// Version - версия ключа паба на момент чтения, ее передают в Set.
type CachedRating struct {
	Aggregate rating.Aggregate
	Found     bool
	Version   int64
}

// RatingCache - явно инвалидируемый кэш агрегатов по ID паба.
// Invalidate повышает версию паба, поэтому Set со старой версией
// (агрегат посчитан до записи оценки) больше не читается из кэша.
type RatingCache interface {
	Get(ctx context.Context, pubID string) (CachedRating, error)
	Set(ctx context.Context, pubID string, version int64, agg rating.Aggregate) error
	Invalidate(ctx context.Context, pubID string) error
}

// TokenBlacklist хранит отозванные JWT до истечения их срока
type TokenBlacklist interface {
	Add(ctx context.Context, token string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}
