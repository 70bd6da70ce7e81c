package service

import (
	"context"
	"io"
	"time"

	"pintperfect/pub-service/internal/app/pubs/entity"
)

type PubServiceInterface interface {
	CreatePub(ctx context.Context, req *entity.CreatePubRequest) (*entity.PubWithRating, error)
	GetPub(ctx context.Context, pubID string) (*entity.PubWithRating, error)
	ListPubs(ctx context.Context, req entity.ListPubsRequest) ([]entity.PubWithRating, error)
	FindNearby(ctx context.Context, req entity.NearbyRequest) ([]entity.PubWithRating, error)
	UpdatePub(ctx context.Context, pubID string, req *entity.UpdatePubRequest) (*entity.PubWithRating, error)
	DeletePub(ctx context.Context, pubID string) error
}

type RatingServiceInterface interface {
	CreateRating(ctx context.Context, userID string, req *entity.CreateRatingRequest) (*entity.Rating, error)
	GetRating(ctx context.Context, ratingID string) (*entity.Rating, error)
	GetPubRatings(ctx context.Context, pubID string) ([]entity.RatingWithDetails, error)
	GetUserRatings(ctx context.Context, userID string) ([]entity.RatingWithDetails, error)
	UpdateRating(ctx context.Context, ratingID, userID string, req *entity.UpdateRatingRequest) (*entity.Rating, error)
	DeleteRating(ctx context.Context, ratingID, userID string) error
}

type PhotoServiceInterface interface {
	Upload(ctx context.Context, userID, ext string, content io.Reader, req entity.UploadPhotoRequest) (*entity.Photo, error)
	UploadBase64(ctx context.Context, userID string, req *entity.UploadPhotoBase64Request) (*entity.Photo, error)
	DeletePhoto(ctx context.Context, photoID, userID string) error
	CleanupOrphans(ctx context.Context, grace time.Duration) (int, error)
}

type UserServiceInterface interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error)
	Authenticate(ctx context.Context, token string) (*entity.User, error)
	Logout(ctx context.Context, token string) error
	GetUser(ctx context.Context, userID string) (*entity.User, error)
	UpdateUser(ctx context.Context, userID string, req *entity.UpdateUserRequest) (*entity.User, error)
	DeleteUser(ctx context.Context, userID string) error
}

type SeedServiceInterface interface {
	Seed(ctx context.Context, skipIfPresent bool) (*entity.SeedResult, error)
}
