package handler

import (
	"context"
	"io"
	"time"

	"pintperfect/pub-service/internal/app/pubs/entity"

	"github.com/stretchr/testify/mock"
)

type MockPubService struct {
	mock.Mock
}

func (m *MockPubService) CreatePub(ctx context.Context, req *entity.CreatePubRequest) (*entity.PubWithRating, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PubWithRating), args.Error(1)
}

func (m *MockPubService) GetPub(ctx context.Context, pubID string) (*entity.PubWithRating, error) {
	args := m.Called(ctx, pubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PubWithRating), args.Error(1)
}

func (m *MockPubService) ListPubs(ctx context.Context, req entity.ListPubsRequest) ([]entity.PubWithRating, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PubWithRating), args.Error(1)
}

func (m *MockPubService) FindNearby(ctx context.Context, req entity.NearbyRequest) ([]entity.PubWithRating, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PubWithRating), args.Error(1)
}

func (m *MockPubService) UpdatePub(ctx context.Context, pubID string, req *entity.UpdatePubRequest) (*entity.PubWithRating, error) {
	args := m.Called(ctx, pubID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PubWithRating), args.Error(1)
}

func (m *MockPubService) DeletePub(ctx context.Context, pubID string) error {
	args := m.Called(ctx, pubID)
	return args.Error(0)
}

type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) CreateRating(ctx context.Context, userID string, req *entity.CreateRatingRequest) (*entity.Rating, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Rating), args.Error(1)
}

func (m *MockRatingService) GetRating(ctx context.Context, ratingID string) (*entity.Rating, error) {
	args := m.Called(ctx, ratingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Rating), args.Error(1)
}

func (m *MockRatingService) GetPubRatings(ctx context.Context, pubID string) ([]entity.RatingWithDetails, error) {
	args := m.Called(ctx, pubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RatingWithDetails), args.Error(1)
}

func (m *MockRatingService) GetUserRatings(ctx context.Context, userID string) ([]entity.RatingWithDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RatingWithDetails), args.Error(1)
}

func (m *MockRatingService) UpdateRating(ctx context.Context, ratingID, userID string, req *entity.UpdateRatingRequest) (*entity.Rating, error) {
	args := m.Called(ctx, ratingID, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Rating), args.Error(1)
}

func (m *MockRatingService) DeleteRating(ctx context.Context, ratingID, userID string) error {
	args := m.Called(ctx, ratingID, userID)
	return args.Error(0)
}

type MockPhotoService struct {
	mock.Mock
}

func (m *MockPhotoService) Upload(ctx context.Context, userID, ext string, content io.Reader, req entity.UploadPhotoRequest) (*entity.Photo, error) {
	args := m.Called(ctx, userID, ext, content, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Photo), args.Error(1)
}

func (m *MockPhotoService) UploadBase64(ctx context.Context, userID string, req *entity.UploadPhotoBase64Request) (*entity.Photo, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Photo), args.Error(1)
}

func (m *MockPhotoService) DeletePhoto(ctx context.Context, photoID, userID string) error {
	args := m.Called(ctx, photoID, userID)
	return args.Error(0)
}

func (m *MockPhotoService) CleanupOrphans(ctx context.Context, grace time.Duration) (int, error) {
	args := m.Called(ctx, grace)
	return args.Int(0), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuthResponse), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuthResponse), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserService) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockUserService) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, userID string, req *entity.UpdateUserRequest) (*entity.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockSeedService struct {
	mock.Mock
}

func (m *MockSeedService) Seed(ctx context.Context, skipIfPresent bool) (*entity.SeedResult, error) {
	args := m.Called(ctx, skipIfPresent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SeedResult), args.Error(1)
}
