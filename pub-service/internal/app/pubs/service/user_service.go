package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pintperfect/pub-service/internal/app/pubs/entity"
	"pintperfect/pub-service/internal/app/pubs/repository"
	"pintperfect/pub-service/internal/app/pubs/util"

	"github.com/google/uuid"
)

// UserService - регистрация, вход по JWT и профиль пользователя
type UserService struct {
	userRepo     repository.UserRepository
	ratingRepo   repository.RatingRepository
	blacklist    repository.TokenBlacklist
	ratingCache  repository.RatingCache // nil - кэш выключен
	jwtManager   *util.JWTManager
	queryTimeout time.Duration
}

func NewUserService(
	userRepo repository.UserRepository,
	ratingRepo repository.RatingRepository,
	blacklist repository.TokenBlacklist,
	ratingCache repository.RatingCache,
	jwtManager *util.JWTManager,
	queryTimeout time.Duration,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		ratingRepo:   ratingRepo,
		blacklist:    blacklist,
		ratingCache:  ratingCache,
		jwtManager:   jwtManager,
		queryTimeout: queryTimeout,
	}
}

// Register создает пользователя и сразу выдает токен
func (s *UserService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResponse, error) {
	hash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(req.Username),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.authResponse(user)
}

// Login проверяет email и пароль; причина отказа наружу не раскрывается
func (s *UserService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(user)
}

// Authenticate проверяет токен: подпись и срок, черный список, существование пользователя
func (s *UserService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	revoked, err := s.blacklist.IsBlacklisted(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Пользователь удален, токен больше не действует
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Logout добавляет токен в черный список до истечения его срока
func (s *UserService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtManager.ValidateToken(token)
	if err != nil {
		return ErrInvalidToken
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.blacklist.Add(ctx, token, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

func (s *UserService) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateUser меняет только переданные поля профиля
func (s *UserService) UpdateUser(ctx context.Context, userID string, req *entity.UpdateUserRequest) (*entity.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.Username != nil {
		user.Username = strings.TrimSpace(*req.Username)
	}
	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = req.ProfilePicture
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, ErrUserExists
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser удаляет пользователя вместе с его оценками и фото.
// Кэш агрегатов сбрасывается для каждого паба, который он оценивал.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	var ratedPubs []string
	if s.ratingCache != nil {
		ratings, err := s.ratingRepo.ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list user ratings: %w", err)
		}
		ratedPubs = uniqueIDs(ratings, func(r entity.Rating) string { return r.PubID })
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	for _, pubID := range ratedPubs {
		invalidateRating(ctx, s.ratingCache, pubID)
	}
	return nil
}

func (s *UserService) authResponse(user *entity.User) (*entity.AuthResponse, error) {
	token, _, err := s.jwtManager.GenerateToken(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &entity.AuthResponse{User: user, Token: token}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
