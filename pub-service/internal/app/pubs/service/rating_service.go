package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pintperfect/pkg/metrics"
	"pintperfect/pub-service/internal/app/pubs/entity"
	"pintperfect/pub-service/internal/app/pubs/infrastructure"
	"pintperfect/pub-service/internal/app/pubs/rating"
	"pintperfect/pub-service/internal/app/pubs/repository"

	"github.com/google/uuid"
)

// RatingService обрабатывает бизнес-логику оценок.
// Изменять и удалять оценку может только ее автор.
type RatingService struct {
	ratingRepo   repository.RatingRepository
	pubRepo      repository.PubRepository
	userRepo     repository.UserRepository
	ratingCache  repository.RatingCache
	publisher    infrastructure.MessagePublisher
	queryTimeout time.Duration
}

func NewRatingService(
	ratingRepo repository.RatingRepository,
	pubRepo repository.PubRepository,
	userRepo repository.UserRepository,
	ratingCache repository.RatingCache,
	publisher infrastructure.MessagePublisher,
	queryTimeout time.Duration,
) *RatingService {
	return &RatingService{
		ratingRepo:   ratingRepo,
		pubRepo:      pubRepo,
		userRepo:     userRepo,
		ratingCache:  ratingCache,
		publisher:    publisher,
		queryTimeout: queryTimeout,
	}
}

// CreateRating создает оценку паба.
// Оценка вне [1, 10] отклоняется до обращения к БД.
func (s *RatingService) CreateRating(ctx context.Context, userID string, req *entity.CreateRatingRequest) (*entity.Rating, error) {
	if req.Score == nil {
		return nil, fmt.Errorf("%w: score is required", ErrValidation)
	}
	if err := rating.ValidateScore(*req.Score); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if _, err := s.pubRepo.GetByID(ctx, req.PubID); err != nil {
		if errors.Is(err, repository.ErrPubNotFound) {
			return nil, ErrPubNotFound
		}
		return nil, fmt.Errorf("failed to get pub: %w", err)
	}

	r := &entity.Rating{
		ID:      uuid.NewString(),
		UserID:  userID,
		PubID:   req.PubID,
		Score:   *req.Score,
		Comment: req.Comment,
		Date:    time.Now().UTC(),
		Photos:  []entity.Photo{},
	}

	if err := s.ratingRepo.Create(ctx, r); err != nil {
		if notFound := referenceNotFound(err); notFound != nil {
			return nil, notFound
		}
		return nil, fmt.Errorf("failed to create rating: %w", err)
	}

	invalidateRating(ctx, s.ratingCache, r.PubID)
	metrics.RatingsCreated.Inc()
	metrics.RatingScores.Observe(r.Score)

	s.publish(ctx, entity.EventRatingCreated, r)
	return r, nil
}

func (s *RatingService) GetRating(ctx context.Context, ratingID string) (*entity.Rating, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	return s.getRating(ctx, ratingID)
}

// GetPubRatings возвращает оценки паба (новые первыми) с авторами
func (s *RatingService) GetPubRatings(ctx context.Context, pubID string) ([]entity.RatingWithDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if _, err := s.pubRepo.GetByID(ctx, pubID); err != nil {
		if errors.Is(err, repository.ErrPubNotFound) {
			return nil, ErrPubNotFound
		}
		return nil, fmt.Errorf("failed to get pub: %w", err)
	}

	ratings, err := s.ratingRepo.ListByPub(ctx, pubID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pub ratings: %w", err)
	}

	userIDs := uniqueIDs(ratings, func(r entity.Rating) string { return r.UserID })
	users, err := s.userRepo.GetByIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating authors: %w", err)
	}

	summaries := make(map[string]*entity.UserSummary, len(users))
	for _, u := range users {
		summaries[u.ID] = &entity.UserSummary{
			ID:             u.ID,
			Username:       u.Username,
			ProfilePicture: u.ProfilePicture,
		}
	}

	result := make([]entity.RatingWithDetails, len(ratings))
	for i, r := range ratings {
		result[i] = entity.RatingWithDetails{Rating: r, User: summaries[r.UserID]}
	}
	return result, nil
}

// GetUserRatings возвращает оценки пользователя (новые первыми) с пабами
func (s *RatingService) GetUserRatings(ctx context.Context, userID string) ([]entity.RatingWithDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	ratings, err := s.ratingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user ratings: %w", err)
	}

	pubIDs := uniqueIDs(ratings, func(r entity.Rating) string { return r.PubID })
	pubs, err := s.pubRepo.GetByIDs(ctx, pubIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get rated pubs: %w", err)
	}

	summaries := make(map[string]*entity.PubSummary, len(pubs))
	for _, p := range pubs {
		summaries[p.ID] = &entity.PubSummary{ID: p.ID, Name: p.Name, Address: p.Address}
	}

	result := make([]entity.RatingWithDetails, len(ratings))
	for i, r := range ratings {
		result[i] = entity.RatingWithDetails{Rating: r, Pub: summaries[r.PubID]}
	}
	return result, nil
}

// UpdateRating обновляет оценку с проверкой прав доступа
func (s *RatingService) UpdateRating(ctx context.Context, ratingID, userID string, req *entity.UpdateRatingRequest) (*entity.Rating, error) {
	if req.Score != nil {
		if err := rating.ValidateScore(*req.Score); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	r, err := s.getRating(ctx, ratingID)
	if err != nil {
		return nil, err
	}

	// Проверяем что пользователь является автором оценки
	if r.UserID != userID {
		return nil, ErrForbidden
	}

	if req.Score != nil {
		r.Score = *req.Score
	}
	if req.Comment != nil {
		r.Comment = req.Comment
	}

	if err := s.ratingRepo.Update(ctx, r); err != nil {
		if errors.Is(err, repository.ErrRatingNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, fmt.Errorf("failed to update rating: %w", err)
	}

	invalidateRating(ctx, s.ratingCache, r.PubID)
	s.publish(ctx, entity.EventRatingUpdated, r)
	return r, nil
}

// DeleteRating удаляет оценку с проверкой прав доступа.
// Фото оценки удаляются каскадом, их файлы убирает фоновая очистка.
func (s *RatingService) DeleteRating(ctx context.Context, ratingID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	r, err := s.getRating(ctx, ratingID)
	if err != nil {
		return err
	}

	if r.UserID != userID {
		return ErrForbidden
	}

	if err := s.ratingRepo.Delete(ctx, ratingID); err != nil {
		if errors.Is(err, repository.ErrRatingNotFound) {
			return ErrRatingNotFound
		}
		return fmt.Errorf("failed to delete rating: %w", err)
	}

	invalidateRating(ctx, s.ratingCache, r.PubID)
	s.publish(ctx, entity.EventRatingDeleted, r)
	return nil
}

func (s *RatingService) getRating(ctx context.Context, ratingID string) (*entity.Rating, error) {
	r, err := s.ratingRepo.GetByID(ctx, ratingID)
	if err != nil {
		if errors.Is(err, repository.ErrRatingNotFound) {
			return nil, ErrRatingNotFound
		}
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	return r, nil
}

func (s *RatingService) publish(ctx context.Context, eventType string, r *entity.Rating) {
	event := entity.RatingEvent{
		EventType: eventType,
		RatingID:  r.ID,
		PubID:     r.PubID,
		UserID:    r.UserID,
		Timestamp: time.Now(),
	}
	if eventType != entity.EventRatingDeleted {
		event.Score = r.Score
	}
	publishEvent(ctx, s.publisher, r.ID, eventType, event)
}

func uniqueIDs[T any](items []T, id func(T) string) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		key := id(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		ids = append(ids, key)
	}
	return ids
}
