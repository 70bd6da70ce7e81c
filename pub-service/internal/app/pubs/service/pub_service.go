package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"pintperfect/pkg/logger"
	"pintperfect/pkg/metrics"
	"pintperfect/pub-service/internal/app/pubs/entity"
	"pintperfect/pub-service/internal/app/pubs/geo"
	"pintperfect/pub-service/internal/app/pubs/infrastructure"
	"pintperfect/pub-service/internal/app/pubs/rating"
	"pintperfect/pub-service/internal/app/pubs/repository"

	"github.com/google/uuid"
)

// PubService обрабатывает бизнес-логику пабов.
// Средняя оценка не хранится: каждое чтение собирает ее из ratings (или из кэша).
type PubService struct {
	pubRepo      repository.PubRepository
	ratingRepo   repository.RatingRepository
	photoRepo    repository.PhotoRepository
	ratingCache  repository.RatingCache // nil - кэш выключен
	publisher    infrastructure.MessagePublisher
	queryTimeout time.Duration
}

func NewPubService(
	pubRepo repository.PubRepository,
	ratingRepo repository.RatingRepository,
	photoRepo repository.PhotoRepository,
	ratingCache repository.RatingCache,
	publisher infrastructure.MessagePublisher,
	queryTimeout time.Duration,
) *PubService {
	return &PubService{
		pubRepo:      pubRepo,
		ratingRepo:   ratingRepo,
		photoRepo:    photoRepo,
		ratingCache:  ratingCache,
		publisher:    publisher,
		queryTimeout: queryTimeout,
	}
}

// CreatePub создает паб и отправляет событие PUB_CREATED
func (s *PubService) CreatePub(ctx context.Context, req *entity.CreatePubRequest) (*entity.PubWithRating, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return nil, fmt.Errorf("%w: latitude and longitude are required", ErrValidation)
	}
	name := strings.TrimSpace(req.Name)
	address := strings.TrimSpace(req.Address)
	if name == "" || address == "" {
		return nil, fmt.Errorf("%w: name and address are required", ErrValidation)
	}

	pub := &entity.Pub{
		ID:           uuid.NewString(),
		Name:         name,
		Address:      address,
		Latitude:     *req.Latitude,
		Longitude:    *req.Longitude,
		PhoneNumber:  req.PhoneNumber,
		Website:      req.Website,
		OpeningHours: req.OpeningHours,
	}
	if err := pub.Location().Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.pubRepo.Create(ctx, pub); err != nil {
		return nil, fmt.Errorf("failed to create pub: %w", err)
	}
	metrics.PubsCreated.Inc()

	publishEvent(ctx, s.publisher, pub.ID, entity.EventPubCreated, entity.PubEvent{
		EventType: entity.EventPubCreated,
		PubID:     pub.ID,
		Name:      pub.Name,
		Latitude:  pub.Latitude,
		Longitude: pub.Longitude,
		Timestamp: time.Now(),
	})

	// У нового паба оценок нет
	result := entity.NewPubWithRating(*pub, rating.Aggregate{})
	return &result, nil
}

// GetPub возвращает паб с оценкой и фотографиями
func (s *PubService) GetPub(ctx context.Context, pubID string) (*entity.PubWithRating, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	pub, err := s.pubRepo.GetByID(ctx, pubID)
	if err != nil {
		if errors.Is(err, repository.ErrPubNotFound) {
			return nil, ErrPubNotFound
		}
		return nil, fmt.Errorf("failed to get pub: %w", err)
	}

	aggregates, err := s.aggregates(ctx, []string{pub.ID})
	if err != nil {
		return nil, err
	}

	photos, err := s.photoRepo.ListByPub(ctx, pub.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pub photos: %w", err)
	}

	result := entity.NewPubWithRating(*pub, aggregates[pub.ID])
	result.Photos = photos
	return &result, nil
}

// ListPubs возвращает все пабы с оценками
func (s *PubService) ListPubs(ctx context.Context, req entity.ListPubsRequest) ([]entity.PubWithRating, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	pubs, err := s.pubRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pubs: %w", err)
	}

	result, err := s.withRatings(ctx, pubs)
	if err != nil {
		return nil, err
	}
	if req.SortByRating {
		sortByRating(result)
	}
	return result, nil
}

// FindNearby - поиск пабов рядом:
// 1. Валидация центра и радиуса, построение прямоугольника
// 2. Выборка кандидатов из БД по прямоугольнику
// 3. Сборка средних оценок одним запросом
// 4. Опционально точный круг и сортировка по оценке
// Ошибка любого шага прерывает запрос целиком.
func (s *PubService) FindNearby(ctx context.Context, req entity.NearbyRequest) ([]entity.PubWithRating, error) {
	box, err := geo.NewBoundingBox(req.Center, req.RadiusKm)
	if err != nil {
		metrics.NearbySearches.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	pubs, err := s.pubRepo.FindInBoundingBox(ctx, box)
	if err != nil {
		metrics.NearbySearches.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("failed to find pubs in bounding box: %w", err)
	}

	// Тот же отбор в памяти, результат не зависит от округления в БД
	pubs = geo.Filter(pubs, box, entity.Pub.Location)
	if req.Strict {
		pubs = filterWithinRadius(pubs, req.Center, req.RadiusKm)
	}

	result, err := s.withRatings(ctx, pubs)
	if err != nil {
		metrics.NearbySearches.WithLabelValues("failed").Inc()
		return nil, err
	}

	for i := range result {
		distance := geo.DistanceKm(req.Center, result[i].Location())
		result[i].DistanceKm = &distance
	}
	if req.SortByRating {
		sortByRating(result)
	}

	metrics.NearbySearches.WithLabelValues("ok").Inc()
	metrics.NearbyResults.Observe(float64(len(result)))

	logger.Debug().
		Float64("lat", req.Center.Lat).
		Float64("lng", req.Center.Lng).
		Float64("radius_km", req.RadiusKm).
		Int("results", len(result)).
		Msg("Nearby search completed")

	return result, nil
}

// UpdatePub обновляет только переданные поля
func (s *PubService) UpdatePub(ctx context.Context, pubID string, req *entity.UpdatePubRequest) (*entity.PubWithRating, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	pub, err := s.pubRepo.GetByID(ctx, pubID)
	if err != nil {
		if errors.Is(err, repository.ErrPubNotFound) {
			return nil, ErrPubNotFound
		}
		return nil, fmt.Errorf("failed to get pub: %w", err)
	}

	if req.Name != nil {
		pub.Name = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		pub.Address = strings.TrimSpace(*req.Address)
	}
	if req.Latitude != nil {
		pub.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		pub.Longitude = *req.Longitude
	}
	if req.PhoneNumber != nil {
		pub.PhoneNumber = req.PhoneNumber
	}
	if req.Website != nil {
		pub.Website = req.Website
	}
	if req.OpeningHours != nil {
		pub.OpeningHours = req.OpeningHours
	}

	if pub.Name == "" || pub.Address == "" {
		return nil, fmt.Errorf("%w: name and address must not be empty", ErrValidation)
	}
	if err := pub.Location().Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.pubRepo.Update(ctx, pub); err != nil {
		if errors.Is(err, repository.ErrPubNotFound) {
			return nil, ErrPubNotFound
		}
		return nil, fmt.Errorf("failed to update pub: %w", err)
	}

	aggregates, err := s.aggregates(ctx, []string{pub.ID})
	if err != nil {
		return nil, err
	}

	result := entity.NewPubWithRating(*pub, aggregates[pub.ID])
	return &result, nil
}

// DeletePub удаляет паб; оценки и фото удаляются каскадом
func (s *PubService) DeletePub(ctx context.Context, pubID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if err := s.pubRepo.Delete(ctx, pubID); err != nil {
		if errors.Is(err, repository.ErrPubNotFound) {
			return ErrPubNotFound
		}
		return fmt.Errorf("failed to delete pub: %w", err)
	}

	invalidateRating(ctx, s.ratingCache, pubID)

	publishEvent(ctx, s.publisher, pubID, entity.EventPubDeleted, entity.PubEvent{
		EventType: entity.EventPubDeleted,
		PubID:     pubID,
		Timestamp: time.Now(),
	})
	return nil
}

func (s *PubService) withRatings(ctx context.Context, pubs []entity.Pub) ([]entity.PubWithRating, error) {
	ids := make([]string, len(pubs))
	for i, pub := range pubs {
		ids[i] = pub.ID
	}

	aggregates, err := s.aggregates(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]entity.PubWithRating, len(pubs))
	for i, pub := range pubs {
		result[i] = entity.NewPubWithRating(pub, aggregates[pub.ID])
	}
	return result, nil
}

// aggregates берет оценки из кэша, недостающие считает одним запросом к БД
func (s *PubService) aggregates(ctx context.Context, pubIDs []string) (map[string]rating.Aggregate, error) {
	result := make(map[string]rating.Aggregate, len(pubIDs))
	if len(pubIDs) == 0 {
		return result, nil
	}

	missing := pubIDs
	versions := make(map[string]int64)
	if s.ratingCache != nil {
		missing = make([]string, 0, len(pubIDs))
		for _, id := range pubIDs {
			cached, err := s.ratingCache.Get(ctx, id)
			if err != nil {
				logger.Warn().Err(err).Str("pub_id", id).Msg("Rating cache read failed")
			}
			if cached.Found {
				result[id] = cached.Aggregate
				continue
			}
			versions[id] = cached.Version
			missing = append(missing, id)
		}
		if len(missing) == 0 {
			return result, nil
		}
	}

	fresh, err := s.ratingRepo.AggregateByPubIDs(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	for _, id := range missing {
		agg := fresh[id]
		result[id] = agg
		if s.ratingCache != nil {
			if err := s.ratingCache.Set(ctx, id, versions[id], agg); err != nil {
				logger.Warn().Err(err).Str("pub_id", id).Msg("Rating cache write failed")
			}
		}
	}
	return result, nil
}

func filterWithinRadius(pubs []entity.Pub, center geo.Point, radiusKm float64) []entity.Pub {
	result := make([]entity.Pub, 0, len(pubs))
	for _, pub := range pubs {
		if geo.WithinRadius(center, radiusKm, pub.Location()) {
			result = append(result, pub)
		}
	}
	return result
}

func sortByRating(pubs []entity.PubWithRating) {
	sort.SliceStable(pubs, func(i, j int) bool {
		return rating.Less(pubs[i].Aggregate(), pubs[j].Aggregate())
	})
}

// invalidateRating сбрасывает кэш оценки паба; ошибка кэша не ломает запрос
func invalidateRating(ctx context.Context, cache repository.RatingCache, pubID string) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, pubID); err != nil {
		logger.Warn().Err(err).Str("pub_id", pubID).Msg("Rating cache invalidation failed")
	}
}
