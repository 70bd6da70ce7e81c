package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pintperfect/pkg/logger"
	"pintperfect/pub-service/internal/app/pubs/entity"
	"pintperfect/pub-service/internal/app/pubs/repository"
	"pintperfect/pub-service/internal/app/pubs/util"

	"github.com/google/uuid"
)

type seedPub struct {
	name         string
	address      string
	lat, lng     float64
	phone        string
	website      string
	openingHours string
}

type seedRating struct {
	username string
	pubName  string
	score    float64
	comment  string
}

var seedUsernames = []string{"guinness_lover", "pint_connoisseur", "irish_stout"}

var seedPubs = []seedPub{
	{"The Guinness Pub", "123 Dublin St, Dublin", 53.349805, -6.26031, "+353 1 234 5678", "https://guinness.com", "Mon-Sun: 11am - 11pm"},
	{"Irish Tavern", "456 Cork Rd, Cork", 51.896892, -8.486316, "+353 2 345 6789", "https://irishtavern.com", "Mon-Sat: 12pm - 12am, Sun: 12pm - 11pm"},
	{"Emerald Isle Bar", "789 Galway Ave, Galway", 53.270668, -9.056791, "+353 3 456 7890", "https://emeraldisle.com", "Daily: 10am - 2am"},
	{"Dublin Porter", "42 Temple Bar, Dublin", 53.345367, -6.263419, "+353 1 555 1234", "https://dublinporter.com", "Mon-Sun: 10am - 1am"},
	{"Celtic Brew House", "78 High Street, Kilkenny", 52.654145, -7.252297, "+353 56 781 2345", "https://celticbrewhouse.ie", "Mon-Thu: 12pm - 11pm, Fri-Sat: 12pm - 1am, Sun: 12pm - 10pm"},
}

var seedRatings = []seedRating{
	{"guinness_lover", "The Guinness Pub", 9.5, "Perfect pint, creamy head and great temperature!"},
	{"pint_connoisseur", "The Guinness Pub", 8.0, "Good pint but could use a colder glass."},
	{"irish_stout", "The Guinness Pub", 10.0, "Best pint in all of Dublin!"},
	{"guinness_lover", "Irish Tavern", 7.0, "Decent pint but could be colder."},
	{"pint_connoisseur", "Emerald Isle Bar", 9.0, "Excellent pour with a perfect head."},
	{"irish_stout", "Dublin Porter", 8.5, "Great atmosphere and a well-poured pint!"},
	{"guinness_lover", "Celtic Brew House", 9.2, "Fantastic creamy head and perfect temperature."},
	{"pint_connoisseur", "Dublin Porter", 7.8, "Good pint, but not the best I've had."},
}

// SeedService заполняет БД демонстрационными данными для разработки
type SeedService struct {
	userRepo   repository.UserRepository
	pubRepo    repository.PubRepository
	ratingRepo repository.RatingRepository
	password   string
}

func NewSeedService(
	userRepo repository.UserRepository,
	pubRepo repository.PubRepository,
	ratingRepo repository.RatingRepository,
	password string,
) *SeedService {
	return &SeedService{
		userRepo:   userRepo,
		pubRepo:    pubRepo,
		ratingRepo: ratingRepo,
		password:   password,
	}
}

// Seed создает 3 пользователей, 5 пабов и 8 оценок.
// skipIfPresent - ничего не делать если пользователи уже есть.
func (s *SeedService) Seed(ctx context.Context, skipIfPresent bool) (*entity.SeedResult, error) {
	if skipIfPresent {
		count, err := s.userRepo.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to count users: %w", err)
		}
		if count > 0 {
			logger.Info().Int64("users", count).Msg("Seed skipped, database is not empty")
			return &entity.SeedResult{Skipped: true}, nil
		}
	}

	hash, err := util.HashPassword(s.password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	result := &entity.SeedResult{}
	now := time.Now().UTC()

	userIDs := make(map[string]string, len(seedUsernames))
	for i, username := range seedUsernames {
		user := &entity.User{
			ID:           uuid.NewString(),
			Username:     username,
			Email:        fmt.Sprintf("user%d@example.com", i+1),
			PasswordHash: hash,
			CreatedAt:    now,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return nil, ErrUserExists
			}
			return nil, fmt.Errorf("failed to seed user %s: %w", username, err)
		}
		userIDs[username] = user.ID
		result.Users++
	}

	pubIDs := make(map[string]string, len(seedPubs))
	for _, sp := range seedPubs {
		pub := &entity.Pub{
			ID:           uuid.NewString(),
			Name:         sp.name,
			Address:      sp.address,
			Latitude:     sp.lat,
			Longitude:    sp.lng,
			PhoneNumber:  stringPtr(sp.phone),
			Website:      stringPtr(sp.website),
			OpeningHours: stringPtr(sp.openingHours),
			CreatedAt:    now,
		}
		if err := s.pubRepo.Create(ctx, pub); err != nil {
			return nil, fmt.Errorf("failed to seed pub %s: %w", sp.name, err)
		}
		pubIDs[sp.name] = pub.ID
		result.Pubs++
	}

	for i, sr := range seedRatings {
		r := &entity.Rating{
			ID:      uuid.NewString(),
			UserID:  userIDs[sr.username],
			PubID:   pubIDs[sr.pubName],
			Score:   sr.score,
			Comment: stringPtr(sr.comment),
			// Разные даты, чтобы порядок "новые первыми" был детерминированным
			Date: now.Add(time.Duration(i) * time.Minute),
		}
		if err := s.ratingRepo.Create(ctx, r); err != nil {
			return nil, fmt.Errorf("failed to seed rating: %w", err)
		}
		result.Ratings++
	}

	logger.Info().
		Int("users", result.Users).
		Int("pubs", result.Pubs).
		Int("ratings", result.Ratings).
		Msg("Seed data created")

	return result, nil
}

func stringPtr(s string) *string {
	return &s
}
