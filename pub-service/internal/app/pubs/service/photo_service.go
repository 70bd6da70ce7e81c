package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"pintperfect/pkg/logger"
	"pintperfect/pkg/metrics"
	"pintperfect/pub-service/internal/app/pubs/entity"
	"pintperfect/pub-service/internal/app/pubs/infrastructure"
	"pintperfect/pub-service/internal/app/pubs/repository"

	"github.com/google/uuid"
)

// mimeExtensions - расширение файла по MIME типу data URL
var mimeExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/heic": ".heic",
}

// PhotoService сохраняет фотографии в хранилище и их записи в БД
type PhotoService struct {
	photoRepo    repository.PhotoRepository
	pubRepo      repository.PubRepository
	ratingRepo   repository.RatingRepository
	storage      infrastructure.FileStorage
	publisher    infrastructure.MessagePublisher
	queryTimeout time.Duration
	now          func() time.Time
}

func NewPhotoService(
	photoRepo repository.PhotoRepository,
	pubRepo repository.PubRepository,
	ratingRepo repository.RatingRepository,
	storage infrastructure.FileStorage,
	publisher infrastructure.MessagePublisher,
	queryTimeout time.Duration,
) *PhotoService {
	return &PhotoService{
		photoRepo:    photoRepo,
		pubRepo:      pubRepo,
		ratingRepo:   ratingRepo,
		storage:      storage,
		publisher:    publisher,
		queryTimeout: queryTimeout,
		now:          time.Now,
	}
}

// Upload сохраняет фотографию из multipart формы
func (s *PhotoService) Upload(ctx context.Context, userID, ext string, content io.Reader, req entity.UploadPhotoRequest) (*entity.Photo, error) {
	return s.upload(ctx, userID, ext, content, req, "multipart")
}

// UploadBase64 сохраняет фотографию из data URL (data:image/png;base64,...).
// Строка без префикса считается JPEG.
func (s *PhotoService) UploadBase64(ctx context.Context, userID string, req *entity.UploadPhotoBase64Request) (*entity.Photo, error) {
	ext, payload, err := parseDataURL(req.Image)
	if err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: image is not valid base64", ErrValidation)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: image is empty", ErrValidation)
	}

	link := entity.UploadPhotoRequest{PubID: req.PubID, RatingID: req.RatingID}
	return s.upload(ctx, userID, ext, bytes.NewReader(data), link, "base64")
}

func (s *PhotoService) upload(ctx context.Context, userID, ext string, content io.Reader, req entity.UploadPhotoRequest, source string) (*entity.Photo, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	pubID, ratingID, err := s.resolveLinks(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	stored, err := s.storage.Save(ctx, ext, content)
	if err != nil {
		if errors.Is(err, infrastructure.ErrFileTooLarge) || errors.Is(err, infrastructure.ErrUnsupportedType) {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	photo := &entity.Photo{
		ID:        uuid.NewString(),
		URL:       stored.URL,
		UserID:    userID,
		PubID:     pubID,
		RatingID:  ratingID,
		CreatedAt: s.now().UTC(),
	}

	if err := s.photoRepo.Create(ctx, photo); err != nil {
		// Файл без записи в БД не нужен
		if delErr := s.storage.Delete(ctx, stored.URL); delErr != nil {
			logger.Warn().Err(delErr).Str("url", stored.URL).Msg("Failed to remove stored photo after db error")
		}
		if notFound := referenceNotFound(err); notFound != nil {
			return nil, notFound
		}
		return nil, fmt.Errorf("failed to create photo: %w", err)
	}

	metrics.PhotosUploaded.WithLabelValues(source).Inc()

	publishEvent(ctx, s.publisher, photo.ID, entity.EventPhotoUploaded, entity.PhotoEvent{
		EventType: entity.EventPhotoUploaded,
		PhotoID:   photo.ID,
		UserID:    photo.UserID,
		PubID:     photo.PubID,
		RatingID:  photo.RatingID,
		URL:       photo.URL,
		Timestamp: time.Now(),
	})

	return photo, nil
}

// resolveLinks проверяет привязку фотографии:
// оценка должна существовать и принадлежать пользователю, паб берется из оценки если не передан,
// переданные паб и оценка должны совпадать.
func (s *PhotoService) resolveLinks(ctx context.Context, userID string, req entity.UploadPhotoRequest) (*string, *string, error) {
	pubID := nonEmpty(req.PubID)
	ratingID := nonEmpty(req.RatingID)

	if ratingID != nil {
		r, err := s.ratingRepo.GetByID(ctx, *ratingID)
		if err != nil {
			if errors.Is(err, repository.ErrRatingNotFound) {
				return nil, nil, ErrRatingNotFound
			}
			return nil, nil, fmt.Errorf("failed to get rating: %w", err)
		}
		if r.UserID != userID {
			return nil, nil, ErrForbidden
		}
		if pubID == nil {
			pubID = &r.PubID
		} else if *pubID != r.PubID {
			return nil, nil, fmt.Errorf("%w: rating does not belong to the given pub", ErrValidation)
		}
		return pubID, ratingID, nil
	}

	if pubID != nil {
		if _, err := s.pubRepo.GetByID(ctx, *pubID); err != nil {
			if errors.Is(err, repository.ErrPubNotFound) {
				return nil, nil, ErrPubNotFound
			}
			return nil, nil, fmt.Errorf("failed to get pub: %w", err)
		}
	}
	return pubID, nil, nil
}

// DeletePhoto удаляет фотографию и ее файл; только для автора
func (s *PhotoService) DeletePhoto(ctx context.Context, photoID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, repository.ErrPhotoNotFound) {
			return ErrPhotoNotFound
		}
		return fmt.Errorf("failed to get photo: %w", err)
	}

	if photo.UserID != userID {
		return ErrForbidden
	}

	if err := s.photoRepo.Delete(ctx, photoID); err != nil {
		if errors.Is(err, repository.ErrPhotoNotFound) {
			return ErrPhotoNotFound
		}
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	// Запись уже удалена; оставшийся файл подберет фоновая очистка
	if err := s.storage.Delete(ctx, photo.URL); err != nil {
		logger.Warn().Err(err).Str("url", photo.URL).Msg("Failed to remove photo file")
	}
	return nil
}

// CleanupOrphans удаляет файлы, на которые не ссылается ни одна фотография
// и которые старше grace (загрузка могла еще не дойти до записи в БД)
func (s *PhotoService) CleanupOrphans(ctx context.Context, grace time.Duration) (int, error) {
	files, err := s.storage.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list stored files: %w", err)
	}
	if len(files) == 0 {
		return 0, nil
	}

	urls, err := s.photoRepo.ListURLs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list photo urls: %w", err)
	}
	referenced := make(map[string]struct{}, len(urls))
	for _, url := range urls {
		referenced[url] = struct{}{}
	}

	cutoff := s.now().Add(-grace)
	removed := 0
	for _, file := range files {
		if _, ok := referenced[file.URL]; ok {
			continue
		}
		if file.ModTime.After(cutoff) {
			continue
		}
		if err := s.storage.Delete(ctx, file.URL); err != nil {
			if errors.Is(err, infrastructure.ErrFileNotFound) {
				continue
			}
			return removed, fmt.Errorf("failed to remove orphan %s: %w", file.Name, err)
		}
		removed++
	}

	metrics.UploadCleanupRemoved.Add(float64(removed))
	return removed, nil
}

func parseDataURL(image string) (string, string, error) {
	image = strings.TrimSpace(image)
	if !strings.HasPrefix(image, "data:") {
		return ".jpg", image, nil
	}

	header, payload, ok := strings.Cut(image, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return "", "", fmt.Errorf("%w: image must be a base64 data URL", ErrValidation)
	}

	mime := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	ext, ok := mimeExtensions[strings.ToLower(mime)]
	if !ok {
		return "", "", fmt.Errorf("%w: unsupported image type %q", ErrValidation, mime)
	}
	return ext, payload, nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
