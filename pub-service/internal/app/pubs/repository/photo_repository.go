package repository

import (
	"context"

	"pintperfect/pkg/metrics"
	"pintperfect/pub-service/internal/app/pubs/entity"

	"gorm.io/gorm"
)

type photoRepository struct {
	db *gorm.DB
}

// NewPhotoRepository создает новый репозиторий фотографий
func NewPhotoRepository(db *gorm.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(ctx context.Context, photo *entity.Photo) (err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "photos")
	defer func() { timer.ObserveDuration(err) }()

	return translateError(r.db.WithContext(ctx).Create(photo).Error, ErrPhotoNotFound)
}

func (r *photoRepository) GetByID(ctx context.Context, id string) (_ *entity.Photo, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "photos")
	defer func() { timer.ObserveDuration(err) }()

	var photo entity.Photo
	if err = r.db.WithContext(ctx).Where("id = ?", id).First(&photo).Error; err != nil {
		return nil, translateError(err, ErrPhotoNotFound)
	}
	return &photo, nil
}

// ListByPub возвращает фотографии паба, включая прикрепленные к его оценкам
func (r *photoRepository) ListByPub(ctx context.Context, pubID string) (_ []entity.Photo, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "photos")
	defer func() { timer.ObserveDuration(err) }()

	var photos []entity.Photo
	err = r.db.WithContext(ctx).
		Where("pub_id = ?", pubID).
		Order("created_at DESC").
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

// ListURLs возвращает URL всех фотографий (для фоновой очистки файлов)
func (r *photoRepository) ListURLs(ctx context.Context) (_ []string, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "photos")
	defer func() { timer.ObserveDuration(err) }()

	var urls []string
	if err = r.db.WithContext(ctx).Model(&entity.Photo{}).Pluck("url", &urls).Error; err != nil {
		return nil, err
	}
	return urls, nil
}

func (r *photoRepository) Delete(ctx context.Context, id string) (err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "photos")
	defer func() { timer.ObserveDuration(err) }()

	result := r.db.WithContext(ctx).Delete(&entity.Photo{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPhotoNotFound
	}
	return nil
}
