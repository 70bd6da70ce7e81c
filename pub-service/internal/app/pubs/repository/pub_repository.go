package repository

import (
	"context"

	"pintperfect/pkg/metrics"
	"pintperfect/pub-service/internal/app/pubs/entity"
	"pintperfect/pub-service/internal/app/pubs/geo"

	"gorm.io/gorm"
)

type pubRepository struct {
	db *gorm.DB // GORM DB для работы с PostgreSQL
}

// NewPubRepository создает новый репозиторий пабов
func NewPubRepository(db *gorm.DB) PubRepository {
	return &pubRepository{db: db}
}

func (r *pubRepository) Create(ctx context.Context, pub *entity.Pub) (err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "pubs")
	defer func() { timer.ObserveDuration(err) }()

	return translateError(r.db.WithContext(ctx).Create(pub).Error, ErrPubNotFound)
}

func (r *pubRepository) GetByID(ctx context.Context, id string) (_ *entity.Pub, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "pubs")
	defer func() { timer.ObserveDuration(err) }()

	var pub entity.Pub
	if err = r.db.WithContext(ctx).Where("id = ?", id).First(&pub).Error; err != nil {
		return nil, translateError(err, ErrPubNotFound)
	}
	return &pub, nil
}

func (r *pubRepository) GetByIDs(ctx context.Context, ids []string) (_ []entity.Pub, err error) {
	if len(ids) == 0 {
		return []entity.Pub{}, nil
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "pubs")
	defer func() { timer.ObserveDuration(err) }()

	var pubs []entity.Pub
	if err = r.db.WithContext(ctx).Where("id IN ?", ids).Find(&pubs).Error; err != nil {
		return nil, err
	}
	return pubs, nil
}

// List возвращает все пабы, новые первыми
func (r *pubRepository) List(ctx context.Context) (_ []entity.Pub, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "pubs")
	defer func() { timer.ObserveDuration(err) }()

	var pubs []entity.Pub
	if err = r.db.WithContext(ctx).Order("created_at DESC").Find(&pubs).Error; err != nil {
		return nil, err
	}
	return pubs, nil
}

// FindInBoundingBox выполняет тот же предикат, что и geo.BoundingBox.Contains.
// Окно через антимеридиан дает два диапазона долготы, объединенных через OR.
// Индекс idx_pubs_location (latitude, longitude) ускоряет диапазон по широте.
func (r *pubRepository) FindInBoundingBox(ctx context.Context, box geo.BoundingBox) (_ []entity.Pub, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "pubs")
	defer func() { timer.ObserveDuration(err) }()

	query := r.db.WithContext(ctx).
		Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat)

	ranges := box.LngRanges()
	if len(ranges) == 1 {
		query = query.Where("longitude BETWEEN ? AND ?", ranges[0].Min, ranges[0].Max)
	} else {
		lngCond := r.db.Where("longitude BETWEEN ? AND ?", ranges[0].Min, ranges[0].Max)
		for _, rng := range ranges[1:] {
			lngCond = lngCond.Or("longitude BETWEEN ? AND ?", rng.Min, rng.Max)
		}
		query = query.Where(lngCond)
	}

	var pubs []entity.Pub
	if err = query.Find(&pubs).Error; err != nil {
		return nil, err
	}
	return pubs, nil
}

func (r *pubRepository) Update(ctx context.Context, pub *entity.Pub) (err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "pubs")
	defer func() { timer.ObserveDuration(err) }()

	result := r.db.WithContext(ctx).Model(&entity.Pub{}).
		Where("id = ?", pub.ID).
		Updates(map[string]interface{}{
			"name":          pub.Name,
			"address":       pub.Address,
			"latitude":      pub.Latitude,
			"longitude":     pub.Longitude,
			"phone_number":  pub.PhoneNumber,
			"website":       pub.Website,
			"opening_hours": pub.OpeningHours,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPubNotFound
	}
	return nil
}

// Delete удаляет паб; оценки и фотографии удаляются через ON DELETE CASCADE
func (r *pubRepository) Delete(ctx context.Context, id string) (err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "pubs")
	defer func() { timer.ObserveDuration(err) }()

	result := r.db.WithContext(ctx).Delete(&entity.Pub{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPubNotFound
	}
	return nil
}
