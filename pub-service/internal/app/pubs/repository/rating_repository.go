package repository

import (
	"context"
	"database/sql"

	"pintperfect/pkg/metrics"
	"pintperfect/pub-service/internal/app/pubs/entity"
	"pintperfect/pub-service/internal/app/pubs/rating"

	"gorm.io/gorm"
)

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository создает новый репозиторий оценок
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(ctx context.Context, rt *entity.Rating) (err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "ratings")
	defer func() { timer.ObserveDuration(err) }()

	return translateError(r.db.WithContext(ctx).Omit("Photos").Create(rt).Error, ErrRatingNotFound)
}

func (r *ratingRepository) GetByID(ctx context.Context, id string) (_ *entity.Rating, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "ratings")
	defer func() { timer.ObserveDuration(err) }()

	var rt entity.Rating
	err = r.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Where("id = ?", id).
		First(&rt).Error
	if err != nil {
		return nil, translateError(err, ErrRatingNotFound)
	}
	return &rt, nil
}

// ListByPub возвращает оценки паба, новые первыми, вместе с фотографиями
func (r *ratingRepository) ListByPub(ctx context.Context, pubID string) (_ []entity.Rating, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "ratings")
	defer func() { timer.ObserveDuration(err) }()

	var ratings []entity.Rating
	err = r.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Where("pub_id = ?", pubID).
		Order("date DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// ListByUser возвращает оценки пользователя, новые первыми, вместе с фотографиями
func (r *ratingRepository) ListByUser(ctx context.Context, userID string) (_ []entity.Rating, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "ratings")
	defer func() { timer.ObserveDuration(err) }()

	var ratings []entity.Rating
	err = r.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *ratingRepository) Update(ctx context.Context, rt *entity.Rating) (err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "ratings")
	defer func() { timer.ObserveDuration(err) }()

	result := r.db.WithContext(ctx).Model(&entity.Rating{}).
		Where("id = ?", rt.ID).
		Updates(map[string]interface{}{
			"score":   rt.Score,
			"comment": rt.Comment,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRatingNotFound
	}
	return nil
}

// Delete удаляет оценку; фотографии оценки удаляются через CASCADE
func (r *ratingRepository) Delete(ctx context.Context, id string) (err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "ratings")
	defer func() { timer.ObserveDuration(err) }()

	result := r.db.WithContext(ctx).Delete(&entity.Rating{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRatingNotFound
	}
	return nil
}

type aggregateRow struct {
	PubID   string
	Average sql.NullFloat64
	Count   int64
}

// AggregateByPubIDs - один GROUP BY вместо запроса на каждый паб
func (r *ratingRepository) AggregateByPubIDs(ctx context.Context, pubIDs []string) (_ map[string]rating.Aggregate, err error) {
	result := make(map[string]rating.Aggregate, len(pubIDs))
	if len(pubIDs) == 0 {
		return result, nil
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "ratings")
	defer func() { timer.ObserveDuration(err) }()

	var rows []aggregateRow
	err = r.db.WithContext(ctx).
		Model(&entity.Rating{}).
		Select("pub_id, AVG(score) AS average, COUNT(*) AS count").
		Where("pub_id IN ?", pubIDs).
		Group("pub_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, id := range pubIDs {
		result[id] = rating.Aggregate{}
	}
	for _, row := range rows {
		result[row.PubID] = rating.FromSQL(row.Average, row.Count)
	}

	return result, nil
}
