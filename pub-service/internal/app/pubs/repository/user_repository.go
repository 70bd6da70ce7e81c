package repository

import (
	"context"

	"pintperfect/pkg/metrics"
	"pintperfect/pub-service/internal/app/pubs/entity"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository создает новый репозиторий пользователей
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create сохраняет пользователя; занятые email/username дают ErrDuplicateKey
func (r *userRepository) Create(ctx context.Context, user *entity.User) (err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "users")
	defer func() { timer.ObserveDuration(err) }()

	return translateError(r.db.WithContext(ctx).Create(user).Error, ErrUserNotFound)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (_ *entity.User, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "users")
	defer func() { timer.ObserveDuration(err) }()

	var user entity.User
	if err = r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateError(err, ErrUserNotFound)
	}
	return &user, nil
}

func (r *userRepository) GetByIDs(ctx context.Context, ids []string) (_ []entity.User, err error) {
	if len(ids) == 0 {
		return []entity.User{}, nil
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "users")
	defer func() { timer.ObserveDuration(err) }()

	var users []entity.User
	if err = r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (_ *entity.User, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "users")
	defer func() { timer.ObserveDuration(err) }()

	var user entity.User
	if err = r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err, ErrUserNotFound)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) (err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "users")
	defer func() { timer.ObserveDuration(err) }()

	result := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"username":        user.Username,
			"email":           user.Email,
			"profile_picture": user.ProfilePicture,
		})
	if result.Error != nil {
		return translateError(result.Error, ErrUserNotFound)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Delete удаляет пользователя вместе с его оценками и фотографиями (CASCADE)
func (r *userRepository) Delete(ctx context.Context, id string) (err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "users")
	defer func() { timer.ObserveDuration(err) }()

	result := r.db.WithContext(ctx).Delete(&entity.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (_ int64, err error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "users")
	defer func() { timer.ObserveDuration(err) }()

	var count int64
	if err = r.db.WithContext(ctx).Model(&entity.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
