package service

import (
	"errors"

	"pintperfect/pub-service/internal/app/pubs/repository"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrValidation         = errors.New("validation failed")
	ErrPubNotFound        = errors.New("pub not found")
	ErrRatingNotFound     = errors.New("rating not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrPhotoNotFound      = errors.New("photo not found")
	ErrForbidden          = errors.New("forbidden")
	ErrUserExists         = errors.New("user with this email or username already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// referenceNotFound переводит нарушение внешнего ключа в not found той сущности,
// на которую ссылалась запись (например, паб удалили между проверкой и вставкой)
func referenceNotFound(err error) error {
	var refErr *repository.ReferenceError
	if !errors.As(err, &refErr) {
		return nil
	}
	switch refErr.Table() {
	case "users":
		return ErrUserNotFound
	case "ratings":
		return ErrRatingNotFound
	default:
		return ErrPubNotFound
	}
}
