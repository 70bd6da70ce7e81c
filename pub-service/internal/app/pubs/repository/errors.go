package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrPubNotFound    = errors.New("pub not found")
	ErrRatingNotFound = errors.New("rating not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrPhotoNotFound  = errors.New("photo not found")
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrForeignKey     = errors.New("referenced row not found")
)

const (
	// Коды ошибок PostgreSQL
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// ReferenceError - запись ссылается на строку, которой уже нет
type ReferenceError struct {
	Constraint string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: %s", ErrForeignKey, e.Constraint)
}

func (e *ReferenceError) Is(target error) bool {
	return target == ErrForeignKey
}

// Table - родительская таблица из имени ограничения GORM fk_<table>_<field>
func (e *ReferenceError) Table() string {
	name := strings.TrimPrefix(e.Constraint, "fk_")
	table, _, _ := strings.Cut(name, "_")
	return table
}

// translateError приводит ошибки GORM/PostgreSQL к ошибкам репозитория
func translateError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicateKey, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return &ReferenceError{Constraint: pgErr.ConstraintName}
		}
	}

	return err
}
