package infrastructure

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrFileTooLarge       = errors.New("file too large")
	ErrUnsupportedType    = errors.New("unsupported file type")
	ErrFileNotFound       = errors.New("file not found")
	ErrForeignStorageLink = errors.New("url does not belong to upload storage")
)

// MessagePublisher публикует события в брокер (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// StoredFile - сохраненный файл и его публичный URL
type StoredFile struct {
	Name string
	URL  string
	Size int64
}

// FileInfo - файл в хранилище для фоновой очистки
type FileInfo struct {
	Name    string
	URL     string
	ModTime time.Time
}

// FileStorage хранит загруженные фотографии
type FileStorage interface {
	// Save сохраняет содержимое под новым уникальным именем с расширением ext (".jpg")
	Save(ctx context.Context, ext string, content io.Reader) (*StoredFile, error)
	// Delete удаляет файл по его публичному URL
	Delete(ctx context.Context, url string) error
	List(ctx context.Context) ([]FileInfo, error)
}
