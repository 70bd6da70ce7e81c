package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pintperfect/pub-service/internal/app/pubs/infrastructure"

	"github.com/google/uuid"
)

// AllowedExtensions - допустимые расширения фотографий
var AllowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".heic": true,
}

// LocalStorage хранит фотографии в каталоге на диске.
// Файлы раздаются роутером как статика по baseURL.
type LocalStorage struct {
	dir     string
	baseURL string
	maxSize int64
}

func NewLocalStorage(dir, baseURL string, maxSize int64) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &LocalStorage{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
	}, nil
}

func (s *LocalStorage) Dir() string {
	return s.dir
}

// Save пишет содержимое в файл <uuid><ext>; больше maxSize - ErrFileTooLarge
func (s *LocalStorage) Save(ctx context.Context, ext string, content io.Reader) (*infrastructure.StoredFile, error) {
	ext = strings.ToLower(ext)
	if !AllowedExtensions[ext] {
		return nil, fmt.Errorf("%w: %q", infrastructure.ErrUnsupportedType, ext)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}

	written, err := io.Copy(f, io.LimitReader(content, s.maxSize+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write upload file: %w", err)
	}
	if written > s.maxSize {
		os.Remove(path)
		return nil, fmt.Errorf("%w: limit is %d bytes", infrastructure.ErrFileTooLarge, s.maxSize)
	}

	return &infrastructure.StoredFile{
		Name: name,
		URL:  s.baseURL + "/" + name,
		Size: written,
	}, nil
}

// Delete удаляет файл по URL, выданному Save
func (s *LocalStorage) Delete(ctx context.Context, url string) error {
	name, ok := s.nameFromURL(url)
	if !ok {
		return fmt.Errorf("%w: %s", infrastructure.ErrForeignStorageLink, url)
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if os.IsNotExist(err) {
			return infrastructure.ErrFileNotFound
		}
		return fmt.Errorf("failed to delete upload file: %w", err)
	}
	return nil
}

// List возвращает файлы каталога загрузок (без подкаталогов)
func (s *LocalStorage) List(ctx context.Context) ([]infrastructure.FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload dir: %w", err)
	}

	files := make([]infrastructure.FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Файл мог быть удален между ReadDir и Info
			continue
		}
		files = append(files, infrastructure.FileInfo{
			Name:    entry.Name(),
			URL:     s.baseURL + "/" + entry.Name(),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}

func (s *LocalStorage) nameFromURL(url string) (string, bool) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(url, prefix)
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", false
	}
	return name, true
}
