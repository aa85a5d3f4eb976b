// Package disk хранит изображения растений в каталоге локальной файловой системы.
package disk

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"

	"github.com/DRSN-tech/plant-catalog/internal/domain"
	"github.com/DRSN-tech/plant-catalog/internal/infrastructure"
	"github.com/DRSN-tech/plant-catalog/pkg/e"
	"github.com/jimlawless/whereami"
)

// ImageRepo реализует репозиторий изображений в каталоге dir.
type ImageRepo struct {
	dir string
}

// NewImageRepo создаёт каталог, если его нет.
func NewImageRepo(dir string) (*ImageRepo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &ImageRepo{dir: dir}, nil
}

// Upload записывает файл во временный файл и атомарно переименовывает его в ObjectKey.
func (r *ImageRepo) Upload(ctx context.Context, image *domain.Image) (string, error) {
	path, err := r.path(image.ObjectKey)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	tmp, err := os.CreateTemp(r.dir, ".upload-*")
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, &ctxReader{ctx: ctx, r: image.Body}); err != nil {
		_ = tmp.Close()
		return "", e.Wrap(whereami.WhereAmI(), err)
	}
	if err := tmp.Close(); err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return image.ObjectKey, nil
}

// Open открывает файл для чтения. Отсутствующий файл возвращается как e.ErrImageNotFound.
func (r *ImageRepo) Open(_ context.Context, key string) (*domain.StoredImage, error) {
	path, err := r.path(key)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrImageNotFound)
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrImageNotFound)
	}

	return &domain.StoredImage{
		Body:        f,
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(key)),
	}, nil
}

// Delete удаляет файл. Уже удалённый файл не считается ошибкой.
func (r *ImageRepo) Delete(_ context.Context, key string) error {
	path, err := r.path(key)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func (r *ImageRepo) path(key string) (string, error) {
	if !infrastructure.IsPlainFilename(key) {
		return "", e.ErrImageNotFound
	}
	return filepath.Join(r.dir, key), nil
}

// ctxReader прерывает копирование при отмене контекста запроса.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
