package minio

import (
	"context"

	"github.com/DRSN-tech/plant-catalog/internal/cfg"
	"github.com/DRSN-tech/plant-catalog/internal/domain"
	"github.com/DRSN-tech/plant-catalog/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

const noSuchKey = "NoSuchKey"

// ImageRepo реализует репозиторий изображений поверх MinIO.
type ImageRepo struct {
	mc  *minio.Client
	cfg *cfg.MinIOCfg
}

func NewImageRepo(mc *minio.Client, cfg *cfg.MinIOCfg) *ImageRepo {
	return &ImageRepo{
		mc:  mc,
		cfg: cfg,
	}
}

// Upload загружает изображение в MinIO и возвращает ключ объекта.
func (i *ImageRepo) Upload(ctx context.Context, image *domain.Image) (string, error) {
	info, err := i.mc.PutObject(ctx, i.cfg.BucketName, image.ObjectKey, image.Body, image.Size, minio.PutObjectOptions{
		ContentType: image.ContentType,
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return info.Key, nil
}

// Open открывает объект для чтения. Отсутствующий объект возвращается как e.ErrImageNotFound.
func (i *ImageRepo) Open(ctx context.Context, key string) (*domain.StoredImage, error) {
	obj, err := i.mc.GetObject(ctx, i.cfg.BucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), mapObjectError(err))
	}

	// GetObject ленивый: ошибка отсутствия объекта появляется только на Stat или Read.
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, e.Wrap(whereami.WhereAmI(), mapObjectError(err))
	}

	return &domain.StoredImage{
		Body:        obj,
		Size:        stat.Size,
		ContentType: stat.ContentType,
	}, nil
}

// Delete удаляет объект из MinIO по указанному ключу.
func (i *ImageRepo) Delete(ctx context.Context, key string) error {
	if err := i.mc.RemoveObject(ctx, i.cfg.BucketName, key, minio.RemoveObjectOptions{}); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

func mapObjectError(err error) error {
	if minio.ToErrorResponse(err).Code == noSuchKey {
		return e.ErrImageNotFound
	}
	return err
}
