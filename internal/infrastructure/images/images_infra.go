// Package images принимает загруженные изображения растений и управляет их очисткой.
package images

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/DRSN-tech/plant-catalog/internal/domain"
	"github.com/DRSN-tech/plant-catalog/internal/infrastructure"
	"github.com/DRSN-tech/plant-catalog/internal/usecase"
	"github.com/DRSN-tech/plant-catalog/pkg/e"
	"github.com/DRSN-tech/plant-catalog/pkg/jitter"
	"github.com/DRSN-tech/plant-catalog/pkg/logger"
	"github.com/google/uuid"
)

const (
	cleanupTimeout  = 30 * time.Second
	cleanupAttempts = 3
	cleanupBackoff  = time.Second
	cleanupMaxDelay = 4 * time.Second
)

// Service сохраняет принятые изображения в выбранное хранилище (диск или MinIO)
// и удаляет осиротевшие файлы в фоне.
type Service struct {
	repo        usecase.ImageRepository
	logger      logger.Logger
	shutdownCtx context.Context
	wg          sync.WaitGroup

	now   func() time.Time
	newID func() string
	delay func(attempt int) time.Duration
}

func NewService(repo usecase.ImageRepository, logger logger.Logger, shutdownCtx context.Context) *Service {
	return &Service{
		repo:        repo,
		logger:      logger,
		shutdownCtx: shutdownCtx,
		now:         time.Now,
		newID:       uuid.NewString,
		delay: func(attempt int) time.Duration {
			return jitter.ExponentialBackoff(cleanupBackoff, cleanupMaxDelay, attempt, jitter.DefaultJitter)
		},
	}
}

// AcceptImage проверяет расширение исходного имени и сохраняет файл под именем
// <unix-millis>-<uuid><ext>. Файл с другим расширением отклоняется с e.ErrUploadRejected.
func (s *Service) AcceptImage(ctx context.Context, req *usecase.UploadImageReq) (*usecase.UploadedImage, error) {
	const op = "images.Service.AcceptImage"

	ext, err := infrastructure.ImageExtension(req.OriginalName)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	contentType := req.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = infrastructure.ContentTypeFromExt(ext)
	}

	key := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), s.newID(), ext)
	stored, err := s.repo.Upload(ctx, domain.NewImage(key, req.Body, req.Size, contentType))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	s.logger.Debugf("image accepted: %s (%s, %d bytes)", stored, req.OriginalName, req.Size)
	return &usecase.UploadedImage{Filename: stored}, nil
}

// OpenImage открывает сохранённое изображение по имени файла.
func (s *Service) OpenImage(ctx context.Context, filename string) (*domain.StoredImage, error) {
	const op = "images.Service.OpenImage"

	if !infrastructure.IsPlainFilename(filename) {
		return nil, e.Wrap(op, e.ErrImageNotFound)
	}

	img, err := s.repo.Open(ctx, filename)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return img, nil
}

// CleanupImages запускает фоновую очистку указанных файлов.
func (s *Service) CleanupImages(keys []string) {
	if len(keys) == 0 {
		return
	}
	s.wg.Add(1)
	go s.cleanupUploadedKeys(keys)
}

// cleanupUploadedKeys удаляет файлы с экспоненциальной задержкой и jitter между попытками.
func (s *Service) cleanupUploadedKeys(keys []string) {
	defer s.wg.Done()
	const op = "images.Service.cleanupUploadedKeys"

	ctx, cancel := context.WithTimeout(s.shutdownCtx, cleanupTimeout)
	defer cancel()

	for _, key := range keys {
		for attempt := 0; attempt < cleanupAttempts; attempt++ {
			err := s.repo.Delete(ctx, key)
			if err == nil {
				s.logger.Infof("%s: removed %s", op, key)
				break
			}

			if ctx.Err() != nil {
				s.logger.Warnf("cleanup interrupted by shutdown, key=%v", key)
				return
			}

			if attempt == cleanupAttempts-1 {
				s.logger.Errorf(err, "%s: giving up on %s", op, key)
				break
			}

			select {
			case <-time.After(s.delay(attempt)):
			case <-ctx.Done():
				s.logger.Warnf("cleanup interrupted by shutdown during backoff, key=%v", key)
				return
			}
		}
	}
}

// WaitForCleanup ожидает завершения всех фоновых задач очистки с учётом таймаута завершения приложения.
func (s *Service) WaitForCleanup(shutdownTimeoutCtx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-shutdownTimeoutCtx.Done():
		return fmt.Errorf("image cleanup timeout during shutdown: %w", shutdownTimeoutCtx.Err())
	}
}
