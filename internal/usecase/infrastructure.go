package usecase

import (
	"context"

	"github.com/DRSN-tech/plant-catalog/internal/domain"
)

type ImagesInfra interface {
	AcceptImage(ctx context.Context, req *UploadImageReq) (*UploadedImage, error)
	OpenImage(ctx context.Context, filename string) (*domain.StoredImage, error)
	CleanupImages(keys []string)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}

// Transactor выполняет fn в транзакции, доступной репозиториям через контекст.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
