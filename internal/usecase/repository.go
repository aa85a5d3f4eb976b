package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/plant-catalog/internal/domain"
)

// PlantRepository — интерфейс хранилища растений.
// Конфликт уникальности имени возвращается как e.ErrNameConflict,
// отсутствие записи — как e.ErrPlantNotFound.
type PlantRepository interface {
	Find(ctx context.Context, filter ListFilter) ([]domain.Plant, error)
	Insert(ctx context.Context, input *PlantInput) (*domain.Plant, error)
	ReplaceByID(ctx context.Context, id string, input *PlantInput) (*domain.Plant, error)
	DeleteByID(ctx context.Context, id string) (*domain.Plant, error)
}

type CategoryRepository interface {
	DistinctCategories(ctx context.Context) ([]string, error)
}

type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	ResetStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

type ImageRepository interface {
	Upload(ctx context.Context, image *domain.Image) (string, error)
	Open(ctx context.Context, key string) (*domain.StoredImage, error)
	Delete(ctx context.Context, key string) error
}
