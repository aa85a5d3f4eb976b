package usecase

import (
	"context"

	"github.com/DRSN-tech/plant-catalog/internal/domain"
	"github.com/DRSN-tech/plant-catalog/pkg/e"
	"github.com/DRSN-tech/plant-catalog/pkg/logger"
)

// PlantUseCase реализует бизнес-логику каталога растений:
// нормализация → валидация → сохранение → перевод ошибок хранилища в доменные.
type PlantUseCase struct {
	plantRepo    PlantRepository
	categoryRepo CategoryRepository
	outboxRepo   OutboxRepository
	transactor   Transactor
	imagesInfra  ImagesInfra
	logger       logger.Logger
}

func NewPlantUC(
	plantRepo PlantRepository,
	categoryRepo CategoryRepository,
	outboxRepo OutboxRepository,
	transactor Transactor,
	imagesInfra ImagesInfra,
	logger logger.Logger,
) *PlantUseCase {
	return &PlantUseCase{
		plantRepo:    plantRepo,
		categoryRepo: categoryRepo,
		outboxRepo:   outboxRepo,
		transactor:   transactor,
		imagesInfra:  imagesInfra,
		logger:       logger,
	}
}

// ListPlants возвращает растения по фильтру поиска, отсортированные по имени, не более MaxListResults.
func (p *PlantUseCase) ListPlants(ctx context.Context, req *ListPlantsReq) ([]domain.Plant, error) {
	const op = "PlantUseCase.ListPlants"

	plants, err := p.plantRepo.Find(ctx, BuildListFilter(req))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return plants, nil
}

// ListCategories возвращает множество категорий, встречающихся в каталоге.
func (p *PlantUseCase) ListCategories(ctx context.Context) ([]string, error) {
	const op = "PlantUseCase.ListCategories"

	categories, err := p.categoryRepo.DistinctCategories(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return categories, nil
}

// CreatePlant проверяет запрос и сохраняет новое растение вместе с событием plant.created.
func (p *PlantUseCase) CreatePlant(ctx context.Context, req *CreatePlantReq) (*domain.Plant, error) {
	const op = "PlantUseCase.CreatePlant"

	input, err := Validate(Normalize(req.Raw, req.Image))
	if err != nil {
		p.discardImage(req.Image)
		return nil, e.Wrap(op, err)
	}

	var plant *domain.Plant
	err = p.transactor.WithinTx(ctx, func(ctx context.Context) error {
		created, err := p.plantRepo.Insert(ctx, input)
		if err != nil {
			return err
		}
		plant = created

		return p.recordEvent(ctx, PlantCreated, created)
	})
	if err != nil {
		p.discardImage(req.Image)
		return nil, e.Wrap(op, err)
	}

	p.logger.Infof("plant created: id=%s name=%q", plant.ID, plant.Name)
	return plant, nil
}

// UpdatePlant заменяет присланные поля растения. Проверка та же, что и при создании.
func (p *PlantUseCase) UpdatePlant(ctx context.Context, req *UpdatePlantReq) (*domain.Plant, error) {
	const op = "PlantUseCase.UpdatePlant"

	input, err := Validate(Normalize(req.Raw, req.Image))
	if err != nil {
		p.discardImage(req.Image)
		return nil, e.Wrap(op, err)
	}

	var plant *domain.Plant
	err = p.transactor.WithinTx(ctx, func(ctx context.Context) error {
		updated, err := p.plantRepo.ReplaceByID(ctx, req.ID, input)
		if err != nil {
			return err
		}
		plant = updated

		return p.recordEvent(ctx, PlantUpdated, updated)
	})
	if err != nil {
		p.discardImage(req.Image)
		return nil, e.Wrap(op, err)
	}

	p.logger.Infof("plant updated: id=%s name=%q", plant.ID, plant.Name)
	return plant, nil
}

// DeletePlant безусловно удаляет растение. Повторное удаление возвращает e.ErrPlantNotFound.
func (p *PlantUseCase) DeletePlant(ctx context.Context, id string) error {
	const op = "PlantUseCase.DeletePlant"

	err := p.transactor.WithinTx(ctx, func(ctx context.Context) error {
		deleted, err := p.plantRepo.DeleteByID(ctx, id)
		if err != nil {
			return err
		}

		return p.recordEvent(ctx, PlantDeleted, deleted)
	})
	if err != nil {
		return e.Wrap(op, err)
	}

	p.logger.Infof("plant deleted: id=%s", id)
	return nil
}

// recordEvent пишет событие изменения в outbox в текущей транзакции.
func (p *PlantUseCase) recordEvent(ctx context.Context, eventType OutboxEventType, plant *domain.Plant) error {
	event, err := NewPlantEvent(eventType, plant)
	if err != nil {
		return err
	}

	_, err = p.outboxRepo.Create(ctx, event)
	return err
}

// discardImage запускает фоновую очистку файла, принятого для запроса, который не был сохранён.
func (p *PlantUseCase) discardImage(image *UploadedImage) {
	if image == nil {
		return
	}

	p.logger.Warnf("Cleaning up orphaned image after failed write: %s", image.Filename)
	p.imagesInfra.CleanupImages([]string{image.Filename})
}
