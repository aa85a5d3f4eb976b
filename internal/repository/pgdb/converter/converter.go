package converter

import (
	"github.com/DRSN-tech/plant-catalog/internal/domain"
	"github.com/DRSN-tech/plant-catalog/internal/usecase"
)

// PlantConverter преобразует записи plants в доменные сущности.
type PlantConverter struct{}

func (PlantConverter) ToEntity(model *PlantModel) *domain.Plant {
	if model == nil {
		return nil
	}

	categories := model.Categories
	if categories == nil {
		categories = []string{}
	}

	return &domain.Plant{
		ID:           model.ID,
		Name:         model.Name,
		Price:        model.Price,
		Categories:   categories,
		Availability: model.Availability,
		ImageURL:     model.ImageURL,
		Description:  model.Description,
		CreatedAt:    model.CreatedAt.UTC(),
		UpdatedAt:    model.UpdatedAt.UTC(),
	}
}

func (c PlantConverter) ToArrEntity(models []*PlantModel) []domain.Plant {
	result := make([]domain.Plant, 0, len(models))
	for _, m := range models {
		result = append(result, *c.ToEntity(m))
	}
	return result
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter struct{}

func (OutboxEventConverter) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	if entity == nil {
		return nil
	}

	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		PlantID:     entity.PlantID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConverter) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	if model == nil {
		return nil
	}

	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		PlantID:     model.PlantID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c OutboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		result = append(result, c.ToEntity(m))
	}
	return result
}
