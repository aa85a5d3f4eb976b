package usecase

import (
	"context"

	"github.com/DRSN-tech/plant-catalog/internal/domain"
)

type PlantUC interface {
	ListPlants(ctx context.Context, req *ListPlantsReq) ([]domain.Plant, error)
	ListCategories(ctx context.Context) ([]string, error)
	CreatePlant(ctx context.Context, req *CreatePlantReq) (*domain.Plant, error)
	UpdatePlant(ctx context.Context, req *UpdatePlantReq) (*domain.Plant, error)
	DeletePlant(ctx context.Context, id string) error
}
