package converter

import (
	"testing"
	"time"

	"github.com/DRSN-tech/plant-catalog/internal/usecase"
)

func TestPlantConverter_ToEntity(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, loc)

	plant := PlantConverter{}.ToEntity(&PlantModel{
		ID:        "6b0c2c8e-3c0a-4f59-8f0f-2a5a8d1e9c11",
		Name:      "Aloe",
		Price:     12.5,
		CreatedAt: created,
		UpdatedAt: created,
	})

	if plant.Categories == nil {
		t.Error("Categories is nil, want empty slice")
	}
	if plant.CreatedAt.Location() != time.UTC || !plant.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v in UTC", plant.CreatedAt, created)
	}
	if (PlantConverter{}).ToEntity(nil) != nil {
		t.Error("ToEntity(nil) != nil")
	}
}

func TestOutboxEventConverter_RoundTrip(t *testing.T) {
	conv := OutboxEventConverter{}
	event := &usecase.OutboxEvent{
		ID:        7,
		EventID:   "ev-1",
		EventType: usecase.PlantDeleted,
		PlantID:   "p-1",
		Payload:   []byte(`{"a":1}`),
		Status:    usecase.Pending,
	}

	model := conv.ToModel(event)
	if model.EventType != "plant.deleted" || model.Status != "pending" {
		t.Errorf("model = %+v", model)
	}

	back := conv.ToArrEntity([]*OutboxEventModel{model})
	if len(back) != 1 || back[0].EventType != usecase.PlantDeleted || back[0].PlantID != "p-1" {
		t.Errorf("entities = %+v", back)
	}
}
