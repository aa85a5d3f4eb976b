package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/DRSN-tech/plant-catalog/internal/domain"
	"github.com/google/uuid"
)

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	PlantCreated OutboxEventType = "plant.created"
	PlantUpdated OutboxEventType = "plant.updated"
	PlantDeleted OutboxEventType = "plant.deleted"
)

// OutboxEvent — событие изменения каталога, записанное в одной транзакции с изменением растения.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	PlantID     string
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// PlantEventPayload — тело сообщения, которое уходит в Kafka.
type PlantEventPayload struct {
	EventID   string          `json:"eventId"`
	EventType OutboxEventType `json:"eventType"`
	Timestamp int64           `json:"timestamp"`
	Plant     *domain.Plant   `json:"plant"`
}

type WriteRawMessageReq struct {
	Key     string
	Payload []byte
}

// NewPlantEvent формирует событие outbox со снимком растения.
func NewPlantEvent(eventType OutboxEventType, plant *domain.Plant) (*OutboxEvent, error) {
	now := time.Now().UTC()
	eventID := uuid.NewString()

	payload, err := json.Marshal(PlantEventPayload{
		EventID:   eventID,
		EventType: eventType,
		Timestamp: now.UnixNano(),
		Plant:     plant,
	})
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		PlantID:   plant.ID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: now,
	}, nil
}

func NewWriteRawMessageReq(key string, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		Key:     key,
		Payload: payload,
	}
}

// NopOutbox используется, когда публикация событий отключена.
type NopOutbox struct{}

func (NopOutbox) Create(_ context.Context, event *OutboxEvent) (*OutboxEvent, error) {
	return event, nil
}

func (NopOutbox) GetAndMarkAsProcessing(context.Context, int) ([]*OutboxEvent, error) {
	return nil, nil
}

func (NopOutbox) MarkAsProcessed(context.Context, int64) error {
	return nil
}

func (NopOutbox) ResetStale(context.Context, time.Duration) (int64, error) {
	return 0, nil
}
