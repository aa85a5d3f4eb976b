package converter

import "time"

// PlantModel представляет запись таблицы plants в PostgreSQL.
type PlantModel struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Price        float64   `db:"price"`
	Categories   []string  `db:"categories"`
	Availability bool      `db:"availability"`
	ImageURL     *string   `db:"image_url"`
	Description  *string   `db:"description"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	PlantID     string     `db:"plant_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
