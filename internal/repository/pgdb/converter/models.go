package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID          int64      `db:"id"`
	ExternalID  string     `db:"external_id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Price       int64      `db:"price"`
	Currency    string     `db:"currency"`
	Sizes       []string   `db:"sizes"`
	Colors      []string   `db:"colors"`
	Tags        []string   `db:"tags"`
	Stock       int64      `db:"stock"`
	URL         string     `db:"url"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
	IsDeleted   bool       `db:"is_deleted"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	ExternalID  string     `db:"external_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
