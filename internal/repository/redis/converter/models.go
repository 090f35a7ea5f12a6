package converter

import "time"

// ProductRedisModel — JSON-представление товара в кэше.
type ProductRedisModel struct {
	ExternalID  string     `json:"external_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       int64      `json:"price"`
	Currency    string     `json:"currency"`
	Sizes       []string   `json:"sizes,omitempty"`
	Colors      []string   `json:"colors,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Stock       int64      `json:"stock"`
	URL         string     `json:"url"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}
