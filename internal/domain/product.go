package domain

import "time"

// Product описывает товар каталога
type Product struct {
	ExternalID  string // стабильный идентификатор, присваивается владельцем каталога
	Title       string
	Description string
	Price       int64 // Цена хранится в целых донгах (VND)
	Currency    string
	Sizes       []string
	Colors      []string
	Tags        []string
	Stock       int64
	URL         string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	IsDeleted   bool
}

func NewProduct(externalID, title, description string, price int64) *Product {
	return &Product{
		ExternalID:  externalID,
		Title:       title,
		Description: description,
		Price:       price,
		Currency:    DefaultCurrency,
	}
}

// DefaultCurrency — валюта каталога по умолчанию.
const DefaultCurrency = "VND"

// Searchable возвращает текст, по которому строится эмбеддинг товара.
func (p *Product) Searchable() string {
	return p.Title + "\n" + p.Description
}
