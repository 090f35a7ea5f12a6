package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/fashion-rag/internal/domain"
	"github.com/DRSN-tech/fashion-rag/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/fashion-rag/pkg/e"
	"github.com/DRSN-tech/fashion-rag/pkg/tr"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
// Postgres — источник истины каталога, векторный индекс производен от него.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// CreateBatch вставляет партию товаров в рамках транзакции из контекста.
// Повтор external_id внутри партии или конфликт с существующей записью
// откатывает всю партию: частично проиндексированный каталог хуже ошибки.
func (p *ProductRepo) CreateBatch(ctx context.Context, products []*domain.Product) ([]*domain.Product, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO products (
			external_id, title, description, price, currency,
			sizes, colors, tags, stock, url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING
			id, external_id, title, description, price, currency,
			sizes, colors, tags, stock, url, created_at, updated_at, is_deleted;
	`

	result := make([]*domain.Product, 0, len(products))
	for _, product := range products {
		model := p.conv.ToModel(product)

		var saved converter.ProductModel
		err := tx.QueryRow(ctx, query,
			model.ExternalID, model.Title, model.Description, model.Price, model.Currency,
			model.Sizes, model.Colors, model.Tags, model.Stock, model.URL,
		).Scan(
			&saved.ID, &saved.ExternalID, &saved.Title, &saved.Description, &saved.Price,
			&saved.Currency, &saved.Sizes, &saved.Colors, &saved.Tags, &saved.Stock,
			&saved.URL, &saved.CreatedAt, &saved.UpdatedAt, &saved.IsDeleted,
		)
		if err != nil {
			if postgresDuplicate(err) {
				return nil, e.Wrap(whereami.WhereAmI(), e.ErrProductExists)
			}

			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, p.conv.ToEntity(&saved))
	}

	return result, nil
}

// GetByExternalIDs возвращает товары по их внешним идентификаторам.
// Удалённые товары не возвращаются; отсутствующие идентификаторы молча
// пропускаются, разбирается вызывающая сторона.
func (p *ProductRepo) GetByExternalIDs(ctx context.Context, externalIDs []string) ([]*domain.Product, error) {
	query := `
		SELECT
			id, external_id, title, description, price, currency,
			sizes, colors, tags, stock, url, created_at, updated_at, is_deleted
		FROM products
		WHERE external_id = ANY($1) AND NOT is_deleted;
	`

	rows, err := p.pool.Query(ctx, query, externalIDs)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	var models []*converter.ProductModel
	for rows.Next() {
		var model converter.ProductModel
		if err := rows.Scan(
			&model.ID, &model.ExternalID, &model.Title, &model.Description, &model.Price,
			&model.Currency, &model.Sizes, &model.Colors, &model.Tags, &model.Stock,
			&model.URL, &model.CreatedAt, &model.UpdatedAt, &model.IsDeleted,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, &model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}

// SoftDelete помечает товар удалённым в рамках транзакции из контекста.
// Запись остаётся для истории, из поиска товар убирает вызывающая сторона.
func (p *ProductRepo) SoftDelete(ctx context.Context, externalID string) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE products
		SET is_deleted = TRUE, updated_at = NOW()
		WHERE external_id = $1 AND NOT is_deleted;
	`

	result, err := tx.Exec(ctx, query, externalID)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if result.RowsAffected() == 0 {
		return e.Wrap(whereami.WhereAmI(), e.ErrProductNotFound)
	}

	return nil
}

// postgresDuplicate распознаёт нарушение уникального ограничения (23505).
func postgresDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	return false
}