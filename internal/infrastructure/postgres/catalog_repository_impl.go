package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/bienesraices/internal/domain/entity"
	"github.com/oksasatya/bienesraices/internal/domain/repository"
)

type CatalogRepository struct {
	db DBTX
}

func NewCatalogRepository(db DBTX) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) Categories(ctx context.Context) ([]entity.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Category, error) {
		var c entity.Category
		err := row.Scan(&c.ID, &c.Name)
		return c, err
	})
}

func (r *CatalogRepository) Prices(ctx context.Context) ([]entity.Price, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM prices ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Price, error) {
		var p entity.Price
		err := row.Scan(&p.ID, &p.Name)
		return p, err
	})
}

var _ repository.CatalogRepository = (*CatalogRepository)(nil)
