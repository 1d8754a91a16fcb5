package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/bienesraices/internal/domain/entity"
	"github.com/oksasatya/bienesraices/internal/domain/repository"
)

const propertySelect = `
	SELECT p.id, p.title, p.description, p.rooms, p.parking, p.bathrooms, p.street,
	       p.lat, p.lng, p.image, p.published, p.price_id, p.category_id, p.user_id,
	       p.created_at, p.updated_at, pr.name, c.name,
	       (SELECT count(*) FROM messages m WHERE m.property_id = p.id)
	FROM properties p
	JOIN prices pr ON pr.id = p.price_id
	JOIN categories c ON c.id = p.category_id
`

// updatePropertySQL rewrites the editable columns only; user_id is never set.
const updatePropertySQL = `
	UPDATE properties
	SET title = $1, description = $2, rooms = $3, parking = $4, bathrooms = $5,
	    street = $6, lat = $7, lng = $8, price_id = $9, category_id = $10, updated_at = $11
	WHERE id = $12
`

type PropertyRepository struct {
	db DBTX
}

func NewPropertyRepository(db DBTX) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func scanProperty(row pgx.Row, p *entity.Property) error {
	return row.Scan(&p.ID, &p.Title, &p.Description, &p.Rooms, &p.Parking, &p.Bathrooms, &p.Street,
		&p.Lat, &p.Lng, &p.Image, &p.Published, &p.PriceID, &p.CategoryID, &p.UserID,
		&p.CreatedAt, &p.UpdatedAt, &p.PriceName, &p.CategoryName, &p.MessageCount)
}

func collectProperties(rows pgx.Rows) ([]entity.Property, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Property, error) {
		var p entity.Property
		err := scanProperty(row, &p)
		return p, err
	})
}

func (r *PropertyRepository) Create(ctx context.Context, p *entity.Property) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO properties (title, description, rooms, parking, bathrooms, street, lat, lng,
		                        image, published, price_id, category_id, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Description, p.Rooms, p.Parking, p.Bathrooms, p.Street, p.Lat, p.Lng,
		p.Image, p.Published, p.PriceID, p.CategoryID, p.UserID).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*entity.Property, error) {
	p := &entity.Property{}
	if err := scanProperty(r.db.QueryRow(ctx, propertySelect+` WHERE p.id = $1`, id), p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PropertyRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]entity.Property, error) {
	rows, err := r.db.Query(ctx, propertySelect+`
		WHERE p.user_id = $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	return collectProperties(rows)
}

func (r *PropertyRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM properties WHERE user_id = $1`, ownerID).Scan(&n)
	return n, err
}

func (r *PropertyRepository) Update(ctx context.Context, p *entity.Property) error {
	p.UpdatedAt = time.Now()
	res, err := r.db.Exec(ctx, updatePropertySQL, p.Title, p.Description, p.Rooms, p.Parking, p.Bathrooms,
		p.Street, p.Lat, p.Lng, p.PriceID, p.CategoryID, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PropertyRepository) SetPublished(ctx context.Context, id string, published bool) error {
	return r.exec1(ctx, `UPDATE properties SET published = $1, updated_at = now() WHERE id = $2`, published, id)
}

func (r *PropertyRepository) SetImage(ctx context.Context, id, image string) error {
	return r.exec1(ctx, `UPDATE properties SET image = $1, updated_at = now() WHERE id = $2`, image, id)
}

func (r *PropertyRepository) exec1(ctx context.Context, q string, args ...any) error {
	res, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListPublished returns the newest public listings; categoryID 0 means any.
func (r *PropertyRepository) ListPublished(ctx context.Context, categoryID, limit int) ([]entity.Property, error) {
	rows, err := r.db.Query(ctx, propertySelect+`
		WHERE p.published AND ($1 = 0 OR p.category_id = $1)
		ORDER BY p.created_at DESC
		LIMIT $2
	`, categoryID, limit)
	if err != nil {
		return nil, err
	}
	return collectProperties(rows)
}

func (r *PropertyRepository) ListPublishedByIDs(ctx context.Context, ids []string) ([]entity.Property, error) {
	if len(ids) == 0 {
		return []entity.Property{}, nil
	}
	rows, err := r.db.Query(ctx, propertySelect+`
		WHERE p.published AND p.id = ANY($1::uuid[])
		ORDER BY p.created_at DESC
	`, ids)
	if err != nil {
		return nil, err
	}
	return collectProperties(rows)
}

func (r *PropertyRepository) SearchPublished(ctx context.Context, term string, limit int) ([]entity.Property, error) {
	rows, err := r.db.Query(ctx, propertySelect+`
		WHERE p.published AND (p.title ILIKE $1 ESCAPE '\' OR p.description ILIKE $1 ESCAPE '\')
		ORDER BY p.created_at DESC
		LIMIT $2
	`, containsPattern(term), limit)
	if err != nil {
		return nil, err
	}
	return collectProperties(rows)
}

var _ repository.PropertyRepository = (*PropertyRepository)(nil)
