package repository

import (
	"context"

	"github.com/oksasatya/bienesraices/internal/domain/entity"
)

// PropertyRepository persists listings. Update must never rewrite the owner.
type PropertyRepository interface {
	Create(ctx context.Context, p *entity.Property) error
	GetByID(ctx context.Context, id string) (*entity.Property, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]entity.Property, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	Update(ctx context.Context, p *entity.Property) error
	Delete(ctx context.Context, id string) error
	SetPublished(ctx context.Context, id string, published bool) error
	SetImage(ctx context.Context, id, image string) error

	ListPublished(ctx context.Context, categoryID, limit int) ([]entity.Property, error)
	ListPublishedByIDs(ctx context.Context, ids []string) ([]entity.Property, error)
	SearchPublished(ctx context.Context, term string, limit int) ([]entity.Property, error)
}

// CatalogRepository reads the static lookup tables.
type CatalogRepository interface {
	Categories(ctx context.Context) ([]entity.Category, error)
	Prices(ctx context.Context) ([]entity.Price, error)
}

// MessageRepository persists contact messages.
type MessageRepository interface {
	Create(ctx context.Context, m *entity.Message) error
	ListByProperty(ctx context.Context, propertyID string) ([]entity.Message, error)
}
