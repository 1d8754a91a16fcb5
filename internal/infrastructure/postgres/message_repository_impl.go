package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/bienesraices/internal/domain/entity"
	"github.com/oksasatya/bienesraices/internal/domain/repository"
)

type MessageRepository struct {
	db DBTX
}

func NewMessageRepository(db DBTX) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *entity.Message) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO messages (body, property_id, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, m.Body, m.PropertyID, m.UserID).Scan(&m.ID, &m.CreatedAt)
}

func (r *MessageRepository) ListByProperty(ctx context.Context, propertyID string) ([]entity.Message, error) {
	rows, err := r.db.Query(ctx, `
		SELECT m.id, m.body, m.property_id, m.user_id, m.created_at, u.name, u.email
		FROM messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.property_id = $1
		ORDER BY m.created_at DESC
	`, propertyID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Message, error) {
		var m entity.Message
		err := row.Scan(&m.ID, &m.Body, &m.PropertyID, &m.UserID, &m.CreatedAt, &m.SenderName, &m.SenderEmail)
		return m, err
	})
}

var _ repository.MessageRepository = (*MessageRepository)(nil)
