package postgres

import (
	"context"
	"encoding/json"


	"github.com/oksasatya/bienesraices/internal/domain/entity"
	"github.com/oksasatya/bienesraices/internal/domain/repository"
)

type AuditRepository struct {
	db DBTX
}

func NewAuditRepository(db DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *AuditRepository) Insert(ctx context.Context, e entity.AuditEntry) error {
	md, err := json.Marshal(e.Metadata)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO audit_logs (user_id, email, action, ip, user_agent, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, nullIfEmpty(e.UserID), nullIfEmpty(e.Email), e.Action, nullIfEmpty(e.IP), nullIfEmpty(e.UserAgent), md)
	return err
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
