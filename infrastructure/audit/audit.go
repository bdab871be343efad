package audit

import (
	"context"
	"encoding/json"

	"github.com/uptrace/bun"

	"odinpos/infrastructure/sqlite"
	"odinpos/models"
)

// Entity types recorded by the template service.
const (
	EntityTemplate = "print_template"
	EntityOverride = "print_template_override"
)

// Service writes audit records inside the caller transaction.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) Write(ctx context.Context, tx bun.Tx, actor, action, entityType, entityID string, before, after any) error {
	beforeJSON, err := marshal(before)
	if err != nil {
		return err
	}
	afterJSON, err := marshal(after)
	if err != nil {
		return err
	}
	if actor == "" {
		actor = "anonymous"
	}
	log := &models.AuditLog{
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		BeforeJSON: beforeJSON,
		AfterJSON:  afterJSON,
	}
	_, err = tx.NewInsert().Model(log).Exec(ctx)
	return err
}

// Record writes one entry in its own write transaction.
func (s *Service) Record(ctx context.Context, db *sqlite.DB, actor, action, entityType, entityID string, before, after any) error {
	if s == nil || db == nil {
		return nil
	}
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return s.Write(ctx, tx, actor, action, entityType, entityID, before, after)
	})
}

// List returns the newest entries for one entity, most recent first.
func (s *Service) List(ctx context.Context, db *sqlite.DB, entityType, entityID string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []models.AuditLog
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().
			Model(&out).
			Where("entity_type = ?", entityType).
			Where("entity_id = ?", entityID).
			OrderExpr("id DESC").
			Limit(limit).
			Scan(ctx)
	})
	return out, err
}

func marshal(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
