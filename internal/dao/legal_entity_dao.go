package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gbgcf/crp-questionnaire/internal/models"
)

// LegalEntityDAO handles database operations for legal entities
type LegalEntityDAO struct {
	db sqlx.ExtContext
}

// NewLegalEntityDAO creates a new LegalEntityDAO
func NewLegalEntityDAO(db sqlx.ExtContext) *LegalEntityDAO {
	return &LegalEntityDAO{db: db}
}

// FindByEntityID retrieves a legal entity and its policies by entity ID
func (dao *LegalEntityDAO) FindByEntityID(ctx context.Context, entityID string) (*models.LegalEntity, error) {
	query := `
		SELECT ID, ENTITY_ID, ENTITY_NAME
		FROM LEGAL_ENTITIES
		WHERE ENTITY_ID = ?
	`

	var entity models.LegalEntity
	if err := sqlx.GetContext(ctx, dao.db, &entity, query, entityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("legal entity not found: %s: %w", entityID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get legal entity: %w", err)
	}

	policies, err := dao.policies(ctx, entity.ID)
	if err != nil {
		return nil, err
	}
	entity.Policies = policies

	return &entity, nil
}

func (dao *LegalEntityDAO) policies(ctx context.Context, legalEntityID int64) ([]models.Policy, error) {
	query := `
		SELECT p.ID, p.POLICY_CODE, p.POLICY_NAME, p.DESCRIPTION
		FROM POLICIES p
		INNER JOIN LEGAL_ENTITY_POLICIES lep ON lep.POLICY_ID = p.ID
		WHERE lep.LEGAL_ENTITY_ID = ?
	`

	policies := []models.Policy{}
	if err := sqlx.SelectContext(ctx, dao.db, &policies, query, legalEntityID); err != nil {
		return nil, fmt.Errorf("failed to get legal entity policies: %w", err)
	}

	return policies, nil
}
