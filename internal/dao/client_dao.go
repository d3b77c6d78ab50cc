package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gbgcf/crp-questionnaire/internal/models"
)

// ClientDAO handles database operations for master group clients
type ClientDAO struct {
	db sqlx.ExtContext
}

// NewClientDAO creates a new ClientDAO
func NewClientDAO(db sqlx.ExtContext) *ClientDAO {
	return &ClientDAO{db: db}
}

// FindByMasterGroupID retrieves a client and its policies by master group ID
func (dao *ClientDAO) FindByMasterGroupID(ctx context.Context, masterGroupID string) (*models.Client, error) {
	query := `
		SELECT ID, MASTER_GROUP_ID, CLIENT_NAME
		FROM CLIENTS
		WHERE MASTER_GROUP_ID = ?
	`

	var client models.Client
	if err := sqlx.GetContext(ctx, dao.db, &client, query, masterGroupID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("master group not found: %s: %w", masterGroupID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get master group: %w", err)
	}

	query = `
		SELECT p.ID, p.POLICY_CODE, p.POLICY_NAME, p.DESCRIPTION
		FROM POLICIES p
		INNER JOIN CLIENT_POLICIES cp ON cp.POLICY_ID = p.ID
		WHERE cp.CLIENT_ID = ?
	`

	client.Policies = []models.Policy{}
	if err := sqlx.SelectContext(ctx, dao.db, &client.Policies, query, client.ID); err != nil {
		return nil, fmt.Errorf("failed to get master group policies: %w", err)
	}

	return &client, nil
}
