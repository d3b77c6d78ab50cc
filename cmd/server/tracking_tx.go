package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gbgcf/crp-questionnaire/internal/dao"
	"github.com/gbgcf/crp-questionnaire/internal/database"
	"github.com/gbgcf/crp-questionnaire/internal/service"
)

const defaultTrackingTxTimeout = 5 * time.Second

// trackingMySQLTx runs tracking store work inside one MySQL transaction
type trackingMySQLTx struct {
	db      *database.DB
	timeout time.Duration
}

func newTrackingMySQLTx(db *database.DB) *trackingMySQLTx {
	return &trackingMySQLTx{db: db}
}

func (t *trackingMySQLTx) RunInTx(ctx context.Context, fn func(ctx context.Context, store service.TrackingStore) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("transaction aborted: %w", err)
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTrackingTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return t.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		return fn(ctx, dao.NewPolicyTrackingDAO(tx))
	})
}
