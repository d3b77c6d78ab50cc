package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gbgcf/crp-questionnaire/internal/models"
	"github.com/gbgcf/crp-questionnaire/pkg/utils"
)

const trackingSelect = `
	SELECT pt.ID, pt.LEGAL_ENTITY_ID, le.ENTITY_ID, pt.CLIENT_ID, c.MASTER_GROUP_ID,
		pt.POLICY_ID, p.POLICY_CODE, p.POLICY_NAME, p.DESCRIPTION AS POLICY_DESCRIPTION,
		pt.STATUS, pt.JOURNEY_TYPE, pt.FORM_DATA_CONTENT, pt.RETAKE, pt.CREATED_DATE
	FROM POLICY_TRACKING pt
	INNER JOIN POLICIES p ON p.ID = pt.POLICY_ID
	LEFT JOIN LEGAL_ENTITIES le ON le.ID = pt.LEGAL_ENTITY_ID
	LEFT JOIN CLIENTS c ON c.ID = pt.CLIENT_ID
`

const newestFirst = ` ORDER BY pt.CREATED_DATE DESC, pt.ID DESC`

// trackingRow is the joined POLICY_TRACKING row
type trackingRow struct {
	ID                int64          `db:"ID"`
	LegalEntityID     sql.NullInt64  `db:"LEGAL_ENTITY_ID"`
	EntityID          sql.NullString `db:"ENTITY_ID"`
	ClientID          sql.NullInt64  `db:"CLIENT_ID"`
	MasterGroupID     sql.NullString `db:"MASTER_GROUP_ID"`
	PolicyID          int64          `db:"POLICY_ID"`
	PolicyCode        string         `db:"POLICY_CODE"`
	PolicyName        string         `db:"POLICY_NAME"`
	PolicyDescription sql.NullString `db:"POLICY_DESCRIPTION"`
	Status            string         `db:"STATUS"`
	JourneyType       sql.NullString `db:"JOURNEY_TYPE"`
	FormDataContent   sql.NullString `db:"FORM_DATA_CONTENT"`
	Retake            sql.NullString `db:"RETAKE"`
	CreatedDate       time.Time      `db:"CREATED_DATE"`
}

func (r *trackingRow) toModel() (*models.PolicyTracking, error) {
	var subject models.SubjectRef
	switch {
	case r.LegalEntityID.Valid && !r.ClientID.Valid:
		subject = models.SubjectRef{Kind: models.SubjectLegalEntity, ID: r.LegalEntityID.Int64, Key: r.EntityID.String}
	case r.ClientID.Valid && !r.LegalEntityID.Valid:
		subject = models.SubjectRef{Kind: models.SubjectMasterGroup, ID: r.ClientID.Int64, Key: r.MasterGroupID.String}
	default:
		return nil, fmt.Errorf("tracking record %d must have exactly one owner", r.ID)
	}

	return &models.PolicyTracking{
		ID:      r.ID,
		Subject: subject,
		Policy: models.Policy{
			ID:          r.PolicyID,
			PolicyCode:  r.PolicyCode,
			PolicyName:  r.PolicyName,
			Description: stringPtr(r.PolicyDescription),
		},
		Status:          models.Status(r.Status),
		JourneyType:     r.JourneyType.String,
		FormDataContent: stringPtr(r.FormDataContent),
		Retake:          stringPtr(r.Retake),
		CreatedDate:     r.CreatedDate,
	}, nil
}

// PolicyTrackingDAO handles database operations for tracking records.
// It runs against either the connection pool or a single transaction.
type PolicyTrackingDAO struct {
	db sqlx.ExtContext
}

// NewPolicyTrackingDAO creates a new PolicyTrackingDAO
func NewPolicyTrackingDAO(db sqlx.ExtContext) *PolicyTrackingDAO {
	return &PolicyTrackingDAO{db: db}
}

// LockSubject takes a row lock on the subject's row until the surrounding
// transaction ends. Outside a transaction the lock is released immediately.
func (dao *PolicyTrackingDAO) LockSubject(ctx context.Context, subject models.SubjectRef) error {
	var query string
	switch subject.Kind {
	case models.SubjectLegalEntity:
		query = `SELECT ID FROM LEGAL_ENTITIES WHERE ENTITY_ID = ? FOR UPDATE`
	case models.SubjectMasterGroup:
		query = `SELECT ID FROM CLIENTS WHERE MASTER_GROUP_ID = ? FOR UPDATE`
	default:
		return fmt.Errorf("unknown subject kind: %q", subject.Kind)
	}

	var id int64
	if err := sqlx.GetContext(ctx, dao.db, &id, query, subject.Key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("subject not found: %s: %w", subject, models.ErrNotFound)
		}
		return fmt.Errorf("failed to lock subject: %w", err)
	}

	return nil
}

// FindActive returns the newest record of the subject in one of statuses
func (dao *PolicyTrackingDAO) FindActive(ctx context.Context, subject models.SubjectRef, statuses ...models.Status) (*models.PolicyTracking, error) {
	records, err := dao.findByStatuses(ctx, subject, statuses, " LIMIT 1")
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no tracking record for %s: %w", subject, models.ErrNotFound)
	}
	return &records[0], nil
}

// FindLatestByStatuses returns the subject's records in one of statuses, newest first
func (dao *PolicyTrackingDAO) FindLatestByStatuses(ctx context.Context, subject models.SubjectRef, statuses ...models.Status) ([]models.PolicyTracking, error) {
	return dao.findByStatuses(ctx, subject, statuses, "")
}

// FindByJourney returns the subject's records for the journey, newest first
func (dao *PolicyTrackingDAO) FindByJourney(ctx context.Context, subject models.SubjectRef, journeyType string) ([]models.PolicyTracking, error) {
	filter, key, err := subjectFilter(subject)
	if err != nil {
		return nil, err
	}

	query := trackingSelect + ` WHERE ` + filter + ` AND pt.JOURNEY_TYPE = ?` + newestFirst
	return dao.selectRecords(ctx, query, key, journeyType)
}

// FindByJourneyWithContent returns the subject's records for the journey
// that carry form content, newest first
func (dao *PolicyTrackingDAO) FindByJourneyWithContent(ctx context.Context, subject models.SubjectRef, journeyType string) ([]models.PolicyTracking, error) {
	filter, key, err := subjectFilter(subject)
	if err != nil {
		return nil, err
	}

	query := trackingSelect + ` WHERE ` + filter +
		` AND pt.JOURNEY_TYPE = ? AND pt.FORM_DATA_CONTENT IS NOT NULL` + newestFirst
	return dao.selectRecords(ctx, query, key, journeyType)
}

// Save inserts a new record or updates an existing one. The creation date
// and owner are written once on insert and never updated.
func (dao *PolicyTrackingDAO) Save(ctx context.Context, record *models.PolicyTracking) error {
	if record.IsPersisted() {
		return dao.update(ctx, record)
	}
	return dao.insert(ctx, record)
}

func (dao *PolicyTrackingDAO) insert(ctx context.Context, record *models.PolicyTracking) error {
	legalEntityID, clientID, err := ownerColumns(record.Subject)
	if err != nil {
		return err
	}

	createdDate := record.CreatedDate
	if createdDate.IsZero() {
		createdDate = utils.CurrentTime()
	}

	query := `
		INSERT INTO POLICY_TRACKING (LEGAL_ENTITY_ID, CLIENT_ID, POLICY_ID, STATUS, JOURNEY_TYPE,
			FORM_DATA_CONTENT, RETAKE, CREATED_DATE)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := dao.db.ExecContext(ctx, query,
		legalEntityID,
		clientID,
		record.Policy.ID,
		string(record.Status),
		nullString(record.JourneyType),
		record.FormDataContent,
		record.Retake,
		createdDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create tracking record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read tracking record id: %w", err)
	}

	record.ID = id
	record.CreatedDate = createdDate
	return nil
}

func (dao *PolicyTrackingDAO) update(ctx context.Context, record *models.PolicyTracking) error {
	query := `
		UPDATE POLICY_TRACKING
		SET POLICY_ID = ?, STATUS = ?, JOURNEY_TYPE = ?, FORM_DATA_CONTENT = ?, RETAKE = ?
		WHERE ID = ?
	`

	_, err := dao.db.ExecContext(ctx, query,
		record.Policy.ID,
		string(record.Status),
		nullString(record.JourneyType),
		record.FormDataContent,
		record.Retake,
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update tracking record %d: %w", record.ID, err)
	}

	return nil
}

func (dao *PolicyTrackingDAO) findByStatuses(ctx context.Context, subject models.SubjectRef, statuses []models.Status, suffix string) ([]models.PolicyTracking, error) {
	if len(statuses) == 0 {
		return nil, fmt.Errorf("at least one status is required")
	}

	filter, key, err := subjectFilter(subject)
	if err != nil {
		return nil, err
	}

	query, args, err := sqlx.In(trackingSelect+` WHERE `+filter+` AND pt.STATUS IN (?)`+newestFirst+suffix,
		key, statusStrings(statuses))
	if err != nil {
		return nil, fmt.Errorf("failed to build status query: %w", err)
	}

	return dao.selectRecords(ctx, dao.db.Rebind(query), args...)
}

func (dao *PolicyTrackingDAO) selectRecords(ctx context.Context, query string, args ...interface{}) ([]models.PolicyTracking, error) {
	var rows []trackingRow
	if err := sqlx.SelectContext(ctx, dao.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list tracking records: %w", err)
	}

	records := make([]models.PolicyTracking, 0, len(rows))
	for i := range rows {
		record, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	return records, nil
}

func subjectFilter(subject models.SubjectRef) (string, string, error) {
	if !subject.Valid() {
		return "", "", fmt.Errorf("invalid subject reference %q", subject)
	}
	if subject.IsMasterGroup() {
		return `c.MASTER_GROUP_ID = ?`, subject.Key, nil
	}
	return `le.ENTITY_ID = ?`, subject.Key, nil
}

// ownerColumns returns the LEGAL_ENTITY_ID and CLIENT_ID values; exactly one is set
func ownerColumns(subject models.SubjectRef) (sql.NullInt64, sql.NullInt64, error) {
	if !subject.Valid() {
		return sql.NullInt64{}, sql.NullInt64{}, fmt.Errorf("invalid subject reference %q", subject)
	}
	if subject.ID == 0 {
		return sql.NullInt64{}, sql.NullInt64{}, fmt.Errorf("subject %s has no row id", subject)
	}

	owner := sql.NullInt64{Int64: subject.ID, Valid: true}
	if subject.IsMasterGroup() {
		return sql.NullInt64{}, owner, nil
	}
	return owner, sql.NullInt64{}, nil
}

func statusStrings(statuses []models.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
