package dao

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbgcf/crp-questionnaire/internal/models"
)

var trackingColumns = []string{
	"ID", "LEGAL_ENTITY_ID", "ENTITY_ID", "CLIENT_ID", "MASTER_GROUP_ID",
	"POLICY_ID", "POLICY_CODE", "POLICY_NAME", "POLICY_DESCRIPTION",
	"STATUS", "JOURNEY_TYPE", "FORM_DATA_CONTENT", "RETAKE", "CREATED_DATE",
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return sqlx.NewDb(db, "mysql"), mock
}

func TestPolicyTrackingDAO_FindActive_LegalEntity(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPolicyTrackingDAO(db)
	created := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(trackingColumns).
		AddRow(7, 11, "LE123", nil, nil, 3, "TCPOP", "Terms", nil, "PULL_FORM", "PAW-TCPOP-LE", "{form:1}", nil, created)
	mock.ExpectQuery(`(?s)FROM POLICY_TRACKING pt.*WHERE le\.ENTITY_ID = \? AND pt\.STATUS IN \(\?, \?\) ORDER BY pt\.CREATED_DATE DESC, pt\.ID DESC LIMIT 1`).
		WithArgs("LE123", "PULL_FORM", "IN_PROGRESS").
		WillReturnRows(rows)

	record, err := dao.FindActive(context.Background(), models.LegalEntityRef("LE123"), models.EditableStatuses...)

	require.NoError(t, err)
	assert.Equal(t, int64(7), record.ID)
	assert.Equal(t, models.SubjectRef{Kind: models.SubjectLegalEntity, ID: 11, Key: "LE123"}, record.Subject)
	assert.Equal(t, "TCPOP", record.Policy.PolicyCode)
	assert.Nil(t, record.Policy.Description)
	assert.Equal(t, models.StatusPullForm, record.Status)
	assert.Equal(t, "PAW-TCPOP-LE", record.JourneyType)
	require.NotNil(t, record.FormDataContent)
	assert.Equal(t, "{form:1}", *record.FormDataContent)
	assert.Nil(t, record.Retake)
	assert.Equal(t, created, record.CreatedDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPolicyTrackingDAO_FindActive_MasterGroup(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPolicyTrackingDAO(db)

	rows := sqlmock.NewRows(trackingColumns).
		AddRow(8, nil, nil, 21, "MG123", 3, "TCPOP", "Terms", "desc", "CASE_INITIATED", nil, nil, nil, time.Now())
	mock.ExpectQuery(`WHERE c\.MASTER_GROUP_ID = \? AND pt\.STATUS IN \(\?, \?, \?\)`).
		WithArgs("MG123", "CASE_INITIATED", "PULL_FORM", "IN_PROGRESS").
		WillReturnRows(rows)

	record, err := dao.FindActive(context.Background(), models.MasterGroupRef("MG123"), models.ActiveStatuses...)

	require.NoError(t, err)
	assert.True(t, record.Subject.IsMasterGroup())
	assert.Equal(t, int64(21), record.Subject.ID)
	assert.Equal(t, "", record.JourneyType)
	assert.False(t, record.HasContent())
	require.NotNil(t, record.Policy.Description)
	assert.Equal(t, "desc", *record.Policy.Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPolicyTrackingDAO_FindActive_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPolicyTrackingDAO(db)

	mock.ExpectQuery(`FROM POLICY_TRACKING pt`).WillReturnRows(sqlmock.NewRows(trackingColumns))

	record, err := dao.FindActive(context.Background(), models.LegalEntityRef("LE123"), models.ActiveStatuses...)

	assert.Nil(t, record)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPolicyTrackingDAO_FindActive_RequiresStatuses(t *testing.T) {
	db, _ := newMockDB(t)
	dao := NewPolicyTrackingDAO(db)

	_, err := dao.FindActive(context.Background(), models.LegalEntityRef("LE123"))

	assert.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotFound)
}

func TestPolicyTrackingDAO_FindActive_UnknownKind(t *testing.T) {
	db, _ := newMockDB(t)
	dao := NewPolicyTrackingDAO(db)

	_, err := dao.FindActive(context.Background(), models.SubjectRef{Kind: "XX", Key: "1"}, models.ActiveStatuses...)

	assert.ErrorContains(t, err, "invalid subject reference")
}

func TestPolicyTrackingDAO_FindByJourney_EmptyKey(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPolicyTrackingDAO(db)

	_, err := dao.FindByJourney(context.Background(), models.LegalEntityRef(""), "PAW-TCPOP-LE")

	assert.ErrorContains(t, err, "invalid subject reference")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPolicyTrackingDAO_RejectsRowWithTwoOwners(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPolicyTrackingDAO(db)

	rows := sqlmock.NewRows(trackingColumns).
		AddRow(9, 11, "LE123", 21, "MG123", 3, "TCPOP", "Terms", nil, "SUBMITTED", "PAW-TCPOP-LE", nil, nil, time.Now())
	mock.ExpectQuery(`FROM POLICY_TRACKING pt`).WillReturnRows(rows)

	_, err := dao.FindLatestByStatuses(context.Background(), models.LegalEntityRef("LE123"), models.CompletedStatuses...)

	assert.ErrorContains(t, err, "exactly one owner")
}

func TestPolicyTrackingDAO_FindByJourney(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPolicyTrackingDAO(db)
	newer := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	older := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(trackingColumns).
		AddRow(2, 11, "LE123", nil, nil, 3, "TCPOP", "Terms", nil, "CASE_INITIATED", "PAW-TCPOP-LE", nil, "disable", newer).
		AddRow(1, 11, "LE123", nil, nil, 3, "TCPOP", "Terms", nil, "SUBMITTED", "PAW-TCPOP-LE", "X", nil, older)
	mock.ExpectQuery(`WHERE le\.ENTITY_ID = \? AND pt\.JOURNEY_TYPE = \? ORDER BY pt\.CREATED_DATE DESC, pt\.ID DESC$`).
		WithArgs("LE123", "PAW-TCPOP-LE").
		WillReturnRows(rows)

	records, err := dao.FindByJourney(context.Background(), models.LegalEntityRef("LE123"), "PAW-TCPOP-LE")

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(2), records[0].ID)
	require.NotNil(t, records[0].Retake)
	assert.Equal(t, models.RetakeDisable, *records[0].Retake)
	assert.Equal(t, "X", *records[1].FormDataContent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPolicyTrackingDAO_FindByJourneyWithContent(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPolicyTrackingDAO(db)

	mock.ExpectQuery(`AND pt\.JOURNEY_TYPE = \? AND pt\.FORM_DATA_CONTENT IS NOT NULL ORDER BY`).
		WithArgs("MG123", "PAW-TCPOP-MG").
		WillReturnRows(sqlmock.NewRows(trackingColumns))

	records, err := dao.FindByJourneyWithContent(context.Background(), models.MasterGroupRef("MG123"), "PAW-TCPOP-MG")

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPolicyTrackingDAO_QueryError(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPolicyTrackingDAO(db)

	mock.ExpectQuery(`FROM POLICY_TRACKING pt`).WillReturnError(errors.New("connection reset"))

	_, err := dao.FindByJourney(context.Background(), models.LegalEntityRef("LE123"), "PAW-TCPOP-LE")

	assert.ErrorContains(t, err, "failed to list tracking records")
	assert.NotErrorIs(t, err, models.ErrNotFound)
}

func TestPolicyTrackingDAO_Save_Insert(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPolicyTrackingDAO(db)

	mock.ExpectExec(`INSERT INTO POLICY_TRACKING`).
		WithArgs(int64(11), nil, int64(3), "CASE_INITIATED", nil, nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(42, 1))

	record := &models.PolicyTracking{
		Subject: models.SubjectRef{Kind: models.SubjectLegalEntity, ID: 11, Key: "LE123"},
		Policy:  models.Policy{ID: 3, PolicyCode: "TCPOP"},
		Status:  models.StatusCaseInitiated,
	}
	err := dao.Save(context.Background(), record)

	require.NoError(t, err)
	assert.Equal(t, int64(42), record.ID)
	assert.False(t, record.CreatedDate.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPolicyTrackingDAO_Save_InsertMasterGroupWithRetake(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPolicyTrackingDAO(db)
	marker := models.RetakeDisable
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO POLICY_TRACKING`).
		WithArgs(nil, int64(21), int64(3), "CASE_INITIATED", "PAW-TCPOP-MG", nil, "disable", created).
		WillReturnResult(sqlmock.NewResult(43, 1))

	record := &models.PolicyTracking{
		Subject:     models.SubjectRef{Kind: models.SubjectMasterGroup, ID: 21, Key: "MG123"},
		Policy:      models.Policy{ID: 3},
		Status:      models.StatusCaseInitiated,
		JourneyType: "PAW-TCPOP-MG",
		Retake:      &marker,
		CreatedDate: created,
	}

	require.NoError(t, dao.Save(context.Background(), record))
	assert.Equal(t, created, record.CreatedDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPolicyTrackingDAO_Save_InsertWithoutOwnerRowID(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPolicyTrackingDAO(db)

	err := dao.Save(context.Background(), &models.PolicyTracking{
		Subject: models.LegalEntityRef("LE123"),
		Status:  models.StatusCaseInitiated,
	})

	assert.ErrorContains(t, err, "no row id")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPolicyTrackingDAO_Save_InsertWithUnknownOwnerKind(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPolicyTrackingDAO(db)

	err := dao.Save(context.Background(), &models.PolicyTracking{
		Subject: models.SubjectRef{Kind: "XX", ID: 4, Key: "X1"},
		Status:  models.StatusCaseInitiated,
	})

	assert.ErrorContains(t, err, "invalid subject reference")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPolicyTrackingDAO_Save_UpdateLeavesOwnerAndCreatedDate(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPolicyTrackingDAO(db)
	content := "{form:2}"
	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE POLICY_TRACKING\s+SET POLICY_ID = \?, STATUS = \?, JOURNEY_TYPE = \?, FORM_DATA_CONTENT = \?, RETAKE = \?\s+WHERE ID = \?`).
		WithArgs(int64(3), "IN_PROGRESS", "PAW-TCPOP-LE", "{form:2}", nil, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	record := &models.PolicyTracking{
		ID:              7,
		Subject:         models.SubjectRef{Kind: models.SubjectLegalEntity, ID: 11, Key: "LE123"},
		Policy:          models.Policy{ID: 3},
		Status:          models.StatusInProgress,
		JourneyType:     "PAW-TCPOP-LE",
		FormDataContent: &content,
		CreatedDate:     created,
	}

	require.NoError(t, dao.Save(context.Background(), record))
	assert.Equal(t, created, record.CreatedDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPolicyTrackingDAO_Save_UpdateError(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPolicyTrackingDAO(db)

	mock.ExpectExec(`UPDATE POLICY_TRACKING`).WillReturnError(errors.New("deadlock"))

	err := dao.Save(context.Background(), &models.PolicyTracking{ID: 7, Status: models.StatusSubmitted})

	assert.ErrorContains(t, err, "failed to update tracking record 7")
}

func TestPolicyTrackingDAO_LockSubject(t *testing.T) {
	db, mock := newMockDB(t)
	dao := NewPolicyTrackingDAO(db)

	mock.ExpectQuery(`SELECT ID FROM LEGAL_ENTITIES WHERE ENTITY_ID = \? FOR UPDATE`).
		WithArgs("LE123").
		WillReturnRows(sqlmock.NewRows([]string{"ID"}).AddRow(11))
	mock.ExpectQuery(`SELECT ID FROM CLIENTS WHERE MASTER_GROUP_ID = \? FOR UPDATE`).
		WithArgs("MG404").
		WillReturnRows(sqlmock.NewRows([]string{"ID"}))

	assert.NoError(t, dao.LockSubject(context.Background(), models.LegalEntityRef("LE123")))
	assert.ErrorIs(t, dao.LockSubject(context.Background(), models.MasterGroupRef("MG404")), models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
