package service

import (
	"context"

	"github.com/gbgcf/crp-questionnaire/internal/models"
)

// TrackingStore persists tracking records. Single-row lookups return
// models.ErrNotFound when nothing matches; list lookups are ordered by
// creation time, newest first.
type TrackingStore interface {
	LockSubject(ctx context.Context, subject models.SubjectRef) error
	FindActive(ctx context.Context, subject models.SubjectRef, statuses ...models.Status) (*models.PolicyTracking, error)
	FindByJourney(ctx context.Context, subject models.SubjectRef, journeyType string) ([]models.PolicyTracking, error)
	FindByJourneyWithContent(ctx context.Context, subject models.SubjectRef, journeyType string) ([]models.PolicyTracking, error)
	FindLatestByStatuses(ctx context.Context, subject models.SubjectRef, statuses ...models.Status) ([]models.PolicyTracking, error)
	Save(ctx context.Context, record *models.PolicyTracking) error
}

// TrackingTransactor runs fn against a store bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type TrackingTransactor interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, store TrackingStore) error) error
}

// LegalEntityStore looks up legal entities with their policies
type LegalEntityStore interface {
	FindByEntityID(ctx context.Context, entityID string) (*models.LegalEntity, error)
}

// ClientStore looks up master groups with their policies
type ClientStore interface {
	FindByMasterGroupID(ctx context.Context, masterGroupID string) (*models.Client, error)
}

// FormGateway talks to the external form provider. A nil result means the
// provider answered without content.
type FormGateway interface {
	FetchReady(ctx context.Context, journeyType, customerID string) (*string, error)
	Save(ctx context.Context, journeyType, customerID, formData string) (*string, error)
	Submit(ctx context.Context, journeyType, customerID, formData string) (*string, error)
	Reset(ctx context.Context, journeyType, customerID string) (*string, error)
	Retake(ctx context.Context, journeyType, customerID string) (*string, error)
	QuestionnaireError(ctx context.Context, journeyType, customerID string) (*string, error)
}
