package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gbgcf/crp-questionnaire/internal/models"
	"github.com/gbgcf/crp-questionnaire/internal/service"
)

// MockTrackingStore is a mock implementation of service.TrackingStore
type MockTrackingStore struct {
	mock.Mock
}

var _ service.TrackingStore = (*MockTrackingStore)(nil)

func (m *MockTrackingStore) LockSubject(ctx context.Context, subject models.SubjectRef) error {
	args := m.Called(ctx, subject)
	return args.Error(0)
}

func (m *MockTrackingStore) FindActive(ctx context.Context, subject models.SubjectRef, statuses ...models.Status) (*models.PolicyTracking, error) {
	args := m.Called(ctx, subject, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PolicyTracking), args.Error(1)
}

func (m *MockTrackingStore) FindByJourney(ctx context.Context, subject models.SubjectRef, journeyType string) ([]models.PolicyTracking, error) {
	args := m.Called(ctx, subject, journeyType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PolicyTracking), args.Error(1)
}

func (m *MockTrackingStore) FindByJourneyWithContent(ctx context.Context, subject models.SubjectRef, journeyType string) ([]models.PolicyTracking, error) {
	args := m.Called(ctx, subject, journeyType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PolicyTracking), args.Error(1)
}

func (m *MockTrackingStore) FindLatestByStatuses(ctx context.Context, subject models.SubjectRef, statuses ...models.Status) ([]models.PolicyTracking, error) {
	args := m.Called(ctx, subject, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PolicyTracking), args.Error(1)
}

func (m *MockTrackingStore) Save(ctx context.Context, record *models.PolicyTracking) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockTransactor runs the callback directly against Store
type MockTransactor struct {
	mock.Mock
	Store service.TrackingStore
}

var _ service.TrackingTransactor = (*MockTransactor)(nil)

func (m *MockTransactor) RunInTx(ctx context.Context, fn func(ctx context.Context, store service.TrackingStore) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m.Store)
}
