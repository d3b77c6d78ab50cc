package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gbgcf/crp-questionnaire/internal/models"
)

// MockLegalEntityStore is a mock implementation of service.LegalEntityStore
type MockLegalEntityStore struct {
	mock.Mock
}

func (m *MockLegalEntityStore) FindByEntityID(ctx context.Context, entityID string) (*models.LegalEntity, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LegalEntity), args.Error(1)
}

// MockClientStore is a mock implementation of service.ClientStore
type MockClientStore struct {
	mock.Mock
}

func (m *MockClientStore) FindByMasterGroupID(ctx context.Context, masterGroupID string) (*models.Client, error) {
	args := m.Called(ctx, masterGroupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}
