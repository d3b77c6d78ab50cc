package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gbgcf/crp-questionnaire/internal/service"
)

// MockFormGateway is a mock implementation of service.FormGateway
type MockFormGateway struct {
	mock.Mock
}

var _ service.FormGateway = (*MockFormGateway)(nil)

func (m *MockFormGateway) result(args mock.Arguments) (*string, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

func (m *MockFormGateway) FetchReady(ctx context.Context, journeyType, customerID string) (*string, error) {
	return m.result(m.Called(ctx, journeyType, customerID))
}

func (m *MockFormGateway) Save(ctx context.Context, journeyType, customerID, formData string) (*string, error) {
	return m.result(m.Called(ctx, journeyType, customerID, formData))
}

func (m *MockFormGateway) Submit(ctx context.Context, journeyType, customerID, formData string) (*string, error) {
	return m.result(m.Called(ctx, journeyType, customerID, formData))
}

func (m *MockFormGateway) Reset(ctx context.Context, journeyType, customerID string) (*string, error) {
	return m.result(m.Called(ctx, journeyType, customerID))
}

func (m *MockFormGateway) Retake(ctx context.Context, journeyType, customerID string) (*string, error) {
	return m.result(m.Called(ctx, journeyType, customerID))
}

func (m *MockFormGateway) QuestionnaireError(ctx context.Context, journeyType, customerID string) (*string, error) {
	return m.result(m.Called(ctx, journeyType, customerID))
}

// Text returns a pointer to s for gateway results
func Text(s string) *string {
	return &s
}
