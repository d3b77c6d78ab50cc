package service_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gbgcf/crp-questionnaire/internal/models"
	"github.com/gbgcf/crp-questionnaire/internal/service"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		client   bool
		expected bool
	}{
		{"journey type", fmt.Errorf("%w: X", service.ErrUnrecognizedJourneyType), true, false},
		{"subject", service.ErrSubjectNotFound, true, false},
		{"policy", service.ErrPolicyNotAssigned, true, false},
		{"no active record", service.ErrNoActiveRecord, true, false},
		{"transition", service.ErrInvalidTransition, true, false},
		{"already submitted", service.ErrAlreadySubmitted, false, true},
		{"gateway failed", service.ErrGatewayFailed, false, true},
		{"form not available", service.ErrFormNotAvailable, false, true},
		{"store", fmt.Errorf("x: %w: %w", service.ErrStoreUnavailable, models.ErrNotFound), false, false},
		{"gateway", fmt.Errorf("x: %w: %w", service.ErrGatewayUnavailable, errors.New("timeout")), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.client, service.IsClientError(tt.err))
			assert.Equal(t, tt.expected, service.IsExpectedOutcome(tt.err))
		})
	}
}

func TestUnrecognizedJourneyTypeSharesModelSentinel(t *testing.T) {
	_, err := models.ParseJourneyType("PAW-TCPOP")

	assert.ErrorIs(t, err, service.ErrUnrecognizedJourneyType)
}
