package service

import (
	"errors"
	"fmt"

	"github.com/gbgcf/crp-questionnaire/internal/models"
)

// Errors returned by the questionnaire operations. Handlers map them to
// HTTP outcomes with errors.Is.
var (
	ErrInvalidRequest          = errors.New("invalid request")
	ErrUnrecognizedJourneyType = models.ErrUnrecognizedJourneyType
	ErrSubjectNotFound         = errors.New("subject not found")
	ErrPolicyNotAssigned       = errors.New("policy not assigned to subject")
	ErrNoActiveRecord          = errors.New("no tracking record in required status")
	ErrInvalidTransition       = errors.New("invalid status transition")
	ErrAlreadySubmitted        = errors.New("form already submitted")
	ErrGatewayFailed           = errors.New("form provider reported failure")
	ErrGatewayUnavailable      = errors.New("form provider unavailable")
	ErrStoreUnavailable        = errors.New("tracking store unavailable")
	ErrFormNotFound            = errors.New("form provider returned no form")
	ErrFormNotAvailable        = errors.New("form not available")
)

func storeError(action string, err error) error {
	return fmt.Errorf("%s: %w: %w", action, ErrStoreUnavailable, err)
}

func gatewayError(action string, err error) error {
	return fmt.Errorf("%s: %w: %w", action, ErrGatewayUnavailable, err)
}

// IsExpectedOutcome reports whether err is a normal negative outcome rather than a fault
func IsExpectedOutcome(err error) bool {
	return errors.Is(err, ErrAlreadySubmitted) ||
		errors.Is(err, ErrGatewayFailed) ||
		errors.Is(err, ErrFormNotFound) ||
		errors.Is(err, ErrFormNotAvailable)
}

// IsClientError reports whether err was caused by the caller's input or call order
func IsClientError(err error) bool {
	if errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrGatewayUnavailable) {
		return false
	}
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrUnrecognizedJourneyType) ||
		errors.Is(err, ErrSubjectNotFound) ||
		errors.Is(err, ErrPolicyNotAssigned) ||
		errors.Is(err, ErrNoActiveRecord) ||
		errors.Is(err, ErrInvalidTransition)
}
