package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gbgcf/crp-questionnaire/internal/metrics"
	"github.com/gbgcf/crp-questionnaire/internal/models"
	"github.com/gbgcf/crp-questionnaire/pkg/utils"
)

// Operation names used in logs and metrics
const (
	OpGetForm            = "get_form"
	OpSaveForm           = "save_form"
	OpSubmitForm         = "submit_form"
	OpViewForm           = "view_form"
	OpResetForm          = "reset_form"
	OpRetake             = "retake"
	OpQuestionnaireError = "questionnaire_error"
	OpRecordDecision     = "record_decision"
)

// Options configures the questionnaire service
type Options struct {
	MultipleRetakeEnabled bool
}

// QuestionnaireService drives the tracking record lifecycle against the form provider
type QuestionnaireService struct {
	resolver *SubjectResolver
	store    TrackingStore
	tx       TrackingTransactor
	gateway  FormGateway
	retake   RetakePolicy
	metrics  *metrics.Metrics
	logger   *logrus.Logger
}

// NewQuestionnaireService creates a new QuestionnaireService
func NewQuestionnaireService(
	resolver *SubjectResolver,
	store TrackingStore,
	tx TrackingTransactor,
	gateway FormGateway,
	opts Options,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *QuestionnaireService {
	return &QuestionnaireService{
		resolver: resolver,
		store:    store,
		tx:       tx,
		gateway:  gateway,
		retake:   NewRetakePolicy(opts.MultipleRetakeEnabled),
		metrics:  m,
		logger:   logger,
	}
}

// GetForm fetches the ready form for the subject, reusing its in-flight
// tracking record or creating one, and moves the record to PULL_FORM.
func (s *QuestionnaireService) GetForm(ctx context.Context, journeyType, customerID string) (string, error) {
	log := s.requestLogger(ctx, OpGetForm, journeyType, customerID)
	log.Info("Fetching form")

	form, err := s.getForm(ctx, log, journeyType, customerID)
	return form, s.finish(OpGetForm, log, err)
}

func (s *QuestionnaireService) getForm(ctx context.Context, log *logrus.Entry, journeyType, customerID string) (string, error) {
	if err := validateRequest(journeyType, customerID); err != nil {
		return "", err
	}

	subject, policy, err := s.resolver.Resolve(ctx, journeyType, customerID)
	if err != nil {
		return "", err
	}

	var (
		tracking *models.PolicyTracking
		created  bool
	)
	err = s.tx.RunInTx(ctx, func(ctx context.Context, store TrackingStore) error {
		if err := store.LockSubject(ctx, subject.Ref); err != nil {
			return err
		}

		existing, err := store.FindActive(ctx, subject.Ref, models.ActiveStatuses...)
		switch {
		case errors.Is(err, models.ErrNotFound):
			existing = &models.PolicyTracking{
				Subject: subject.Ref,
				Status:  models.StatusCaseInitiated,
			}
			created = true
		case err != nil:
			return err
		}

		existing.Policy = *policy
		if err := store.Save(ctx, existing); err != nil {
			return err
		}
		tracking = existing
		return nil
	})
	if err != nil {
		return "", storeError("failed to get or create tracking record", err)
	}

	log = log.WithField("tracking_id", tracking.ID)
	if created {
		s.metrics.IncrementRecordsCreated(OpGetForm)
		log.Debug("Tracking record created")
	}

	form, err := s.gateway.FetchReady(ctx, journeyType, customerID)
	if err != nil {
		return "", gatewayError("failed to fetch ready form", err)
	}
	if form == nil {
		return "", ErrFormNotFound
	}
	if *form == models.FormAlreadySubmitted {
		return "", ErrAlreadySubmitted
	}

	if err := transition(tracking, models.StatusPullForm); err != nil {
		return "", err
	}
	tracking.JourneyType = journeyType
	tracking.FormDataContent = form
	if err := s.store.Save(ctx, tracking); err != nil {
		return "", storeError("failed to update tracking record", err)
	}

	return *form, nil
}

// SaveForm forwards form data to the provider and, when the subject has an
// editable tracking record, stores the provider's answer on it.
func (s *QuestionnaireService) SaveForm(ctx context.Context, journeyType, customerID, formData string) (string, error) {
	log := s.requestLogger(ctx, OpSaveForm, journeyType, customerID)
	log.Info("Saving form")

	form, err := s.saveForm(ctx, log, journeyType, customerID, formData)
	return form, s.finish(OpSaveForm, log, err)
}

func (s *QuestionnaireService) saveForm(ctx context.Context, log *logrus.Entry, journeyType, customerID, formData string) (string, error) {
	subject, err := subjectOf(journeyType, customerID)
	if err != nil {
		return "", err
	}

	tracking, err := s.store.FindActive(ctx, subject, models.EditableStatuses...)
	switch {
	case errors.Is(err, models.ErrNotFound):
		log.Debug("No editable tracking record, forwarding save only")
		tracking = nil
	case err != nil:
		return "", storeError("failed to find editable tracking record", err)
	}

	form, err := s.gateway.Save(ctx, journeyType, customerID, formData)
	if err != nil {
		return "", gatewayError("failed to save form", err)
	}
	if form == nil {
		return "", ErrFormNotFound
	}

	if tracking != nil {
		if err := transition(tracking, models.StatusInProgress); err != nil {
			return "", err
		}
		tracking.FormDataContent = form
		if err := s.store.Save(ctx, tracking); err != nil {
			return "", storeError("failed to update tracking record", err)
		}
	}

	return *form, nil
}

// SubmitForm marks the editable tracking record SUBMITTED, then submits the
// form to the provider. The SUBMITTED write is kept when the provider fails.
func (s *QuestionnaireService) SubmitForm(ctx context.Context, journeyType, customerID, formData string) (string, error) {
	log := s.requestLogger(ctx, OpSubmitForm, journeyType, customerID)
	log.Info("Submitting form")

	result, err := s.submitForm(ctx, log, journeyType, customerID, formData)
	return result, s.finish(OpSubmitForm, log, err)
}

func (s *QuestionnaireService) submitForm(ctx context.Context, log *logrus.Entry, journeyType, customerID, formData string) (string, error) {
	subject, err := subjectOf(journeyType, customerID)
	if err != nil {
		return "", err
	}

	tracking, err := s.store.FindActive(ctx, subject, models.EditableStatuses...)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", fmt.Errorf("%w: nothing to submit for %s", ErrNoActiveRecord, subject)
		}
		return "", storeError("failed to find editable tracking record", err)
	}

	if err := transition(tracking, models.StatusSubmitted); err != nil {
		return "", err
	}
	if err := s.store.Save(ctx, tracking); err != nil {
		return "", storeError("failed to mark tracking record submitted", err)
	}

	result, err := s.gateway.Submit(ctx, journeyType, customerID, formData)
	if err != nil {
		log.WithField("tracking_id", tracking.ID).Warn("Tracking record left SUBMITTED without provider confirmation")
		return "", gatewayError("failed to submit form", err)
	}
	if isFailure(result) {
		return "", ErrGatewayFailed
	}

	tracking.FormDataContent = result
	if marker := s.retake.SubmittedMarker(); marker != nil {
		tracking.Retake = marker
	}
	if err := s.store.Save(ctx, tracking); err != nil {
		return "", storeError("failed to store submitted form", err)
	}

	return models.Success, nil
}

// ViewForm returns the content of the newest tracking record for the
// subject and journey, falling back to the newest record that has content.
func (s *QuestionnaireService) ViewForm(ctx context.Context, journeyType, customerID string) (string, error) {
	log := s.requestLogger(ctx, OpViewForm, journeyType, customerID)
	log.Info("Viewing form")

	form, err := s.viewForm(ctx, journeyType, customerID)
	return form, s.finish(OpViewForm, log, err)
}

func (s *QuestionnaireService) viewForm(ctx context.Context, journeyType, customerID string) (string, error) {
	subject, err := subjectOf(journeyType, customerID)
	if err != nil {
		return "", err
	}

	records, err := s.store.FindByJourney(ctx, subject, journeyType)
	if err != nil {
		return "", storeError("failed to list tracking records", err)
	}
	if len(records) == 0 {
		return "", ErrFormNotAvailable
	}

	latest := records[0]
	if !latest.HasContent() {
		previous, err := s.store.FindByJourneyWithContent(ctx, subject, journeyType)
		if err != nil {
			return "", storeError("failed to list tracking records with content", err)
		}
		if len(previous) == 0 {
			return "", ErrFormNotAvailable
		}
		latest = previous[0]
	}

	return *latest.FormDataContent, nil
}

// ResetForm asks the provider for a fresh form. Local state is untouched.
func (s *QuestionnaireService) ResetForm(ctx context.Context, journeyType, customerID string) (string, error) {
	log := s.requestLogger(ctx, OpResetForm, journeyType, customerID)
	log.Info("Resetting form")

	form, err := s.passthrough(ctx, journeyType, customerID, "reset form", s.gateway.Reset)
	return form, s.finish(OpResetForm, log, err)
}

// GetQuestionnaireError returns the provider's error report for the subject's questionnaire
func (s *QuestionnaireService) GetQuestionnaireError(ctx context.Context, journeyType, customerID string) (string, error) {
	log := s.requestLogger(ctx, OpQuestionnaireError, journeyType, customerID)
	log.Info("Fetching questionnaire error")

	report, err := s.passthrough(ctx, journeyType, customerID, "fetch questionnaire error", s.gateway.QuestionnaireError)
	return report, s.finish(OpQuestionnaireError, log, err)
}

func (s *QuestionnaireService) passthrough(ctx context.Context, journeyType, customerID, action string,
	call func(ctx context.Context, journeyType, customerID string) (*string, error)) (string, error) {
	if err := validateRequest(journeyType, customerID); err != nil {
		return "", err
	}

	result, err := call(ctx, journeyType, customerID)
	if err != nil {
		return "", gatewayError("failed to "+action, err)
	}
	if result == nil {
		return "", nil
	}
	return *result, nil
}

// RetakeQuestionnaire starts a new tracking line from the subject's latest
// completed record and asks the provider to collect the data again.
func (s *QuestionnaireService) RetakeQuestionnaire(ctx context.Context, journeyType, customerID string) (string, error) {
	log := s.requestLogger(ctx, OpRetake, journeyType, customerID)
	log.Info("Retaking questionnaire")

	result, err := s.retakeQuestionnaire(ctx, log, journeyType, customerID)
	return result, s.finish(OpRetake, log, err)
}

func (s *QuestionnaireService) retakeQuestionnaire(ctx context.Context, log *logrus.Entry, journeyType, customerID string) (string, error) {
	subject, err := subjectOf(journeyType, customerID)
	if err != nil {
		return "", err
	}

	completed, err := s.store.FindLatestByStatuses(ctx, subject, models.CompletedStatuses...)
	if err != nil {
		return "", storeError("failed to find completed tracking record", err)
	}
	if len(completed) == 0 {
		return "", fmt.Errorf("%w: nothing to retake for %s", ErrNoActiveRecord, subject)
	}

	previous := completed[0]
	next := &models.PolicyTracking{
		Subject:     previous.Subject,
		Policy:      previous.Policy,
		JourneyType: journeyType,
		Status:      models.StatusCaseInitiated,
		Retake:      s.retake.RetakeMarker(),
	}
	if err := s.store.Save(ctx, next); err != nil {
		return "", storeError("failed to create retake tracking record", err)
	}
	s.metrics.IncrementRecordsCreated(OpRetake)
	log.WithFields(logrus.Fields{
		"tracking_id":             next.ID,
		"previous_tracking_id":    previous.ID,
		"multiple_retake_enabled": s.retake.MultipleRetakesEnabled(),
	}).Debug("Retake tracking record created")

	result, err := s.gateway.Retake(ctx, journeyType, customerID)
	if err != nil {
		return "", gatewayError("failed to retake questionnaire", err)
	}
	if isFailure(result) {
		return "", ErrGatewayFailed
	}

	return models.CollectDataInitiated, nil
}

// RecordDecision moves the subject's latest SUBMITTED record to DECISION_RECEIVED
func (s *QuestionnaireService) RecordDecision(ctx context.Context, journeyType, customerID string) (string, error) {
	log := s.requestLogger(ctx, OpRecordDecision, journeyType, customerID)
	log.Info("Recording decision")

	result, err := s.recordDecision(ctx, journeyType, customerID)
	return result, s.finish(OpRecordDecision, log, err)
}

func (s *QuestionnaireService) recordDecision(ctx context.Context, journeyType, customerID string) (string, error) {
	subject, err := subjectOf(journeyType, customerID)
	if err != nil {
		return "", err
	}

	submitted, err := s.store.FindLatestByStatuses(ctx, subject, models.StatusSubmitted)
	if err != nil {
		return "", storeError("failed to find submitted tracking record", err)
	}
	if len(submitted) == 0 {
		return "", fmt.Errorf("%w: nothing submitted for %s", ErrNoActiveRecord, subject)
	}

	tracking := submitted[0]
	if err := transition(&tracking, models.StatusDecisionReceived); err != nil {
		return "", err
	}
	if err := s.store.Save(ctx, &tracking); err != nil {
		return "", storeError("failed to record decision", err)
	}

	return models.Success, nil
}

func (s *QuestionnaireService) requestLogger(ctx context.Context, operation, journeyType, customerID string) *logrus.Entry {
	fields := logrus.Fields{
		"operation":    operation,
		"journey_type": journeyType,
		"customer_id":  customerID,
	}
	if id := utils.CorrelationIDFromContext(ctx); id != "" {
		fields["correlation_id"] = id
	}
	return s.logger.WithFields(fields)
}

// finish logs the operation result at a level matching its kind and records the outcome
func (s *QuestionnaireService) finish(operation string, log *logrus.Entry, err error) error {
	switch {
	case err == nil:
		s.metrics.IncrementOutcome(operation, metrics.OutcomeSuccess)
	case IsExpectedOutcome(err):
		s.metrics.IncrementOutcome(operation, metrics.OutcomeNegative)
		log.WithError(err).Warn("Operation completed with negative outcome")
	case IsClientError(err):
		s.metrics.IncrementOutcome(operation, metrics.OutcomeRejected)
		log.WithError(err).Info("Operation rejected")
	default:
		s.metrics.IncrementOutcome(operation, metrics.OutcomeError)
		log.WithError(err).Error("Operation failed")
	}
	return err
}

func validateRequest(journeyType, customerID string) error {
	if err := utils.ValidateJourneyType(journeyType); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	if err := utils.ValidateCustomerID(customerID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}

// subjectOf validates the request and builds the natural-key subject reference
func subjectOf(journeyType, customerID string) (models.SubjectRef, error) {
	if err := validateRequest(journeyType, customerID); err != nil {
		return models.SubjectRef{}, err
	}
	jt, err := models.ParseJourneyType(journeyType)
	if err != nil {
		return models.SubjectRef{}, fmt.Errorf("%w: %s", err, journeyType)
	}
	return jt.SubjectRef(customerID), nil
}

func transition(tracking *models.PolicyTracking, next models.Status) error {
	if !tracking.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: tracking %d from %s to %s", ErrInvalidTransition, tracking.ID, tracking.Status, next)
	}
	tracking.Status = next
	return nil
}

// isFailure reports whether a provider result is absent or the failure sentinel
func isFailure(result *string) bool {
	return result == nil || strings.EqualFold(*result, models.Failed)
}
