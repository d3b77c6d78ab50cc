package models

import "time"

// Status is the lifecycle state of a tracking record
type Status string

const (
	StatusCaseInitiated    Status = "CASE_INITIATED"
	StatusPullForm         Status = "PULL_FORM"
	StatusInProgress       Status = "IN_PROGRESS"
	StatusSubmitted        Status = "SUBMITTED"
	StatusDecisionReceived Status = "DECISION_RECEIVED"
)

var (
	// ActiveStatuses are the in-flight states a GetForm call may reuse
	ActiveStatuses = []Status{StatusCaseInitiated, StatusPullForm, StatusInProgress}
	// EditableStatuses are the states in which a form can be saved or submitted
	EditableStatuses = []Status{StatusPullForm, StatusInProgress}
	// CompletedStatuses are the states a retake may start from
	CompletedStatuses = []Status{StatusSubmitted, StatusDecisionReceived}
)

// IsValid reports whether the status is one of the known lifecycle states
func (s Status) IsValid() bool {
	switch s {
	case StatusCaseInitiated, StatusPullForm, StatusInProgress, StatusSubmitted, StatusDecisionReceived:
		return true
	}
	return false
}

// IsActive reports whether the record is still in flight
func (s Status) IsActive() bool {
	return s == StatusCaseInitiated || s == StatusPullForm || s == StatusInProgress
}

// CanTransitionTo reports whether a record may move from s to next.
// In-flight states may move among themselves (a form can be pulled again
// while it is being filled), SUBMITTED only moves forward to
// DECISION_RECEIVED, and DECISION_RECEIVED is terminal.
func (s Status) CanTransitionTo(next Status) bool {
	if !next.IsValid() {
		return false
	}
	switch {
	case s.IsActive():
		return true
	case s == StatusSubmitted:
		return next == StatusSubmitted || next == StatusDecisionReceived
	case s == StatusDecisionReceived:
		return next == StatusDecisionReceived
	}
	return false
}

// Retake markers stored on a tracking record
const (
	RetakeEnable  = "enable"
	RetakeDisable = "disable"
)

// PolicyTracking represents the POLICY_TRACKING table: one attempt at
// completing a questionnaire for a subject and journey
type PolicyTracking struct {
	ID              int64
	Subject         SubjectRef
	Policy          Policy
	Status          Status
	JourneyType     string
	FormDataContent *string
	Retake          *string
	CreatedDate     time.Time
}

// HasContent reports whether an external form payload is stored on the record
func (t *PolicyTracking) HasContent() bool {
	return t.FormDataContent != nil
}

// IsPersisted reports whether the record has been written at least once
func (t *PolicyTracking) IsPersisted() bool {
	return t.ID != 0
}
