package service

import "github.com/gbgcf/crp-questionnaire/internal/models"

// RetakePolicy decides the retake marker written on submitted and retaken
// records. It never blocks a retake from running.
type RetakePolicy struct {
	multipleRetakeEnabled bool
}

// NewRetakePolicy creates a retake policy from the multiple-retake flag
func NewRetakePolicy(multipleRetakeEnabled bool) RetakePolicy {
	return RetakePolicy{multipleRetakeEnabled: multipleRetakeEnabled}
}

// MultipleRetakesEnabled reports the configured flag
func (p RetakePolicy) MultipleRetakesEnabled() bool {
	return p.multipleRetakeEnabled
}

// SubmittedMarker is the marker for a successfully submitted record, nil leaves it unchanged
func (p RetakePolicy) SubmittedMarker() *string {
	if !p.MultipleRetakesEnabled() {
		return nil
	}
	marker := models.RetakeEnable
	return &marker
}

// RetakeMarker is the marker for a record created by a retake, nil leaves it unset
func (p RetakePolicy) RetakeMarker() *string {
	if p.MultipleRetakesEnabled() {
		return nil
	}
	marker := models.RetakeDisable
	return &marker
}
