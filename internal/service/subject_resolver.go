package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gbgcf/crp-questionnaire/internal/models"
)

// SubjectResolver classifies a request's subject and selects its governing policy
type SubjectResolver struct {
	legalEntities LegalEntityStore
	clients       ClientStore
	policyCode    string
}

// NewSubjectResolver creates a resolver selecting policyCode among the subject's policies
func NewSubjectResolver(legalEntities LegalEntityStore, clients ClientStore, policyCode string) *SubjectResolver {
	return &SubjectResolver{
		legalEntities: legalEntities,
		clients:       clients,
		policyCode:    policyCode,
	}
}

// Resolve loads the subject named by customerID, using the kind encoded in
// journeyType, and returns it with its default policy. It has no side effects.
func (r *SubjectResolver) Resolve(ctx context.Context, journeyType, customerID string) (*models.Subject, *models.Policy, error) {
	jt, err := models.ParseJourneyType(journeyType)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", err, journeyType)
	}

	var subject *models.Subject
	switch jt.Kind {
	case models.SubjectLegalEntity:
		le, err := r.legalEntities.FindByEntityID(ctx, customerID)
		if err != nil {
			return nil, nil, lookupError("legal entity", customerID, err)
		}
		subject = le.Subject()
	case models.SubjectMasterGroup:
		client, err := r.clients.FindByMasterGroupID(ctx, customerID)
		if err != nil {
			return nil, nil, lookupError("master group", customerID, err)
		}
		subject = client.Subject()
	}

	policy, ok := subject.FindPolicy(r.policyCode)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s has no policy %s", ErrPolicyNotAssigned, subject.Ref, r.policyCode)
	}

	return subject, policy, nil
}

func lookupError(kind, customerID string, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", ErrSubjectNotFound, kind, customerID)
	}
	return storeError("failed to load "+kind, err)
}
