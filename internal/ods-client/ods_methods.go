package odsclient

import (
	"context"
	"net/http"
)

// Call names used in logs and latency metrics
const (
	CallReady  = "ready"
	CallSave   = "save"
	CallSubmit = "submit"
	CallReset  = "reset"
	CallRetake = "retake"
	CallError  = "error"
)

// FetchReady retrieves the ready form for the journey and customer
func (c *ODSClient) FetchReady(ctx context.Context, journeyType, customerID string) (*string, error) {
	return c.call(ctx, CallReady, http.MethodGet, c.config.Endpoints.Ready, journeyType, customerID, nil)
}

// Save sends in-progress form data to the provider
func (c *ODSClient) Save(ctx context.Context, journeyType, customerID, formData string) (*string, error) {
	return c.call(ctx, CallSave, http.MethodPost, c.config.Endpoints.Save, journeyType, customerID, &formData)
}

// Submit sends the final form data to the provider
func (c *ODSClient) Submit(ctx context.Context, journeyType, customerID, formData string) (*string, error) {
	return c.call(ctx, CallSubmit, http.MethodPost, c.config.Endpoints.Submit, journeyType, customerID, &formData)
}

// Reset asks the provider for a fresh form
func (c *ODSClient) Reset(ctx context.Context, journeyType, customerID string) (*string, error) {
	return c.call(ctx, CallReset, http.MethodGet, c.config.Endpoints.Reset, journeyType, customerID, nil)
}

// Retake asks the provider to collect the questionnaire again
func (c *ODSClient) Retake(ctx context.Context, journeyType, customerID string) (*string, error) {
	return c.call(ctx, CallRetake, http.MethodGet, c.config.Endpoints.Retake, journeyType, customerID, nil)
}

// QuestionnaireError retrieves the provider's error report for the questionnaire
func (c *ODSClient) QuestionnaireError(ctx context.Context, journeyType, customerID string) (*string, error) {
	return c.call(ctx, CallError, http.MethodGet, c.config.Endpoints.Error, journeyType, customerID, nil)
}
