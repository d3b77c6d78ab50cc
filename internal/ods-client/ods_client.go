package odsclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gbgcf/crp-questionnaire/internal/config"
	"github.com/gbgcf/crp-questionnaire/internal/metrics"
	"github.com/gbgcf/crp-questionnaire/pkg/utils"
)

// CorrelationIDHeader carries the request correlation ID to the form provider
const CorrelationIDHeader = "X-Correlation-ID"

// maxResponseSize bounds the form payload read from the provider
const maxResponseSize = 10 << 20

// StatusError is returned when the form provider answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("form provider returned status %d: %s", e.StatusCode, e.Body)
}

// ODSClient handles communication with the external form provider (ODS)
type ODSClient struct {
	httpClient *http.Client
	config     *config.FormProviderConfig
	metrics    *metrics.Metrics
	logger     *logrus.Logger
}

// NewODSClient creates a new form provider client instance
func NewODSClient(cfg *config.FormProviderConfig, m *metrics.Metrics, logger *logrus.Logger) *ODSClient {
	timeout := 30 * time.Second
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &ODSClient{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		config:  cfg,
		metrics: m,
		logger:  logger,
	}
}

// call sends one request to the provider. A 2xx answer with a body yields
// the body, a 2xx answer without one yields nil, anything else is an error.
func (c *ODSClient) call(ctx context.Context, call, method, endpoint, journeyType, customerID string, body *string) (*string, error) {
	target := c.config.GetEndpointURL(endpoint) + "/" + url.PathEscape(journeyType) + "/" + url.PathEscape(customerID)

	var reader io.Reader
	if body != nil {
		reader = strings.NewReader(*body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		c.logger.WithError(err).Error("Failed to create form provider request")
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	correlationID := utils.CorrelationIDFromContext(ctx)
	if correlationID != "" {
		req.Header.Set(CorrelationIDHeader, correlationID)
	}

	log := c.logger.WithFields(logrus.Fields{
		"call":           call,
		"url":            target,
		"journey_type":   journeyType,
		"customer_id":    customerID,
		"correlation_id": correlationID,
	})
	log.Debug("Calling form provider")

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)
	c.metrics.ObserveGatewayLatency(call, duration)

	if err != nil {
		log.WithError(err).WithField("duration", duration).Error("Form provider call failed")
		return nil, fmt.Errorf("form provider %s call failed: %w", call, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		log.WithError(err).Error("Failed to read form provider response")
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	log.WithFields(logrus.Fields{
		"statusCode": resp.StatusCode,
		"duration":   duration,
	}).Debug("Form provider response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.WithFields(logrus.Fields{
			"statusCode": resp.StatusCode,
			"response":   string(payload),
		}).Warn("Form provider returned non-success status")
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(payload)}
	}

	if resp.StatusCode == http.StatusNoContent || len(payload) == 0 {
		return nil, nil
	}

	result := string(payload)
	return &result, nil
}
