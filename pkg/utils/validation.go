package utils

import (
	"fmt"
	"strings"
)

const (
	maxJourneyTypeLength = 64
	maxCustomerIDLength  = 255
	maxCorrelationLength = 128
)

// pathUnsafeChars cannot appear in a form provider path segment
const pathUnsafeChars = "/\x00"

// ValidateJourneyType validates the journey type. Its segments are opaque
// classifiers, so only characters that break path routing are rejected.
func ValidateJourneyType(journeyType string) error {
	if err := ValidateRequired("journey type", journeyType); err != nil {
		return err
	}
	if err := ValidateMaxLength("journey type", journeyType, maxJourneyTypeLength); err != nil {
		return err
	}
	if strings.ContainsAny(journeyType, pathUnsafeChars) {
		return fmt.Errorf("journey type contains invalid characters")
	}
	return nil
}

// ValidateCustomerID validates the customer identification ID
func ValidateCustomerID(customerID string) error {
	if err := ValidateRequired("customer identification ID", customerID); err != nil {
		return err
	}
	if err := ValidateMaxLength("customer identification ID", customerID, maxCustomerIDLength); err != nil {
		return err
	}
	if strings.ContainsAny(customerID, pathUnsafeChars) {
		return fmt.Errorf("customer identification ID contains invalid characters")
	}
	return nil
}

// ValidateCorrelationID validates a caller supplied correlation ID
func ValidateCorrelationID(id string) error {
	if id == "" {
		return fmt.Errorf("correlation ID cannot be empty")
	}
	if len(id) > maxCorrelationLength {
		return fmt.Errorf("correlation ID too long (max %d characters)", maxCorrelationLength)
	}
	for _, char := range id {
		if char < 0x21 || char > 0x7e {
			return fmt.Errorf("correlation ID contains invalid characters")
		}
	}
	return nil
}

// ValidateRequired validates that a field is not empty
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateMaxLength validates maximum string length
func ValidateMaxLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%s exceeds maximum length of %d characters", fieldName, maxLength)
	}
	return nil
}
