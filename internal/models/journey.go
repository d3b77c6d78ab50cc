package models

import (
	"errors"
	"strings"
)

// ErrUnrecognizedJourneyType is returned when a journey type carries neither an LE nor an MG segment
var ErrUnrecognizedJourneyType = errors.New("unrecognized journey type")

const journeySeparator = "-"

// JourneyType is a dash separated workflow classifier such as "PAW-TCPOP-LE".
// Exactly one recognised segment selects the subject kind; every other segment
// is passed through to the form provider untouched.
type JourneyType struct {
	Raw  string
	Kind SubjectKind
}

// ParseJourneyType splits the journey type and determines its subject kind.
// When both LE and MG segments are present the legal entity wins.
func ParseJourneyType(raw string) (JourneyType, error) {
	segments := strings.Split(raw, journeySeparator)
	jt := JourneyType{Raw: raw}

	switch {
	case containsSegment(segments, string(SubjectLegalEntity)):
		jt.Kind = SubjectLegalEntity
	case containsSegment(segments, string(SubjectMasterGroup)):
		jt.Kind = SubjectMasterGroup
	default:
		return JourneyType{}, ErrUnrecognizedJourneyType
	}

	return jt, nil
}

// SubjectRef builds a natural-key reference of the journey's subject kind
func (j JourneyType) SubjectRef(customerID string) SubjectRef {
	if j.Kind == SubjectMasterGroup {
		return MasterGroupRef(customerID)
	}
	return LegalEntityRef(customerID)
}

func (j JourneyType) String() string {
	return j.Raw
}

func containsSegment(segments []string, want string) bool {
	for _, s := range segments {
		if s == want {
			return true
		}
	}
	return false
}
