package models

// SubjectKind tags which of the two subject variants a reference points at
type SubjectKind string

const (
	// SubjectLegalEntity marks a legal entity owner, keyed by entity id
	SubjectLegalEntity SubjectKind = "LE"
	// SubjectMasterGroup marks a master group (client) owner, keyed by master group id
	SubjectMasterGroup SubjectKind = "MG"
)

// SubjectRef identifies the single owner of a tracking record.
// Kind selects the variant; ID is the surrogate row id (zero when only the
// natural key is known) and Key is the natural key.
type SubjectRef struct {
	Kind SubjectKind `json:"kind"`
	ID   int64       `json:"-"`
	Key  string      `json:"key"`
}

// LegalEntityRef builds a reference to a legal entity by natural key
func LegalEntityRef(entityID string) SubjectRef {
	return SubjectRef{Kind: SubjectLegalEntity, Key: entityID}
}

// MasterGroupRef builds a reference to a master group by natural key
func MasterGroupRef(masterGroupID string) SubjectRef {
	return SubjectRef{Kind: SubjectMasterGroup, Key: masterGroupID}
}

// IsLegalEntity reports whether the reference points at a legal entity
func (r SubjectRef) IsLegalEntity() bool {
	return r.Kind == SubjectLegalEntity
}

// IsMasterGroup reports whether the reference points at a master group
func (r SubjectRef) IsMasterGroup() bool {
	return r.Kind == SubjectMasterGroup
}

// Valid reports whether the reference carries a known kind and a key
func (r SubjectRef) Valid() bool {
	return (r.IsLegalEntity() || r.IsMasterGroup()) && r.Key != ""
}

func (r SubjectRef) String() string {
	return string(r.Kind) + ":" + r.Key
}

// Policy represents the POLICIES table
type Policy struct {
	ID          int64   `db:"ID" json:"id"`
	PolicyCode  string  `db:"POLICY_CODE" json:"policyCode"`
	PolicyName  string  `db:"POLICY_NAME" json:"policyName"`
	Description *string `db:"DESCRIPTION" json:"description,omitempty"`
}

// LegalEntity represents the LEGAL_ENTITIES table
type LegalEntity struct {
	ID         int64    `db:"ID" json:"id"`
	EntityID   string   `db:"ENTITY_ID" json:"entityId"`
	EntityName string   `db:"ENTITY_NAME" json:"entityName"`
	Policies   []Policy `db:"-" json:"policies"`
}

// Client represents the CLIENTS table, the master group subject variant
type Client struct {
	ID            int64    `db:"ID" json:"id"`
	MasterGroupID string   `db:"MASTER_GROUP_ID" json:"masterGroupId"`
	ClientName    string   `db:"CLIENT_NAME" json:"clientName"`
	Policies      []Policy `db:"-" json:"policies"`
}

// Subject is a resolved owner together with the policies assigned to it
type Subject struct {
	Ref      SubjectRef
	Name     string
	Policies []Policy
}

// Subject converts the legal entity into its subject form
func (le *LegalEntity) Subject() *Subject {
	return &Subject{
		Ref:      SubjectRef{Kind: SubjectLegalEntity, ID: le.ID, Key: le.EntityID},
		Name:     le.EntityName,
		Policies: le.Policies,
	}
}

// Subject converts the client into its subject form
func (c *Client) Subject() *Subject {
	return &Subject{
		Ref:      SubjectRef{Kind: SubjectMasterGroup, ID: c.ID, Key: c.MasterGroupID},
		Name:     c.ClientName,
		Policies: c.Policies,
	}
}

// FindPolicy returns the subject's policy with the given code
func (s *Subject) FindPolicy(code string) (*Policy, bool) {
	for i := range s.Policies {
		if s.Policies[i].PolicyCode == code {
			p := s.Policies[i]
			return &p, true
		}
	}
	return nil, false
}
