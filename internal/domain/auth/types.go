package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

import "strings"

// UnknownValue is substituted for organisational fields absent from the SSO
// payload. A present but empty value is kept as is.
const UnknownValue = "UNKNOWN"

// Identity is the validated caller attached to a request.
// It is produced either by decoding a shared SSO session or by the local
// development policy, and lives only for the duration of a request.
type Identity struct {
	SubjectID      string // employee number, upper-cased
	DisplayName    string
	Email          string
	DepartmentCode string
	DepartmentName string
	OrgCode        string
	TitleName      string
	ProfitCenter   string
	WorkingDayFlag bool
}

// IsZero reports whether the identity carries no subject.
func (i Identity) IsZero() bool { return i.SubjectID == "" }

// SessionRecord is the JSON document the SSO gateway stores under AX:<cookie>.
// Additional fields in the payload are ignored. Dept and Corp are nil when
// the key is absent or null.
type SessionRecord struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Dept  *string `json:"dept,omitempty"`
	Corp  *string `json:"corp,omitempty"`
}

// Complete reports whether the record carries the fields an Identity requires.
func (r SessionRecord) Complete() bool {
	return strings.TrimSpace(r.ID) != "" && strings.TrimSpace(r.Email) != ""
}

// Identity converts a complete record into an Identity. Callers must check
// Complete first; an incomplete record never yields a partial identity.
func (r SessionRecord) Identity() Identity {
	dept := orUnknown(r.Dept)
	corp := orUnknown(r.Corp)
	return Identity{
		SubjectID:      strings.ToUpper(r.ID),
		DisplayName:    LocalPart(r.Email),
		Email:          r.Email,
		DepartmentCode: dept,
		DepartmentName: dept,
		OrgCode:        corp,
		ProfitCenter:   corp,
		WorkingDayFlag: true,
	}
}

// LocalPart returns the portion of an email address before the first '@'.
func LocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i >= 0 {
		return email[:i]
	}
	return email
}

func orUnknown(v *string) string {
	if v == nil {
		return UnknownValue
	}
	return *v
}
