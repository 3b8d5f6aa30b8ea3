package devauth

// Package devauth provides the local-development identity used when no SSO
// gateway is available. It refuses to operate outside local mode.

import (
	"errors"
	"fmt"

	domainauth "github.com/officeplus/faq-api/internal/domain/auth"
)

// ErrNotLocal is returned when the policy is built for a named environment.
var ErrNotLocal = errors.New("dev auth: fallback identity is only available in local mode")

// Config overrides fields of the default development identity.
// Zero values keep the defaults.
type Config struct {
	SubjectID      string
	DisplayName    string
	DepartmentCode string
	DepartmentName string
	OrgCode        string
	TitleName      string
}

// DefaultIdentity is the well-known local developer.
func DefaultIdentity() domainauth.Identity {
	return domainauth.Identity{
		SubjectID:      "LOCAL_DEV",
		DisplayName:    "local@lgcns.com",
		Email:          "local@lgcns.com",
		DepartmentCode: "99999",
		DepartmentName: "개발팀",
		OrgCode:        "LG00",
		TitleName:      "개발자",
		ProfitCenter:   "LG00",
		WorkingDayFlag: true,
	}
}

// Policy fabricates the development identity.
type Policy struct {
	identity domainauth.Identity
}

// NewPolicy constructs the fallback policy for mode. It fails for any
// named environment so production can never fabricate identities.
func NewPolicy(mode domainauth.Mode, cfg Config) (*Policy, error) {
	if !mode.IsLocal() {
		return nil, fmt.Errorf("%w (mode %q)", ErrNotLocal, mode.String())
	}
	id := DefaultIdentity()
	override(&id.SubjectID, cfg.SubjectID)
	override(&id.DisplayName, cfg.DisplayName)
	override(&id.DepartmentCode, cfg.DepartmentCode)
	override(&id.DepartmentName, cfg.DepartmentName)
	override(&id.OrgCode, cfg.OrgCode)
	override(&id.ProfitCenter, cfg.OrgCode)
	override(&id.TitleName, cfg.TitleName)
	return &Policy{identity: id}, nil
}

// Identity returns the fabricated identity. A nil policy yields false.
func (p *Policy) Identity() (domainauth.Identity, bool) {
	if p == nil {
		return domainauth.Identity{}, false
	}
	return p.identity, true
}

// Allows reports whether the policy may fabricate identities in mode.
func (p *Policy) Allows(mode domainauth.Mode) bool {
	return p != nil && mode.IsLocal()
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
