package auth

import "strings"

// ModeKind enumerates the effective deployment modes.
type ModeKind int

const (
	// ModeLocal covers an explicit "local" (or "default") environment as well as an unset one.
	ModeLocal ModeKind = iota
	// ModeNamed is any other explicitly named environment (dev, stage, prod, ...).
	ModeNamed
)

// Mode is the deployment mode resolved once at process start.
type Mode struct {
	Kind ModeKind
	Name string
}

// ParseMode maps a raw environment value onto a Mode.
func ParseMode(raw string) Mode {
	name := strings.ToLower(strings.TrimSpace(raw))
	switch name {
	case "", "local", "default":
		if name == "" {
			name = "local"
		}
		return Mode{Kind: ModeLocal, Name: name}
	default:
		return Mode{Kind: ModeNamed, Name: name}
	}
}

// ResolveMode picks the first non-empty value and parses it.
func ResolveMode(values ...string) Mode {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return ParseMode(v)
		}
	}
	return ParseMode("")
}

// IsLocal reports whether the mode permits the development fallback.
func (m Mode) IsLocal() bool { return m.Kind == ModeLocal }

func (m Mode) String() string {
	if m.Name == "" {
		return "local"
	}
	return m.Name
}
