package globe

import "strings"

// ShadowMode selects whether the surface casts and receives shadows.
type ShadowMode int

const (
	ShadowsDisabled ShadowMode = iota
	ShadowsEnabled
	ShadowsCastOnly
	ShadowsReceiveOnly
)

func (m ShadowMode) String() string {
	switch m {
	case ShadowsEnabled:
		return "enabled"
	case ShadowsCastOnly:
		return "cast_only"
	case ShadowsReceiveOnly:
		return "receive_only"
	default:
		return "disabled"
	}
}

// CastShadows reports whether tiles are drawn into shadow maps.
func (m ShadowMode) CastShadows() bool {
	return m == ShadowsEnabled || m == ShadowsCastOnly
}

// ReceiveShadows reports whether tiles sample shadow maps.
func (m ShadowMode) ReceiveShadows() bool {
	return m == ShadowsEnabled || m == ShadowsReceiveOnly
}

// ParseShadowMode parses the names returned by String.
func ParseShadowMode(s string) (ShadowMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "disabled", "":
		return ShadowsDisabled, true
	case "enabled":
		return ShadowsEnabled, true
	case "cast_only":
		return ShadowsCastOnly, true
	case "receive_only":
		return ShadowsReceiveOnly, true
	default:
		return ShadowsDisabled, false
	}
}
