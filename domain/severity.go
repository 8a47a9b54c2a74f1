package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity is the magnitude of a version-requirement change, ordered by
// "changes to review first": Major > Minor > Patch > PreRelease > NonSemver.
type Severity int

const (
	SeverityNonSemver Severity = iota
	SeverityPreRelease
	SeverityPatch
	SeverityMinor
	SeverityMajor
)

func (s Severity) String() string {
	switch s {
	case SeverityMajor:
		return "major"
	case SeverityMinor:
		return "minor"
	case SeverityPatch:
		return "patch"
	case SeverityPreRelease:
		return "prerelease"
	case SeverityNonSemver:
		return "non-semver"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseSeverity converts a severity name from flags or config.
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "major":
		return SeverityMajor, nil
	case "minor":
		return SeverityMinor, nil
	case "patch":
		return SeverityPatch, nil
	case "prerelease", "pre-release":
		return SeverityPreRelease, nil
	case "non-semver", "nonsemver":
		return SeverityNonSemver, nil
	default:
		return SeverityNonSemver, fmt.Errorf("unknown severity %q", name)
	}
}

// Classification is the outcome of classifying a Changed record. A change
// between different source kinds (or involving any non-registry spec) has no
// defined magnitude and is reported as SourceKindChanged instead of a
// severity.
type Classification struct {
	SourceKindChanged bool
	Severity          Severity
}

func (c Classification) String() string {
	if c.SourceKindChanged {
		return "source-kind-changed"
	}
	return c.Severity.String()
}

func (c Classification) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// Classify assigns a classification to a before/after spec pair. It is total:
// unparsable or cross-kind inputs degrade to defined outcomes rather than
// erroring, so a diff report can always be produced. The magnitude is
// direction-independent; downgrades classify the same as upgrades.
//
// Below 1.0.0 the leftmost non-zero component is the compatibility boundary,
// so a differing component left of it escalates: a minor difference under
// major 0 is Major, a patch difference under 0.0 is Major and under 0.x
// (x > 0) is Minor.
func Classify(before, after DependencySpec) Classification {
	if before.Source != SourceRegistry || after.Source != SourceRegistry {
		return Classification{SourceKindChanged: true}
	}

	beforeReq, errBefore := Normalize(before.Requirement)
	afterReq, errAfter := Normalize(after.Requirement)
	if errBefore != nil || errAfter != nil {
		return Classification{Severity: SeverityNonSemver}
	}

	beforeFloor := beforeReq.EffectiveFloor()
	afterFloor := afterReq.EffectiveFloor()
	switch {
	case beforeFloor.Major() != afterFloor.Major():
		return Classification{Severity: SeverityMajor}
	case beforeFloor.Minor() != afterFloor.Minor():
		if beforeFloor.Major() == 0 {
			return Classification{Severity: SeverityMajor}
		}
		return Classification{Severity: SeverityMinor}
	case beforeFloor.Patch() != afterFloor.Patch():
		switch {
		case beforeFloor.Major() > 0:
			return Classification{Severity: SeverityPatch}
		case beforeFloor.Minor() > 0:
			return Classification{Severity: SeverityMinor}
		default:
			return Classification{Severity: SeverityMajor}
		}
	case beforeFloor.Prerelease() != afterFloor.Prerelease():
		return Classification{Severity: SeverityPreRelease}
	default:
		// The bound narrowed or widened (or features changed) without
		// moving the effective numeric floor: the smallest non-trivial
		// change category.
		return Classification{Severity: SeverityPatch}
	}
}

// Direction records whether a change raises or lowers the effective floor.
// Severity reflects distance, not direction; direction is carried separately
// for presentation.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionUpgrade
	DirectionDowngrade
	DirectionIndeterminate
)

func (d Direction) String() string {
	switch d {
	case DirectionUpgrade:
		return "upgrade"
	case DirectionDowngrade:
		return "downgrade"
	case DirectionIndeterminate:
		return "indeterminate"
	default:
		return ""
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// ChangeDirection compares the effective floors of two registry specs.
func ChangeDirection(before, after DependencySpec) Direction {
	if before.Source != SourceRegistry || after.Source != SourceRegistry {
		return DirectionIndeterminate
	}
	beforeReq, errBefore := Normalize(before.Requirement)
	afterReq, errAfter := Normalize(after.Requirement)
	if errBefore != nil || errAfter != nil {
		return DirectionIndeterminate
	}
	switch cmp := afterReq.EffectiveFloor().Compare(beforeReq.EffectiveFloor()); {
	case cmp > 0:
		return DirectionUpgrade
	case cmp < 0:
		return DirectionDowngrade
	default:
		return DirectionNone
	}
}
