package domain

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Op is the bound operator of one requirement clause. Bare and partial
// versions carry caret semantics, matching the manifest format's default.
type Op int

const (
	OpCaret Op = iota
	OpTilde
	OpExact
	OpGreater
	OpGreaterEq
	OpLess
	OpLessEq
	OpWildcard
)

func (o Op) String() string {
	switch o {
	case OpCaret:
		return "^"
	case OpTilde:
		return "~"
	case OpExact:
		return "="
	case OpGreater:
		return ">"
	case OpGreaterEq:
		return ">="
	case OpLess:
		return "<"
	case OpLessEq:
		return "<="
	case OpWildcard:
		return "*"
	default:
		return "?"
	}
}

// Comparator is a single bound clause of a requirement. The Set flags record
// which components were actually written, since caret and tilde semantics
// depend on the declared precision.
type Comparator struct {
	Op       Op
	Major    uint64
	Minor    uint64
	Patch    uint64
	MajorSet bool
	MinorSet bool
	PatchSet bool
	Pre      string
}

// floor returns the lowest version that can satisfy the clause. Strict
// lower bounds start just above the stated version, bumping the least
// specified component; upper bounds impose no floor.
func (c Comparator) floor() *semver.Version {
	switch c.Op {
	case OpGreater:
		switch {
		case c.Pre != "":
			return semver.New(c.Major, c.Minor, c.Patch, c.Pre, "")
		case c.PatchSet:
			return semver.New(c.Major, c.Minor, c.Patch+1, "", "")
		case c.MinorSet:
			return semver.New(c.Major, c.Minor+1, 0, "", "")
		default:
			return semver.New(c.Major+1, 0, 0, "", "")
		}
	case OpLess, OpLessEq:
		return semver.New(0, 0, 0, "", "")
	default:
		return semver.New(c.Major, c.Minor, c.Patch, c.Pre, "")
	}
}

// NormalizedRequirement is the canonical semantic form of a registry
// requirement: an ordered list of bound clauses joined by logical AND.
type NormalizedRequirement struct {
	raw         string
	Comparators []Comparator
}

func (r *NormalizedRequirement) String() string { return r.raw }

// EffectiveFloor is the lower bound of the whole requirement. Clauses are
// ANDed, so the effective floor is the highest per-clause floor.
func (r *NormalizedRequirement) EffectiveFloor() *semver.Version {
	floor := r.Comparators[0].floor()
	for _, c := range r.Comparators[1:] {
		if f := c.floor(); f.GreaterThan(floor) {
			floor = f
		}
	}
	return floor
}

// Normalize parses a raw version-requirement string into its canonical form.
// Compound requirements are comma-joined clauses. It fails with
// UnparsableRequirementError when the string matches no recognized syntax.
func Normalize(raw string) (*NormalizedRequirement, error) {
	req := &NormalizedRequirement{raw: raw}
	for _, clause := range strings.Split(raw, ",") {
		comp, err := parseComparator(strings.TrimSpace(clause))
		if err != nil {
			return nil, &UnparsableRequirementError{Raw: raw, Reason: err.Error()}
		}
		req.Comparators = append(req.Comparators, comp)
	}
	return req, nil
}

type parseError string

func (e parseError) Error() string { return string(e) }

// parseComparator parses one clause: an optional operator prefix followed by
// a full, partial, or wildcard version with an optional pre-release tag.
func parseComparator(clause string) (Comparator, error) {
	var c Comparator
	if clause == "" {
		return c, parseError("empty clause")
	}

	rest := clause
	explicitOp := true
	switch {
	case strings.HasPrefix(rest, ">="):
		c.Op, rest = OpGreaterEq, rest[2:]
	case strings.HasPrefix(rest, "<="):
		c.Op, rest = OpLessEq, rest[2:]
	case strings.HasPrefix(rest, ">"):
		c.Op, rest = OpGreater, rest[1:]
	case strings.HasPrefix(rest, "<"):
		c.Op, rest = OpLess, rest[1:]
	case strings.HasPrefix(rest, "="):
		c.Op, rest = OpExact, rest[1:]
	case strings.HasPrefix(rest, "^"):
		c.Op, rest = OpCaret, rest[1:]
	case strings.HasPrefix(rest, "~"):
		c.Op, rest = OpTilde, rest[1:]
	default:
		c.Op, explicitOp = OpCaret, false
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return c, parseError("operator without version")
	}

	// Strip build metadata (ignored for comparison) and split off the
	// pre-release tag.
	if plus := strings.IndexByte(rest, '+'); plus >= 0 {
		rest = rest[:plus]
	}
	if dash := strings.IndexByte(rest, '-'); dash >= 0 {
		c.Pre = rest[dash+1:]
		rest = rest[:dash]
		if err := validatePreRelease(c.Pre); err != nil {
			return c, err
		}
	}

	segments := strings.Split(rest, ".")
	if len(segments) > 3 {
		return c, parseError("too many version components")
	}
	for i, seg := range segments {
		if isWildcardSegment(seg) {
			if explicitOp {
				return c, parseError("wildcard segment cannot follow an operator")
			}
			if i != len(segments)-1 {
				return c, parseError("wildcard segment must be last")
			}
			c.Op = OpWildcard
			break
		}
		n, err := parseComponent(seg)
		if err != nil {
			return c, err
		}
		switch i {
		case 0:
			c.Major, c.MajorSet = n, true
		case 1:
			c.Minor, c.MinorSet = n, true
		case 2:
			c.Patch, c.PatchSet = n, true
		}
	}

	if !c.MajorSet && c.Op != OpWildcard {
		return c, parseError("missing version number")
	}
	if c.Pre != "" {
		if c.Op == OpWildcard {
			return c, parseError("pre-release tag not allowed on wildcard")
		}
		if !c.PatchSet {
			return c, parseError("pre-release tag requires a full version")
		}
	}
	return c, nil
}

func isWildcardSegment(seg string) bool {
	return seg == "*" || seg == "x" || seg == "X"
}

func parseComponent(seg string) (uint64, error) {
	if seg == "" {
		return 0, parseError("empty version component")
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return 0, parseError("version component is not a number: " + seg)
		}
	}
	n, err := strconv.ParseUint(seg, 10, 64)
	if err != nil {
		return 0, parseError("version component out of range: " + seg)
	}
	return n, nil
}

// validatePreRelease checks the tag is dot-separated alphanumeric
// identifiers, the grammar the standard precedence rule is defined over.
func validatePreRelease(pre string) error {
	for _, ident := range strings.Split(pre, ".") {
		if ident == "" {
			return parseError("empty pre-release identifier")
		}
		for i := 0; i < len(ident); i++ {
			ch := ident[i]
			ok := ch == '-' ||
				(ch >= '0' && ch <= '9') ||
				(ch >= 'a' && ch <= 'z') ||
				(ch >= 'A' && ch <= 'Z')
			if !ok {
				return parseError("invalid pre-release identifier: " + ident)
			}
		}
	}
	return nil
}
