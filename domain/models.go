package domain

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// TableClass identifies the declaration context of a dependency table.
type TableClass int

const (
	TableNormal TableClass = iota
	TableDev
	TableBuild
)

func (c TableClass) String() string {
	switch c {
	case TableNormal:
		return "dependencies"
	case TableDev:
		return "dev-dependencies"
	case TableBuild:
		return "build-dependencies"
	default:
		return fmt.Sprintf("table(%d)", int(c))
	}
}

// TableKind is the full declaration context: the table class plus, for
// platform-conditional tables, the target condition string. Two kinds are
// equal iff both class and target match exactly.
type TableKind struct {
	Class  TableClass `json:"class"`
	Target string     `json:"target,omitempty"`
}

// NormalTable is the default [dependencies] table.
func NormalTable() TableKind { return TableKind{Class: TableNormal} }

// DevTable is the [dev-dependencies] table.
func DevTable() TableKind { return TableKind{Class: TableDev} }

// BuildTable is the [build-dependencies] table.
func BuildTable() TableKind { return TableKind{Class: TableBuild} }

// TargetTable is a [target.<cond>.<class>] table for the given condition.
func TargetTable(target string, class TableClass) TableKind {
	return TableKind{Class: class, Target: target}
}

func (k TableKind) String() string {
	if k.Target == "" {
		return k.Class.String()
	}
	return fmt.Sprintf("target.%s.%s", k.Target, k.Class)
}

// MarshalText renders the kind in the same form the manifest declares it.
func (k TableKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// CompareTableKinds orders kinds by class enumeration order, then by target
// condition. Unconditional tables sort before conditional ones of the same
// class.
func CompareTableKinds(a, b TableKind) int {
	if a.Class != b.Class {
		return int(a.Class) - int(b.Class)
	}
	return strings.Compare(a.Target, b.Target)
}

// DependencyKey uniquely identifies one declaration slot within a manifest
// snapshot. The same name may legally appear under several table kinds.
type DependencyKey struct {
	Name  string    `json:"name"`
	Table TableKind `json:"table"`
}

func (k DependencyKey) String() string {
	if k.Table == NormalTable() {
		return k.Name
	}
	return fmt.Sprintf("%s (%s)", k.Name, k.Table)
}

// CompareKeys orders keys by name ascending, ties broken by table kind.
func CompareKeys(a, b DependencyKey) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return CompareTableKinds(a.Table, b.Table)
}

// SourceKind tags where a dependency is fetched from.
type SourceKind int

const (
	SourceRegistry SourceKind = iota
	SourcePath
	SourceGit
	SourceWorkspace
)

func (s SourceKind) String() string {
	switch s {
	case SourceRegistry:
		return "registry"
	case SourcePath:
		return "path"
	case SourceGit:
		return "git"
	case SourceWorkspace:
		return "workspace"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

func (s SourceKind) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DependencySpec is the declared requirement for one DependencyKey. It is
// immutable once extracted; which fields are meaningful depends on Source.
type DependencySpec struct {
	Source          SourceKind `json:"source"`
	Requirement     string     `json:"requirement,omitempty"`
	Path            string     `json:"path,omitempty"`
	GitURL          string     `json:"git,omitempty"`
	GitRef          string     `json:"ref,omitempty"`
	Features        []string   `json:"features,omitempty"`
	DefaultFeatures *bool      `json:"default_features,omitempty"`
}

// Equal reports structural equality: source kind, requirement string,
// source coordinates, feature list, and the default-features flag.
func (s DependencySpec) Equal(other DependencySpec) bool {
	if s.Source != other.Source ||
		s.Requirement != other.Requirement ||
		s.Path != other.Path ||
		s.GitURL != other.GitURL ||
		s.GitRef != other.GitRef {
		return false
	}
	if !slices.Equal(s.Features, other.Features) {
		return false
	}
	if (s.DefaultFeatures == nil) != (other.DefaultFeatures == nil) {
		return false
	}
	return s.DefaultFeatures == nil || *s.DefaultFeatures == *other.DefaultFeatures
}

// Describe returns a short human-readable form used by the text renderer.
func (s DependencySpec) Describe() string {
	switch s.Source {
	case SourcePath:
		return "path " + s.Path
	case SourceGit:
		if s.GitRef != "" {
			return fmt.Sprintf("git %s@%s", s.GitURL, s.GitRef)
		}
		return "git " + s.GitURL
	case SourceWorkspace:
		return "workspace"
	default:
		return s.Requirement
	}
}

// ManifestSnapshot maps dependency keys to their declared specs for one
// revision of the manifest. Built once, read-only thereafter.
type ManifestSnapshot struct {
	entries map[DependencyKey]DependencySpec
}

// NewManifestSnapshot creates an empty snapshot.
func NewManifestSnapshot() *ManifestSnapshot {
	return &ManifestSnapshot{entries: make(map[DependencyKey]DependencySpec)}
}

// add inserts a declaration, rejecting duplicate keys within the snapshot.
func (m *ManifestSnapshot) add(key DependencyKey, spec DependencySpec) error {
	if _, exists := m.entries[key]; exists {
		return &DuplicateKeyError{Key: key}
	}
	m.entries[key] = spec
	return nil
}

// Get returns the spec declared for a key.
func (m *ManifestSnapshot) Get(key DependencyKey) (DependencySpec, bool) {
	spec, ok := m.entries[key]
	return spec, ok
}

// Len returns the number of declarations in the snapshot.
func (m *ManifestSnapshot) Len() int { return len(m.entries) }

// Keys returns all dependency keys in deterministic order.
func (m *ManifestSnapshot) Keys() []DependencyKey {
	keys := make([]DependencyKey, 0, len(m.entries))
	for key := range m.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return CompareKeys(keys[i], keys[j]) < 0 })
	return keys
}

// Filter returns a new snapshot holding only the entries whose table kind is
// accepted by the predicate.
func (m *ManifestSnapshot) Filter(include func(TableKind) bool) *ManifestSnapshot {
	filtered := NewManifestSnapshot()
	for key, spec := range m.entries {
		if include(key.Table) {
			filtered.entries[key] = spec
		}
	}
	return filtered
}
