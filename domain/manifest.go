package domain

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	logger "github.com/sirupsen/logrus"
)

// rawManifest mirrors the dependency tables of a Cargo manifest. Entries are
// kept as primitives because a declaration is either a bare requirement
// string or an inline table, and the shape is only known per entry.
type rawManifest struct {
	Dependencies      map[string]toml.Primitive  `toml:"dependencies"`
	DevDependencies   map[string]toml.Primitive  `toml:"dev-dependencies"`
	BuildDependencies map[string]toml.Primitive  `toml:"build-dependencies"`
	Target            map[string]rawTargetTables `toml:"target"`
}

type rawTargetTables struct {
	Dependencies      map[string]toml.Primitive `toml:"dependencies"`
	DevDependencies   map[string]toml.Primitive `toml:"dev-dependencies"`
	BuildDependencies map[string]toml.Primitive `toml:"build-dependencies"`
}

// rawDependency is the inline-table declaration form.
type rawDependency struct {
	Version         string   `toml:"version"`
	Path            string   `toml:"path"`
	Git             string   `toml:"git"`
	Branch          string   `toml:"branch"`
	Tag             string   `toml:"tag"`
	Rev             string   `toml:"rev"`
	Package         string   `toml:"package"`
	Workspace       bool     `toml:"workspace"`
	Features        []string `toml:"features"`
	DefaultFeatures *bool    `toml:"default-features"`
}

// Extract parses raw manifest text into a snapshot. It fails with
// MalformedManifestError when the text is not valid TOML or the
// [dependencies] table is absent, and with DuplicateKeyError when the same
// (name, table kind) is declared twice.
func Extract(text string) (*ManifestSnapshot, error) {
	var raw rawManifest
	meta, err := toml.Decode(text, &raw)
	if err != nil {
		return nil, &MalformedManifestError{Reason: "invalid TOML", Err: err}
	}
	if !meta.IsDefined("dependencies") {
		return nil, &MalformedManifestError{Reason: "missing [dependencies] table"}
	}

	snapshot := NewManifestSnapshot()
	if err := addTable(snapshot, &meta, NormalTable(), raw.Dependencies); err != nil {
		return nil, err
	}
	if err := addTable(snapshot, &meta, DevTable(), raw.DevDependencies); err != nil {
		return nil, err
	}
	if err := addTable(snapshot, &meta, BuildTable(), raw.BuildDependencies); err != nil {
		return nil, err
	}

	targets := make([]string, 0, len(raw.Target))
	for target := range raw.Target {
		targets = append(targets, target)
	}
	sort.Strings(targets)
	for _, target := range targets {
		tables := raw.Target[target]
		if err := addTable(snapshot, &meta, TargetTable(target, TableNormal), tables.Dependencies); err != nil {
			return nil, err
		}
		if err := addTable(snapshot, &meta, TargetTable(target, TableDev), tables.DevDependencies); err != nil {
			return nil, err
		}
		if err := addTable(snapshot, &meta, TargetTable(target, TableBuild), tables.BuildDependencies); err != nil {
			return nil, err
		}
	}

	logger.Debugf("extracted manifest snapshot with %d dependency declarations", snapshot.Len())
	return snapshot, nil
}

// addTable decodes every entry of one dependency table into the snapshot.
// Names are processed in sorted order so parse failures are deterministic.
func addTable(
	snapshot *ManifestSnapshot,
	meta *toml.MetaData,
	kind TableKind,
	entries map[string]toml.Primitive,
) error {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec, keyName, err := decodeDependency(meta, name, entries[name])
		if err != nil {
			return err
		}
		key := DependencyKey{Name: keyName, Table: kind}
		if addErr := snapshot.add(key, spec); addErr != nil {
			return addErr
		}
	}
	return nil
}

// decodeDependency interprets one declaration. The returned key name honors
// the `package` rename key, so two aliases of the same package in one table
// collide as duplicates.
func decodeDependency(
	meta *toml.MetaData,
	name string,
	prim toml.Primitive,
) (DependencySpec, string, error) {
	var requirement string
	if err := meta.PrimitiveDecode(prim, &requirement); err == nil {
		return DependencySpec{Source: SourceRegistry, Requirement: requirement}, name, nil
	}

	var detail rawDependency
	if err := meta.PrimitiveDecode(prim, &detail); err != nil {
		return DependencySpec{}, name, &MalformedManifestError{
			Reason: fmt.Sprintf("dependency %q has an unsupported declaration form", name),
			Err:    err,
		}
	}

	keyName := name
	if detail.Package != "" {
		keyName = detail.Package
	}

	spec := DependencySpec{
		Requirement:     detail.Version,
		Features:        detail.Features,
		DefaultFeatures: detail.DefaultFeatures,
	}
	switch {
	case detail.Workspace:
		// Workspace-inherited declarations resolve outside this manifest;
		// the local entry carries no requirement of its own.
		spec.Source = SourceWorkspace
		spec.Requirement = ""
	case detail.Git != "":
		spec.Source = SourceGit
		spec.GitURL = detail.Git
		spec.GitRef = firstNonEmpty(detail.Rev, detail.Tag, detail.Branch)
	case detail.Path != "":
		spec.Source = SourcePath
		spec.Path = detail.Path
	case detail.Version != "":
		spec.Source = SourceRegistry
	default:
		return DependencySpec{}, keyName, &MalformedManifestError{
			Reason: fmt.Sprintf(
				"dependency %q declares no version, path, git, or workspace source", name,
			),
		}
	}
	return spec, keyName, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
