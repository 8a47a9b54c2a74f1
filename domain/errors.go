package domain

import "fmt"

// MalformedManifestError reports a manifest that could not be parsed into a
// snapshot: invalid TOML or a missing required table. It aborts the whole
// diff, since a partial snapshot would produce misleading results.
type MalformedManifestError struct {
	Reason string
	Err    error
}

func (e *MalformedManifestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed manifest: %s: %v", e.Reason, e.Err)
	}
	return "malformed manifest: " + e.Reason
}

func (e *MalformedManifestError) Unwrap() error { return e.Err }

// DuplicateKeyError reports the same (name, table kind) declared twice within
// one manifest snapshot.
type DuplicateKeyError struct {
	Key DependencyKey
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate dependency key: %s", e.Key)
}

// UnparsableRequirementError reports a version-requirement string that matches
// none of the recognized syntaxes. It is localized to a single dependency: the
// classifier downgrades that entry to non-semver instead of aborting the run.
type UnparsableRequirementError struct {
	Raw    string
	Reason string
}

func (e *UnparsableRequirementError) Error() string {
	return fmt.Sprintf("unparsable version requirement %q: %s", e.Raw, e.Reason)
}
