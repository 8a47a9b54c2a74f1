package domain

import "context"

// ContentProvider supplies raw manifest text for a revision reference. The
// reference is opaque to the core: a commit-ish string, a tag, or a
// provider-defined pseudo-revision such as the working tree. Retrieval
// failures are surfaced to the caller unchanged; the core never retries.
type ContentProvider interface {
	ManifestText(ctx context.Context, revision string) (string, error)
}
