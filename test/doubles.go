// Package testdoubles provides test doubles (spies, stubs, dummies) for domain
// interfaces. These are hand-crafted implementations — no mock frameworks.
package testdoubles

import (
	"context"
	"fmt"

	"github.com/cratediff/cratediff/domain"
)

// StubContentProvider implements domain.ContentProvider from a fixed map of
// revision -> manifest text. Requested revisions are recorded for spying.
type StubContentProvider struct {
	Texts map[string]string
	Err   error

	// spy: revisions that were requested, in order
	Requested []string
}

var _ domain.ContentProvider = (*StubContentProvider)(nil)

func (p *StubContentProvider) ManifestText(_ context.Context, revision string) (string, error) {
	p.Requested = append(p.Requested, revision)
	if p.Err != nil {
		return "", p.Err
	}
	text, ok := p.Texts[revision]
	if !ok {
		return "", fmt.Errorf("unknown revision %q", revision)
	}
	return text, nil
}
