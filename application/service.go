package application

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/cratediff/cratediff/domain"
)

// DiffService orchestrates a single diff run: retrieve the manifest at two
// revisions, extract both snapshots, diff, and assemble the report.
type DiffService struct {
	provider domain.ContentProvider
}

// NewDiffService creates a new service backed by the given content provider.
func NewDiffService(provider domain.ContentProvider) *DiffService {
	return &DiffService{provider: provider}
}

// RunOptions holds the externally supplied options consumed before the core
// runs. From and To are opaque revision references passed straight to the
// content provider.
type RunOptions struct {
	From string
	To   string

	IncludeDevDependencies    bool
	IncludeBuildDependencies  bool
	IncludeTargetDependencies bool

	// MinimumReportedSeverity drops Changed records classified below this
	// severity. Added, Removed, and source-kind changes are always kept.
	MinimumReportedSeverity domain.Severity
}

// Run executes the full diff cycle and returns the assembled report.
func (s *DiffService) Run(ctx context.Context, opts RunOptions) (*domain.Report, error) {
	beforeText, err := s.provider.ManifestText(ctx, opts.From)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve manifest at %q: %w", opts.From, err)
	}
	afterText, err := s.provider.ManifestText(ctx, opts.To)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve manifest at %q: %w", opts.To, err)
	}

	before, err := domain.Extract(beforeText)
	if err != nil {
		return nil, fmt.Errorf("failed to extract manifest at %q: %w", opts.From, err)
	}
	after, err := domain.Extract(afterText)
	if err != nil {
		return nil, fmt.Errorf("failed to extract manifest at %q: %w", opts.To, err)
	}

	include := opts.tableFilter()
	before = before.Filter(include)
	after = after.Filter(include)
	logger.Debugf(
		"comparing %d declarations at %q against %d at %q",
		before.Len(), opts.From, after.Len(), opts.To,
	)

	changes := domain.Diff(before, after)
	changes = filterBySeverity(changes, opts.MinimumReportedSeverity)

	report := domain.Assemble(changes)
	logger.Debugf(
		"report: %d added, %d removed, %d changed",
		len(report.Added), len(report.Removed), len(report.Changed),
	)
	return report, nil
}

// tableFilter builds the table-kind predicate from the include options.
// Target-conditional tables additionally honor the dev/build switches for
// their class.
func (o RunOptions) tableFilter() func(domain.TableKind) bool {
	return func(kind domain.TableKind) bool {
		if kind.Target != "" && !o.IncludeTargetDependencies {
			return false
		}
		switch kind.Class {
		case domain.TableDev:
			return o.IncludeDevDependencies
		case domain.TableBuild:
			return o.IncludeBuildDependencies
		default:
			return true
		}
	}
}

// filterBySeverity drops Changed records below the minimum severity.
// Source-kind changes carry no magnitude and are never filtered, and
// unparsable entries stay visible so no change is silently swallowed.
func filterBySeverity(records []domain.ChangeRecord, minimum domain.Severity) []domain.ChangeRecord {
	if minimum == domain.SeverityNonSemver {
		return records
	}
	filtered := make([]domain.ChangeRecord, 0, len(records))
	for _, record := range records {
		if record.Kind == domain.ChangeChanged &&
			record.Classification != nil &&
			!record.Classification.SourceKindChanged &&
			record.Classification.Severity != domain.SeverityNonSemver &&
			record.Classification.Severity < minimum {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered
}
