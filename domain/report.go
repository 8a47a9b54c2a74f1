package domain

// Report arranges already-computed change records by kind for presentation.
// It performs no further computation and preserves the Diff ordering.
type Report struct {
	Added   []ChangeRecord `json:"added"`
	Removed []ChangeRecord `json:"removed"`
	Changed []ChangeRecord `json:"changed"`
}

// Assemble groups an ordered change sequence into a report.
func Assemble(changes []ChangeRecord) *Report {
	report := &Report{}
	for _, record := range changes {
		switch record.Kind {
		case ChangeAdded:
			report.Added = append(report.Added, record)
		case ChangeRemoved:
			report.Removed = append(report.Removed, record)
		case ChangeChanged:
			report.Changed = append(report.Changed, record)
		}
	}
	return report
}

// Empty reports whether no changes were detected.
func (r *Report) Empty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Changed) == 0
}

// Len returns the total number of reported changes.
func (r *Report) Len() int {
	return len(r.Added) + len(r.Removed) + len(r.Changed)
}

// MeetsThreshold reports whether any change is at least as severe as the
// given severity. Added, removed, and source-kind changes have no defined
// magnitude and always meet the threshold: they are never less reviewable
// than a version bump.
func (r *Report) MeetsThreshold(minimum Severity) bool {
	if len(r.Added) > 0 || len(r.Removed) > 0 {
		return true
	}
	for _, record := range r.Changed {
		if record.Classification == nil {
			continue
		}
		if record.Classification.SourceKindChanged {
			return true
		}
		if record.Classification.Severity >= minimum {
			return true
		}
	}
	return false
}

// RunDiff is the core entry point: extract both manifests, diff, classify,
// and assemble. It is a pure function of its inputs, deterministic, and safe
// to call repeatedly.
func RunDiff(beforeText, afterText string) (*Report, error) {
	before, err := Extract(beforeText)
	if err != nil {
		return nil, err
	}
	after, err := Extract(afterText)
	if err != nil {
		return nil, err
	}
	return Assemble(Diff(before, after)), nil
}
