package domain

import "sort"

// ChangeKind distinguishes how a dependency key differs between snapshots.
// Unchanged keys are not reported at all.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeRemoved
	ChangeChanged
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeChanged:
		return "changed"
	default:
		return "unknown"
	}
}

func (k ChangeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ChangeRecord is one reported difference between the two snapshots.
// Classification and Direction are populated only for Changed records.
type ChangeRecord struct {
	Key            DependencyKey   `json:"key"`
	Kind           ChangeKind      `json:"kind"`
	Before         *DependencySpec `json:"before,omitempty"`
	After          *DependencySpec `json:"after,omitempty"`
	Classification *Classification `json:"classification,omitempty"`
	Direction      Direction       `json:"direction,omitempty"`
}

// Diff computes the ordered change sequence between two snapshots. Output
// ordering is a hard invariant: Added, Removed, Changed groups, each sorted
// by key. Identical inputs always yield identical output, which snapshot
// tests and CI diffing rely on.
func Diff(before, after *ManifestSnapshot) []ChangeRecord {
	var added, removed, changed []ChangeRecord

	for _, key := range after.Keys() {
		afterSpec, _ := after.Get(key)
		beforeSpec, present := before.Get(key)
		if !present {
			spec := afterSpec
			added = append(added, ChangeRecord{
				Key:   key,
				Kind:  ChangeAdded,
				After: &spec,
			})
			continue
		}
		if beforeSpec.Equal(afterSpec) {
			continue
		}
		b, a := beforeSpec, afterSpec
		classification := Classify(b, a)
		changed = append(changed, ChangeRecord{
			Key:            key,
			Kind:           ChangeChanged,
			Before:         &b,
			After:          &a,
			Classification: &classification,
			Direction:      ChangeDirection(b, a),
		})
	}

	for _, key := range before.Keys() {
		if _, present := after.Get(key); present {
			continue
		}
		beforeSpec, _ := before.Get(key)
		spec := beforeSpec
		removed = append(removed, ChangeRecord{
			Key:    key,
			Kind:   ChangeRemoved,
			Before: &spec,
		})
	}

	sortRecords(added)
	sortRecords(removed)
	sortRecords(changed)

	records := make([]ChangeRecord, 0, len(added)+len(removed)+len(changed))
	records = append(records, added...)
	records = append(records, removed...)
	records = append(records, changed...)
	return records
}

func sortRecords(records []ChangeRecord) {
	sort.Slice(records, func(i, j int) bool {
		return CompareKeys(records[i].Key, records[j].Key) < 0
	})
}
