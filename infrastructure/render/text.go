// Package render turns an assembled report into user-facing output. It does
// no computation of its own and preserves the report's ordering.
package render

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cratediff/cratediff/domain"
)

const (
	tabPadding = 2
	noChanges  = "No changes detected."
)

// Text writes the report as aligned human-readable change lines, one per
// record: added/removed entries with their declared spec, changed entries as
// bump/drop/change lines tagged with their classification.
func Text(w io.Writer, report *domain.Report) error {
	if report.Empty() {
		_, err := fmt.Fprintln(w, noChanges)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)

	for _, record := range report.Added {
		fmt.Fprintf(tw, "added\tadd %s %s\n", record.Key, record.After.Describe())
	}
	for _, record := range report.Removed {
		fmt.Fprintf(tw, "removed\tremove %s %s\n", record.Key, record.Before.Describe())
	}
	for _, record := range report.Changed {
		fmt.Fprintf(tw, "%s\t%s %s from %s to %s\n",
			record.Classification,
			changeVerb(record.Direction),
			record.Key,
			record.Before.Describe(),
			record.After.Describe(),
		)
	}

	return tw.Flush()
}

// changeVerb picks the verb for a changed record: bump for upgrades, drop
// for downgrades, change when no direction can be established.
func changeVerb(direction domain.Direction) string {
	switch direction {
	case domain.DirectionUpgrade:
		return "bump"
	case domain.DirectionDowngrade:
		return "drop"
	default:
		return "change"
	}
}
