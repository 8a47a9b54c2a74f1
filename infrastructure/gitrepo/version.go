package gitrepo

import (
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// sortVersionsDescending orders tag names newest first. Tags that parse as
// semantic versions come first, compared semantically; anything else follows
// in reverse lexical order. Partitioning before sorting keeps the comparison
// consistent within each group, so mixed tag sets still order stably.
func sortVersionsDescending(tags []string) {
	var versions, others []string
	for _, tag := range tags {
		if semver.IsValid(withVPrefix(tag)) {
			versions = append(versions, tag)
		} else {
			others = append(others, tag)
		}
	}

	sort.Slice(versions, func(i, j int) bool {
		return semver.Compare(withVPrefix(versions[i]), withVPrefix(versions[j])) > 0
	})
	sort.Sort(sort.Reverse(sort.StringSlice(others)))

	copy(tags, versions)
	copy(tags[len(versions):], others)
}

// withVPrefix normalizes a tag for the semver package, which requires the
// leading 'v'.
func withVPrefix(tag string) string {
	if strings.HasPrefix(tag, "v") {
		return tag
	}
	return "v" + tag
}
