package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cratediff/cratediff/domain"
)

func TestRunDiff(t *testing.T) {
	t.Parallel()

	t.Run("should report a single patch change for a patch bump", func(t *testing.T) {
		t.Parallel()

		// given
		before := "[dependencies]\nserde = \"1.0.217\"\n"
		after := "[dependencies]\nserde = \"1.0.219\"\n"

		// when
		report, err := domain.RunDiff(before, after)

		// then
		require.NoError(t, err)
		assert.Empty(t, report.Added)
		assert.Empty(t, report.Removed)
		require.Len(t, report.Changed, 1)
		assert.Equal(t, domain.SeverityPatch, report.Changed[0].Classification.Severity)
	})

	t.Run("should report source kind change for a registry to path move", func(t *testing.T) {
		t.Parallel()

		// given
		before := "[dependencies]\nhelper = \"1.0.0\"\n"
		after := "[dependencies]\nhelper = { path = \"../helper\" }\n"

		// when
		report, err := domain.RunDiff(before, after)

		// then
		require.NoError(t, err)
		require.Len(t, report.Changed, 1)
		require.NotNil(t, report.Changed[0].Classification)
		assert.True(t, report.Changed[0].Classification.SourceKindChanged)
	})

	t.Run("should keep reporting other changes when one requirement is unparsable", func(t *testing.T) {
		t.Parallel()

		// given
		before := `
[dependencies]
weird = "not-a-version"
serde = "1.0.217"
`
		after := `
[dependencies]
weird = "also-not-a-version"
serde = "1.0.219"
`

		// when
		report, err := domain.RunDiff(before, after)

		// then
		require.NoError(t, err)
		require.Len(t, report.Changed, 2)

		byName := map[string]domain.ChangeRecord{}
		for _, record := range report.Changed {
			byName[record.Key.Name] = record
		}
		assert.Equal(t, domain.SeverityNonSemver, byName["weird"].Classification.Severity)
		assert.Equal(t, domain.SeverityPatch, byName["serde"].Classification.Severity)
	})

	t.Run("should surface extraction failures", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := domain.RunDiff("not toml at all [", "[dependencies]\n")

		// then
		var malformed *domain.MalformedManifestError
		require.ErrorAs(t, err, &malformed)
	})

	t.Run("should be idempotent across repeated calls", func(t *testing.T) {
		t.Parallel()

		// given
		before := "[dependencies]\nserde = \"1.0.217\"\n"
		after := "[dependencies]\nserde = \"2.0.0\"\nnom = \"7.1.3\"\n"

		// when
		first, err := domain.RunDiff(before, after)
		require.NoError(t, err)
		second, err := domain.RunDiff(before, after)
		require.NoError(t, err)

		// then
		assert.Equal(t, first, second)
	})
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	t.Run("should group records by kind preserving order", func(t *testing.T) {
		t.Parallel()

		// given
		before := mustExtract(t, `
[dependencies]
removedone = "1.0.0"
changedone = "1.0.0"
`)
		after := mustExtract(t, `
[dependencies]
addedone = "1.0.0"
changedone = "1.1.0"
`)
		changes := domain.Diff(before, after)

		// when
		report := domain.Assemble(changes)

		// then
		require.Len(t, report.Added, 1)
		require.Len(t, report.Removed, 1)
		require.Len(t, report.Changed, 1)
		assert.Equal(t, "addedone", report.Added[0].Key.Name)
		assert.Equal(t, "removedone", report.Removed[0].Key.Name)
		assert.Equal(t, "changedone", report.Changed[0].Key.Name)
		assert.Equal(t, 3, report.Len())
		assert.False(t, report.Empty())
	})
}

func TestMeetsThreshold(t *testing.T) {
	t.Parallel()

	t.Run("should compare changed severities against the threshold", func(t *testing.T) {
		t.Parallel()

		// given
		report, err := domain.RunDiff(
			"[dependencies]\nserde = \"1.0.217\"\n",
			"[dependencies]\nserde = \"1.0.219\"\n",
		)
		require.NoError(t, err)

		// then
		assert.True(t, report.MeetsThreshold(domain.SeverityPatch))
		assert.False(t, report.MeetsThreshold(domain.SeverityMinor))
	})

	t.Run("should always meet the threshold for additions and removals", func(t *testing.T) {
		t.Parallel()

		// given
		report, err := domain.RunDiff(
			"[dependencies]\n",
			"[dependencies]\nnom = \"7.1.3\"\n",
		)
		require.NoError(t, err)

		// then
		assert.True(t, report.MeetsThreshold(domain.SeverityMajor))
	})

	t.Run("should not trigger on an empty report", func(t *testing.T) {
		t.Parallel()

		// given
		report, err := domain.RunDiff("[dependencies]\n", "[dependencies]\n")
		require.NoError(t, err)

		// then
		assert.True(t, report.Empty())
		assert.False(t, report.MeetsThreshold(domain.SeverityNonSemver))
	})
}
