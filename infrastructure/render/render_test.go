package render_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cratediff/cratediff/domain"
	"github.com/cratediff/cratediff/infrastructure/render"
)

func registrySpec(requirement string) *domain.DependencySpec {
	return &domain.DependencySpec{Source: domain.SourceRegistry, Requirement: requirement}
}

func sampleReport() *domain.Report {
	return domain.Assemble([]domain.ChangeRecord{
		{
			Key:   domain.DependencyKey{Name: "nom", Table: domain.NormalTable()},
			Kind:  domain.ChangeAdded,
			After: registrySpec("7.1.3"),
		},
		{
			Key:    domain.DependencyKey{Name: "lazy_static", Table: domain.NormalTable()},
			Kind:   domain.ChangeRemoved,
			Before: registrySpec("1.4"),
		},
		{
			Key:            domain.DependencyKey{Name: "serde", Table: domain.NormalTable()},
			Kind:           domain.ChangeChanged,
			Before:         registrySpec("1.0.217"),
			After:          registrySpec("2.0.0"),
			Classification: &domain.Classification{Severity: domain.SeverityMajor},
			Direction:      domain.DirectionUpgrade,
		},
		{
			Key:            domain.DependencyKey{Name: "insta", Table: domain.DevTable()},
			Kind:           domain.ChangeChanged,
			Before:         registrySpec("1.41"),
			After:          registrySpec("1.40"),
			Classification: &domain.Classification{Severity: domain.SeverityMinor},
			Direction:      domain.DirectionDowngrade,
		},
	})
}

func TestText(t *testing.T) {
	t.Parallel()

	t.Run("should print a placeholder for an empty report", func(t *testing.T) {
		t.Parallel()

		// given
		var buf bytes.Buffer

		// when
		err := render.Text(&buf, &domain.Report{})

		// then
		require.NoError(t, err)
		assert.Equal(t, "No changes detected.\n", buf.String())
	})

	t.Run("should print one line per record with the right verb", func(t *testing.T) {
		t.Parallel()

		// given
		var buf bytes.Buffer

		// when
		err := render.Text(&buf, sampleReport())

		// then
		require.NoError(t, err)
		out := buf.String()
		assert.Contains(t, out, "add nom 7.1.3")
		assert.Contains(t, out, "remove lazy_static 1.4")
		assert.Contains(t, out, "bump serde from 1.0.217 to 2.0.0")
		assert.Contains(t, out, "drop insta (dev-dependencies) from 1.41 to 1.40")
		assert.Len(t, strings.Split(strings.TrimRight(out, "\n"), "\n"), 4)
	})

	t.Run("should tag changed lines with their classification", func(t *testing.T) {
		t.Parallel()

		// given
		var buf bytes.Buffer

		// when
		err := render.Text(&buf, sampleReport())

		// then
		require.NoError(t, err)
		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		assert.True(t, strings.HasPrefix(lines[0], "added"))
		assert.True(t, strings.HasPrefix(lines[1], "removed"))
		assert.True(t, strings.HasPrefix(lines[2], "major"))
		assert.True(t, strings.HasPrefix(lines[3], "minor"))
	})

	t.Run("should label a source-kind change", func(t *testing.T) {
		t.Parallel()

		// given
		var buf bytes.Buffer
		report := domain.Assemble([]domain.ChangeRecord{{
			Key:            domain.DependencyKey{Name: "local-util", Table: domain.NormalTable()},
			Kind:           domain.ChangeChanged,
			Before:         registrySpec("0.3"),
			After:          &domain.DependencySpec{Source: domain.SourcePath, Path: "../local-util"},
			Classification: &domain.Classification{SourceKindChanged: true},
			Direction:      domain.DirectionIndeterminate,
		}})

		// when
		err := render.Text(&buf, report)

		// then
		require.NoError(t, err)
		out := buf.String()
		assert.Contains(t, out, "source-kind-changed")
		assert.Contains(t, out, "change local-util from 0.3 to path ../local-util")
	})
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("should emit the three groups with classification names", func(t *testing.T) {
		t.Parallel()

		// given
		var buf bytes.Buffer

		// when
		err := render.JSON(&buf, sampleReport())

		// then
		require.NoError(t, err)
		var decoded struct {
			Added []struct {
				Key struct {
					Name string `json:"name"`
				} `json:"key"`
			} `json:"added"`
			Removed []json.RawMessage `json:"removed"`
			Changed []struct {
				Classification string `json:"classification"`
				Direction      string `json:"direction"`
			} `json:"changed"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded.Added, 1)
		assert.Equal(t, "nom", decoded.Added[0].Key.Name)
		assert.Len(t, decoded.Removed, 1)
		require.Len(t, decoded.Changed, 2)
		assert.Equal(t, "major", decoded.Changed[0].Classification)
		assert.Equal(t, "upgrade", decoded.Changed[0].Direction)
		assert.Equal(t, "minor", decoded.Changed[1].Classification)
		assert.Equal(t, "downgrade", decoded.Changed[1].Direction)
	})

	t.Run("should terminate the document with a newline", func(t *testing.T) {
		t.Parallel()

		// given
		var buf bytes.Buffer

		// when
		err := render.JSON(&buf, &domain.Report{})

		// then
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(buf.String(), "\n"))
	})
}
