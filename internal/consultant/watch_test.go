package consultant

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/josephgoksu/DBAtlas/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const graphRules = `
projectType:
  web application:
    - oneOf:
        - when: {types: [Graph]}
          points: %d
          reason: Graphs everywhere
`

func TestRulesWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmtRules(10)), 0o644))

	reloaded := make(chan *RuleSet, 4)
	errs := make(chan error, 4)
	w, err := NewRulesWatcher(path, func(rs *RuleSet) { reloaded <- rs }, func(err error) { errs <- err })
	require.NoError(t, err)
	w.delay = 20 * time.Millisecond
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte(fmtRules(77)), 0o644))

	select {
	case rs := <-reloaded:
		graph := models.Database{Name: "Neo4j", Type: models.TypeGraph, License: models.LicenseHybrid}
		assert.Equal(t, 77, NewScorer(rs).Score(Requirements{ProjectType: ProjectWeb}, graph).Score)
	case err := <-errs:
		t.Fatalf("unexpected reload error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("rules were not reloaded")
	}
}

func TestRulesWatcher_InvalidFileReportsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmtRules(10)), 0o644))

	errs := make(chan error, 4)
	w, err := NewRulesWatcher(path, func(*RuleSet) { t.Error("invalid rules must not be applied") }, func(err error) { errs <- err })
	require.NoError(t, err)
	w.delay = 20 * time.Millisecond
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("load:\n  extreme:\n    - oneOf:\n        - points: 5\n"), 0o644))

	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("no error reported for invalid rules")
	}
}

func TestRulesWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fmtRules(10)), 0o644))

	reloaded := make(chan *RuleSet, 1)
	w, err := NewRulesWatcher(path, func(rs *RuleSet) { reloaded <- rs }, nil)
	require.NoError(t, err)
	w.delay = 20 * time.Millisecond
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))

	select {
	case <-reloaded:
		t.Fatal("reload triggered by an unrelated file")
	case <-time.After(300 * time.Millisecond):
	}
}

func fmtRules(points int) string {
	return fmt.Sprintf(graphRules, points)
}
