//go:build basic

// Package integration contains integration tests for workflow-analyzer.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Database tests need Docker: go test -tags database ./integration
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AjayJagan/github-workflow-analyzer/core/trigger"
	"github.com/AjayJagan/github-workflow-analyzer/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var offlineEnv = []string{"WORKFLOW_ANALYZER_CACHE_BACKEND=none"}

var sampleWorkflows = map[string]string{
	"ci.yml": `name: CI
on:
  pull_request:
  push:
    branches: [main]
jobs: {}
`,
	"nightly.yaml": `name: Nightly
on:
  schedule:
    - cron: "0 2 * * *"
  workflow_dispatch:
jobs: {}
`,
	"release.yml": `name: Release
on: [workflow_dispatch]
jobs: {}
`,
	"notes.txt": "not a workflow",
}

// writeWorkflowDir lays out sampleWorkflows under dir/.github/workflows.
func writeWorkflowDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wfDir := filepath.Join(dir, ".github", "workflows")
	require.NoError(t, os.MkdirAll(wfDir, 0o755))
	for name, content := range sampleWorkflows {
		require.NoError(t, os.WriteFile(filepath.Join(wfDir, name), []byte(content), 0o644))
	}
	return dir
}

// TestClassifyVerification runs classify on a checkout and verifies every
// profile against the in-process classifier.
func TestClassifyVerification(t *testing.T) {
	dir := writeWorkflowDir(t)

	output, _, err := runAnalyzer(t, dir, offlineEnv, "classify", "--output", "json")
	require.NoError(t, err)

	var files []schema.ClassifiedFile
	require.NoError(t, json.Unmarshal([]byte(output), &files))
	require.Len(t, files, 3, "notes.txt must be skipped")

	for _, f := range files {
		t.Run(filepath.Base(f.Path), func(t *testing.T) {
			content := sampleWorkflows[filepath.Base(f.Path)]
			assert.Equal(t, trigger.Classify([]byte(content)), f.Trigger)
		})
	}
}

func TestClassifyTextOutput(t *testing.T) {
	dir := writeWorkflowDir(t)

	output, _, err := runAnalyzer(t, dir, offlineEnv, "classify", filepath.Join(".github", "workflows", "ci.yml"))
	require.NoError(t, err)
	assert.Contains(t, output, "ci.yml")
	assert.NotContains(t, output, "nightly.yaml")
}

func TestMetricsOutput(t *testing.T) {
	output, _, err := runAnalyzer(t, t.TempDir(), offlineEnv, "metrics", "--threshold", "20", "--output", "json")
	require.NoError(t, err)

	var model schema.MetricsRenderModel
	require.NoError(t, json.Unmarshal([]byte(output), &model))
	assert.InDelta(t, 20.0, model.Threshold, 0.001)
	assert.NotEmpty(t, model.Metrics)
	assert.NotEmpty(t, model.PriorityRules)
}

func TestAnalysisRequiresTarget(t *testing.T) {
	env := append([]string{"TARGET_ORG=", "GITHUB_REPOSITORY=", "GITHUB_TOKEN=unused"}, offlineEnv...)
	_, stderr, err := runAnalyzer(t, t.TempDir(), env, "workflows")
	require.Error(t, err)
	assert.True(t, strings.Contains(stderr, "--org") || strings.Contains(stderr, "repository list"), stderr)
}

func TestVersionCommand(t *testing.T) {
	// cobra prints to stderr unless an output writer is set
	stdout, stderr, err := runAnalyzer(t, t.TempDir(), nil, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout+stderr, "workflow-analyzer CLI")
}
