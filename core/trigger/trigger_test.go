package trigger

import (
	"testing"

	"github.com/AjayJagan/github-workflow-analyzer/schema"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		expected schema.TriggerProfile
	}{
		{
			name:     "absent declaration",
			content:  nil,
			expected: schema.TriggerProfile{},
		},
		{
			name:     "empty declaration",
			content:  []byte(""),
			expected: schema.TriggerProfile{},
		},
		{
			name:    "single scalar trigger",
			content: []byte("name: CI\non: push\njobs: {}\n"),
			expected: schema.TriggerProfile{
				Push:           true,
				FrequencyScore: 2,
				Triggers:       []string{"push"},
			},
		},
		{
			name:    "list of triggers",
			content: []byte("on: [push, pull_request]\n"),
			expected: schema.TriggerProfile{
				PullRequest:    true,
				Push:           true,
				FrequencyScore: 5,
				HighFrequency:  true,
				Triggers:       []string{"push", "pull_request"},
			},
		},
		{
			name: "mapping with filters",
			content: []byte(`on:
  pull_request:
    branches: [main]
  schedule:
    - cron: "0 0 * * *"
  workflow_dispatch:
`),
			expected: schema.TriggerProfile{
				PullRequest:    true,
				Schedule:       true,
				Manual:         true,
				FrequencyScore: 4,
				HighFrequency:  true,
				Triggers:       []string{"pull_request", "schedule", "workflow_dispatch"},
			},
		},
		{
			name:    "manual only",
			content: []byte("on: workflow_dispatch\n"),
			expected: schema.TriggerProfile{
				Manual:   true,
				Triggers: []string{"workflow_dispatch"},
			},
		},
		{
			name:    "case insensitive substring",
			content: []byte("on: [Pull_Request_Target]\n"),
			expected: schema.TriggerProfile{
				PullRequest:    true,
				FrequencyScore: 3,
				HighFrequency:  true,
				Triggers:       []string{"Pull_Request_Target"},
			},
		},
		{
			name:    "scores accumulate per trigger name",
			content: []byte("on: [pull_request, pull_request_review]\n"),
			expected: schema.TriggerProfile{
				PullRequest:    true,
				FrequencyScore: 6,
				HighFrequency:  true,
				Triggers:       []string{"pull_request", "pull_request_review"},
			},
		},
		{
			name:     "mapping without on key",
			content:  []byte("name: nothing\njobs:\n  build:\n    runs-on: ubuntu-latest\n"),
			expected: schema.TriggerProfile{},
		},
		{
			name:    "malformed document falls back to text",
			content: []byte("on: [push\n  this is: : not yaml {{"),
			expected: schema.TriggerProfile{
				Push:           true,
				FrequencyScore: 2,
			},
		},
		{
			name:    "plain garbage with push",
			content: []byte("%%% garbage PUSH garbage %%%"),
			expected: schema.TriggerProfile{
				Push:           true,
				FrequencyScore: 2,
			},
		},
		{
			name:    "text fallback finds all keyword groups",
			content: []byte("- pull_request\n- push\n- schedule\n- workflow_dispatch\n"),
			expected: schema.TriggerProfile{
				PullRequest:    true,
				Push:           true,
				Schedule:       true,
				Manual:         true,
				FrequencyScore: 6,
				HighFrequency:  true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.content))
		})
	}
}

func TestClassifyIgnoresMappingValues(t *testing.T) {
	content := []byte(`on:
  workflow_dispatch:
    inputs:
      push_image:
        description: "push the image"
`)
	profile := Classify(content)

	assert.True(t, profile.Manual)
	assert.False(t, profile.Push, "values below trigger keys must not count")
	assert.Equal(t, 0, profile.FrequencyScore)
}

func TestIsHighFrequency(t *testing.T) {
	assert.True(t, IsHighFrequency(3, 0))
	assert.True(t, IsHighFrequency(0, 11))
	assert.False(t, IsHighFrequency(2, 10))
	assert.False(t, IsHighFrequency(0, 0))
}

func TestFromEvents(t *testing.T) {
	tests := []struct {
		name     string
		events   []string
		expected schema.TriggerProfile
	}{
		{"no events", nil, schema.TriggerProfile{}},
		{"pull request", []string{"pull_request"}, schema.TriggerProfile{PullRequest: true, FrequencyScore: 3}},
		{"push", []string{"push"}, schema.TriggerProfile{Push: true, FrequencyScore: 2}},
		{"both", []string{"push", "pull_request_target"}, schema.TriggerProfile{PullRequest: true, Push: true, FrequencyScore: 5}},
		{"schedule is not recoverable", []string{"schedule", "workflow_dispatch"}, schema.TriggerProfile{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FromEvents(tt.events))
		})
	}
}
