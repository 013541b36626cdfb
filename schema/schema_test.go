package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunRecordDurationMinutes(t *testing.T) {
	run := RunRecord{DurationSeconds: 90}
	assert.InDelta(t, 1.5, run.DurationMinutes(), 1e-9)
}

func TestTriggerProfileIsFrequent(t *testing.T) {
	assert.True(t, TriggerProfile{PullRequest: true}.IsFrequent())
	assert.True(t, TriggerProfile{Push: true}.IsFrequent())
	assert.False(t, TriggerProfile{Schedule: true, Manual: true}.IsFrequent())
	assert.False(t, TriggerProfile{}.IsFrequent())
}
