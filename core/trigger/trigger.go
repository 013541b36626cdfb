// Package trigger classifies the trigger declaration of a workflow file.
package trigger

import (
	"strings"

	"github.com/AjayJagan/github-workflow-analyzer/schema"
	"gopkg.in/yaml.v3"
)

// Frequency weights per trigger kind.
const (
	PullRequestWeight = 3
	PushWeight        = 2
	ScheduleWeight    = 1
	ManualWeight      = 0
)

// HighFrequencyScore is the minimum trigger score of a high frequency workflow.
const HighFrequencyScore = 3

// HighFrequencyRuns is the run count above which a workflow is high frequency.
const HighFrequencyRuns = 10

// workflowFile is the part of a workflow document needed for classification.
type workflowFile struct {
	On triggerSet `yaml:"on"`
}

// triggerSet handles "on" being either a string, list, or map.
type triggerSet []string

func (t *triggerSet) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value != "" {
			*t = triggerSet{node.Value}
		}
	case yaml.SequenceNode:
		names := make(triggerSet, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind == yaml.ScalarNode && item.Value != "" {
				names = append(names, item.Value)
			}
		}
		*t = names
	case yaml.MappingNode:
		// Only the keys matter; branch filters and cron entries are ignored.
		names := make(triggerSet, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			names = append(names, node.Content[i].Value)
		}
		*t = names
	}
	return nil
}

// Classify returns the trigger profile of a workflow file. A nil content means the
// declaration is absent and yields the zero profile. Content that is not a YAML
// mapping is scanned as plain text instead, so Classify never fails.
func Classify(content []byte) schema.TriggerProfile {
	if content == nil {
		return schema.TriggerProfile{}
	}

	names, ok := parseTriggers(content)
	if !ok {
		return classifyText(string(content))
	}

	var profile schema.TriggerProfile
	for _, name := range names {
		apply(&profile, strings.ToLower(name))
	}
	profile.Triggers = names
	profile.HighFrequency = IsHighFrequency(profile.FrequencyScore, 0)
	return profile
}

// IsHighFrequency reports whether a workflow with the given trigger score and run count
// should be treated as high frequency.
func IsHighFrequency(score, runs int) bool {
	return score >= HighFrequencyScore || runs > HighFrequencyRuns
}

// parseTriggers extracts trigger names from a YAML document. It reports false when
// the document cannot be read as a mapping.
func parseTriggers(content []byte) ([]string, bool) {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, false
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, false
	}

	var wf workflowFile
	if err := doc.Content[0].Decode(&wf); err != nil {
		return nil, false
	}
	return wf.On, true
}

// classifyText scans raw text for trigger keywords.
func classifyText(text string) schema.TriggerProfile {
	var profile schema.TriggerProfile
	apply(&profile, strings.ToLower(text))
	profile.HighFrequency = IsHighFrequency(profile.FrequencyScore, 0)
	return profile
}

// apply adds the contribution of every keyword found in the lowercased text.
func apply(profile *schema.TriggerProfile, text string) {
	if strings.Contains(text, schema.PullRequestEvent) {
		profile.PullRequest = true
		profile.FrequencyScore += PullRequestWeight
	}
	if strings.Contains(text, schema.PushEvent) {
		profile.Push = true
		profile.FrequencyScore += PushWeight
	}
	if strings.Contains(text, schema.ScheduleEvent) {
		profile.Schedule = true
		profile.FrequencyScore += ScheduleWeight
	}
	if strings.Contains(text, schema.WorkflowDispatchEvent) {
		profile.Manual = true
		profile.FrequencyScore += ManualWeight
	}
}

// FromEvents derives a coarse profile from the raw event strings of observed runs.
// Schedule and manual triggers cannot be recovered this way.
func FromEvents(events []string) schema.TriggerProfile {
	var profile schema.TriggerProfile
	for _, event := range events {
		if strings.Contains(event, schema.PullRequestEvent) {
			profile.PullRequest = true
		}
		if strings.Contains(event, schema.PushEvent) {
			profile.Push = true
		}
	}
	if profile.PullRequest {
		profile.FrequencyScore += PullRequestWeight
	}
	if profile.Push {
		profile.FrequencyScore += PushWeight
	}
	return profile
}
