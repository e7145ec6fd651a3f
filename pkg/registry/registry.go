// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const AssessCreditRiskTaskType = "assess-credit-risk"

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode registry %s: %w", path, err)
	}
	return &reg, nil
}

// LoadOrDefault reads path, falling back to Default when the file does not exist.
func LoadOrDefault(path string) (*ActivityRegistry, error) {
	if path == "" {
		return Default(), nil
	}
	reg, err := LoadRegistry(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	return reg, err
}

func (r *ActivityRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Find returns the activity registered for taskType.
func (r *ActivityRegistry) Find(taskType string) (Activity, bool) {
	for _, a := range r.Activities {
		if a.TaskType == taskType {
			return a, true
		}
	}
	return Activity{}, false
}

// Validate checks ids are unique and required fields are present.
func (r *ActivityRegistry) Validate() error {
	if len(r.Activities) == 0 {
		return fmt.Errorf("registry contains no activities")
	}

	ids := make(map[string]bool)
	for _, activity := range r.Activities {
		if activity.ID == "" {
			return fmt.Errorf("activity missing required field: ID")
		}
		if ids[activity.ID] {
			return fmt.Errorf("duplicate activity ID: %s", activity.ID)
		}
		ids[activity.ID] = true

		if activity.DisplayName == "" {
			return fmt.Errorf("activity %s missing required field: DisplayName", activity.ID)
		}
		if activity.TaskType == "" {
			return fmt.Errorf("activity %s missing required field: TaskType", activity.ID)
		}
		if activity.Category == "" {
			return fmt.Errorf("activity %s missing required field: Category", activity.ID)
		}
	}
	return nil
}

// Default is the built-in registry, identical to configs/activity-registry.json.
func Default() *ActivityRegistry {
	return &ActivityRegistry{
		Version:     "1.0.0",
		LastUpdated: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
		Activities: []Activity{
			{
				ID:                   AssessCreditRiskTaskType,
				DisplayName:          "Assess Credit Risk",
				Description:          "Fuses the applicant's credit-score risk with an AI reading of the loan essay into an approve/reject recommendation",
				Category:             "risk",
				Version:              "1.0.0",
				TaskType:             AssessCreditRiskTaskType,
				ImplementationStatus: "completed",
				InputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"applicantName", "essay"},
					"properties": map[string]interface{}{
						"applicantName": map[string]interface{}{"type": "string", "minLength": 1},
						"essay":         map[string]interface{}{"type": "string"},
					},
				},
				OutputSchema: map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"hardRiskScore", "softRiskScore", "finalScore", "recommendation", "reasoning"},
					"properties": map[string]interface{}{
						"hardRiskScore":  map[string]interface{}{"type": "number"},
						"softRiskScore":  map[string]interface{}{"type": "number"},
						"finalScore":     map[string]interface{}{"type": "number"},
						"recommendation": map[string]interface{}{"type": "string", "enum": []interface{}{"approve", "reject"}},
						"reasoning":      map[string]interface{}{"type": "string"},
					},
				},
				ErrorCodes: []string{"APPLICANT_NOT_FOUND", "INVALID_ASSESSMENT_INPUT", "LLM_TIMEOUT", "LLM_SERVICE_ERROR"},
				Timeout:    "65s",
				Retries:    0,
				Tags:       []string{"risk", "ai", "credit"},
			},
		},
	}
}
