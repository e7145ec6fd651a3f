// internal/workers/risk/assess-credit-risk/config.go
package assesscreditrisk

import (
	"fmt"
	"time"

	"credit-risk-workers/internal/common/config"
	"credit-risk-workers/pkg/registry"
)

type Config struct {
	Enabled       bool
	MaxJobsActive int
	Timeout       time.Duration
	Activity      registry.Activity
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Activity.TaskType != TaskType {
		return fmt.Errorf("activity %q is not registered for task type %s", c.Activity.ID, TaskType)
	}
	return nil
}

// NewConfig takes the worker settings from the application config and the input schema from
// the activity registry.
func NewConfig(appCfg *config.Config, reg *registry.ActivityRegistry) (*Config, error) {
	activity, ok := reg.Find(TaskType)
	if !ok {
		return nil, fmt.Errorf("activity registry has no entry for %s", TaskType)
	}

	wcfg := config.GetWorkerConfig(appCfg, TaskType)
	cfg := &Config{
		Enabled:       wcfg.Enabled,
		MaxJobsActive: wcfg.MaxJobsActive,
		Timeout:       config.GetDuration(wcfg.Timeout),
		Activity:      activity,
	}
	return cfg, cfg.Validate()
}
