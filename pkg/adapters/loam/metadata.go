package loam

import (
	"github.com/aretw0/circuitlab/pkg/domain"
)

// ChallengeMetadata is the frontmatter of a challenge document.
// It uses "mapstructure" tags to match the YAML keys authors write.
type ChallengeMetadata struct {
	ID          string               `json:"id" mapstructure:"id"`
	Title       string               `json:"title" mapstructure:"title"`
	Description string               `json:"description" mapstructure:"description"`
	Goal        GoalMetadata         `json:"goal" mapstructure:"goal"`
	Starter     []domain.ElementSpec `json:"starter" mapstructure:"starter"`
}

// GoalMetadata mirrors domain.Goal with a loosely typed status, so authors can write
// either "status: switch_open" or "status: -2".
type GoalMetadata struct {
	Status       any      `json:"status" mapstructure:"status"`
	MinPaths     int      `json:"min_paths" mapstructure:"min_paths"`
	RequireKinds []string `json:"require_kinds" mapstructure:"require_kinds"`
	LitLamps     int      `json:"lit_lamps" mapstructure:"lit_lamps"`
	MaxElements  int      `json:"max_elements" mapstructure:"max_elements"`
	NoBurnout    bool     `json:"no_burnout" mapstructure:"no_burnout"`
}
