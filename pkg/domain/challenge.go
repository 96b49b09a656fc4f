package domain

// Goal describes what a submitted layout must achieve to solve a challenge.
// Zero values mean "no constraint", except Status which defaults to StatusComplete.
type Goal struct {
	Status       *Status `json:"status,omitempty" yaml:"status,omitempty" mapstructure:"status"`
	MinPaths     int     `json:"min_paths,omitempty" yaml:"min_paths,omitempty" mapstructure:"min_paths"`
	RequireKinds []Kind  `json:"require_kinds,omitempty" yaml:"require_kinds,omitempty" mapstructure:"require_kinds"`
	LitLamps     int     `json:"lit_lamps,omitempty" yaml:"lit_lamps,omitempty" mapstructure:"lit_lamps"`
	MaxElements  int     `json:"max_elements,omitempty" yaml:"max_elements,omitempty" mapstructure:"max_elements"`
	NoBurnout    bool    `json:"no_burnout,omitempty" yaml:"no_burnout,omitempty" mapstructure:"no_burnout"`
}

// ExpectedStatus resolves the status the goal requires.
func (g Goal) ExpectedStatus() Status {
	if g.Status == nil {
		return StatusComplete
	}
	return *g.Status
}

// Challenge is a teaching exercise: a description, an optional starter layout and a goal.
type Challenge struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Goal        Goal          `json:"goal"`
	Starter     []ElementSpec `json:"starter,omitempty"`
}
