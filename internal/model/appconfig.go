package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default engine settings applied to boards without their own override
	DefaultMargin          float64 `json:"default_margin" yaml:"default_margin" toml:"default_margin"`
	DefaultClusterDistance float64 `json:"default_cluster_distance" yaml:"default_cluster_distance" toml:"default_cluster_distance"`
	DefaultStepSize        float64 `json:"default_step_size" yaml:"default_step_size" toml:"default_step_size"`
	DefaultPushIterations  int     `json:"default_push_iterations" yaml:"default_push_iterations" toml:"default_push_iterations"`
	DefaultPullSteps       int     `json:"default_pull_steps" yaml:"default_pull_steps" toml:"default_pull_steps"`
	DefaultPullLoops       int     `json:"default_pull_loops" yaml:"default_pull_loops" toml:"default_pull_loops"`
	DefaultTolerance       float64 `json:"default_spaced_tolerance" yaml:"default_spaced_tolerance" toml:"default_spaced_tolerance"`
	Parallel               bool    `json:"parallel" yaml:"parallel" toml:"parallel"`

	// Application preferences
	OutputFormat string   `json:"output_format" yaml:"output_format" toml:"output_format"` // "json", "xlsx", "dxf"
	LogLevel     string   `json:"log_level" yaml:"log_level" toml:"log_level"`             // "debug", "info", "warn"
	DatabasePath string   `json:"database_path" yaml:"database_path" toml:"database_path"` // settle history; empty = disabled
	RecentBoards []string `json:"recent_boards" yaml:"recent_boards" toml:"recent_boards"`
}

// DefaultAppConfig returns an AppConfig populated with the values from DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultMargin:          defaults.Margin,
		DefaultClusterDistance: defaults.ClusterDistance,
		DefaultStepSize:        defaults.StepSize,
		DefaultPushIterations:  defaults.PushIterations,
		DefaultPullSteps:       defaults.PullSteps,
		DefaultPullLoops:       defaults.PullLoops,
		DefaultTolerance:       defaults.SpacedTolerance,
		Parallel:               defaults.Parallel,
		OutputFormat:           "json",
		LogLevel:               "info",
		RecentBoards:           []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a Settings struct.
// Zero values in the config leave the corresponding setting untouched, so a
// partial config file only overrides what it names.
func (c AppConfig) ApplyToSettings(s *Settings) {
	if c.DefaultMargin > 0 {
		s.Margin = c.DefaultMargin
	}
	if c.DefaultClusterDistance > 0 {
		s.ClusterDistance = c.DefaultClusterDistance
	}
	if c.DefaultStepSize > 0 {
		s.StepSize = c.DefaultStepSize
	}
	if c.DefaultPushIterations > 0 {
		s.PushIterations = c.DefaultPushIterations
	}
	if c.DefaultPullSteps > 0 {
		s.PullSteps = c.DefaultPullSteps
	}
	if c.DefaultPullLoops > 0 {
		s.PullLoops = c.DefaultPullLoops
	}
	if c.DefaultTolerance > 0 {
		s.SpacedTolerance = c.DefaultTolerance
	}
	s.Parallel = c.Parallel
}

// Settings returns DefaultSettings with this config applied.
func (c AppConfig) Settings() Settings {
	s := DefaultSettings()
	c.ApplyToSettings(&s)
	return s
}

// AddRecentBoard moves path to the front of the recent list, keeping at most limit entries.
func (c *AppConfig) AddRecentBoard(path string, limit int) {
	recent := []string{path}
	for _, p := range c.RecentBoards {
		if p != path {
			recent = append(recent, p)
		}
	}
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	c.RecentBoards = recent
}
