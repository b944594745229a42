package model

// ExclusionRule removes matching transactions from aggregates while enabled.
type ExclusionRule struct {
	Pattern string `json:"pattern" yaml:"pattern"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

// IncomeSource names a pattern that identifies income from one origin.
type IncomeSource struct {
	Name    string `json:"name" yaml:"name"`
	Pattern string `json:"pattern" yaml:"pattern"`
	Enabled bool   `json:"enabled" yaml:"enabled"`
}

// Settings holds the user-editable matching rules.
type Settings struct {
	ExclusionRules []ExclusionRule `json:"exclusionRules" yaml:"exclusion_rules"`
	IncomeSources  []IncomeSource  `json:"incomeSources" yaml:"income_sources"`
}

// Clone returns a copy that shares no slices with s.
func (s Settings) Clone() Settings {
	return Settings{
		ExclusionRules: append([]ExclusionRule{}, s.ExclusionRules...),
		IncomeSources:  append([]IncomeSource{}, s.IncomeSources...),
	}
}
