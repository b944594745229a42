// Package rules decides which transactions are excluded from aggregates and
// which count as income from a configured source.
package rules

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/troskovi/internal/model"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Defaults returns the built-in exclusion rules and income sources.
func Defaults() model.Settings {
	var s model.Settings
	if err := yaml.Unmarshal(defaultsYAML, &s); err != nil {
		panic(fmt.Sprintf("parsing embedded default rules: %v", err))
	}
	return s
}

// ShouldExclude reports whether any enabled exclusion rule's pattern occurs
// in the description, ignoring case.
func ShouldExclude(description string, s model.Settings) bool {
	desc := strings.ToLower(description)
	for _, r := range s.ExclusionRules {
		if r.Enabled && strings.Contains(desc, strings.ToLower(r.Pattern)) {
			return true
		}
	}
	return false
}

// IsIncomeFromSource reports whether an enabled source's pattern occurs in
// the description, ignoring case. Sources are not exclusive: one description
// may match several.
func IsIncomeFromSource(description string, src model.IncomeSource) bool {
	return src.Enabled && strings.Contains(strings.ToLower(description), strings.ToLower(src.Pattern))
}
