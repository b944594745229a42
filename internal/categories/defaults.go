package categories

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/troskovi/internal/model"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Defaults returns a fresh copy of the built-in category set.
func Defaults() *model.CategoryData {
	var data model.CategoryData
	if err := yaml.Unmarshal(defaultsYAML, &data); err != nil {
		panic(fmt.Sprintf("parsing embedded default categories: %v", err))
	}
	return &data
}
