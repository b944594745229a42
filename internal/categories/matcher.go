package categories

import (
	"strings"

	"github.com/cleared-dev/troskovi/internal/model"
)

type compiledCategory struct {
	name     string
	keywords []string
}

// Matcher assigns categories by ordered substring matching.
type Matcher struct {
	categories []compiledCategory
	fallback   string
}

// Compile prepares a Matcher over data. An empty fallback means
// model.DefaultCategory.
func Compile(data *model.CategoryData, fallback string) *Matcher {
	if fallback == "" {
		fallback = model.DefaultCategory
	}
	m := &Matcher{fallback: fallback}
	data.Each(func(name string, keywords []string) bool {
		cc := compiledCategory{name: name}
		for _, kw := range keywords {
			if strings.TrimSpace(kw) == "" {
				continue
			}
			cc.keywords = append(cc.keywords, matchForm(kw))
		}
		m.categories = append(m.categories, cc)
		return true
	})
	return m
}

// Categorize returns the first category, in declaration order, with a
// keyword contained in the description. Keyword length does not matter.
func (m *Matcher) Categorize(description string) string {
	desc := matchForm(description)
	for _, c := range m.categories {
		for _, kw := range c.keywords {
			if strings.Contains(desc, kw) {
				return c.name
			}
		}
	}
	return m.fallback
}

// Fallback returns the category used when nothing matches.
func (m *Matcher) Fallback() string {
	return m.fallback
}

// Categorize matches description against data using the default fallback.
func Categorize(description string, data *model.CategoryData) string {
	return Compile(data, "").Categorize(description)
}

// Recategorize returns a copy of txns with every category recomputed.
func Recategorize(txns []model.Transaction, m *Matcher) []model.Transaction {
	out := make([]model.Transaction, len(txns))
	for i, t := range txns {
		t.Category = m.Categorize(t.Description)
		out[i] = t
	}
	return out
}
