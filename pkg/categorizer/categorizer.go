package categorizer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"suggestbox/internal/models"
)

// Rule maps a category to its trigger keywords.
type Rule struct {
	Category models.Category
	Keywords []string
}

// Table is consulted in order; the first rule with a matching keyword wins.
type Table []Rule

// DefaultTable is the built-in keyword table. Order is priority:
// Facility, Work Process, Benefits. Anything else is Other.
var DefaultTable = Table{
	{
		Category: models.CategoryFacility,
		Keywords: []string{
			"office", "room", "desk", "chair", "light", "building",
			"cafeteria", "canteen", "food", "kitchen", "coffee", "parking",
			"restroom", "bathroom", "toilet", "air conditioning", "heating", "elevator",
		},
	},
	{
		Category: models.CategoryWorkProcess,
		Keywords: []string{
			"workflow", "schedule", "process", "meeting", "task", "communication",
			"deadline", "approval", "onboarding", "handover", "tooling", "documentation",
		},
	},
	{
		Category: models.CategoryBenefits,
		Keywords: []string{
			"bonus", "leave", "health", "insurance", "raise", "salary",
			"pension", "vacation", "holiday", "allowance", "gym", "wellness",
		},
	},
}

// ContentCategorizer assigns a category to English text.
type ContentCategorizer interface {
	Categorize(text string) models.Category
}

// KeywordCategorizer matches keywords as case-insensitive substrings.
// It holds no mutable state.
type KeywordCategorizer struct {
	rules []Rule
}

var _ ContentCategorizer = (*KeywordCategorizer)(nil)

// New folds the table's keywords once; empty keywords are dropped.
func New(table Table) *KeywordCategorizer {
	rules := make([]Rule, 0, len(table))
	for _, r := range table {
		folded := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if k := fold(strings.TrimSpace(kw)); k != "" {
				folded = append(folded, k)
			}
		}
		rules = append(rules, Rule{Category: r.Category, Keywords: folded})
	}
	return &KeywordCategorizer{rules: rules}
}

func NewDefault() *KeywordCategorizer {
	return New(DefaultTable)
}

func (c *KeywordCategorizer) Categorize(text string) models.Category {
	folded := fold(text)
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(folded, kw) {
				return r.Category
			}
		}
	}
	return models.CategoryOther
}

// fold normalizes compatibility forms and applies Unicode case folding so
// "ＯＦＦＩＣＥ" and "Office" compare equal.
func fold(s string) string {
	return cases.Fold().String(norm.NFKC.String(s))
}
