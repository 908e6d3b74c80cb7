package analysis

import (
	"sort"

	"github.com/xtrntr/marketdash/internal/dataset"
)

// TranslationCoverage reports how many product categories have an English name
type TranslationCoverage struct {
	Categories   int      `json:"categories"`
	Translated   int      `json:"translated"`
	Untranslated []string `json:"untranslated"`
}

// CategoryTranslationCoverage checks every distinct product category against
// the translation table.
func CategoryTranslationCoverage(ds *dataset.Dataset) TranslationCoverage {
	english := make(map[string]string, len(ds.Translations))
	for _, t := range ds.Translations {
		english[t.Category] = t.English
	}

	seen := make(map[string]struct{})
	cov := TranslationCoverage{Untranslated: []string{}}
	for _, p := range ds.Products {
		if p.Category == "" {
			continue
		}
		if _, dup := seen[p.Category]; dup {
			continue
		}
		seen[p.Category] = struct{}{}
		cov.Categories++
		if english[p.Category] != "" {
			cov.Translated++
		} else {
			cov.Untranslated = append(cov.Untranslated, p.Category)
		}
	}
	sort.Strings(cov.Untranslated)
	return cov
}
