package usecase

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dermalog/backend/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// AnalyzeIngredients classifies every product's ingredients into display
// categories and active-ingredient flags, then evaluates the interaction
// rules in order. The result is a pure function of products.
func AnalyzeIngredients(products domain.ProductIngredients) *domain.InteractionReport {
	names := sortedProductNames(products)
	members := classifyProducts(names, products)

	report := &domain.InteractionReport{
		Analyzed:     true,
		ProductCount: len(names),
		Categories:   []domain.IngredientCategory{},
		Interactions: []domain.InteractionFinding{},
	}

	categoryTotal := 0
	for _, category := range categoryTable {
		set := members[category.id]
		if len(set) == 0 {
			continue
		}
		// Sum of set sizes, so a product in several categories counts once per category.
		categoryTotal += len(set)
		report.Categories = append(report.Categories, domain.IngredientCategory{
			Name:        category.name,
			Icon:        category.icon,
			Description: category.description,
			Products:    append([]string(nil), set...),
		})
	}

	for _, rule := range interactionRules {
		if finding, ok := rule.evaluate(members); ok {
			report.Interactions = append(report.Interactions, finding)
		}
	}

	report.Interactions = append(report.Interactions, domain.InteractionFinding{
		Type:     domain.SeverityInfo,
		Products: []string{},
		Message:  fmt.Sprintf(summaryMessageFormat, len(names), categoryTotal),
	})

	return report
}

// evaluate returns the rule's finding when every required group is present.
// Products are the de-duplicated union of all referenced sets.
func (r interactionRule) evaluate(members map[traitID][]string) (domain.InteractionFinding, bool) {
	for _, group := range r.requires {
		present := false
		for _, id := range group {
			if len(members[id]) > 0 {
				present = true
				break
			}
		}
		if !present {
			return domain.InteractionFinding{}, false
		}
	}

	var involved []string
	seen := make(map[string]bool)
	for _, group := range r.requires {
		for _, id := range group {
			for _, name := range members[id] {
				if !seen[name] {
					seen[name] = true
					involved = append(involved, name)
				}
			}
		}
	}

	return domain.InteractionFinding{
		Type:     r.severity,
		Products: involved,
		Message:  r.message,
	}, true
}

// classifyProducts builds the member list of every category and flag.
// Lists follow the order of names.
func classifyProducts(names []string, products domain.ProductIngredients) map[traitID][]string {
	members := make(map[traitID][]string, len(categoryTable)+len(flagTable))
	caser := cases.Lower(language.Und)

	for _, name := range names {
		normalized := make([]string, 0, len(products[name]))
		for _, ingredient := range products[name] {
			normalized = append(normalized, normalizeIngredient(caser, ingredient))
		}

		for _, category := range categoryTable {
			if containsAnyKeyword(normalized, category.keywords) {
				members[category.id] = append(members[category.id], name)
			}
		}
		for _, flag := range flagTable {
			if containsAnyKeyword(normalized, flag.keywords) {
				members[flag.id] = append(members[flag.id], name)
			}
		}
	}

	return members
}

// normalizeIngredient folds compatibility forms and lower-cases the string
// so keyword tests are case-insensitive.
func normalizeIngredient(caser cases.Caser, ingredient string) string {
	return caser.String(norm.NFKC.String(ingredient))
}

func containsAnyKeyword(ingredients []string, keywords []string) bool {
	for _, ingredient := range ingredients {
		for _, keyword := range keywords {
			if containsKeyword(ingredient, keyword) {
				return true
			}
		}
	}
	return false
}

// containsKeyword is a substring test, except that a keyword ending in a
// single-letter word ("vitamin c") must not be followed by a letter, so
// "vitamin complex" does not match.
func containsKeyword(ingredient, keyword string) bool {
	if !endsInLetterToken(keyword) {
		return strings.Contains(ingredient, keyword)
	}
	for offset := 0; offset <= len(ingredient)-len(keyword); {
		idx := strings.Index(ingredient[offset:], keyword)
		if idx < 0 {
			return false
		}
		end := offset + idx + len(keyword)
		next, _ := utf8.DecodeRuneInString(ingredient[end:])
		if end == len(ingredient) || !unicode.IsLetter(next) {
			return true
		}
		offset += idx + 1
	}
	return false
}

func endsInLetterToken(keyword string) bool {
	i := strings.LastIndexByte(keyword, ' ')
	return i >= 0 && len(keyword)-i-1 == 1
}

func sortedProductNames(products domain.ProductIngredients) []string {
	names := make([]string, 0, len(products))
	for name := range products {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
