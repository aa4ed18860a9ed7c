package usecase

import "github.com/dermalog/backend/internal/domain"

// traitID identifies a membership set computed per analysis pass: either a
// display category or an active-ingredient flag.
type traitID string

// Display categories
const (
	traitHydrating   traitID = "hydrating"
	traitAntioxidant traitID = "antioxidant"
	traitExfoliant   traitID = "exfoliant"
	traitSoothing    traitID = "soothing"
)

// Active-ingredient flags, used only to drive interaction rules
const (
	traitRetinol         traitID = "retinol"
	traitVitaminC        traitID = "vitamin_c"
	traitAHA             traitID = "aha"
	traitBHA             traitID = "bha"
	traitPeptide         traitID = "peptide"
	traitBenzoylPeroxide traitID = "benzoyl_peroxide"
)

// ingredientCategory is a display category together with the keywords that
// place a product in it. Keywords are lower-case substrings.
type ingredientCategory struct {
	id          traitID
	name        string
	icon        string
	description string
	keywords    []string
}

// ingredientFlag is an active ingredient detected by keyword
type ingredientFlag struct {
	id       traitID
	keywords []string
}

// interactionRule fires when every group in requires has at least one
// non-empty member set. Each group is an OR over its traits.
type interactionRule struct {
	id       string
	severity domain.Severity
	requires [][]traitID
	message  string
}

// categoryTable is emitted in declaration order.
var categoryTable = []ingredientCategory{
	{
		id:          traitHydrating,
		name:        "Hydrating",
		icon:        "droplets",
		description: "Ingredients that attract and hold moisture in the skin",
		keywords:    []string{"hyaluronic", "glycerin", "ceramide", "squalane", "panthenol", "mucin"},
	},
	{
		id:          traitAntioxidant,
		name:        "Antioxidant",
		icon:        "shield",
		description: "Ingredients that protect skin from environmental damage",
		keywords:    []string{"vitamin c", "ascorbic", "ascorbyl", "niacinamide", "vitamin e", "tocopherol", "green tea", "camellia sinensis", "resveratrol", "ferulic"},
	},
	{
		id:          traitExfoliant,
		name:        "Exfoliant",
		icon:        "sparkles",
		description: "Ingredients that remove dead skin cells and refine texture",
		keywords:    []string{"glycolic", "lactic", "mandelic", "salicylic", "malic", "tartaric", "gluconolactone"},
	},
	{
		id:          traitSoothing,
		name:        "Soothing",
		icon:        "leaf",
		description: "Ingredients that calm redness and irritation",
		keywords:    []string{"centella", "cica", "madecassoside", "aloe", "allantoin", "chamomile", "bisabolol", "oatmeal", "avena sativa"},
	},
}

var flagTable = []ingredientFlag{
	{id: traitRetinol, keywords: []string{"retinol", "retinal", "retinoid", "retinyl", "tretinoin", "adapalene"}},
	{id: traitVitaminC, keywords: []string{"vitamin c", "ascorbic", "ascorbyl"}},
	{id: traitAHA, keywords: []string{"glycolic", "lactic", "mandelic", "malic", "tartaric"}},
	{id: traitBHA, keywords: []string{"salicylic", "willow bark"}},
	{id: traitPeptide, keywords: []string{"peptide", "matrixyl", "argireline"}},
	{id: traitBenzoylPeroxide, keywords: []string{"benzoyl peroxide"}},
}

// interactionRules are evaluated in order; the summary finding is appended
// after them by the analyzer.
var interactionRules = []interactionRule{
	{
		id:       "retinol_vitamin_c",
		severity: domain.SeverityWarning,
		requires: [][]traitID{{traitRetinol}, {traitVitaminC}},
		message:  "Avoid using Retinol and Vitamin C together. Use Vitamin C in the morning and Retinol at night.",
	},
	{
		id:       "retinol_acids",
		severity: domain.SeverityWarning,
		requires: [][]traitID{{traitRetinol}, {traitAHA, traitBHA}},
		message:  "Combining Retinol with AHA/BHA exfoliants can cause irritation. Alternate days between these products.",
	},
	{
		id:       "benzoyl_peroxide_vitamin_c",
		severity: domain.SeverityWarning,
		requires: [][]traitID{{traitBenzoylPeroxide}, {traitVitaminC}},
		message:  "Benzoyl Peroxide can oxidize Vitamin C and reduce its efficacy. Use them at different times of day.",
	},
	{
		id:       "hydration_peptides",
		severity: domain.SeveritySuccess,
		requires: [][]traitID{{traitHydrating}, {traitPeptide}},
		message:  "Great combination! Hydrating ingredients enhance the efficacy of peptides.",
	},
	{
		id:       "antioxidant_exfoliant",
		severity: domain.SeveritySuccess,
		requires: [][]traitID{{traitAntioxidant}, {traitExfoliant}},
		message:  "Good pairing! Antioxidants help protect freshly exfoliated skin.",
	},
}

const summaryMessageFormat = "Analyzed %d products with %d beneficial ingredient categories."
