package domain

// ProductIngredients maps a product display name to its ingredient list
// as entered or extracted upstream.
type ProductIngredients map[string][]string

// Severity tags an interaction finding
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
)

// IngredientCategory is a beneficial ingredient grouping shown on the dashboard
type IngredientCategory struct {
	Name        string   `json:"name" yaml:"name"`
	Icon        string   `json:"icon" yaml:"icon"`
	Description string   `json:"description" yaml:"description"`
	Products    []string `json:"products" yaml:"products"`
}

// InteractionFinding is one reported interaction or informational message
type InteractionFinding struct {
	Type     Severity `json:"type" yaml:"type"`
	Products []string `json:"products" yaml:"products"`
	Message  string   `json:"message" yaml:"message"`
}

// InteractionReport is the display-ready result of an analysis pass.
// Analyzed is false when no ingredient map was available.
type InteractionReport struct {
	Analyzed     bool                 `json:"analyzed" yaml:"analyzed"`
	ProductCount int                  `json:"productCount" yaml:"productCount"`
	Categories   []IngredientCategory `json:"categories" yaml:"categories"`
	Interactions []InteractionFinding `json:"interactions" yaml:"interactions"`
}

// NotAnalyzedReport returns the empty report used when no ingredient map is available
func NotAnalyzedReport() *InteractionReport {
	return &InteractionReport{
		Categories:   []IngredientCategory{},
		Interactions: []InteractionFinding{},
	}
}

// AnalysisOutcome classifies how an analysis pass ended
type AnalysisOutcome string

const (
	OutcomeAnalyzed    AnalysisOutcome = "analyzed"
	OutcomeNotAnalyzed AnalysisOutcome = "not_analyzed"
	OutcomeMalformed   AnalysisOutcome = "malformed"
	OutcomeUnavailable AnalysisOutcome = "unavailable"
)

// IngredientsRequest carries an ingredient map, either for ad-hoc analysis
// or to be stored by the upstream extraction flow
type IngredientsRequest struct {
	Products ProductIngredients `json:"products" binding:"required,dive,keys,notblank,endkeys"`
}
