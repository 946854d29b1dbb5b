package model

// RankingWeights are the per-component multipliers of the feasibility
// score. They are independent; nothing requires them to sum to 1.
type RankingWeights struct {
	Readiness float64 `json:"readiness" yaml:"readiness" mapstructure:"readiness"`
	Adoption  float64 `json:"adoption" yaml:"adoption" mapstructure:"adoption"`
	SDG       float64 `json:"sdg" yaml:"sdg" mapstructure:"sdg"`
	Regional  float64 `json:"regional" yaml:"regional" mapstructure:"regional"`
}

// SortKey selects the ordering of a ranked innovation list.
type SortKey string

const (
	SortByScore     SortKey = "score"
	SortByReadiness SortKey = "readiness"
	SortByAdoption  SortKey = "adoption"
)

// UserContext is the session-scoped decision context collected over the
// workflow.
type UserContext struct {
	Role               string         `json:"role"`
	Region             string         `json:"region"`
	SubRegion          string         `json:"sub_region"`
	AgroEcologicalZone string         `json:"agro_ecological_zone"`
	Objective          string         `json:"objective"`
	Crop               string         `json:"crop,omitempty"`
	BudgetLevel        string         `json:"budget_level,omitempty"`
	FarmSize           string         `json:"farm_size,omitempty"`
	ClimateRiskLevel   string         `json:"climate_risk_level,omitempty"`
	Weights            RankingWeights `json:"weights"`
	SortKey            SortKey        `json:"sort_key"`
	Authenticated      bool           `json:"authenticated"`
}

// ContextPatch is a partial update to a UserContext. Nil fields are left
// untouched.
type ContextPatch struct {
	Role               *string `json:"role,omitempty"`
	Region             *string `json:"region,omitempty"`
	SubRegion          *string `json:"sub_region,omitempty"`
	AgroEcologicalZone *string `json:"agro_ecological_zone,omitempty"`
	Objective          *string `json:"objective,omitempty"`
	Crop               *string `json:"crop,omitempty"`
	BudgetLevel        *string `json:"budget_level,omitempty"`
	FarmSize           *string `json:"farm_size,omitempty"`
	ClimateRiskLevel   *string `json:"climate_risk_level,omitempty"`
}

// Apply copies every non-nil field of p onto c.
func (p ContextPatch) Apply(c *UserContext) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&c.Role, p.Role)
	set(&c.Region, p.Region)
	set(&c.SubRegion, p.SubRegion)
	set(&c.AgroEcologicalZone, p.AgroEcologicalZone)
	set(&c.Objective, p.Objective)
	set(&c.Crop, p.Crop)
	set(&c.BudgetLevel, p.BudgetLevel)
	set(&c.FarmSize, p.FarmSize)
	set(&c.ClimateRiskLevel, p.ClimateRiskLevel)
}

// MissingRequired returns the names of the fields that must be filled in
// before leaving the context stage.
func (c UserContext) MissingRequired() []string {
	var missing []string
	if c.Role == "" {
		missing = append(missing, "role")
	}
	if c.Region == "" {
		missing = append(missing, "region")
	}
	if c.Objective == "" {
		missing = append(missing, "objective")
	}
	return missing
}
