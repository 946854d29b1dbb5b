package model

// Option is a selectable value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options are the choices offered by the define-context form.
type Options struct {
	Roles       []Option `json:"roles"`
	Objectives  []Option `json:"objectives"`
	Regions     []Option `json:"regions"`
	Zones       []Option `json:"zones"`
	Budgets     []Option `json:"budgets"`
	FarmSizes   []Option `json:"farm_sizes"`
	ClimateRisk []Option `json:"climate_risk"`
}

// ContextOptions returns the fixed option lists.
func ContextOptions() Options {
	return Options{
		Roles: []Option{
			{"farmer", "Farmer"},
			{"policymaker", "Policymaker"},
			{"sme", "SME"},
			{"researcher", "Researcher"},
			{"investor", "Investor"},
			{"extension", "Extension Worker"},
		},
		Objectives: []Option{
			{"increase-production", "Increase Production"},
			{"reduce-losses", "Reduce Post-Harvest Losses"},
			{"improve-sustainability", "Improve Sustainability"},
			{"add-value", "Add Value to Products"},
			{"increase-income", "Increase Income"},
			{"soil-health", "Improve Soil Health"},
			{"water-efficiency", "Improve Water Efficiency"},
			{"climate-adaptation", "Climate Adaptation"},
		},
		Regions: []Option{
			{"East Africa", "East Africa"},
			{"West Africa", "West Africa"},
			{"Southern Africa", "Southern Africa"},
			{"North Africa", "North Africa"},
			{"South Asia", "South Asia"},
			{"Southeast Asia", "Southeast Asia"},
			{"Latin America", "Latin America"},
			{"Central America", "Central America"},
		},
		Zones: []Option{
			{"Humid Tropics", "Humid Tropics"},
			{"Sub-Humid", "Sub-Humid"},
			{"Semi-Arid", "Semi-Arid"},
			{"Arid", "Arid"},
			{"Highland", "Highland"},
			{"Temperate", "Temperate"},
		},
		Budgets: []Option{
			{"low", "Low (< $500)"},
			{"medium", "Medium ($500-$5000)"},
			{"high", "High (> $5000)"},
		},
		FarmSizes: []Option{
			{"small", "Small (< 2 ha)"},
			{"medium", "Medium (2-10 ha)"},
			{"large", "Large (> 10 ha)"},
		},
		ClimateRisk: []Option{
			{"low", "Low"},
			{"medium", "Medium"},
			{"high", "High"},
		},
	}
}

// HasValue reports whether v is one of the option values. The empty string
// is always accepted since every field is optional until the stage gate.
func HasValue(opts []Option, v string) bool {
	if v == "" {
		return true
	}
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}
