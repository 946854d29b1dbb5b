package model

// Level is a coarse low/medium/high rating used for risk and scalability.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelHigh:
		return true
	}
	return false
}

// GlobalRegion marks an innovation as applicable in every region.
const GlobalRegion = "Global"

// MaxLevel is the top of the 1-9 readiness and adoption scales.
const MaxLevel = 9

// Innovation is an immutable catalog record describing one agricultural
// technology, practice or service.
type Innovation struct {
	ID             string   `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	Description    string   `json:"description" yaml:"description"`
	Type           string   `json:"type" yaml:"type"`
	UseCases       []string `json:"use_cases" yaml:"use_cases"`
	ReadinessLevel int      `json:"readiness_level" yaml:"readiness_level"`
	AdoptionLevel  int      `json:"adoption_level" yaml:"adoption_level"`
	SDGs           []int    `json:"sdgs" yaml:"sdgs"`
	Regions        []string `json:"regions" yaml:"regions"`
	Provider       string   `json:"provider" yaml:"provider"`
	DataSource     string   `json:"data_source" yaml:"data_source"`
	ImpactType     string   `json:"impact_type" yaml:"impact_type"`
	RiskLevel      Level    `json:"risk_level" yaml:"risk_level"`
	TargetUsers    []string `json:"target_users" yaml:"target_users"`
	Scalability    Level    `json:"scalability" yaml:"scalability"`
}

// InRegion reports whether region is listed verbatim in the innovation's
// regions. "Global" is not expanded here.
func (i Innovation) InRegion(region string) bool {
	for _, r := range i.Regions {
		if r == region {
			return true
		}
	}
	return false
}

// IsGlobal reports whether the innovation carries the Global sentinel.
func (i Innovation) IsGlobal() bool {
	return i.InRegion(GlobalRegion)
}

// SDG describes a Sustainable Development Goal for display.
type SDG struct {
	ID    int    `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// RegionIndicators holds the regional baseline statistics used by the
// analysis and report stages.
type RegionIndicators struct {
	Region               string  `json:"region" yaml:"region"`
	Crop                 string  `json:"crop" yaml:"crop"`
	Production           int64   `json:"production" yaml:"production"`
	Yield                float64 `json:"yield" yaml:"yield"`
	PostHarvestLoss      float64 `json:"post_harvest_loss" yaml:"post_harvest_loss"`
	SoilHealthIndex      int     `json:"soil_health_index" yaml:"soil_health_index"`
	WaterEfficiencyIndex int     `json:"water_efficiency_index" yaml:"water_efficiency_index"`
	BiodiversityIndex    int     `json:"biodiversity_index" yaml:"biodiversity_index"`
}
