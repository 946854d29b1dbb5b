package catalog

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/atio-cli/internal/model"
)

//go:embed data/catalog.yaml
var defaultData []byte

//go:embed data/schema.json
var schemaData []byte

// document is the on-disk shape of a catalog file.
type document struct {
	Innovations []model.Innovation       `yaml:"innovations"`
	Indicators  []model.RegionIndicators `yaml:"indicators"`
	SDGs        []model.SDG              `yaml:"sdgs"`
}

var schema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(schemaData))
})

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return Parse(defaultData)
})

// Default returns the embedded mock dataset. The result is shared and
// parsed once.
func Default() (*Catalog, error) {
	return defaultCatalog()
}

// LoadFile reads a catalog from a YAML (or JSON) file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	c, err := Load(f)
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: load %s", path)
	}
	zap.L().Info("catalog: loaded from file",
		zap.String("path", path),
		zap.Int("innovations", c.Len()),
	)
	return c, nil
}

// Load reads a catalog document from r.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read")
	}
	return Parse(data)
}

// Parse decodes, schema-checks and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "catalog: decode")
	}
	if err := checkSchema(raw); err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "catalog: decode records")
	}
	if err := Validate(doc.Innovations); err != nil {
		return nil, err
	}
	return New(doc.Innovations, doc.SDGs, doc.Indicators), nil
}

func checkSchema(raw any) error {
	s, err := schema()
	if err != nil {
		return eris.Wrap(err, "catalog: compile schema")
	}
	res, err := s.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return eris.Wrap(err, "catalog: schema validation")
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return eris.Errorf("catalog: schema validation failed: %s", strings.Join(msgs, "; "))
}

// Validate checks the semantic invariants the schema cannot express, and
// repeats the range checks for records built in code.
func Validate(innovations []model.Innovation) error {
	var errs []string
	seen := make(map[string]bool, len(innovations))

	for i, inn := range innovations {
		label := fmt.Sprintf("innovation[%d]", i)
		if inn.ID != "" {
			label = fmt.Sprintf("innovation %q", inn.ID)
		}

		if inn.ID == "" {
			errs = append(errs, label+": id is required")
		} else if seen[inn.ID] {
			errs = append(errs, label+": duplicate id")
		}
		seen[inn.ID] = true

		if inn.ReadinessLevel < 1 || inn.ReadinessLevel > model.MaxLevel {
			errs = append(errs, fmt.Sprintf("%s: readiness_level %d outside [1,%d]", label, inn.ReadinessLevel, model.MaxLevel))
		}
		if inn.AdoptionLevel < 1 || inn.AdoptionLevel > model.MaxLevel {
			errs = append(errs, fmt.Sprintf("%s: adoption_level %d outside [1,%d]", label, inn.AdoptionLevel, model.MaxLevel))
		}
		if len(inn.SDGs) == 0 {
			errs = append(errs, label+": at least one sdg is required")
		}
		if hasDuplicateInt(inn.SDGs) {
			errs = append(errs, label+": duplicate sdg")
		}
		if !inn.RiskLevel.Valid() {
			errs = append(errs, fmt.Sprintf("%s: unknown risk_level %q", label, inn.RiskLevel))
		}
		if !inn.Scalability.Valid() {
			errs = append(errs, fmt.Sprintf("%s: unknown scalability %q", label, inn.Scalability))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("catalog: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func hasDuplicateInt(vals []int) bool {
	seen := make(map[int]bool, len(vals))
	for _, v := range vals {
		if seen[v] {
			return true
		}
		seen[v] = true
	}
	return false
}
