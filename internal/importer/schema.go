package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ImportSchema is the top-level structure of a plan file. The same shape is
// accepted as YAML or JSON.
type ImportSchema struct {
	Project      ProjectImport      `json:"project" yaml:"project"`
	Nodes        []NodeImport       `json:"nodes" yaml:"nodes"`
	Dependencies []DependencyImport `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Claims       []ClaimImport      `json:"claims,omitempty" yaml:"claims,omitempty"`
}

// ProjectImport defines the project-level fields in the import file.
type ProjectImport struct {
	ShortID string `json:"short_id" yaml:"short_id"`
	Name    string `json:"name" yaml:"name"`
}

// NodeImport defines one WBS node. Nodes without a parent_ref hang directly
// from the project root. Start, finish, hours and cost are only accepted on tasks.
type NodeImport struct {
	Ref       string   `json:"ref" yaml:"ref"`
	ParentRef *string  `json:"parent_ref,omitempty" yaml:"parent_ref,omitempty"`
	Title     string   `json:"title" yaml:"title"`
	Kind      string   `json:"kind" yaml:"kind"`
	Order     int      `json:"order" yaml:"order"`
	Start     *string  `json:"start,omitempty" yaml:"start,omitempty"`
	Finish    *string  `json:"finish,omitempty" yaml:"finish,omitempty"`
	Hours     *float64 `json:"hours,omitempty" yaml:"hours,omitempty"`
	Cost      *float64 `json:"cost,omitempty" yaml:"cost,omitempty"`
}

// DependencyImport defines an origin -> dependent edge between two tasks.
type DependencyImport struct {
	OriginRef    string `json:"origin_ref" yaml:"origin_ref"`
	DependentRef string `json:"dependent_ref" yaml:"dependent_ref"`
	Relation     string `json:"relation,omitempty" yaml:"relation,omitempty"`
	LagMinutes   int    `json:"lag_minutes,omitempty" yaml:"lag_minutes,omitempty"`
}

// ClaimImport is one progress claim booked against the project.
type ClaimImport struct {
	PeriodEnd string  `json:"period_end" yaml:"period_end"`
	Amount    float64 `json:"amount" yaml:"amount"`
	Note      string  `json:"note,omitempty" yaml:"note,omitempty"`
}

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the decoder from the file extension; anything that is
// not .yaml or .yml is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadImportSchema reads and parses a plan file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data, FormatFromPath(path))
}

func ParseImportSchema(data []byte, format Format) (*ImportSchema, error) {
	var schema ImportSchema
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing import file: %w", err)
		}
	}
	return &schema, nil
}
