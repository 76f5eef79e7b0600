// Package catalog holds the facility's static option lists: locations and
// their tools and printers, project types, survey answers and registration
// choices. A Catalog is loaded once at start-up and never mutated.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"visitor-console/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Location is a makerspace site with the tools it offers.
type Location struct {
	Name        string   `yaml:"name" json:"name"`
	Slug        string   `yaml:"slug" json:"slug"`
	Tools       []string `yaml:"tools" json:"tools"`
	FDMPrinters []string `yaml:"fdm_printers,omitempty" json:"fdm_printers,omitempty"`
	SLAPrinters []string `yaml:"sla_printers,omitempty" json:"sla_printers,omitempty"`
}

// Catalog is the full set of option lists.
type Catalog struct {
	Locations            []Location `yaml:"locations" json:"locations"`
	ProjectTypes         []string   `yaml:"project_types" json:"project_types"`
	EquipmentHistory     []string   `yaml:"equipment_history" json:"equipment_history"`
	ResinTypes           []string   `yaml:"resin_types" json:"resin_types"`
	PrintStatuses        []string   `yaml:"print_statuses" json:"print_statuses"`
	SurveyScores         []string   `yaml:"survey_scores" json:"survey_scores"`
	SurveyIssues         []string   `yaml:"survey_issues" json:"survey_issues"`
	Genders              []string   `yaml:"genders" json:"genders"`
	Positions            []string   `yaml:"positions" json:"positions"`
	UndergraduateClasses []string   `yaml:"undergraduate_classes" json:"undergraduate_classes"`
	GradSemesters        []string   `yaml:"grad_semesters" json:"grad_semesters"`
	CompletionStatuses   []string   `yaml:"completion_statuses" json:"completion_statuses"`
	Interns              []string   `yaml:"interns" json:"interns"`
	Majors               []string   `yaml:"majors" json:"majors"`
	Minors               []string   `yaml:"minors" json:"minors"`
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and checks a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(c.Locations) == 0 {
		return nil, fmt.Errorf("catalog has no locations")
	}
	if len(c.ProjectTypes) == 0 {
		return nil, fmt.Errorf("catalog has no project types")
	}
	return &c, nil
}

// Location looks a location up by display name.
func (c *Catalog) Location(name string) (Location, bool) {
	for _, loc := range c.Locations {
		if loc.Name == name {
			return loc, true
		}
	}
	return Location{}, false
}

// LocationNames lists location display names in catalog order.
func (c *Catalog) LocationNames() []string {
	names := make([]string, 0, len(c.Locations))
	for _, loc := range c.Locations {
		names = append(names, loc.Name)
	}
	return names
}

// ToolsAt returns the tools of a location. An unknown location yields every
// tool of every location, de-duplicated in first-seen order.
func (c *Catalog) ToolsAt(location string) []string {
	if loc, ok := c.Location(location); ok {
		return loc.Tools
	}
	seen := make(map[string]bool)
	var all []string
	for _, loc := range c.Locations {
		for _, tool := range loc.Tools {
			if !seen[tool] {
				seen[tool] = true
				all = append(all, tool)
			}
		}
	}
	return all
}

// PrintersAt returns the printers of the given variant at a location.
func (c *Catalog) PrintersAt(location, equipmentType string) []string {
	loc, ok := c.Location(location)
	if !ok {
		return nil
	}
	switch equipmentType {
	case model.FDMPrinter:
		return loc.FDMPrinters
	case model.SLAPrinter:
		return loc.SLAPrinters
	}
	return nil
}

// GradYears returns the selectable graduation years starting at year.
func (c *Catalog) GradYears(year int) []string {
	years := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		years = append(years, strconv.Itoa(year+i))
	}
	return years
}

// Contains reports whether v is one of values.
func Contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
