// Package form drives the multi-stage equipment usage form: per-stage schemas
// conditioned on earlier answers, stage validation, the running accumulator
// and the final payload transform.
package form

import (
	"fmt"
	"regexp"

	"visitor-console/internal/catalog"
	"visitor-console/internal/model"
)

// RuleKind tags how a field of an active schema is checked.
type RuleKind int

const (
	Optional RuleKind = iota
	Required
	RequiredIfPattern
)

func (k RuleKind) String() string {
	switch k {
	case Required:
		return "required"
	case RequiredIfPattern:
		return "required_if_pattern"
	default:
		return "optional"
	}
}

// MarshalText renders the kind by name in JSON.
func (k RuleKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// FieldRule is one field of an active schema.
type FieldRule struct {
	Name    string   `json:"name"`
	Kind    RuleKind `json:"kind"`
	Pattern string   `json:"pattern,omitempty"`
	Message string   `json:"-"`
	Allowed []string `json:"allowed,omitempty"`

	re *regexp.Regexp
}

// Schema is the resolved rule set of one stage.
type Schema struct {
	Stage  int         `json:"stage"`
	Name   string      `json:"name"`
	Fields []FieldRule `json:"fields"`
}

// Field returns the rule for a field name.
func (s Schema) Field(name string) (FieldRule, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldRule{}, false
}

// Discriminants are the values that select conditional field groups.
type Discriminants struct {
	Location      string
	EquipmentType string
	ProjectType   string
}

// FieldSpec declares a field of a stage. A nil Required means always optional;
// a nil Options means free text.
type FieldSpec struct {
	Name     string
	Required func(d Discriminants) bool
	Pattern  *regexp.Regexp
	Message  string
	Options  func(c *catalog.Catalog, d Discriminants) []string
}

// StageDefinition is one screen of the form.
type StageDefinition struct {
	Name   string
	Fields []FieldSpec
}

// Definition is an ordered list of stages bound to a catalog.
type Definition struct {
	stages  []StageDefinition
	catalog *catalog.Catalog
	owner   map[string]int
}

// NewDefinition checks that no field is declared by two stages.
func NewDefinition(cat *catalog.Catalog, stages []StageDefinition) (*Definition, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("form needs at least one stage")
	}
	owner := make(map[string]int)
	for i, stage := range stages {
		for _, f := range stage.Fields {
			if prev, ok := owner[f.Name]; ok {
				return nil, fmt.Errorf("field %s declared by stages %d and %d", f.Name, prev, i)
			}
			owner[f.Name] = i
		}
	}
	return &Definition{stages: stages, catalog: cat, owner: owner}, nil
}

// EquipmentForm returns the three-stage equipment usage form.
func EquipmentForm(cat *catalog.Catalog) *Definition {
	def, err := NewDefinition(cat, EquipmentStages())
	if err != nil {
		panic(err)
	}
	return def
}

// Len is the number of stages.
func (d *Definition) Len() int { return len(d.stages) }

// StageName returns the name of a stage.
func (d *Definition) StageName(i int) string {
	if i < 0 || i >= len(d.stages) {
		return ""
	}
	return d.stages[i].Name
}

// Catalog returns the option lists the definition resolves against.
func (d *Definition) Catalog() *catalog.Catalog { return d.catalog }

// ActiveSchema resolves the rules of a stage. Discriminant values are only
// read from fields owned by stages 0..stage; anything later is ignored, and an
// unset discriminant leaves its conditional fields optional.
func (d *Definition) ActiveSchema(stage int, record model.FormRecord) (Schema, error) {
	if stage < 0 || stage >= len(d.stages) {
		return Schema{}, fmt.Errorf("stage %d out of range [0,%d)", stage, len(d.stages))
	}
	disc := d.discriminants(stage, record)
	def := d.stages[stage]

	schema := Schema{Stage: stage, Name: def.Name, Fields: make([]FieldRule, 0, len(def.Fields))}
	for _, fs := range def.Fields {
		rule := FieldRule{Name: fs.Name, Kind: Optional, Message: fs.Message}
		if fs.Required != nil && fs.Required(disc) {
			rule.Kind = Required
			if fs.Pattern != nil {
				rule.Kind = RequiredIfPattern
				rule.Pattern = fs.Pattern.String()
				rule.re = fs.Pattern
			}
		}
		if fs.Options != nil && d.catalog != nil {
			rule.Allowed = fs.Options(d.catalog, disc)
		}
		schema.Fields = append(schema.Fields, rule)
	}
	return schema, nil
}

func (d *Definition) discriminants(stage int, record model.FormRecord) Discriminants {
	read := func(name string) string {
		if owner, ok := d.owner[name]; ok && owner <= stage {
			return record[name]
		}
		return ""
	}
	return Discriminants{
		Location:      read(FieldLocation),
		EquipmentType: read(FieldEquipmentType),
		ProjectType:   read(FieldProjectType),
	}
}
