package form

import (
	"regexp"

	"visitor-console/internal/catalog"
	"visitor-console/internal/model"
)

// Discriminant field names.
const (
	FieldLocation      = "location"
	FieldEquipmentType = "equipment_type"
	FieldProjectType   = "project_type"
)

// Project types that gate project-context fields.
const (
	ProjectPersonal = "Personal"
	ProjectClass    = "Class"
	ProjectClub     = "Club"
)

// ClassNumberPattern is four uppercase letters, a hyphen and four digits.
var ClassNumberPattern = regexp.MustCompile(`^[A-Z]{4}-[0-9]{4}$`)

// Conditional field groups. Each group is gated by a single discriminant value.
var (
	printerCommonFields = []string{"printer_name", "print_name", "print_duration", "print_status", "print_notes"}
	fdmFields           = []string{"print_mass", "print_mass_estimate"}
	slaFields           = []string{"resin_volume", "resin_type"}

	classFields = []string{"class_number", "faculty_name", "project_sponsor"}
	clubFields  = []string{"organization_affiliation"}
)

// PrinterFields is the allow-list of names nested under printer_info.
var PrinterFields = concat(printerCommonFields, fdmFields, slaFields)

// ProjectContextFields are the fields gated by project_type.
var ProjectContextFields = concat(classFields, clubFields)

func concat(groups ...[]string) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func always(Discriminants) bool { return true }

func whenPrinter(d Discriminants) bool { return model.IsPrinter(d.EquipmentType) }

func whenEquipment(equipmentType string) func(Discriminants) bool {
	return func(d Discriminants) bool { return d.EquipmentType == equipmentType }
}

func whenProject(projectType string) func(Discriminants) bool {
	return func(d Discriminants) bool { return d.ProjectType == projectType }
}

func fixed(pick func(c *catalog.Catalog) []string) func(*catalog.Catalog, Discriminants) []string {
	return func(c *catalog.Catalog, _ Discriminants) []string { return pick(c) }
}

// EquipmentStages returns the initial info, project details and survey stages.
func EquipmentStages() []StageDefinition {
	return []StageDefinition{
		{
			Name: "initial_info",
			Fields: []FieldSpec{
				{Name: "user_id", Required: always},
				{Name: FieldLocation, Required: always, Options: fixed((*catalog.Catalog).LocationNames)},
				{Name: FieldEquipmentType, Required: always, Options: func(c *catalog.Catalog, d Discriminants) []string {
					return c.ToolsAt(d.Location)
				}},
				{Name: "equipment_history", Required: always, Options: fixed(func(c *catalog.Catalog) []string { return c.EquipmentHistory })},
				{Name: "printer_name", Required: whenPrinter, Options: func(c *catalog.Catalog, d Discriminants) []string {
					return c.PrintersAt(d.Location, d.EquipmentType)
				}},
				{Name: "print_name"},
				{Name: "print_duration", Required: whenPrinter},
				{Name: "print_mass_estimate", Required: whenEquipment(model.FDMPrinter)},
				{Name: "resin_volume", Required: whenEquipment(model.SLAPrinter)},
				{Name: "resin_type", Required: whenEquipment(model.SLAPrinter), Options: fixed(func(c *catalog.Catalog) []string { return c.ResinTypes })},
			},
		},
		{
			Name: "project_details",
			Fields: []FieldSpec{
				{Name: "project_name", Required: always},
				{Name: FieldProjectType, Required: always, Options: fixed(func(c *catalog.Catalog) []string { return c.ProjectTypes })},
				{Name: "project_details"},
				{Name: "department"},
				{Name: "class_number", Required: whenProject(ProjectClass), Pattern: ClassNumberPattern, Message: "Invalid class number format"},
				{Name: "faculty_name", Required: whenProject(ProjectClass)},
				{Name: "project_sponsor", Required: whenProject(ProjectClass)},
				{Name: "organization_affiliation", Required: whenProject(ProjectClub)},
			},
		},
		{
			Name: "survey",
			Fields: []FieldSpec{
				{Name: "intern", Required: always},
				{Name: "satisfaction", Required: always, Options: fixed(func(c *catalog.Catalog) []string { return c.SurveyScores })},
				{Name: "difficulties", Required: always, Options: fixed(func(c *catalog.Catalog) []string { return c.SurveyIssues })},
				{Name: "issue_description"},
			},
		},
	}
}
