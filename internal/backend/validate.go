package backend

import (
	"fmt"
	"strings"
	"time"

	"visitor-console/internal/catalog"
	"visitor-console/internal/form"
	"visitor-console/internal/model"
	"visitor-console/internal/store"
)

// InvalidBodyError is a request body that does not meet the API's rules.
type InvalidBodyError struct {
	Msg string
}

func (e *InvalidBodyError) Error() string { return e.Msg }

func invalid(format string, args ...any) error {
	return &InvalidBodyError{Msg: fmt.Sprintf(format, args...)}
}

// fieldCheck lists fields that must be present and fields that are removed.
type fieldCheck struct {
	required   []string
	disallowed []string
}

func (fc fieldCheck) apply(rec store.Record) bool {
	for _, name := range fc.required {
		if _, ok := rec[name]; !ok {
			return false
		}
	}
	for _, name := range fc.disallowed {
		delete(rec, name)
	}
	return true
}

func missing(required []string, rec store.Record) bool {
	for _, name := range required {
		if _, ok := rec[name]; !ok {
			return true
		}
	}
	return false
}

// notString returns the first named field whose value is not a string.
func notString(names []string, rec store.Record) (string, bool) {
	for _, name := range names {
		if _, ok := rec[name].(string); !ok {
			return name, true
		}
	}
	return "", false
}

var equipmentRequired = []string{"user_id", "timestamp", "location", "project_name", "project_type", "equipment_type"}

var projectChecks = map[string]fieldCheck{
	form.ProjectPersonal: {disallowed: []string{"class_number", "faculty_name", "project_sponsor", "organization_affiliation"}},
	form.ProjectClass:    {required: []string{"class_number", "faculty_name", "project_sponsor"}, disallowed: []string{"organization_affiliation"}},
	form.ProjectClub:     {required: []string{"organization_affiliation"}, disallowed: []string{"class_number", "faculty_name", "project_sponsor"}},
}

var (
	printerCheck      = fieldCheck{required: []string{form.PrinterInfoKey}}
	otherEquipment    = fieldCheck{disallowed: []string{form.PrinterInfoKey}}
	printerInfoFields = []string{"printer_name", "print_duration", "print_status", "print_notes"}
	variantFields     = map[string][]string{
		model.FDMPrinter: {"print_mass_estimate"},
		model.SLAPrinter: {"resin_volume", "resin_type"},
	}
)

func checkTimestamp(rec store.Record) error {
	ts, _ := rec["timestamp"].(string)
	if _, err := time.Parse(model.TimestampLayout, ts); err != nil {
		return invalid("Timestamp not in the approved format. Approved format is 'YYYY-MM-DDThh:mm:ss'.")
	}
	return nil
}

func checkUserID(userID string) error {
	if strings.Contains(userID, "@") {
		return invalid("user_id can't be an email.")
	}
	return nil
}

// ValidateEquipment checks an equipment log body and strips the fields its
// project and equipment types do not allow. rec is modified in place.
func ValidateEquipment(cat *catalog.Catalog, rec store.Record) (store.Record, error) {
	if missing(equipmentRequired, rec) {
		return nil, invalid("Missing at least one field from %v in request body.", equipmentRequired)
	}
	if name, bad := notString(equipmentRequired, rec); bad {
		return nil, invalid("%s must be a string.", name)
	}
	userID, _ := rec["user_id"].(string)
	if err := checkUserID(userID); err != nil {
		return nil, err
	}

	projectType, _ := rec["project_type"].(string)
	pc, ok := projectChecks[projectType]
	if !ok {
		return nil, invalid("project_type %s is not one of the valid project types %v.", projectType, cat.ProjectTypes)
	}

	equipmentType, _ := rec["equipment_type"].(string)
	if !catalog.Contains(cat.ToolsAt(""), equipmentType) {
		return nil, invalid("equipment_type %s is not one of the valid equipment types %v.", equipmentType, cat.ToolsAt(""))
	}

	if !pc.apply(rec) {
		return nil, invalid("Missing at least one field from %v for a project_type value of '%s'.", pc.required, projectType)
	}

	ec := otherEquipment
	if model.IsPrinter(equipmentType) {
		ec = printerCheck
	}
	if !ec.apply(rec) {
		return nil, invalid("Missing at least one field from %v for a equipment_type value of '%s'.", ec.required, equipmentType)
	}

	if raw, ok := rec[form.PrinterInfoKey]; ok {
		info, ok := raw.(map[string]any)
		required := append(append([]string{}, printerInfoFields...), variantFields[equipmentType]...)
		if !ok || missing(required, info) {
			return nil, invalid("Missing at least one field from %v in the '%s' object in the request body.", required, form.PrinterInfoKey)
		}
	}

	if err := checkTimestamp(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ValidateVisit checks a visit body. Locations match a catalog name or slug.
func ValidateVisit(cat *catalog.Catalog, v model.Visit) error {
	if v.UserID == "" || v.Timestamp == "" || v.Location == "" {
		return invalid("Missing at least one field from [user_id timestamp location] in request body.")
	}
	if err := checkUserID(v.UserID); err != nil {
		return err
	}
	if _, err := time.Parse(model.TimestampLayout, v.Timestamp); err != nil {
		return invalid("Timestamp not in the approved format. Approved format is 'YYYY-MM-DDThh:mm:ss'.")
	}
	for _, loc := range cat.Locations {
		if strings.EqualFold(v.Location, loc.Name) || strings.EqualFold(v.Location, loc.Slug) {
			return nil
		}
	}
	return invalid("Specified location '%s' is not one of the valid locations %v.", v.Location, cat.LocationNames())
}

// ValidateQualifications checks a qualifications body.
func ValidateQualifications(cat *catalog.Catalog, q model.Qualifications) error {
	if q.UserID == "" {
		return invalid("Missing at least one field from [user_id trainings waivers] in request body.")
	}
	if err := checkUserID(q.UserID); err != nil {
		return err
	}
	lists := []struct {
		name  string
		items []model.CompletableItem
	}{
		{"trainings", q.Trainings},
		{"waivers", q.Waivers},
		{"miscellaneous", q.Miscellaneous},
	}
	for _, list := range lists {
		listName := list.name
		for _, item := range list.items {
			if item.Name == "" {
				return invalid("Missing at least one field from [name completion_status] for at least one completeable item in %s.", listName)
			}
			if !catalog.Contains(cat.CompletionStatuses, item.CompletionStatus) {
				return invalid("Completion status '%s' is not one of the valid completion statuses %v for object with name %s in %s.",
					item.CompletionStatus, cat.CompletionStatuses, item.Name, listName)
			}
		}
	}
	return nil
}

var userRequired = []string{"user_id", "university_status"}

var statusChecks = map[string]fieldCheck{
	"Undergraduate": {required: []string{"undergraduate_class", "major"}},
	"Graduate":      {required: []string{"major"}, disallowed: []string{"undergraduate_class"}},
	"Faculty":       {disallowed: []string{"undergraduate_class", "major"}},
}

// ValidateUser checks a registration body. rec is modified in place.
func ValidateUser(cat *catalog.Catalog, rec store.Record) (store.Record, error) {
	if missing(userRequired, rec) {
		return nil, invalid("Missing at least one field from %v in request body.", userRequired)
	}
	if name, bad := notString(userRequired, rec); bad {
		return nil, invalid("%s must be a string.", name)
	}
	userID, _ := rec["user_id"].(string)
	if err := checkUserID(userID); err != nil {
		return nil, err
	}

	status, _ := rec["university_status"].(string)
	sc, ok := statusChecks[status]
	if !ok {
		return nil, invalid("The provided university_status ('%s') is not one of the valid statuses (%v).", status, cat.Positions)
	}
	if !sc.apply(rec) {
		return nil, invalid("Missing at least one field from %v due to a 'university_status' value of '%s' in request body.", sc.required, status)
	}
	if class, ok := rec["undergraduate_class"].(string); ok && !catalog.Contains(cat.UndergraduateClasses, class) {
		return nil, invalid("Specified undergraduate_class ('%s') is not one of the valid classes %v in request body.", class, cat.UndergraduateClasses)
	}
	return rec, nil
}
