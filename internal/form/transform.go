package form

import (
	"time"

	"visitor-console/internal/model"
)

// Printer defaults applied when the accumulator has no value.
const (
	DefaultPrintStatus = "in progress"
	DefaultPrintNotes  = ""
)

// PrinterInfoKey is the payload key of the nested printer record.
const PrinterInfoKey = "printer_info"

// Payload is the body sent to POST /equipment.
type Payload map[string]any

// PrinterInfo returns the nested printer record, if any.
func (p Payload) PrinterInfo() (map[string]string, bool) {
	info, ok := p[PrinterInfoKey].(map[string]string)
	return info, ok
}

// BuildPayload turns the flat accumulator into the submission body.
//
// Printer fields never appear at the top level. For a printer variant the
// shared printer fields and that variant's own fields move into printer_info;
// the other variant's fields and, for any other equipment type, every printer
// field are dropped. Project-context fields of an unselected project type are
// dropped too. Blank values are omitted. The timestamp is the UTC wall clock
// truncated to whole seconds.
func BuildPayload(record model.FormRecord, now time.Time) Payload {
	payload := make(Payload, len(record)+2)
	equipmentType := record[FieldEquipmentType]
	projectType := record[FieldProjectType]
	keepProject := setOf(projectFieldsFor(projectType))

	printer := setOf(PrinterFields)
	project := setOf(ProjectContextFields)
	for name, value := range record {
		if printer[name] || value == "" {
			continue
		}
		if project[name] && !keepProject[name] {
			continue
		}
		payload[name] = value
	}

	if model.IsPrinter(equipmentType) {
		info := make(map[string]string)
		for _, name := range printerFieldsFor(equipmentType) {
			if value := record[name]; value != "" {
				info[name] = value
			}
		}
		if _, ok := info["print_status"]; !ok {
			info["print_status"] = DefaultPrintStatus
		}
		if _, ok := info["print_notes"]; !ok {
			info["print_notes"] = DefaultPrintNotes
		}
		payload[PrinterInfoKey] = info
	}

	payload["timestamp"] = now.UTC().Truncate(time.Second).Format(model.TimestampLayout)
	return payload
}

func printerFieldsFor(equipmentType string) []string {
	switch equipmentType {
	case model.FDMPrinter:
		return concat(printerCommonFields, fdmFields)
	case model.SLAPrinter:
		return concat(printerCommonFields, slaFields)
	}
	return nil
}

func projectFieldsFor(projectType string) []string {
	switch projectType {
	case ProjectClass:
		return classFields
	case ProjectClub:
		return clubFields
	}
	return nil
}

func setOf(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
