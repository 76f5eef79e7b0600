package model

// Equipment type values that carry 3D-printer sub-fields.
const (
	FDMPrinter = "FDM 3D Printer (Plastic)"
	SLAPrinter = "SLA 3D Printer (Resin)"
)

// IsPrinter reports whether an equipment type is one of the two 3D-printer variants.
func IsPrinter(equipmentType string) bool {
	return equipmentType == FDMPrinter || equipmentType == SLAPrinter
}

// PrinterInfo is the nested printer record of an equipment log.
type PrinterInfo struct {
	PrinterName       string `json:"printer_name,omitempty"`
	PrintName         string `json:"print_name,omitempty"`
	PrintDuration     string `json:"print_duration,omitempty"`
	PrintStatus       string `json:"print_status"`
	PrintNotes        string `json:"print_notes"`
	PrintMass         string `json:"print_mass,omitempty"`
	PrintMassEstimate string `json:"print_mass_estimate,omitempty"`
	ResinVolume       string `json:"resin_volume,omitempty"`
	ResinType         string `json:"resin_type,omitempty"`
}

// EquipmentLog is an equipment usage entry as stored and returned by the remote API.
type EquipmentLog struct {
	UserID                  string       `json:"user_id"`
	Timestamp               string       `json:"timestamp"`
	Location                string       `json:"location"`
	EquipmentType           string       `json:"equipment_type"`
	EquipmentHistory        string       `json:"equipment_history,omitempty"`
	ProjectName             string       `json:"project_name"`
	ProjectType             string       `json:"project_type"`
	ProjectDetails          string       `json:"project_details,omitempty"`
	Department              string       `json:"department,omitempty"`
	ClassNumber             string       `json:"class_number,omitempty"`
	FacultyName             string       `json:"faculty_name,omitempty"`
	ProjectSponsor          string       `json:"project_sponsor,omitempty"`
	OrganizationAffiliation string       `json:"organization_affiliation,omitempty"`
	Intern                  string       `json:"intern,omitempty"`
	Satisfaction            string       `json:"satisfaction,omitempty"`
	Difficulties            string       `json:"difficulties,omitempty"`
	IssueDescription        string       `json:"issue_description,omitempty"`
	PrinterInfo             *PrinterInfo `json:"printer_info,omitempty"`
}

// LogKey identifies the entry for merge and replace.
func (l EquipmentLog) LogKey() LogKey {
	return LogKey{UserID: l.UserID, Timestamp: l.Timestamp}
}
