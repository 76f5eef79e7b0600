package model

// TimestampLayout is the wire format of every log timestamp (YYYY-MM-DDThh:mm:ss, no offset).
const TimestampLayout = "2006-01-02T15:04:05"

// LogKey is the composite identity of a log entry.
type LogKey struct {
	UserID    string
	Timestamp string
}

// Visit is a single facility visit.
type Visit struct {
	UserID    string `json:"user_id"`
	Timestamp string `json:"timestamp"`
	Location  string `json:"location"`
}

// LogKey identifies the visit for merge and replace.
func (v Visit) LogKey() LogKey {
	return LogKey{UserID: v.UserID, Timestamp: v.Timestamp}
}

// CompletableItem is a training, waiver or other item with a completion status.
type CompletableItem struct {
	Name             string `json:"name"`
	CompletionStatus string `json:"completion_status"`
}

// Qualifications holds a user's trainings and waivers.
type Qualifications struct {
	UserID        string            `json:"user_id"`
	LastUpdated   string            `json:"last_updated"`
	Trainings     []CompletableItem `json:"trainings"`
	Waivers       []CompletableItem `json:"waivers"`
	Miscellaneous []CompletableItem `json:"miscellaneous"`
}

// Registration is the body of POST /users.
type Registration struct {
	UserID             string   `json:"user_id"`
	Gender             string   `json:"gender"`
	Birthday           string   `json:"birthday"`
	UniversityStatus   string   `json:"university_status"`
	UndergraduateClass string   `json:"undergraduate_class,omitempty"`
	GradSemester       string   `json:"GradSemester,omitempty"`
	GradYear           string   `json:"GradYear,omitempty"`
	Major              []string `json:"major,omitempty"`
	Minor              []string `json:"minor,omitempty"`
}
