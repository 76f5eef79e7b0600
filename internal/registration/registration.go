// Package registration validates the new-user form and maps it onto the
// POST /users body.
package registration

import (
	"fmt"
	"strings"
	"time"

	"visitor-console/internal/catalog"
	"visitor-console/internal/form"
	"visitor-console/internal/model"
)

// University positions.
const (
	Undergraduate = "Undergraduate"
	Graduate      = "Graduate"
	Faculty       = "Faculty"
)

// MaxSubjects caps the number of majors and of minors.
const MaxSubjects = 2

// DateLayout is the birthday wire format.
const DateLayout = "2006-01-02"

// Input is the registration form as the browser posts it.
type Input struct {
	UserID       string   `json:"user_id"`
	Gender       string   `json:"gender"`
	Birthday     string   `json:"birthday"`
	Position     string   `json:"position"`
	GradSemester string   `json:"gradsemester,omitempty"`
	GradYear     string   `json:"gradyear,omitempty"`
	Class        string   `json:"class,omitempty"`
	Major        []string `json:"major,omitempty"`
	Minor        []string `json:"minor,omitempty"`
}

// Validate checks in against the catalog and returns the request body.
// Fields that do not apply to the chosen position are left out.
func Validate(cat *catalog.Catalog, in Input, now time.Time) (model.Registration, error) {
	errs := make(form.FieldErrors)

	userID := strings.TrimSpace(in.UserID)
	switch {
	case userID == "":
		errs["user_id"] = "user_id is a required field"
	case strings.Contains(userID, "@"):
		errs["user_id"] = "user_id can't be an email"
	}

	checkChoice(errs, "gender", in.Gender, cat.Genders, true)
	checkChoice(errs, "position", in.Position, cat.Positions, true)

	birthday, err := parseBirthday(in.Birthday)
	if err != nil {
		errs["birthday"] = err.Error()
	} else if birthday.After(now) {
		errs["birthday"] = "birthday can't be in the future"
	}

	reg := model.Registration{
		UserID:           userID,
		Gender:           strings.TrimSpace(in.Gender),
		UniversityStatus: strings.TrimSpace(in.Position),
	}
	if err == nil {
		reg.Birthday = birthday.Format(DateLayout)
	}

	position := reg.UniversityStatus
	if position == Undergraduate || position == Graduate {
		reg.Major = checkSubjects(errs, "major", in.Major, cat.Majors, true)
	}
	if position == Undergraduate {
		checkChoice(errs, "class", in.Class, cat.UndergraduateClasses, true)
		checkChoice(errs, "gradsemester", in.GradSemester, cat.GradSemesters, false)
		checkChoice(errs, "gradyear", in.GradYear, cat.GradYears(now.Year()), false)
		reg.UndergraduateClass = strings.TrimSpace(in.Class)
		reg.GradSemester = strings.TrimSpace(in.GradSemester)
		reg.GradYear = strings.TrimSpace(in.GradYear)
		reg.Minor = checkSubjects(errs, "minor", in.Minor, cat.Minors, false)
	}

	if len(errs) > 0 {
		return model.Registration{}, errs
	}
	return reg, nil
}

func parseBirthday(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("birthday is a required field")
	}
	for _, layout := range []string{DateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("birthday must be a date (YYYY-MM-DD)")
}

func checkChoice(errs form.FieldErrors, name, value string, allowed []string, required bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		if required {
			errs[name] = fmt.Sprintf("%s is a required field", name)
		}
		return
	}
	if !catalog.Contains(allowed, value) {
		errs[name] = fmt.Sprintf("%s must be one of the listed options", name)
	}
}

func checkSubjects(errs form.FieldErrors, name string, values, allowed []string, required bool) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	switch {
	case len(out) == 0 && required:
		errs[name] = fmt.Sprintf("%s is a required field", name)
	case len(out) > MaxSubjects:
		errs[name] = fmt.Sprintf("at most %d %s selections", MaxSubjects, name)
	default:
		for _, v := range out {
			if !catalog.Contains(allowed, v) {
				errs[name] = fmt.Sprintf("%s must be one of the listed options", name)
				break
			}
		}
	}
	return out
}
