package record

import "errors"

// ErrNotFound is returned when a student name is absent from a collection.
var ErrNotFound = errors.New("student not found")

// DefaultRole is used for students without a class role entry.
const DefaultRole = "학급 구성원"

// ObservationRecord is one row of the teacher observation log.
type ObservationRecord struct {
	Date          string `json:"날짜"`
	Name          string `json:"이름"`
	CategoryMajor string `json:"대분류(상황)"`
	CategoryMinor string `json:"소분류(활동)"`
	Fact          string `json:"구체적 행동(Fact)"`
	Keywords      string `json:"핵심 키워드"`
	Impact        string `json:"영향/반응"`
	Memo          string `json:"교사 메모"`
}

// StudentGroup holds one student's observations ordered by date.
type StudentGroup struct {
	Name    string
	Records []ObservationRecord
}

// Area is one narrative area of the school record.
type Area string

const (
	AreaCourse     Area = "course"
	AreaCareer     Area = "career"
	AreaAutonomous Area = "autonomous"
	AreaBehavior   Area = "behavior"
)

// Areas lists the narrative areas in sheet column order.
var Areas = []Area{AreaCourse, AreaCareer, AreaAutonomous, AreaBehavior}

// Label returns the column header of the area in the result sheet.
func (a Area) Label() string {
	switch a {
	case AreaCourse:
		return "1) 교과 세부능력(질적분석)"
	case AreaCareer:
		return "2) 진로활동"
	case AreaAutonomous:
		return "3) 자율활동"
	case AreaBehavior:
		return "4) 행동특성/종합"
	default:
		return string(a)
	}
}

// HomeroomResult holds the three homeroom-area texts of one student.
type HomeroomResult struct {
	Career     string `json:"career"`
	Autonomous string `json:"autonomous"`
	Behavior   string `json:"behavior"`
}

// IntegratedRecord is the final per-student record. Absent areas are "".
type IntegratedRecord struct {
	Name       string `json:"name"`
	Course     string `json:"course"`
	Career     string `json:"career"`
	Autonomous string `json:"autonomous"`
	Behavior   string `json:"behavior"`
}

// Text returns the record's text for an area.
func (r IntegratedRecord) Text(a Area) string {
	switch a {
	case AreaCourse:
		return r.Course
	case AreaCareer:
		return r.Career
	case AreaAutonomous:
		return r.Autonomous
	case AreaBehavior:
		return r.Behavior
	}
	return ""
}

// RoleMap maps a student name to a class role label.
type RoleMap map[string]string

// Role returns the role for name or DefaultRole.
func (m RoleMap) Role(name string) string {
	if r, ok := m[name]; ok && r != "" {
		return r
	}
	return DefaultRole
}
