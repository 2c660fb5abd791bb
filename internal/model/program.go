package model

// ProgramKind distinguishes the three kinds of declared programs.
type ProgramKind string

const (
	ProgramKindMajor          ProgramKind = "major"
	ProgramKindMinor          ProgramKind = "minor"
	ProgramKindSpecialization ProgramKind = "specialization"
)

// Program is the metadata of a degree program resolved by name.
type Program struct {
	Name           string        `json:"name"`
	Kind           ProgramKind   `json:"kind"`
	IsDoubleDegree bool          `json:"is_double_degree"`
	RequirementID  *int64        `json:"requirement_id,omitempty"`
	Requirements   *Requirements `json:"requirements,omitempty"`
}

// Plans lists every selectable program and course name.
type Plans struct {
	Majors          []string       `json:"majors"`
	Minors          []string       `json:"minors"`
	Specializations []string       `json:"specializations"`
	Courses         []CourseIDName `json:"courses"`
}

// Communication is a communication-requirement course with the list it belongs to.
type Communication struct {
	CourseID   string `json:"course_id" yaml:"course_id"`
	ListNumber int    `json:"list_number" yaml:"list_number"`
	Name       string `json:"name" yaml:"name"`
}

// AcademicPlan names the programs a schedule is checked against.
type AcademicPlan struct {
	Degree          string
	Minors          []string
	Specializations []string
}

// HasExtras reports whether the plan names any minor or specialization.
func (p AcademicPlan) HasExtras() bool {
	return len(p.Minors) > 0 || len(p.Specializations) > 0
}
