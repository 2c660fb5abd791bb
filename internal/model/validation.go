package model

import "encoding/json"

// ValidationResult enumerates the outcome of one course-level check.
type ValidationResult string

const (
	ResultSuccess         ValidationResult = "Success"
	ResultTermUnavailable ValidationResult = "TermUnavailable"
	ResultNotMeetMinLvl   ValidationResult = "NotMeetMinLvl"
	ResultNotMeetPreReq   ValidationResult = "NotMeetPreReq"
	ResultNotMeetCoReq    ValidationResult = "NotMeetCoReq"
	ResultNotMeetAntiReq  ValidationResult = "NotMeetAntiReq"
	ResultNoSuchCourse    ValidationResult = "NoSuchCourse"
)

// OverallValidationResult enumerates degree-level findings.
type OverallValidationResult string

const (
	OverallSuccess                    OverallValidationResult = "Success"
	OverallNoSuchMajor                OverallValidationResult = "NoSuchMajor"
	OverallCommunicationCourseTooLate OverallValidationResult = "CommunicationCourseTooLate"
	OverallNotEnoughCourse            OverallValidationResult = "NotEnoughCourse"
	OverallNotMeetDegreeRequirement   OverallValidationResult = "NotMeetDegreeRequirement"
)

// ResultSet is an insertion-ordered set of course-level results.
type ResultSet []ValidationResult

// Add appends r unless it is already present.
func (s ResultSet) Add(r ValidationResult) ResultSet {
	for _, existing := range s {
		if existing == r {
			return s
		}
	}
	return append(s, r)
}

// Failures returns the non-Success members. The result is never nil.
func (s ResultSet) Failures() ResultSet {
	out := ResultSet{}
	for _, r := range s {
		if r != ResultSuccess {
			out = out.Add(r)
		}
	}
	return out
}

// Contains reports whether r is in the set.
func (s ResultSet) Contains(r ValidationResult) bool {
	for _, existing := range s {
		if existing == r {
			return true
		}
	}
	return false
}

// TermResult holds one failure set per scheduled course, in schedule order.
type TermResult struct {
	Term    string      `json:"term"`
	Courses []ResultSet `json:"courses"`
}

// CourseValidationResult is the ordered per-term course outcome. It encodes as
// a JSON object keyed by term in schedule order.
type CourseValidationResult []TermResult

// Term returns the results recorded for term.
func (r CourseValidationResult) Term(term string) ([]ResultSet, bool) {
	for _, tr := range r {
		if tr.Term == term {
			return tr.Courses, true
		}
	}
	return nil, false
}

func (r CourseValidationResult) MarshalJSON() ([]byte, error) {
	return encodeOrderedObject(len(r), func(i int) (string, interface{}) {
		courses := r[i].Courses
		if courses == nil {
			courses = []ResultSet{}
		}
		return r[i].Term, courses
	})
}

func (r *CourseValidationResult) UnmarshalJSON(data []byte) error {
	out := CourseValidationResult{}
	err := decodeOrderedObject(data, func(term string, dec *json.Decoder) error {
		var courses []ResultSet
		if err := dec.Decode(&courses); err != nil {
			return err
		}
		out = append(out, TermResult{Term: term, Courses: courses})
		return nil
	})
	if err != nil {
		return err
	}
	*r = out
	return nil
}

// ScheduleValidationOutput is the full, structured verdict on a schedule.
type ScheduleValidationOutput struct {
	CourseValidationResult CourseValidationResult    `json:"course_validation_result"`
	DegreeValidationResult []OverallValidationResult `json:"degree_validation_result"`
	OverallResult          bool                      `json:"overall_result"`
}

// FailedCourseCount returns how many scheduled courses have at least one failure.
func (o *ScheduleValidationOutput) FailedCourseCount() int {
	n := 0
	for _, tr := range o.CourseValidationResult {
		for _, rs := range tr.Courses {
			if len(rs) > 0 {
				n++
			}
		}
	}
	return n
}

// ValidateScheduleRequest is the payload for validating a schedule. Minors and
// specializations add their requirements to the degree's.
type ValidateScheduleRequest struct {
	Schedule        Schedule `json:"schedule"`
	Degree          string   `json:"degree" binding:"required,max=255"`
	Minors          []string `json:"minors" binding:"omitempty,max=4,dive,required,max=255"`
	Specializations []string `json:"specializations" binding:"omitempty,max=4,dive,required,max=255"`
	Sequence        string   `json:"sequence" binding:"omitempty,max=64"`
}

// Plan returns the programs named by the request.
func (r *ValidateScheduleRequest) Plan() AcademicPlan {
	return AcademicPlan{
		Degree:          r.Degree,
		Minors:          r.Minors,
		Specializations: r.Specializations,
	}
}
