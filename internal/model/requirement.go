package model

// Requirements is a parsed requirement tree: courses that must all be taken
// plus groups where any NOf of the listed courses satisfy the group.
type Requirements struct {
	MandatoryCourses []string              `json:"mandatory_courses" yaml:"mandatory_courses"`
	OptionalCourses  []OptionalRequirement `json:"optional_courses" yaml:"optional_courses"`
}

// OptionalRequirement is an "n of" course group.
type OptionalRequirement struct {
	NOf     int      `json:"n_of" yaml:"n_of"`
	Courses []string `json:"courses" yaml:"courses"`
}

// RequiredCourseCount is the minimum number of courses the tree demands.
func (r Requirements) RequiredCourseCount() int {
	n := len(r.MandatoryCourses)
	for _, opt := range r.OptionalCourses {
		if opt.NOf > 0 {
			n += opt.NOf
		}
	}
	return n
}

// Merge combines two trees, dropping duplicate mandatory courses.
func (r Requirements) Merge(other Requirements) Requirements {
	out := Requirements{
		MandatoryCourses: append([]string{}, r.MandatoryCourses...),
		OptionalCourses:  append([]OptionalRequirement{}, r.OptionalCourses...),
	}
	seen := make(map[string]struct{}, len(out.MandatoryCourses))
	for _, c := range out.MandatoryCourses {
		seen[c] = struct{}{}
	}
	for _, c := range other.MandatoryCourses {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out.MandatoryCourses = append(out.MandatoryCourses, c)
	}
	out.OptionalCourses = append(out.OptionalCourses, other.OptionalCourses...)
	return out
}
