package schedule

import (
	"github.com/uwplan/planner-backend/internal/model"
)

// ListOneCommunicationCourses are the approved List 1 communication courses.
var ListOneCommunicationCourses = []string{
	"COMMST 100",
	"COMMST 223",
	"EMLS 101R",
	"EMLS 102R",
	"EMLS 129R",
	"ENGL 129R",
	"ENGL 109",
}

// DegreeCheck is the whole-plan input of degree rules.
type DegreeCheck struct {
	Schedule model.Schedule
	Degree   string
	// Program is nil when the degree name is unknown.
	Program  *model.Program
	Sequence model.SequenceMap
}

// DegreeRule is one whole-plan check. It returns zero or more findings;
// model.OverallSuccess entries are dropped by the engine.
type DegreeRule interface {
	Name() string
	Check(d *DegreeCheck) []model.OverallValidationResult
}

// DefaultDegreeRules returns the degree rules in evaluation order.
func DefaultDegreeRules() []DegreeRule {
	return []DegreeRule{
		NewCommunicationRule(),
		RequirementRule{},
	}
}

// CommunicationRule checks when the first List 1 communication course is taken.
// Double-degree students need it in DoubleDegreeTerms, everyone else within
// StandardTerms.
type CommunicationRule struct {
	Courses           map[string]struct{}
	DoubleDegreeTerms []string
	StandardTerms     []string
}

// NewCommunicationRule returns the rule over ListOneCommunicationCourses.
func NewCommunicationRule() CommunicationRule {
	courses := make(map[string]struct{}, len(ListOneCommunicationCourses))
	for _, c := range ListOneCommunicationCourses {
		courses[c] = struct{}{}
	}
	return CommunicationRule{
		Courses:           courses,
		DoubleDegreeTerms: []string{"1A"},
		StandardTerms:     []string{"1A", "1B", "WT1"},
	}
}

func (CommunicationRule) Name() string { return "communication_course" }

func (r CommunicationRule) Check(d *DegreeCheck) []model.OverallValidationResult {
	if d.Program == nil {
		return []model.OverallValidationResult{model.OverallNoSuchMajor}
	}

	terms := r.StandardTerms
	if d.Program.IsDoubleDegree {
		terms = r.DoubleDegreeTerms
	}
	for _, t := range terms {
		for _, c := range d.Schedule.Courses(t) {
			if _, ok := r.Courses[c.ID()]; ok {
				return []model.OverallValidationResult{model.OverallSuccess}
			}
		}
	}
	return []model.OverallValidationResult{model.OverallCommunicationCourseTooLate}
}

// RequirementRule counts the scheduled courses against the program's
// requirement tree. Programs without a tree are not checked.
type RequirementRule struct{}

func (RequirementRule) Name() string { return "degree_requirement" }

func (RequirementRule) Check(d *DegreeCheck) []model.OverallValidationResult {
	if d.Program == nil || d.Program.Requirements == nil {
		return nil
	}
	req := d.Program.Requirements

	scheduled := make(Taken)
	for _, id := range d.Schedule.CourseIDs() {
		scheduled[id] = struct{}{}
	}

	var findings []model.OverallValidationResult
	if len(scheduled) < req.RequiredCourseCount() {
		findings = append(findings, model.OverallNotEnoughCourse)
	}
	if !scheduled.HasAll(req.MandatoryCourses) || !optionsMet(req.OptionalCourses, scheduled) {
		findings = append(findings, model.OverallNotMeetDegreeRequirement)
	}
	return findings
}

func optionsMet(options []model.OptionalRequirement, scheduled Taken) bool {
	for _, opt := range options {
		matched := 0
		for _, c := range opt.Courses {
			if scheduled.Has(c) {
				matched++
			}
		}
		if matched < opt.NOf {
			return false
		}
	}
	return true
}

// DegreeEngine runs a fixed list of degree rules.
type DegreeEngine struct {
	rules []DegreeRule
}

// NewDegreeEngine builds an engine over rules, or DefaultDegreeRules when none
// are given.
func NewDegreeEngine(rules ...DegreeRule) *DegreeEngine {
	if len(rules) == 0 {
		rules = DefaultDegreeRules()
	}
	return &DegreeEngine{rules: rules}
}

// Evaluate returns the non-Success findings of every rule in rule order. The
// result is never nil.
func (e *DegreeEngine) Evaluate(d *DegreeCheck) []model.OverallValidationResult {
	findings := []model.OverallValidationResult{}
	for _, rule := range e.rules {
		for _, f := range rule.Check(d) {
			if f != model.OverallSuccess {
				findings = append(findings, f)
			}
		}
	}
	return findings
}
