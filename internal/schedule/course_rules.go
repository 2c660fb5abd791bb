package schedule

import (
	"github.com/uwplan/planner-backend/internal/model"
	"github.com/uwplan/planner-backend/internal/term"
)

// CourseCheck is everything a course rule may inspect for one scheduled course.
type CourseCheck struct {
	Course model.Course
	Term   string
	// Season is the season of Term in the student's sequence. HasSeason is
	// false when the sequence does not contain Term.
	Season    model.Season
	HasSeason bool
	// Taken holds the courses scheduled in strictly earlier terms.
	Taken Taken
	// Scheduled lists every course in the schedule, in schedule order.
	Scheduled []string
	Degree    string
	Prereqs   map[string]model.ParsedPrereqData
}

// Taken is the set of course IDs completed before the term being checked.
type Taken map[string]struct{}

// Has reports whether courseID was taken.
func (t Taken) Has(courseID string) bool {
	_, ok := t[courseID]
	return ok
}

// HasAll reports whether every course in ids was taken.
func (t Taken) HasAll(ids []string) bool {
	for _, id := range ids {
		if !t.Has(id) {
			return false
		}
	}
	return true
}

// CourseRule is one independent course-level check. Implementations return
// model.ResultSuccess when the course passes.
type CourseRule interface {
	Name() string
	Check(c *CourseCheck) model.ValidationResult
}

// CourseRuleFunc adapts a function to CourseRule.
type CourseRuleFunc struct {
	RuleName string
	Fn       func(c *CourseCheck) model.ValidationResult
}

func (f CourseRuleFunc) Name() string { return f.RuleName }

func (f CourseRuleFunc) Check(c *CourseCheck) model.ValidationResult { return f.Fn(c) }

// DefaultCourseRules returns the course rules in evaluation order.
func DefaultCourseRules() []CourseRule {
	return []CourseRule{
		AvailabilityRule{},
		MinimumLevelRule{},
		PrerequisiteRule{},
		CoRequisiteRule{},
		AntiRequisiteRule{},
		OpenToRule{},
	}
}

// AvailabilityRule fails when the course is not offered in the term's season.
type AvailabilityRule struct{}

func (AvailabilityRule) Name() string { return "availability" }

func (AvailabilityRule) Check(c *CourseCheck) model.ValidationResult {
	if !c.HasSeason || !c.Course.OfferedIn(c.Season) {
		return model.ResultTermUnavailable
	}
	return model.ResultSuccess
}

// MinimumLevelRule fails when the course is scheduled before its minimum level.
type MinimumLevelRule struct{}

func (MinimumLevelRule) Name() string { return "minimum_level" }

func (MinimumLevelRule) Check(c *CourseCheck) model.ValidationResult {
	prereq, ok := c.Prereqs[c.Course.ID()]
	if !ok {
		return model.ResultNoSuchCourse
	}
	if !term.AtLeast(c.Term, prereq.MinimumLevel) {
		return model.ResultNotMeetMinLvl
	}
	return model.ResultSuccess
}

// PrerequisiteRule passes when any one alternative is fully contained in the
// courses taken in earlier terms.
type PrerequisiteRule struct{}

func (PrerequisiteRule) Name() string { return "prerequisite" }

func (PrerequisiteRule) Check(c *CourseCheck) model.ValidationResult {
	prereq, ok := c.Prereqs[c.Course.ID()]
	if !ok {
		return model.ResultNoSuchCourse
	}
	if !prereq.HasPrerequisite() {
		return model.ResultSuccess
	}
	for _, alternative := range prereq.Courses {
		if len(alternative) == 0 {
			continue
		}
		if c.Taken.HasAll(alternative) {
			return model.ResultSuccess
		}
	}
	return model.ResultNotMeetPreReq
}

// CoRequisiteRule will check courses that must be taken in the same term.
// No co-requisite data is parsed yet, so it always passes.
type CoRequisiteRule struct{}

func (CoRequisiteRule) Name() string { return "co_requisite" }

func (CoRequisiteRule) Check(*CourseCheck) model.ValidationResult {
	return model.ResultSuccess
}

// AntiRequisiteRule will check mutually exclusive courses. No anti-requisite
// data is parsed yet, so it always passes.
type AntiRequisiteRule struct{}

func (AntiRequisiteRule) Name() string { return "anti_requisite" }

func (AntiRequisiteRule) Check(*CourseCheck) model.ValidationResult {
	return model.ResultSuccess
}

// OpenToRule will enforce "only open to" and "not open to" program
// restrictions. It always passes until enrolment restrictions are parsed.
type OpenToRule struct{}

func (OpenToRule) Name() string { return "open_to" }

func (OpenToRule) Check(*CourseCheck) model.ValidationResult {
	return model.ResultSuccess
}

// CourseEngine runs a fixed list of course rules.
type CourseEngine struct {
	rules []CourseRule
}

// NewCourseEngine builds an engine over rules, or DefaultCourseRules when none
// are given.
func NewCourseEngine(rules ...CourseRule) *CourseEngine {
	if len(rules) == 0 {
		rules = DefaultCourseRules()
	}
	return &CourseEngine{rules: rules}
}

// Rules returns the rule names in evaluation order.
func (e *CourseEngine) Rules() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name()
	}
	return names
}

// Evaluate runs every rule and returns the failed results, or the singleton
// {Success} when all rules pass.
func (e *CourseEngine) Evaluate(c *CourseCheck) model.ResultSet {
	results := model.ResultSet{}
	for _, rule := range e.rules {
		results = results.Add(rule.Check(c))
	}
	failures := results.Failures()
	if len(failures) == 0 {
		return model.ResultSet{model.ResultSuccess}
	}
	return failures
}
