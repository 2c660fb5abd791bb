package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uwplan/planner-backend/internal/model"
)

func check(id, termLabel string, season model.Season, taken ...string) *CourseCheck {
	t := make(Taken, len(taken))
	for _, c := range taken {
		t[c] = struct{}{}
	}
	return &CourseCheck{
		Course:    course(id, model.SeasonFall),
		Term:      termLabel,
		Season:    season,
		HasSeason: true,
		Taken:     t,
		Prereqs:   catalog,
	}
}

func TestAvailabilityRule(t *testing.T) {
	assert.Equal(t, model.ResultSuccess, AvailabilityRule{}.Check(check("CS 135", "1A", model.SeasonFall)))
	assert.Equal(t, model.ResultTermUnavailable, AvailabilityRule{}.Check(check("CS 135", "1A", model.SeasonSpring)))

	noSeason := check("CS 135", "1A", model.SeasonFall)
	noSeason.HasSeason = false
	assert.Equal(t, model.ResultTermUnavailable, AvailabilityRule{}.Check(noSeason))
}

func TestMinimumLevelRule(t *testing.T) {
	tests := []struct {
		name     string
		course   string
		term     string
		expected model.ValidationResult
	}{
		{"at minimum", "CS 341", "3A", model.ResultSuccess},
		{"above minimum", "CS 341", "4B", model.ResultSuccess},
		{"below minimum", "CS 341", "2B", model.ResultNotMeetMinLvl},
		{"work term before minimum year", "CS 341", "WT2", model.ResultNotMeetMinLvl},
		{"work term after minimum", "CS 246", "WT1", model.ResultSuccess},
		{"unknown course", "PHYS 999", "1A", model.ResultNoSuchCourse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MinimumLevelRule{}.Check(check(tt.course, tt.term, model.SeasonFall)))
		})
	}
}

func TestPrerequisiteRule(t *testing.T) {
	tests := []struct {
		name     string
		course   string
		taken    []string
		expected model.ValidationResult
	}{
		{"no alternatives", "CS 135", nil, model.ResultSuccess},
		{"only empty alternatives", "CS 145", nil, model.ResultSuccess},
		{"first alternative", "CS 136", []string{"CS 135"}, model.ResultSuccess},
		{"second alternative", "CS 136", []string{"CS 145"}, model.ResultSuccess},
		{"nothing taken", "CS 136", nil, model.ResultNotMeetPreReq},
		{"conjunction complete", "CS 246", []string{"MATH 135", "CS 136"}, model.ResultSuccess},
		{"conjunction partial", "CS 246", []string{"CS 136"}, model.ResultNotMeetPreReq},
		{"unknown course", "PHYS 999", []string{"CS 135"}, model.ResultNoSuchCourse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PrerequisiteRule{}.Check(check(tt.course, "2A", model.SeasonFall, tt.taken...)))
		})
	}
}

func TestPrerequisiteRuleIgnoresAlternativeOrder(t *testing.T) {
	forward := model.ParsedPrereqData{CourseID: "STAT 231", Courses: [][]string{{"STAT 230"}, {"STAT 240", "MATH 237"}}}
	reversed := model.ParsedPrereqData{CourseID: "STAT 231", Courses: [][]string{{"STAT 240", "MATH 237"}, {"STAT 230"}}}

	for _, prereq := range []model.ParsedPrereqData{forward, reversed} {
		c := check("STAT 231", "2B", model.SeasonFall, "MATH 237", "STAT 240")
		c.Prereqs = map[string]model.ParsedPrereqData{"STAT 231": prereq}
		assert.Equal(t, model.ResultSuccess, PrerequisiteRule{}.Check(c))
	}
}

func TestPlaceholderRulesPass(t *testing.T) {
	c := check("PHYS 999", "1A", model.SeasonSpring)
	for _, rule := range []CourseRule{CoRequisiteRule{}, AntiRequisiteRule{}, OpenToRule{}} {
		assert.Equal(t, model.ResultSuccess, rule.Check(c), rule.Name())
	}
}

func TestCourseEngineEvaluate(t *testing.T) {
	engine := NewCourseEngine()

	assert.Equal(t,
		[]string{"availability", "minimum_level", "prerequisite", "co_requisite", "anti_requisite", "open_to"},
		engine.Rules())
	assert.Equal(t, model.ResultSet{model.ResultSuccess}, engine.Evaluate(check("CS 135", "1A", model.SeasonFall)))
	assert.Equal(t,
		model.ResultSet{model.ResultTermUnavailable, model.ResultNoSuchCourse},
		engine.Evaluate(check("PHYS 999", "1A", model.SeasonWinter)))
}
