package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uwplan/planner-backend/internal/model"
)

func TestCommunicationRuleUnknownProgram(t *testing.T) {
	findings := NewCommunicationRule().Check(&DegreeCheck{Degree: "Astrology"})
	assert.Equal(t, []model.OverallValidationResult{model.OverallNoSuchMajor}, findings)
}

func TestCommunicationRuleCoversListOne(t *testing.T) {
	rule := NewCommunicationRule()
	program := &model.Program{Name: "Mathematics"}

	for _, id := range ListOneCommunicationCourses {
		findings := rule.Check(&DegreeCheck{
			Program:  program,
			Schedule: model.Schedule{{Term: "1B", Courses: []model.Course{course(id)}}},
		})
		assert.Equal(t, []model.OverallValidationResult{model.OverallSuccess}, findings, id)
	}

	findings := rule.Check(&DegreeCheck{
		Program:  program,
		Schedule: model.Schedule{{Term: "1A", Courses: []model.Course{course("ENGL 119")}}},
	})
	assert.Equal(t, []model.OverallValidationResult{model.OverallCommunicationCourseTooLate}, findings)
}

func TestRequirementRule(t *testing.T) {
	program := &model.Program{
		Name: "Statistics",
		Requirements: &model.Requirements{
			MandatoryCourses: []string{"STAT 230", "STAT 231"},
			OptionalCourses:  []model.OptionalRequirement{{NOf: 2, Courses: []string{"STAT 330", "STAT 331", "STAT 332"}}},
		},
	}
	sched := func(ids ...string) model.Schedule {
		courses := make([]model.Course, len(ids))
		for i, id := range ids {
			courses[i] = course(id)
		}
		return model.Schedule{{Term: "2A", Courses: courses}}
	}

	tests := []struct {
		name     string
		schedule model.Schedule
		expected []model.OverallValidationResult
	}{
		{
			name:     "satisfied",
			schedule: sched("STAT 230", "STAT 231", "STAT 330", "STAT 332"),
			expected: nil,
		},
		{
			name:     "enough courses but option group short",
			schedule: sched("STAT 230", "STAT 231", "STAT 330", "CS 135"),
			expected: []model.OverallValidationResult{model.OverallNotMeetDegreeRequirement},
		},
		{
			name:     "duplicates do not count twice",
			schedule: sched("STAT 230", "STAT 230", "STAT 231", "STAT 330"),
			expected: []model.OverallValidationResult{model.OverallNotEnoughCourse, model.OverallNotMeetDegreeRequirement},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findings := RequirementRule{}.Check(&DegreeCheck{Program: program, Schedule: tt.schedule})
			assert.Equal(t, tt.expected, findings)
		})
	}

	assert.Nil(t, RequirementRule{}.Check(&DegreeCheck{Program: &model.Program{Name: "No tree"}}))
}

func TestDegreeEngineDropsSuccess(t *testing.T) {
	engine := NewDegreeEngine()
	findings := engine.Evaluate(&DegreeCheck{
		Program:  &model.Program{Name: "Mathematics"},
		Schedule: model.Schedule{{Term: "1A", Courses: []model.Course{course("ENGL 109")}}},
	})

	assert.NotNil(t, findings)
	assert.Empty(t, findings)
}
