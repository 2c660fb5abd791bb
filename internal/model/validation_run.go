package model

import (
	"time"

	"github.com/google/uuid"
)

// ValidationRun is the audit record of one schedule validation.
type ValidationRun struct {
	ID                uuid.UUID `json:"id"`
	Degree            string    `json:"degree"`
	Sequence          string    `json:"sequence"`
	CourseCount       int       `json:"course_count"`
	FailedCourseCount int       `json:"failed_course_count"`
	DegreeFindings    []string  `json:"degree_findings"`
	OverallResult     bool      `json:"overall_result"`
	CreatedAt         time.Time `json:"created_at"`
}
