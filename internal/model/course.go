package model

import "strings"

// Season is the calendar offering window a course runs in.
type Season string

const (
	SeasonFall   Season = "F"
	SeasonWinter Season = "W"
	SeasonSpring Season = "S"
)

// Valid reports whether s is one of the three offering seasons.
func (s Season) Valid() bool {
	switch s {
	case SeasonFall, SeasonWinter, SeasonSpring:
		return true
	}
	return false
}

// Course represents a catalog course as placed in a student's schedule.
type Course struct {
	CourseID     string   `json:"course_id"`
	Subject      string   `json:"subject,omitempty"`
	Code         string   `json:"code,omitempty"`
	Name         string   `json:"name,omitempty"`
	Availability []Season `json:"availability"`
}

// ID returns the course identifier ("CS 135"), falling back to subject + code
// when the identifier was not supplied.
func (c Course) ID() string {
	if c.CourseID != "" {
		return c.CourseID
	}
	return strings.TrimSpace(c.Subject + " " + c.Code)
}

// OfferedIn reports whether the course runs in the given season.
func (c Course) OfferedIn(season Season) bool {
	for _, s := range c.Availability {
		if s == season {
			return true
		}
	}
	return false
}

// CourseIDName is the lightweight projection used by plan pickers.
type CourseIDName struct {
	CourseID string `json:"course_id"`
	Name     string `json:"name"`
}

// ParsedPrereqData is the parsed requirement metadata of one course.
//
// Courses is a disjunction of conjunctions: any one inner list satisfies the
// prerequisite when every course in it has been taken.
type ParsedPrereqData struct {
	CourseID     string     `json:"course_id"`
	MinimumLevel string     `json:"minimum_level"`
	Courses      [][]string `json:"courses"`
}

// HasPrerequisite reports whether at least one alternative names a course.
func (p ParsedPrereqData) HasPrerequisite() bool {
	for _, alt := range p.Courses {
		if len(alt) > 0 {
			return true
		}
	}
	return false
}
