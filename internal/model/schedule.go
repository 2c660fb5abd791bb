package model

import "encoding/json"

// TermCourses is one term of a schedule with its courses in listed order.
type TermCourses struct {
	Term    string   `json:"term"`
	Courses []Course `json:"courses"`
}

// Schedule is a chronological sequence of terms. Its JSON form is an object
// keyed by term label; key order is preserved in both directions because it
// defines the order in which courses count as taken.
type Schedule []TermCourses

// Courses returns the courses scheduled in term, or nil if the term is absent.
func (s Schedule) Courses(term string) []Course {
	for _, tc := range s {
		if tc.Term == term {
			return tc.Courses
		}
	}
	return nil
}

// CourseIDs flattens every scheduled course identifier in schedule order.
func (s Schedule) CourseIDs() []string {
	var ids []string
	for _, tc := range s {
		for _, c := range tc.Courses {
			ids = append(ids, c.ID())
		}
	}
	return ids
}

// CourseCount returns the number of scheduled course entries.
func (s Schedule) CourseCount() int {
	n := 0
	for _, tc := range s {
		n += len(tc.Courses)
	}
	return n
}

func (s Schedule) MarshalJSON() ([]byte, error) {
	return encodeOrderedObject(len(s), func(i int) (string, interface{}) {
		courses := s[i].Courses
		if courses == nil {
			courses = []Course{}
		}
		return s[i].Term, courses
	})
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	out := Schedule{}
	err := decodeOrderedObject(data, func(term string, dec *json.Decoder) error {
		var courses []Course
		if err := dec.Decode(&courses); err != nil {
			return err
		}
		out = append(out, TermCourses{Term: term, Courses: courses})
		return nil
	})
	if err != nil {
		return err
	}
	*s = out
	return nil
}

// TermSeason pairs a term label with the season it falls in.
type TermSeason struct {
	Term   string `json:"term" yaml:"term"`
	Season Season `json:"season" yaml:"season"`
}

// SequenceMap is the ordered term-to-season mapping of a study sequence.
type SequenceMap []TermSeason

// Season looks up the season of term.
func (m SequenceMap) Season(term string) (Season, bool) {
	for _, ts := range m {
		if ts.Term == term {
			return ts.Season, true
		}
	}
	return "", false
}

// Terms returns the term labels in sequence order.
func (m SequenceMap) Terms() []string {
	terms := make([]string, len(m))
	for i, ts := range m {
		terms[i] = ts.Term
	}
	return terms
}

func (m SequenceMap) MarshalJSON() ([]byte, error) {
	return encodeOrderedObject(len(m), func(i int) (string, interface{}) {
		return m[i].Term, m[i].Season
	})
}

func (m *SequenceMap) UnmarshalJSON(data []byte) error {
	out := SequenceMap{}
	err := decodeOrderedObject(data, func(term string, dec *json.Decoder) error {
		var season Season
		if err := dec.Decode(&season); err != nil {
			return err
		}
		out = append(out, TermSeason{Term: term, Season: season})
		return nil
	})
	if err != nil {
		return err
	}
	*m = out
	return nil
}
