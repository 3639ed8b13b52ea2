package models

import "encoding/json"

type PersonalInfo struct {
	FirstName string `json:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName"`
	Email     string `json:"email" yaml:"email"`
	Phone     string `json:"phone" yaml:"phone"`
	City      string `json:"city" yaml:"city"`
	State     string `json:"state" yaml:"state"`
	LinkedIn  string `json:"linkedIn" yaml:"linkedIn"`
	GitHub    string `json:"gitHub" yaml:"gitHub"`
	Summary   string `json:"summary" yaml:"summary"`
}

type SkillEntry struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

type JobEntry struct {
	Title       string `json:"title" yaml:"title"`
	Company     string `json:"company" yaml:"company"`
	Location    string `json:"location" yaml:"location"`
	Start       string `json:"start" yaml:"start"`
	End         string `json:"end" yaml:"end"`
	Description string `json:"description" yaml:"description"`
}

type EducationEntry struct {
	Degree   string `json:"degree" yaml:"degree"`
	School   string `json:"school" yaml:"school"`
	GradYear string `json:"gradYear" yaml:"gradYear"`
}

type ParsedResume struct {
	Personal  PersonalInfo     `json:"personal" yaml:"personal"`
	Skills    []SkillEntry     `json:"skills" yaml:"skills"`
	Jobs      []JobEntry       `json:"jobs" yaml:"jobs"`
	Education []EducationEntry `json:"education" yaml:"education"`
}

// MarshalJSON always writes the lists as arrays, never null.
func (r ParsedResume) MarshalJSON() ([]byte, error) {
	type alias ParsedResume

	out := alias(r)
	if out.Skills == nil {
		out.Skills = []SkillEntry{}
	}
	if out.Jobs == nil {
		out.Jobs = []JobEntry{}
	}
	if out.Education == nil {
		out.Education = []EducationEntry{}
	}

	return json.Marshal(out)
}
