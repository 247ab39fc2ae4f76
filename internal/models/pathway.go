package models

import "github.com/jmoiron/sqlx/types"

// Requirement ties a pathway to a required course code.
type Requirement struct {
	CourseCode string `json:"course_code"`
	MinGrade   string `json:"min_grade,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// Pathway is a named set of course requirements a student can be planning toward.
type Pathway struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Requirements types.JSONText `db:"requirements" json:"requirements"`
}

// RequirementCodes decodes the stored requirements into plain course codes.
func (p Pathway) RequirementCodes() ([]string, error) {
	var reqs []Requirement
	if len(p.Requirements) == 0 {
		return nil, nil
	}
	if err := p.Requirements.Unmarshal(&reqs); err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(reqs))
	for _, r := range reqs {
		codes = append(codes, r.CourseCode)
	}
	return codes, nil
}
