package models

// Course represents a catalog course identified by its course code.
type Course struct {
	Code        string `db:"code" json:"code"`
	Title       string `db:"title" json:"title"`
	Credits     int    `db:"credits" json:"credits"`
	Department  string `db:"department" json:"department"`
	Description string `db:"description" json:"description,omitempty"`
}

// PrerequisiteEdge records that CourseCode requires RequiresCode to be completed first.
type PrerequisiteEdge struct {
	CourseCode   string `db:"course_code" json:"course_code"`
	RequiresCode string `db:"requires_code" json:"requires_code"`
}

// CorequisiteEdge records that CourseCode must be taken in the same term as WithCode.
type CorequisiteEdge struct {
	CourseCode string `db:"course_code" json:"course_code"`
	WithCode   string `db:"with_code" json:"with_code"`
}
