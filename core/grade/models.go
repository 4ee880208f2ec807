package grade

import (
	"time"

	"github.com/trezcool/shule/core"
)

// Grade records a student's score on one assignment. At most one record
// exists per (student, assignment) pair; recording again replaces the score
// and recomputes the percentage.
type Grade struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	StudentID    string    `json:"student_id" bson:"student_id"` // Student record id
	AssignmentID string    `json:"assignment_id" bson:"assignment_id"`
	PointsEarned float64   `json:"points_earned" bson:"points_earned"`
	MaxPoints    float64   `json:"max_points" bson:"max_points"`
	Percentage   float64   `json:"percentage" bson:"percentage"` // earned/max * 100
	GradedBy     string    `json:"graded_by" bson:"graded_by"`   // User id
	Comments     string    `json:"comments,omitempty" bson:"comments,omitempty"`
	GradedAt     time.Time `json:"graded_at" bson:"graded_at"`   // UTC
	CreatedAt    time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

// Letter returns the letter grade for the record's percentage.
func (g *Grade) Letter() string { return LetterGrade(g.Percentage) }

// RecordGrade contains information needed to record a Grade.
type RecordGrade struct {
	StudentID    string  `json:"student_id" validate:"required"`
	AssignmentID string  `json:"assignment_id" validate:"required"`
	PointsEarned float64 `json:"points_earned" validate:"gte=0"`
	MaxPoints    float64 `json:"max_points" validate:"required,gt=0"`
	GradedBy     string  `json:"graded_by" validate:"required"`
	Comments     string  `json:"comments"`
}

func (rg *RecordGrade) Validate() error {
	rg.Comments = core.CleanString(rg.Comments)
	return core.Validate.Struct(rg)
}

// gradeScale is the fixed letter boundary table; entries are checked in
// order, first match wins.
var gradeScale = []struct {
	letter string
	min    float64
}{
	{"A+", 95},
	{"A", 90},
	{"B+", 85},
	{"B", 80},
	{"C+", 75},
	{"C", 70},
	{"D", 60},
	{"F", 0},
}

// LetterGrade maps a percentage score to its letter grade.
func LetterGrade(pct float64) string {
	for _, b := range gradeScale {
		if pct >= b.min {
			return b.letter
		}
	}
	return "F"
}
