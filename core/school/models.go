package school

import (
	"context"
	"time"

	"github.com/trezcool/shule/core"
)

// Class is a group of students taught by one or more teachers during an
// academic year. Code is the natural key.
type Class struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Code         string    `json:"class_code" bson:"class_code"`
	Name         string    `json:"class_name" bson:"class_name"`
	GradeLevel   string    `json:"grade_level" bson:"grade_level"`
	AcademicYear string    `json:"academic_year" bson:"academic_year"`
	MaxStudents  int       `json:"max_students" bson:"max_students"`
	Subjects     []string  `json:"subjects" bson:"subjects"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Code         string   `json:"class_code" validate:"required"`
	Name         string   `json:"class_name" validate:"required"`
	GradeLevel   string   `json:"grade_level" validate:"required"`
	AcademicYear string   `json:"academic_year" validate:"required"`
	MaxStudents  int      `json:"max_students" validate:"omitempty,min=1"`
	Subjects     []string `json:"subjects"`
}

func (nc *NewClass) Validate(ctx context.Context, svc Service) error {
	nc.Code = core.CleanString(nc.Code, true /* lower */)
	nc.Name = core.CleanString(nc.Name)

	if err := core.Validate.Struct(nc); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nc.Code)
}

// UpdateClass defines what information may be provided to modify an existing Class.
type UpdateClass struct {
	Name        string   `json:"class_name"`
	GradeLevel  string   `json:"grade_level"`
	MaxStudents int      `json:"max_students" validate:"omitempty,min=1"`
	Subjects    []string `json:"subjects"`
	IsActive    *bool    `json:"is_active"`
}

func (uc *UpdateClass) Validate(origCls Class) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = origCls.Name
	}
	if uc.GradeLevel == "" {
		uc.GradeLevel = origCls.GradeLevel
	}
	if uc.MaxStudents == 0 {
		uc.MaxStudents = origCls.MaxStudents
	}
	if uc.Subjects == nil {
		uc.Subjects = origCls.Subjects
	}
	return core.Validate.Struct(uc)
}
