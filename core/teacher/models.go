package teacher

import (
	"context"
	"time"

	"github.com/trezcool/shule/core"
)

// Statuses
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Teacher is the role-specific profile attached to a User identity record.
// TeacherID is the natural key (employee number).
type Teacher struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	TeacherID  string    `json:"teacher_id" bson:"teacher_id"`
	UserID     string    `json:"user_id" bson:"user_id"`
	Subjects   []string  `json:"subjects" bson:"subjects"`
	HireDate   time.Time `json:"hire_date" bson:"hire_date"`
	ClassIDs   []string  `json:"class_ids" bson:"class_ids"` // classes taught
	Department string    `json:"department" bson:"department"`
	Status     string    `json:"status" bson:"status"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

func (t *Teacher) IsActive() bool { return t.Status == StatusActive }

// TeachesClass reports whether the given class is among the teacher's taught classes.
func (t *Teacher) TeachesClass(classID string) bool {
	for _, cid := range t.ClassIDs {
		if cid == classID {
			return true
		}
	}
	return false
}

// NewTeacher contains information needed to create a new Teacher.
type NewTeacher struct {
	TeacherID  string    `json:"teacher_id" validate:"required"`
	UserID     string    `json:"user_id" validate:"required"`
	Subjects   []string  `json:"subjects" validate:"required,min=1"`
	HireDate   time.Time `json:"hire_date" validate:"required"`
	ClassIDs   []string  `json:"class_ids"`
	Department string    `json:"department"`
}

func (nt *NewTeacher) Validate(ctx context.Context, svc Service) error {
	nt.TeacherID = core.CleanString(nt.TeacherID, true /* lower */)

	if err := core.Validate.Struct(nt); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, nt.TeacherID)
}

// UpdateTeacher defines what information may be provided to modify an existing Teacher.
type UpdateTeacher struct {
	Subjects   []string `json:"subjects"`
	ClassIDs   []string `json:"class_ids"`
	Department string   `json:"department"`
	Status     string   `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (ut *UpdateTeacher) Validate(origTch Teacher) error {
	if ut.Subjects == nil {
		ut.Subjects = origTch.Subjects
	}
	if ut.ClassIDs == nil {
		ut.ClassIDs = origTch.ClassIDs
	}
	if ut.Department == "" {
		ut.Department = origTch.Department
	}
	if ut.Status == "" {
		ut.Status = origTch.Status
	}
	return core.Validate.Struct(ut)
}
