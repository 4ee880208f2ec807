package student

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

// Student is the role-specific profile attached to a User identity record.
// StudentID is the natural key (registration number).
type Student struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	StudentID     string    `json:"student_id" bson:"student_id"`
	UserID        string    `json:"user_id" bson:"user_id"`
	ClassID       string    `json:"class_id" bson:"class_id"`
	AdmissionDate time.Time `json:"admission_date" bson:"admission_date"`
	ParentIDs     []string  `json:"parent_ids" bson:"parent_ids"` // User ids of parents
	Subjects      []string  `json:"subjects" bson:"subjects"`
	Status        string    `json:"status" bson:"status"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

func (s *Student) IsActive() bool { return s.Status == StatusActive }

// HasParent reports whether the given User id is among the student's parents.
func (s *Student) HasParent(userID string) bool {
	for _, pid := range s.ParentIDs {
		if pid == userID {
			return true
		}
	}
	return false
}

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	StudentID     string    `json:"student_id" validate:"required"`
	UserID        string    `json:"user_id" validate:"required"`
	ClassID       string    `json:"class_id" validate:"required"`
	AdmissionDate time.Time `json:"admission_date" validate:"required"`
	ParentIDs     []string  `json:"parent_ids"`
	Subjects      []string  `json:"subjects"`
}

func (ns *NewStudent) Validate(ctx context.Context, svc Service) error {
	ns.StudentID = core.CleanString(ns.StudentID, true /* lower */)

	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	return svc.CheckUniqueness(ctx, ns.StudentID)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	ClassID   string   `json:"class_id"`
	ParentIDs []string `json:"parent_ids"`
	Subjects  []string `json:"subjects"`
	Status    string   `json:"status" validate:"omitempty,oneof=active inactive"`
}

func (us *UpdateStudent) Validate(origStd Student) error {
	if us.ClassID == "" {
		us.ClassID = origStd.ClassID
	}
	if us.ParentIDs == nil {
		us.ParentIDs = origStd.ParentIDs
	}
	if us.Subjects == nil {
		us.Subjects = origStd.Subjects
	}
	if us.Status == "" {
		us.Status = origStd.Status
	}
	return core.Validate.Struct(us)
}
