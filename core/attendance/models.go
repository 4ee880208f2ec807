package attendance

import (
	"time"

	"github.com/trezcool/shule/core"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
)

// Attendance records one student's presence for one calendar day. At most one
// record exists per (student, date) pair; marking again replaces the status.
type Attendance struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	StudentID string    `json:"student_id" bson:"student_id"` // Student record id
	ClassID   string    `json:"class_id" bson:"class_id"`
	Date      time.Time `json:"date" bson:"date"` // UTC midnight
	Status    Status    `json:"status" bson:"status"`
	Remarks   string    `json:"remarks,omitempty" bson:"remarks,omitempty"`
	MarkedBy  string    `json:"marked_by" bson:"marked_by"` // User id
	CreatedAt time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

// MarkAttendance contains information needed to mark a student's attendance.
type MarkAttendance struct {
	StudentID string    `json:"student_id" validate:"required"`
	ClassID   string    `json:"class_id" validate:"required"`
	Date      time.Time `json:"date" validate:"required"`
	Status    Status    `json:"status" validate:"required,oneof=present absent late"`
	Remarks   string    `json:"remarks"`
	MarkedBy  string    `json:"marked_by"`
}

func (ma *MarkAttendance) Validate() error {
	ma.Remarks = core.CleanString(ma.Remarks)
	return core.Validate.Struct(ma)
}

// DateOf truncates t to its UTC calendar day, the composite-key granularity.
func DateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
