package assignment

import (
	"context"
	"time"

	"github.com/trezcool/shule/core"
)

// Assignment is a piece of class work that students are graded on.
type Assignment struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Title        string    `json:"title" bson:"title"`
	Description  string    `json:"description" bson:"description"`
	ClassID      string    `json:"class_id" bson:"class_id"`
	Subject      string    `json:"subject" bson:"subject"`
	DueDate      time.Time `json:"due_date" bson:"due_date"`
	CreatedBy    string    `json:"created_by" bson:"created_by"` // User id
	MaxPoints    float64   `json:"max_points" bson:"max_points"`
	Instructions string    `json:"instructions,omitempty" bson:"instructions,omitempty"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Title        string    `json:"title" validate:"required"`
	Description  string    `json:"description" validate:"required"`
	ClassID      string    `json:"class_id" validate:"required"`
	Subject      string    `json:"subject" validate:"required"`
	DueDate      time.Time `json:"due_date" validate:"required"`
	CreatedBy    string    `json:"created_by" validate:"required"`
	MaxPoints    float64   `json:"max_points" validate:"omitempty,gt=0"`
	Instructions string    `json:"instructions"`
}

func (na *NewAssignment) Validate(ctx context.Context) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	return core.Validate.Struct(na)
}

// UpdateAssignment defines what information may be provided to modify an existing Assignment.
type UpdateAssignment struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Subject      string    `json:"subject"`
	DueDate      time.Time `json:"due_date"`
	MaxPoints    float64   `json:"max_points" validate:"omitempty,gt=0"`
	Instructions string    `json:"instructions"`
	IsActive     *bool     `json:"is_active"`
}

func (ua *UpdateAssignment) Validate(origAsg Assignment) error {
	if title := core.CleanString(ua.Title); title != "" {
		ua.Title = title
	} else {
		ua.Title = origAsg.Title
	}
	if desc := core.CleanString(ua.Description); desc != "" {
		ua.Description = desc
	} else {
		ua.Description = origAsg.Description
	}
	if ua.Subject == "" {
		ua.Subject = origAsg.Subject
	}
	if ua.DueDate.IsZero() {
		ua.DueDate = origAsg.DueDate
	}
	if ua.MaxPoints == 0 {
		ua.MaxPoints = origAsg.MaxPoints
	}
	if ua.Instructions == "" {
		ua.Instructions = origAsg.Instructions
	}
	return core.Validate.Struct(ua)
}
