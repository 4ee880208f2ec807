package announcement

import (
	"time"

	"github.com/trezcool/shule/core"
)

// Priorities
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// AudienceAll targets every role.
const AudienceAll = "all"

// Announcement is a notice shown to (and mailed to) a target audience:
// a single role or "all".
type Announcement struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Title     string    `json:"title" bson:"title"`
	Content   string    `json:"content" bson:"content"`
	CreatedBy string    `json:"created_by" bson:"created_by"` // User id
	Audience  string    `json:"target_audience" bson:"target_audience"`
	Priority  string    `json:"priority" bson:"priority"`
	IsActive  bool      `json:"is_active" bson:"is_active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

// NewAnnouncement contains information needed to create a new Announcement.
type NewAnnouncement struct {
	Title     string `json:"title" validate:"required"`
	Content   string `json:"content" validate:"required"`
	CreatedBy string `json:"created_by" validate:"required"`
	Audience  string `json:"target_audience" validate:"required,oneof=all admin teacher student parent"`
	Priority  string `json:"priority" validate:"omitempty,oneof=low normal high"`
}

func (na *NewAnnouncement) Validate() error {
	na.Title = core.CleanString(na.Title)
	na.Content = core.CleanString(na.Content)
	return core.Validate.Struct(na)
}
