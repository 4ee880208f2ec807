package assignment

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

const defaultMaxPoints = 100

var (
	// errors
	ErrNotFound = errors.New("assignment not found")
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
		// QueryAssignmentsByClass returns active assignments, earliest due first.
		QueryAssignmentsByClass(ctx context.Context, classID string) ([]Assignment, error)
		UpdateAssignment(ctx context.Context, asg Assignment, isActive *bool) (Assignment, error)
		DeleteAssignmentsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Create(ctx context.Context, na NewAssignment) (Assignment, error)
		GetByID(ctx context.Context, id string) (Assignment, error)
		QueryByClass(ctx context.Context, classID string) ([]Assignment, error)
		Update(ctx context.Context, id string, ua UpdateAssignment) (Assignment, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, na NewAssignment) (Assignment, error) {
	now := time.Now().UTC()
	asg := Assignment{
		Title:        na.Title,
		Description:  na.Description,
		ClassID:      na.ClassID,
		Subject:      na.Subject,
		DueDate:      na.DueDate,
		CreatedBy:    na.CreatedBy,
		MaxPoints:    na.MaxPoints,
		Instructions: na.Instructions,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if asg.MaxPoints == 0 {
		asg.MaxPoints = defaultMaxPoints
	}
	return svc.repo.CreateAssignment(ctx, asg)
}

func (svc *service) GetByID(ctx context.Context, id string) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

func (svc *service) QueryByClass(ctx context.Context, classID string) ([]Assignment, error) {
	return svc.repo.QueryAssignmentsByClass(ctx, classID)
}

func (svc *service) Update(ctx context.Context, id string, ua UpdateAssignment) (Assignment, error) {
	asg := Assignment{
		ID:           id,
		Title:        ua.Title,
		Description:  ua.Description,
		Subject:      ua.Subject,
		DueDate:      ua.DueDate,
		MaxPoints:    ua.MaxPoints,
		Instructions: ua.Instructions,
		UpdatedAt:    time.Now().UTC(),
	}
	return svc.repo.UpdateAssignment(ctx, asg, ua.IsActive)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteAssignmentsByID(ctx, ids...)
}
