package teacher

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var (
	// errors
	ErrNotFound        = errors.New("teacher not found")
	ErrTeacherIDExists = errors.New("a teacher with this teacher id already exists")
)

type (
	Repository interface {
		CheckTeacherIDUniqueness(ctx context.Context, teacherID string) error
		CreateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		GetTeacherByID(ctx context.Context, id string) (Teacher, error)
		GetTeacherByTeacherID(ctx context.Context, teacherID string) (Teacher, error)
		GetTeacherByUserID(ctx context.Context, userID string) (Teacher, error)
		QueryActiveTeachers(ctx context.Context) ([]Teacher, error)
		QueryTeachersByClass(ctx context.Context, classID string) ([]Teacher, error)
		UpdateTeacher(ctx context.Context, tch Teacher) (Teacher, error)
		DeleteTeachersByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		CheckUniqueness(ctx context.Context, teacherID string) error
		Create(ctx context.Context, nt NewTeacher) (Teacher, error)
		GetByID(ctx context.Context, id string) (Teacher, error)
		GetByTeacherID(ctx context.Context, teacherID string) (Teacher, error)
		GetByUserID(ctx context.Context, userID string) (Teacher, error)
		QueryActive(ctx context.Context) ([]Teacher, error)
		QueryByClass(ctx context.Context, classID string) ([]Teacher, error)
		Update(ctx context.Context, id string, ut UpdateTeacher) (Teacher, error)
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

func (svc *service) CheckUniqueness(ctx context.Context, teacherID string) error {
	if err := svc.repo.CheckTeacherIDUniqueness(ctx, teacherID); err != nil {
		if err == ErrTeacherIDExists {
			return core.NewConflictError(err, "teacher_id")
		}
		return err
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nt NewTeacher) (Teacher, error) {
	now := time.Now().UTC()
	tch := Teacher{
		TeacherID:  nt.TeacherID,
		UserID:     nt.UserID,
		Subjects:   nt.Subjects,
		HireDate:   nt.HireDate,
		ClassIDs:   nt.ClassIDs,
		Department: nt.Department,
		Status:     StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if tch.ClassIDs == nil {
		tch.ClassIDs = []string{}
	}
	return svc.repo.CreateTeacher(ctx, tch)
}

func (svc *service) GetByID(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacherByID(ctx, id)
}

func (svc *service) GetByTeacherID(ctx context.Context, teacherID string) (Teacher, error) {
	return svc.repo.GetTeacherByTeacherID(ctx, core.CleanString(teacherID, true /* lower */))
}

func (svc *service) GetByUserID(ctx context.Context, userID string) (Teacher, error) {
	return svc.repo.GetTeacherByUserID(ctx, userID)
}

func (svc *service) QueryActive(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryActiveTeachers(ctx)
}

func (svc *service) QueryByClass(ctx context.Context, classID string) ([]Teacher, error) {
	return svc.repo.QueryTeachersByClass(ctx, classID)
}

func (svc *service) Update(ctx context.Context, id string, ut UpdateTeacher) (Teacher, error) {
	tch := Teacher{
		ID:         id,
		Subjects:   ut.Subjects,
		ClassIDs:   ut.ClassIDs,
		Department: ut.Department,
		Status:     ut.Status,
		UpdatedAt:  time.Now().UTC(),
	}
	return svc.repo.UpdateTeacher(ctx, tch)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteTeachersByID(ctx, ids...)
}
