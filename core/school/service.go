package school

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

const defaultMaxStudents = 30

var (
	// errors
	ErrNotFound        = errors.New("class not found")
	ErrClassCodeExists = errors.New("a class with this code already exists")
)

type (
	Repository interface {
		CheckClassCodeUniqueness(ctx context.Context, code string) error
		CreateClass(ctx context.Context, cls Class) (Class, error)
		GetClassByID(ctx context.Context, id string) (Class, error)
		GetClassByCode(ctx context.Context, code string) (Class, error)
		QueryActiveClasses(ctx context.Context) ([]Class, error)
		// QueryClassesByID preserves the order of ids; unknown ids are skipped.
		QueryClassesByID(ctx context.Context, ids ...string) ([]Class, error)
		UpdateClass(ctx context.Context, cls Class, isActive *bool) (Class, error)
		DeleteClassesByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		CheckUniqueness(ctx context.Context, code string) error
		Create(ctx context.Context, nc NewClass) (Class, error)
		GetByID(ctx context.Context, id string) (Class, error)
		GetByCode(ctx context.Context, code string) (Class, error)
		QueryActive(ctx context.Context) ([]Class, error)
		QueryByID(ctx context.Context, ids ...string) ([]Class, error)
		Update(ctx context.Context, id string, uc UpdateClass) (Class, error)
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

func (svc *service) CheckUniqueness(ctx context.Context, code string) error {
	if err := svc.repo.CheckClassCodeUniqueness(ctx, code); err != nil {
		if err == ErrClassCodeExists {
			return core.NewConflictError(err, "class_code")
		}
		return err
	}
	return nil
}

func (svc *service) Create(ctx context.Context, nc NewClass) (Class, error) {
	now := time.Now().UTC()
	cls := Class{
		Code:         nc.Code,
		Name:         nc.Name,
		GradeLevel:   nc.GradeLevel,
		AcademicYear: nc.AcademicYear,
		MaxStudents:  nc.MaxStudents,
		Subjects:     nc.Subjects,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if cls.MaxStudents == 0 {
		cls.MaxStudents = defaultMaxStudents
	}
	if cls.Subjects == nil {
		cls.Subjects = []string{}
	}
	return svc.repo.CreateClass(ctx, cls)
}

func (svc *service) GetByID(ctx context.Context, id string) (Class, error) {
	return svc.repo.GetClassByID(ctx, id)
}

func (svc *service) GetByCode(ctx context.Context, code string) (Class, error) {
	return svc.repo.GetClassByCode(ctx, core.CleanString(code, true /* lower */))
}

func (svc *service) QueryActive(ctx context.Context) ([]Class, error) {
	return svc.repo.QueryActiveClasses(ctx)
}

func (svc *service) QueryByID(ctx context.Context, ids ...string) ([]Class, error) {
	return svc.repo.QueryClassesByID(ctx, ids...)
}

func (svc *service) Update(ctx context.Context, id string, uc UpdateClass) (Class, error) {
	cls := Class{
		ID:          id,
		Name:        uc.Name,
		GradeLevel:  uc.GradeLevel,
		MaxStudents: uc.MaxStudents,
		Subjects:    uc.Subjects,
		UpdatedAt:   time.Now().UTC(),
	}
	return svc.repo.UpdateClass(ctx, cls, uc.IsActive)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteClassesByID(ctx, ids...)
}
