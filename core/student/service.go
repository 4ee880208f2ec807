package student

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var (
	// errors
	ErrNotFound        = errors.New("student not found")
	ErrStudentIDExists = errors.New("a student with this student id already exists")
)

type (
	Repository interface {
		CheckStudentIDUniqueness(ctx context.Context, studentID string) error
		CreateStudent(ctx context.Context, std Student) (Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		GetStudentByStudentID(ctx context.Context, studentID string) (Student, error)
		GetStudentByUserID(ctx context.Context, userID string) (Student, error)
		QueryActiveStudents(ctx context.Context) ([]Student, error)
		QueryStudentsByClass(ctx context.Context, classID string) ([]Student, error)
		QueryStudentsByParent(ctx context.Context, parentUserID string) ([]Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		CheckUniqueness(ctx context.Context, studentID string) error
		Create(ctx context.Context, ns NewStudent) (Student, error)
		GetByID(ctx context.Context, id string) (Student, error)
		GetByStudentID(ctx context.Context, studentID string) (Student, error)
		GetByUserID(ctx context.Context, userID string) (Student, error)
		QueryActive(ctx context.Context) ([]Student, error)
		QueryByClass(ctx context.Context, classID string) ([]Student, error)
		QueryByParent(ctx context.Context, parentUserID string) ([]Student, error)
		Update(ctx context.Context, id string, us UpdateStudent) (Student, error)
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

func (svc *service) CheckUniqueness(ctx context.Context, studentID string) error {
	if err := svc.repo.CheckStudentIDUniqueness(ctx, studentID); err != nil {
		if err == ErrStudentIDExists {
			return core.NewConflictError(err, "student_id")
		}
		return err
	}
	return nil
}

func (svc *service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := time.Now().UTC()
	std := Student{
		StudentID:     ns.StudentID,
		UserID:        ns.UserID,
		ClassID:       ns.ClassID,
		AdmissionDate: ns.AdmissionDate,
		ParentIDs:     ns.ParentIDs,
		Subjects:      ns.Subjects,
		Status:        StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if std.ParentIDs == nil {
		std.ParentIDs = []string{}
	}
	if std.Subjects == nil {
		std.Subjects = []string{}
	}
	return svc.repo.CreateStudent(ctx, std)
}

func (svc *service) GetByID(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *service) GetByStudentID(ctx context.Context, studentID string) (Student, error) {
	return svc.repo.GetStudentByStudentID(ctx, core.CleanString(studentID, true /* lower */))
}

func (svc *service) GetByUserID(ctx context.Context, userID string) (Student, error) {
	return svc.repo.GetStudentByUserID(ctx, userID)
}

func (svc *service) QueryActive(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryActiveStudents(ctx)
}

func (svc *service) QueryByClass(ctx context.Context, classID string) ([]Student, error) {
	return svc.repo.QueryStudentsByClass(ctx, classID)
}

func (svc *service) QueryByParent(ctx context.Context, parentUserID string) ([]Student, error) {
	return svc.repo.QueryStudentsByParent(ctx, parentUserID)
}

func (svc *service) Update(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	std := Student{
		ID:        id,
		ClassID:   us.ClassID,
		ParentIDs: us.ParentIDs,
		Subjects:  us.Subjects,
		Status:    us.Status,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateStudent(ctx, std)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}
