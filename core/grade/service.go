package grade

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assignment"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("grade not found")
)

type (
	Repository interface {
		GetGrade(ctx context.Context, studentID, assignmentID string) (Grade, error)
		// UpsertGrade inserts or replaces the record for (StudentID, AssignmentID)
		// in a single conditional write.
		UpsertGrade(ctx context.Context, grd Grade) (Grade, error)
		// QueryGradesByStudent returns a student's grades, newest first.
		QueryGradesByStudent(ctx context.Context, studentID string) ([]Grade, error)
		QueryGradesByAssignment(ctx context.Context, assignmentID string) ([]Grade, error)
		// StudentAverage computes the mean percentage across a student's grades;
		// 0 when none exist.
		StudentAverage(ctx context.Context, studentID string) (float64, error)
		DeleteGradesByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Record(ctx context.Context, rg RecordGrade) (Grade, error)
		Get(ctx context.Context, studentID, assignmentID string) (Grade, error)
		QueryByStudent(ctx context.Context, studentID string) ([]Grade, error)
		QueryByAssignment(ctx context.Context, assignmentID string) ([]Grade, error)
		StudentAverage(ctx context.Context, studentID string) (float64, error)
	}

	service struct {
		conf    *core.Config
		repo    Repository
		stdRepo student.Repository
		usrRepo user.Repository
		asgRepo assignment.Repository
		mailSvc core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(
	conf *core.Config,
	repo Repository,
	stdRepo student.Repository,
	usrRepo user.Repository,
	asgRepo assignment.Repository,
	mailSvc core.EmailService,
) Service {
	return &service{
		conf:    conf,
		repo:    repo,
		stdRepo: stdRepo,
		usrRepo: usrRepo,
		asgRepo: asgRepo,
		mailSvc: mailSvc,
	}
}

// Record upserts the grade for (student, assignment) with the percentage
// recomputed from the submitted points. The graded student is notified.
func (svc *service) Record(ctx context.Context, rg RecordGrade) (Grade, error) {
	now := time.Now().UTC()
	grd := Grade{
		StudentID:    rg.StudentID,
		AssignmentID: rg.AssignmentID,
		PointsEarned: rg.PointsEarned,
		MaxPoints:    rg.MaxPoints,
		Percentage:   rg.PointsEarned / rg.MaxPoints * 100,
		GradedBy:     rg.GradedBy,
		Comments:     rg.Comments,
		GradedAt:     now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	grd, err := svc.repo.UpsertGrade(ctx, grd)
	if err != nil {
		return Grade{}, err
	}
	svc.notifyStudent(ctx, grd)
	return grd, nil
}

func (svc *service) Get(ctx context.Context, studentID, assignmentID string) (Grade, error) {
	return svc.repo.GetGrade(ctx, studentID, assignmentID)
}

func (svc *service) QueryByStudent(ctx context.Context, studentID string) ([]Grade, error) {
	return svc.repo.QueryGradesByStudent(ctx, studentID)
}

func (svc *service) QueryByAssignment(ctx context.Context, assignmentID string) ([]Grade, error) {
	return svc.repo.QueryGradesByAssignment(ctx, assignmentID)
}

func (svc *service) StudentAverage(ctx context.Context, studentID string) (float64, error) {
	return svc.repo.StudentAverage(ctx, studentID)
}

func (svc *service) notifyStudent(ctx context.Context, grd Grade) {
	if svc.mailSvc == nil {
		return
	}
	std, err := svc.stdRepo.GetStudentByID(ctx, grd.StudentID)
	if err != nil {
		return // notification failures never fail the write
	}
	usr, err := svc.usrRepo.GetUserByID(ctx, std.UserID)
	if err != nil {
		return
	}
	subject := "assignment"
	if asg, err := svc.asgRepo.GetAssignmentByID(ctx, grd.AssignmentID); err == nil {
		subject = asg.Title
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.FullName, Address: usr.Email}},
		Subject: "Grade Posted",
		BodyStr: fmt.Sprintf("Your grade for %q has been posted: %.1f/%.1f (%.1f%% - %s).",
			subject, grd.PointsEarned, grd.MaxPoints, grd.Percentage, grd.Letter()),
	})
}
