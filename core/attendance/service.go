package attendance

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("attendance record not found")
)

type (
	Repository interface {
		GetAttendance(ctx context.Context, studentID string, date time.Time) (Attendance, error)
		// UpsertAttendance inserts or replaces the record for (StudentID, Date)
		// in a single conditional write.
		UpsertAttendance(ctx context.Context, att Attendance) (Attendance, error)
		// QueryAttendanceByStudent returns records within [from, to], newest first.
		// Zero bounds are open.
		QueryAttendanceByStudent(ctx context.Context, studentID string, from, to time.Time) ([]Attendance, error)
		QueryAttendanceByClass(ctx context.Context, classID string, date time.Time) ([]Attendance, error)
		DeleteAttendanceByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Mark(ctx context.Context, ma MarkAttendance) (Attendance, error)
		Get(ctx context.Context, studentID string, date time.Time) (Attendance, error)
		QueryByStudent(ctx context.Context, studentID string, from, to time.Time) ([]Attendance, error)
		QueryByClass(ctx context.Context, classID string, date time.Time) ([]Attendance, error)
		// PresenceRate returns the percentage of non-absent records for a student
		// within [from, to]; 0 when no records exist.
		PresenceRate(ctx context.Context, studentID string, from, to time.Time) (float64, error)
	}

	service struct {
		conf    *core.Config
		repo    Repository
		stdRepo student.Repository
		usrRepo user.Repository
		mailSvc core.EmailService
	}
)

var _ Service = (*service)(nil)

func NewService(
	conf *core.Config,
	repo Repository,
	stdRepo student.Repository,
	usrRepo user.Repository,
	mailSvc core.EmailService,
) Service {
	return &service{
		conf:    conf,
		repo:    repo,
		stdRepo: stdRepo,
		usrRepo: usrRepo,
		mailSvc: mailSvc,
	}
}

// Mark upserts the attendance record for (student, day). Marking the same day
// twice keeps a single record reflecting the latest status. Parents are
// notified when a student is marked absent.
func (svc *service) Mark(ctx context.Context, ma MarkAttendance) (Attendance, error) {
	now := time.Now().UTC()
	att := Attendance{
		StudentID: ma.StudentID,
		ClassID:   ma.ClassID,
		Date:      DateOf(ma.Date),
		Status:    ma.Status,
		Remarks:   ma.Remarks,
		MarkedBy:  ma.MarkedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	att, err := svc.repo.UpsertAttendance(ctx, att)
	if err != nil {
		return Attendance{}, err
	}
	if att.Status == StatusAbsent {
		svc.notifyParents(ctx, att)
	}
	return att, nil
}

func (svc *service) Get(ctx context.Context, studentID string, date time.Time) (Attendance, error) {
	return svc.repo.GetAttendance(ctx, studentID, DateOf(date))
}

func (svc *service) QueryByStudent(ctx context.Context, studentID string, from, to time.Time) ([]Attendance, error) {
	return svc.repo.QueryAttendanceByStudent(ctx, studentID, from, to)
}

func (svc *service) QueryByClass(ctx context.Context, classID string, date time.Time) ([]Attendance, error) {
	return svc.repo.QueryAttendanceByClass(ctx, classID, DateOf(date))
}

func (svc *service) PresenceRate(ctx context.Context, studentID string, from, to time.Time) (float64, error) {
	records, err := svc.repo.QueryAttendanceByStudent(ctx, studentID, from, to)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}
	var present int
	for _, att := range records {
		if att.Status != StatusAbsent {
			present++
		}
	}
	return float64(present) / float64(len(records)) * 100, nil
}

func (svc *service) notifyParents(ctx context.Context, att Attendance) {
	if svc.mailSvc == nil {
		return
	}
	std, err := svc.stdRepo.GetStudentByID(ctx, att.StudentID)
	if err != nil {
		return // notification failures never fail the write
	}
	to := make([]mail.Address, 0, len(std.ParentIDs))
	for _, pid := range std.ParentIDs {
		parent, err := svc.usrRepo.GetUserByID(ctx, pid)
		if err != nil {
			continue
		}
		to = append(to, mail.Address{Name: parent.FullName, Address: parent.Email})
	}
	if len(to) == 0 {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      to,
		Subject: "Absence Notification",
		BodyStr: "Student " + std.StudentID + " was marked absent on " +
			att.Date.Format("2006-01-02") + ". " + att.Remarks,
	})
}
