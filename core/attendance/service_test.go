package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/attendance"
	dummydb "github.com/trezcool/shule/storage/dummy"
)

func newTestService() attendance.Service {
	conf := &core.Config{TestMode: true, AppName: "Shule"}
	db, _ := dummydb.Open()
	return attendance.NewService(
		conf,
		dummydb.NewAttendanceRepository(db),
		dummydb.NewStudentRepository(db),
		dummydb.NewUserRepository(db),
		nil,
	)
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	in := time.Date(2024, 9, 16, 1, 30, 45, 123, loc) // 2024-09-15 23:30:45 UTC
	want := time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC)
	if got := attendance.DateOf(in); !got.Equal(want) {
		t.Errorf("DateOf() = %v, want %v", got, want)
	}
}

func TestService_Mark(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	day := time.Date(2024, 9, 16, 10, 15, 0, 0, time.UTC)
	att, err := svc.Mark(ctx, attendance.MarkAttendance{
		StudentID: "std1",
		ClassID:   "cls1",
		Date:      day,
		Status:    attendance.StatusPresent,
		MarkedBy:  "usr-t1",
	})
	if err != nil {
		t.Fatalf("Mark() error = %v", err)
	}
	if !att.Date.Equal(attendance.DateOf(day)) {
		t.Errorf("Mark() date = %v, want %v", att.Date, attendance.DateOf(day))
	}

	// marking again the same day replaces the record: latest status wins
	later := day.Add(5 * time.Hour)
	remarked, err := svc.Mark(ctx, attendance.MarkAttendance{
		StudentID: "std1",
		ClassID:   "cls1",
		Date:      later,
		Status:    attendance.StatusLate,
		Remarks:   "arrived at noon",
		MarkedBy:  "usr-t1",
	})
	if err != nil {
		t.Fatalf("Mark() error = %v", err)
	}
	if remarked.ID != att.ID {
		t.Errorf("Mark() created a second record; id = %s, want %s", remarked.ID, att.ID)
	}
	if remarked.Status != attendance.StatusLate {
		t.Errorf("Mark() status = %s, want %s", remarked.Status, attendance.StatusLate)
	}

	records, err := svc.QueryByStudent(ctx, "std1", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("QueryByStudent() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("QueryByStudent() returned %d records, want 1", len(records))
	}

	got, err := svc.Get(ctx, "std1", later)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Remarks != "arrived at noon" {
		t.Errorf("Get() remarks = %q, want %q", got.Remarks, "arrived at noon")
	}
}

func TestService_PresenceRate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	rate, err := svc.PresenceRate(ctx, "std1", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("PresenceRate() error = %v", err)
	}
	if rate != 0 {
		t.Errorf("PresenceRate() with no records = %v, want 0", rate)
	}

	day := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	for i, status := range []attendance.Status{attendance.StatusPresent, attendance.StatusPresent, attendance.StatusLate, attendance.StatusAbsent} {
		if _, err = svc.Mark(ctx, attendance.MarkAttendance{
			StudentID: "std1",
			ClassID:   "cls1",
			Date:      day.AddDate(0, 0, i),
			Status:    status,
			MarkedBy:  "usr-t1",
		}); err != nil {
			t.Fatalf("Mark() error = %v", err)
		}
	}

	// late still counts as present: 3 of 4
	rate, err = svc.PresenceRate(ctx, "std1", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("PresenceRate() error = %v", err)
	}
	if rate != 75 {
		t.Errorf("PresenceRate() = %v, want 75", rate)
	}

	// bounded to the absent day only
	absentDay := day.AddDate(0, 0, 3)
	rate, err = svc.PresenceRate(ctx, "std1", absentDay, absentDay)
	if err != nil {
		t.Fatalf("PresenceRate() error = %v", err)
	}
	if rate != 0 {
		t.Errorf("PresenceRate() = %v, want 0", rate)
	}
}

func TestService_QueryByClass(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	day := time.Date(2024, 9, 16, 0, 0, 0, 0, time.UTC)
	for _, ma := range []attendance.MarkAttendance{
		{StudentID: "std1", ClassID: "cls1", Date: day, Status: attendance.StatusPresent, MarkedBy: "usr-t1"},
		{StudentID: "std2", ClassID: "cls1", Date: day, Status: attendance.StatusAbsent, MarkedBy: "usr-t1"},
		{StudentID: "std3", ClassID: "cls2", Date: day, Status: attendance.StatusPresent, MarkedBy: "usr-t1"},
		{StudentID: "std1", ClassID: "cls1", Date: day.AddDate(0, 0, 1), Status: attendance.StatusPresent, MarkedBy: "usr-t1"},
	} {
		if _, err := svc.Mark(ctx, ma); err != nil {
			t.Fatalf("Mark() error = %v", err)
		}
	}

	records, err := svc.QueryByClass(ctx, "cls1", day.Add(13*time.Hour))
	if err != nil {
		t.Fatalf("QueryByClass() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("QueryByClass() returned %d records, want 2", len(records))
	}
}
