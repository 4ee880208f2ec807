package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) GetAttendance(ctx context.Context, studentID string, date time.Time) (attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	day := attendance.DateOf(date)
	for _, att := range repo.db.table {
		if att.StudentID == studentID && att.Date.Equal(day) {
			return *att, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) UpsertAttendance(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, orig := range repo.db.table {
		if orig.StudentID == att.StudentID && orig.Date.Equal(att.Date) {
			orig.ClassID = att.ClassID
			orig.Status = att.Status
			orig.Remarks = att.Remarks
			orig.MarkedBy = att.MarkedBy
			orig.UpdatedAt = att.UpdatedAt
			return *orig, nil
		}
	}

	att.ID = uuid.New().String()
	repo.db.table[att.ID] = &att
	return att, nil
}

func (repo *attendanceRepository) QueryAttendanceByStudent(ctx context.Context, studentID string, from, to time.Time) ([]attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	records := make([]attendance.Attendance, 0)
	for _, att := range repo.db.table {
		if att.StudentID != studentID {
			continue
		}
		if !from.IsZero() && att.Date.Before(from) {
			continue
		}
		if !to.IsZero() && att.Date.After(to) {
			continue
		}
		records = append(records, *att)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date.After(records[j].Date) })
	return records, nil
}

func (repo *attendanceRepository) QueryAttendanceByClass(ctx context.Context, classID string, date time.Time) ([]attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	day := attendance.DateOf(date)
	records := make([]attendance.Attendance, 0)
	for _, att := range repo.db.table {
		if att.ClassID == classID && att.Date.Equal(day) {
			records = append(records, *att)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].StudentID < records[j].StudentID })
	return records, nil
}

func (repo *attendanceRepository) DeleteAttendanceByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
