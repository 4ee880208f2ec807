package dummydb

import (
	"sync"

	"github.com/trezcool/shule/core/announcement"
	"github.com/trezcool/shule/core/assignment"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/user"
)

type (
	DB struct {
		user         *userTable
		student      *studentTable
		teacher      *teacherTable
		class        *classTable
		attendance   *attendanceTable
		assignment   *assignmentTable
		grade        *gradeTable
		announcement *announcementTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}
	studentTable struct {
		sync.RWMutex
		table map[string]*student.Student
	}
	teacherTable struct {
		sync.RWMutex
		table map[string]*teacher.Teacher
	}
	classTable struct {
		sync.RWMutex
		table map[string]*school.Class
	}
	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Attendance
	}
	assignmentTable struct {
		sync.RWMutex
		table map[string]*assignment.Assignment
	}
	gradeTable struct {
		sync.RWMutex
		table map[string]*grade.Grade
	}
	announcementTable struct {
		sync.RWMutex
		table map[string]*announcement.Announcement
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:         &userTable{table: make(map[string]*user.User)},
		student:      &studentTable{table: make(map[string]*student.Student)},
		teacher:      &teacherTable{table: make(map[string]*teacher.Teacher)},
		class:        &classTable{table: make(map[string]*school.Class)},
		attendance:   &attendanceTable{table: make(map[string]*attendance.Attendance)},
		assignment:   &assignmentTable{table: make(map[string]*assignment.Assignment)},
		grade:        &gradeTable{table: make(map[string]*grade.Grade)},
		announcement: &announcementTable{table: make(map[string]*announcement.Announcement)},
	}
	return db, nil
}
