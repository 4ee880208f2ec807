package main

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/announcement"
	"github.com/trezcool/shule/core/assignment"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/storage/mongodb"
)

type seedUser struct {
	username string
	email    string
	password string
	role     user.Role
	fullName string
}

var seedUsers = []seedUser{
	{"admin", "admin@school.com", "admin123", user.RoleAdmin, "System Administrator"},
	{"teacher1", "teacher1@school.com", "teacher123", user.RoleTeacher, "Sarah Johnson"},
	{"teacher2", "teacher2@school.com", "teacher123", user.RoleTeacher, "Michael Brown"},
	{"student1", "student1@school.com", "student123", user.RoleStudent, "John Smith"},
	{"student2", "student2@school.com", "student123", user.RoleStudent, "Emma Wilson"},
	{"parent1", "parent1@school.com", "parent123", user.RoleParent, "Robert Smith"},
}

// seed provisions the indexes and a small demo data set; it is idempotent.
func (cli *commandLine) seed() error {
	ctx := context.Background()
	now := time.Now().UTC()

	if err := mongodb.EnsureIndexes(ctx, cli.db); err != nil {
		return errors.Wrap(err, "ensuring indexes")
	}

	users := make(map[string]user.User, len(seedUsers))
	for _, su := range seedUsers {
		usr := user.User{
			FullName:  su.fullName,
			Username:  su.username,
			Email:     su.email,
			Role:      su.role,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := usr.SetPassword(su.password); err != nil {
			return errors.Wrapf(err, "hashing %s password", su.username)
		}
		usr, err := cli.usrRepo.UpdateOrCreateUser(ctx, usr)
		if err != nil {
			return errors.Wrapf(err, "seeding user %s", su.username)
		}
		users[su.username] = usr
		logger.Printf("seeded user: %s (%s)", usr.Username, usr.Role)
	}

	subjects := []string{"Mathematics", "English", "Science", "History", "Geography"}
	classes := make(map[string]school.Class, 2)
	for _, sc := range []school.Class{
		{Code: "GR10A", Name: "Grade 10 - Section A", GradeLevel: "10", AcademicYear: "2024-2025", MaxStudents: 30, Subjects: subjects, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{Code: "GR10B", Name: "Grade 10 - Section B", GradeLevel: "10", AcademicYear: "2024-2025", MaxStudents: 30, Subjects: subjects, IsActive: true, CreatedAt: now, UpdatedAt: now},
	} {
		cls, err := cli.clsRepo.GetClassByCode(ctx, sc.Code)
		if errors.Cause(err) == school.ErrNotFound {
			if cls, err = cli.clsRepo.CreateClass(ctx, sc); err == nil {
				logger.Printf("seeded class: %s", cls.Code)
			}
		}
		if err != nil {
			return errors.Wrapf(err, "seeding class %s", sc.Code)
		}
		classes[cls.Code] = cls
	}

	for _, st := range []teacher.Teacher{
		{TeacherID: "TCH001", UserID: users["teacher1"].ID, Subjects: []string{"Mathematics"}, HireDate: time.Date(2020, 8, 15, 0, 0, 0, 0, time.UTC), ClassIDs: []string{classes["GR10A"].ID}, Department: "Mathematics", Status: teacher.StatusActive, CreatedAt: now, UpdatedAt: now},
		{TeacherID: "TCH002", UserID: users["teacher2"].ID, Subjects: []string{"English"}, HireDate: time.Date(2018, 9, 1, 0, 0, 0, 0, time.UTC), ClassIDs: []string{classes["GR10B"].ID}, Department: "English", Status: teacher.StatusActive, CreatedAt: now, UpdatedAt: now},
	} {
		if _, err := cli.tchRepo.GetTeacherByTeacherID(ctx, st.TeacherID); errors.Cause(err) == teacher.ErrNotFound {
			if _, err = cli.tchRepo.CreateTeacher(ctx, st); err != nil {
				return errors.Wrapf(err, "seeding teacher %s", st.TeacherID)
			}
			logger.Printf("seeded teacher: %s", st.TeacherID)
		} else if err != nil {
			return errors.Wrapf(err, "seeding teacher %s", st.TeacherID)
		}
	}

	students := make(map[string]student.Student, 2)
	for _, ss := range []student.Student{
		{StudentID: "STU001", UserID: users["student1"].ID, ClassID: classes["GR10A"].ID, AdmissionDate: time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC), ParentIDs: []string{users["parent1"].ID}, Subjects: subjects, Status: student.StatusActive, CreatedAt: now, UpdatedAt: now},
		{StudentID: "STU002", UserID: users["student2"].ID, ClassID: classes["GR10A"].ID, AdmissionDate: time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC), ParentIDs: []string{}, Subjects: subjects, Status: student.StatusActive, CreatedAt: now, UpdatedAt: now},
	} {
		std, err := cli.stdRepo.GetStudentByStudentID(ctx, ss.StudentID)
		if errors.Cause(err) == student.ErrNotFound {
			if std, err = cli.stdRepo.CreateStudent(ctx, ss); err == nil {
				logger.Printf("seeded student: %s", std.StudentID)
			}
		}
		if err != nil {
			return errors.Wrapf(err, "seeding student %s", ss.StudentID)
		}
		students[std.StudentID] = std
	}

	asgs, err := cli.asgRepo.QueryAssignmentsByClass(ctx, classes["GR10A"].ID)
	if err != nil {
		return errors.Wrap(err, "seeding assignment")
	}
	var asg assignment.Assignment
	if len(asgs) > 0 {
		asg = asgs[0]
	} else {
		asg = assignment.Assignment{
			Title:        "Algebra Practice Test",
			Description:  "Complete all problems in Chapter 5. Show your work for full credit.",
			ClassID:      classes["GR10A"].ID,
			Subject:      "Mathematics",
			DueDate:      now.AddDate(0, 0, 7),
			CreatedBy:    users["teacher1"].ID,
			MaxPoints:    100,
			Instructions: "Use proper mathematical notation and explain your reasoning.",
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if asg, err = cli.asgRepo.CreateAssignment(ctx, asg); err != nil {
			return errors.Wrap(err, "seeding assignment")
		}
		logger.Printf("seeded assignment: %s", asg.Title)
	}

	for sid, points := range map[string]float64{"STU001": 88, "STU002": 76} {
		grd := grade.Grade{
			StudentID:    students[sid].ID,
			AssignmentID: asg.ID,
			PointsEarned: points,
			MaxPoints:    asg.MaxPoints,
			Percentage:   points / asg.MaxPoints * 100,
			GradedBy:     users["teacher1"].ID,
			GradedAt:     now,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err = cli.grdRepo.UpsertGrade(ctx, grd); err != nil {
			return errors.Wrapf(err, "seeding grade for %s", sid)
		}
	}
	logger.Println("seeded grades")

	// one school week of attendance, everyone present but the odd absence
	monday := attendance.DateOf(now.AddDate(0, 0, -int(now.Weekday())+1))
	for day := 0; day < 5; day++ {
		for sid, std := range students {
			status := attendance.StatusPresent
			if sid == "STU002" && day == 2 {
				status = attendance.StatusAbsent
			}
			att := attendance.Attendance{
				StudentID: std.ID,
				ClassID:   std.ClassID,
				Date:      monday.AddDate(0, 0, day),
				Status:    status,
				MarkedBy:  users["teacher1"].ID,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if _, err = cli.attRepo.UpsertAttendance(ctx, att); err != nil {
				return errors.Wrapf(err, "seeding attendance for %s", sid)
			}
		}
	}
	logger.Println("seeded attendance")

	if anns, err := cli.annRepo.QueryAllAnnouncements(ctx); err != nil {
		return errors.Wrap(err, "seeding announcement")
	} else if len(anns) == 0 {
		ann := announcement.Announcement{
			Title:     "Welcome Back to School!",
			Content:   "We are excited to welcome all students back for the 2024-2025 academic year.",
			CreatedBy: users["admin"].ID,
			Audience:  announcement.AudienceAll,
			Priority:  announcement.PriorityNormal,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err = cli.annRepo.CreateAnnouncement(ctx, ann); err != nil {
			return errors.Wrap(err, "seeding announcement")
		}
		logger.Printf("seeded announcement: %s", ann.Title)
	}

	logger.Println("seeding done")
	return nil
}
