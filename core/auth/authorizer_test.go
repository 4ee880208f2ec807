package auth

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/user"
	dummydb "github.com/trezcool/shule/storage/dummy"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name string
		role user.Role
		perm Permission
		want bool
	}{
		{name: "admin manages system", role: user.RoleAdmin, perm: PermManageSystem, want: true},
		{name: "admin manages users", role: user.RoleAdmin, perm: PermManageUsers, want: true},
		{name: "admin does not mark attendance", role: user.RoleAdmin, perm: PermManageAttendance},
		{name: "teacher manages grades", role: user.RoleTeacher, perm: PermManageGrades, want: true},
		{name: "teacher views reports", role: user.RoleTeacher, perm: PermViewReports, want: true},
		{name: "teacher does not manage users", role: user.RoleTeacher, perm: PermManageUsers},
		{name: "student views own data", role: user.RoleStudent, perm: PermViewOwnData, want: true},
		{name: "student does not manage users", role: user.RoleStudent, perm: PermManageUsers},
		{name: "parent views child grades", role: user.RoleParent, perm: PermViewChildGrades, want: true},
		{name: "parent does not manage grades", role: user.RoleParent, perm: PermManageGrades},
		{name: "guest has nothing", role: user.RoleGuest, perm: PermViewOwnData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasPermission(tt.role, tt.perm); got != tt.want {
				t.Errorf("HasPermission(%s, %s) = %v, want %v", tt.role, tt.perm, got, tt.want)
			}
		})
	}
}

func TestPages(t *testing.T) {
	if got := Pages(user.RoleAdmin); len(got) != 11 {
		t.Errorf("Pages(admin) returned %d pages, want 11", len(got))
	}
	if got := Pages(user.RoleGuest); len(got) != 1 || got[0] != "Dashboard" {
		t.Errorf("Pages(guest) = %v, want [Dashboard]", got)
	}
	if !CanAccessPage(user.RoleStudent, "Grades") {
		t.Error("CanAccessPage(student, Grades) = false, want true")
	}
	if CanAccessPage(user.RoleStudent, "User Management") {
		t.Error("CanAccessPage(student, User Management) = true, want false")
	}
}

// authzFixture provisions two classes, one teacher on the first class, and a
// student per class; the first student has a parent reference.
type authzFixture struct {
	authz *Authorizer

	class1, class2  school.Class
	tch             teacher.Teacher
	std1, std2      student.Student
	teacherUserID   string
	studentUserID   string
	parentUserID    string
	unrelatedUserID string
}

func newAuthzFixture(t *testing.T) authzFixture {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	db, _ := dummydb.Open()
	stdRepo := dummydb.NewStudentRepository(db)
	tchRepo := dummydb.NewTeacherRepository(db)
	clsRepo := dummydb.NewClassRepository(db)

	fix := authzFixture{
		authz:           NewAuthorizer(stdRepo, tchRepo, clsRepo),
		teacherUserID:   "usr-t1",
		studentUserID:   "usr-s1",
		parentUserID:    "usr-p1",
		unrelatedUserID: "usr-x1",
	}

	var err error
	fix.class1, err = clsRepo.CreateClass(ctx, school.Class{
		Code: "gr10a", Name: "Grade 10 - A", GradeLevel: "10", AcademicYear: "2024-2025",
		MaxStudents: 30, IsActive: true, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateClass() failed, %v", err)
	}
	fix.class2, err = clsRepo.CreateClass(ctx, school.Class{
		Code: "gr10b", Name: "Grade 10 - B", GradeLevel: "10", AcademicYear: "2024-2025",
		MaxStudents: 30, IsActive: true, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateClass() failed, %v", err)
	}

	fix.tch, err = tchRepo.CreateTeacher(ctx, teacher.Teacher{
		TeacherID: "TCH001", UserID: fix.teacherUserID, ClassIDs: []string{fix.class1.ID},
		Status: teacher.StatusActive, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateTeacher() failed, %v", err)
	}

	fix.std1, err = stdRepo.CreateStudent(ctx, student.Student{
		StudentID: "STU001", UserID: fix.studentUserID, ClassID: fix.class1.ID,
		ParentIDs: []string{fix.parentUserID}, Status: student.StatusActive,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed, %v", err)
	}
	fix.std2, err = stdRepo.CreateStudent(ctx, student.Student{
		StudentID: "STU002", UserID: "usr-s2", ClassID: fix.class2.ID,
		Status: student.StatusActive, CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed, %v", err)
	}
	// inactive child of the same parent, must never appear in any scope
	_, err = stdRepo.CreateStudent(ctx, student.Student{
		StudentID: "STU003", UserID: "usr-s3", ClassID: fix.class1.ID,
		ParentIDs: []string{fix.parentUserID}, Status: student.StatusInactive,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed, %v", err)
	}
	return fix
}

func TestAuthorizer_CanViewStudent(t *testing.T) {
	ctx := context.Background()
	fix := newAuthzFixture(t)

	tests := []struct {
		name      string
		actor     Actor
		studentID string
		want      bool
	}{
		{name: "admin views any student", actor: Actor{UserID: "usr-a1", Role: user.RoleAdmin}, studentID: fix.std2.ID, want: true},
		{name: "teacher views own class student", actor: Actor{UserID: fix.teacherUserID, Role: user.RoleTeacher}, studentID: fix.std1.ID, want: true},
		{name: "teacher blocked on other class", actor: Actor{UserID: fix.teacherUserID, Role: user.RoleTeacher}, studentID: fix.std2.ID},
		{name: "student views own record", actor: Actor{UserID: fix.studentUserID, Role: user.RoleStudent}, studentID: fix.std1.ID, want: true},
		{name: "student blocked on classmate", actor: Actor{UserID: fix.studentUserID, Role: user.RoleStudent}, studentID: fix.std2.ID},
		{name: "parent views own child", actor: Actor{UserID: fix.parentUserID, Role: user.RoleParent}, studentID: fix.std1.ID, want: true},
		{name: "parent blocked on other child", actor: Actor{UserID: fix.parentUserID, Role: user.RoleParent}, studentID: fix.std2.ID},
		{name: "guest blocked", actor: Actor{Role: user.RoleGuest}, studentID: fix.std1.ID},
		{name: "unknown teacher account blocked", actor: Actor{UserID: fix.unrelatedUserID, Role: user.RoleTeacher}, studentID: fix.std1.ID},
		{name: "missing student record", actor: Actor{UserID: fix.teacherUserID, Role: user.RoleTeacher}, studentID: "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fix.authz.CanViewStudent(ctx, tt.actor, tt.studentID)
			if err != nil {
				t.Fatalf("CanViewStudent() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CanViewStudent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthorizer_CanModifyStudent(t *testing.T) {
	ctx := context.Background()
	fix := newAuthzFixture(t)

	tests := []struct {
		name      string
		actor     Actor
		studentID string
		want      bool
	}{
		{name: "admin", actor: Actor{UserID: "usr-a1", Role: user.RoleAdmin}, studentID: fix.std1.ID, want: true},
		{name: "teacher on own class", actor: Actor{UserID: fix.teacherUserID, Role: user.RoleTeacher}, studentID: fix.std1.ID, want: true},
		{name: "teacher on other class", actor: Actor{UserID: fix.teacherUserID, Role: user.RoleTeacher}, studentID: fix.std2.ID},
		{name: "student never modifies", actor: Actor{UserID: fix.studentUserID, Role: user.RoleStudent}, studentID: fix.std1.ID},
		{name: "parent never modifies", actor: Actor{UserID: fix.parentUserID, Role: user.RoleParent}, studentID: fix.std1.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fix.authz.CanModifyStudent(ctx, tt.actor, tt.studentID)
			if err != nil {
				t.Fatalf("CanModifyStudent() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CanModifyStudent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthorizer_CanManageClass(t *testing.T) {
	ctx := context.Background()
	fix := newAuthzFixture(t)

	tests := []struct {
		name    string
		actor   Actor
		classID string
		want    bool
	}{
		{name: "admin", actor: Actor{UserID: "usr-a1", Role: user.RoleAdmin}, classID: fix.class2.ID, want: true},
		{name: "teacher on taught class", actor: Actor{UserID: fix.teacherUserID, Role: user.RoleTeacher}, classID: fix.class1.ID, want: true},
		{name: "teacher on other class", actor: Actor{UserID: fix.teacherUserID, Role: user.RoleTeacher}, classID: fix.class2.ID},
		{name: "student never manages", actor: Actor{UserID: fix.studentUserID, Role: user.RoleStudent}, classID: fix.class1.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fix.authz.CanManageClass(ctx, tt.actor, tt.classID)
			if err != nil {
				t.Fatalf("CanManageClass() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CanManageClass() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthorizer_scopes(t *testing.T) {
	ctx := context.Background()
	fix := newAuthzFixture(t)

	tests := []struct {
		name         string
		actor        Actor
		wantClasses  int
		wantStudents int
	}{
		{name: "admin sees everything", actor: Actor{UserID: "usr-a1", Role: user.RoleAdmin}, wantClasses: 2, wantStudents: 2},
		{name: "teacher sees taught classes", actor: Actor{UserID: fix.teacherUserID, Role: user.RoleTeacher}, wantClasses: 1, wantStudents: 1},
		{name: "student sees own class and self", actor: Actor{UserID: fix.studentUserID, Role: user.RoleStudent}, wantClasses: 1, wantStudents: 1},
		{name: "parent sees own children", actor: Actor{UserID: fix.parentUserID, Role: user.RoleParent}, wantStudents: 1},
		{name: "guest sees nothing", actor: Actor{Role: user.RoleGuest}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classes, err := fix.authz.Classes(ctx, tt.actor)
			if err != nil {
				t.Fatalf("Classes() error = %v", err)
			}
			if len(classes) != tt.wantClasses {
				t.Errorf("Classes() returned %d, want %d", len(classes), tt.wantClasses)
			}

			students, err := fix.authz.Students(ctx, tt.actor)
			if err != nil {
				t.Fatalf("Students() error = %v", err)
			}
			if len(students) != tt.wantStudents {
				t.Errorf("Students() returned %d, want %d", len(students), tt.wantStudents)
			}
		})
	}
}
