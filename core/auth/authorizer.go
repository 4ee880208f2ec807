package auth

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/user"
)

// ErrPermissionDenied signals a failed permission or ownership check. Callers
// block the action and report a generic access-denied message; the process
// never aborts on it.
var ErrPermissionDenied = errors.New("permission denied")

type Permission string

const (
	// admin
	PermManageUsers         Permission = "manage_users"
	PermManageClasses       Permission = "manage_classes"
	PermManageSubjects      Permission = "manage_subjects"
	PermManageSystem        Permission = "manage_system"
	PermViewAllStudents     Permission = "view_all_students"
	PermManageAnnouncements Permission = "manage_announcements"

	// admin + teacher
	PermViewReports Permission = "view_reports"

	// teacher
	PermManageAttendance  Permission = "manage_attendance"
	PermManageAssignments Permission = "manage_assignments"
	PermManageGrades      Permission = "manage_grades"
	PermViewClassStudents Permission = "view_class_students"

	// student
	PermViewOwnData       Permission = "view_own_data"
	PermSubmitAssignments Permission = "submit_assignments"
	PermViewGrades        Permission = "view_grades"
	PermViewAttendance    Permission = "view_attendance"

	// parent
	PermViewChildData       Permission = "view_child_data"
	PermViewChildGrades     Permission = "view_child_grades"
	PermViewChildAttendance Permission = "view_child_attendance"
	PermCommunicateTeachers Permission = "communicate_teachers"
)

// rolePermissions is the fixed, exhaustive role -> permission-set table.
var rolePermissions = map[user.Role][]Permission{
	user.RoleAdmin: {
		PermManageUsers, PermManageClasses, PermManageSubjects, PermViewReports,
		PermManageSystem, PermViewAllStudents, PermManageAnnouncements,
	},
	user.RoleTeacher: {
		PermViewReports, PermManageAttendance, PermManageAssignments,
		PermManageGrades, PermViewClassStudents,
	},
	user.RoleStudent: {
		PermViewOwnData, PermSubmitAssignments, PermViewGrades, PermViewAttendance,
	},
	user.RoleParent: {
		PermViewChildData, PermViewChildGrades, PermViewChildAttendance,
		PermCommunicateTeachers,
	},
}

// rolePages drives navigation and doubles as the page authorization gate.
var rolePages = map[user.Role][]string{
	user.RoleAdmin: {
		"Dashboard", "User Management", "Class Management", "Student Management",
		"Teacher Management", "Attendance", "Assignments", "Grades", "Reports",
		"Announcements", "System Settings",
	},
	user.RoleTeacher: {
		"Dashboard", "My Classes", "Attendance", "Assignments", "Grades",
		"Students", "Announcements",
	},
	user.RoleStudent: {
		"Dashboard", "My Classes", "Assignments", "Grades", "Attendance",
		"Announcements",
	},
	user.RoleParent: {
		"Dashboard", "Child Progress", "Attendance", "Grades", "Announcements",
		"Communication",
	},
}

// Permissions returns the permission set for a role; unknown roles get none.
func Permissions(role user.Role) []Permission {
	return rolePermissions[role]
}

func HasPermission(role user.Role, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// Pages returns the ordered page list for a role. Roles outside the table
// (incl. RoleGuest) only see the Dashboard.
func Pages(role user.Role) []string {
	if pages, ok := rolePages[role]; ok {
		return pages
	}
	return []string{"Dashboard"}
}

func CanAccessPage(role user.Role, page string) bool {
	for _, p := range Pages(role) {
		if p == page {
			return true
		}
	}
	return false
}

// Actor identifies the requesting user to ownership checks. A missing session
// is represented as Actor{Role: user.RoleGuest}.
type Actor struct {
	UserID string
	Role   user.Role
}

// Authorizer evaluates per-record ownership predicates and data scopes.
// It is state-free: every check reads the current records.
type Authorizer struct {
	stdRepo student.Repository
	tchRepo teacher.Repository
	clsRepo school.Repository
}

func NewAuthorizer(stdRepo student.Repository, tchRepo teacher.Repository, clsRepo school.Repository) *Authorizer {
	return &Authorizer{
		stdRepo: stdRepo,
		tchRepo: tchRepo,
		clsRepo: clsRepo,
	}
}

// CanViewStudent reports whether the actor may view the given student record:
// admins always; teachers iff the student's class is among their taught
// classes; students iff it is their own record; parents iff they are among
// the student's parent references.
func (a *Authorizer) CanViewStudent(ctx context.Context, actor Actor, studentID string) (bool, error) {
	switch actor.Role {
	case user.RoleAdmin:
		return true, nil

	case user.RoleTeacher:
		tch, err := a.tchRepo.GetTeacherByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Cause(err) == teacher.ErrNotFound {
				return false, nil
			}
			return false, errors.Wrap(err, "finding teacher by user id")
		}
		std, err := a.getStudent(ctx, studentID)
		if err != nil || std == nil {
			return false, err
		}
		return tch.TeachesClass(std.ClassID), nil

	case user.RoleStudent:
		std, err := a.stdRepo.GetStudentByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Cause(err) == student.ErrNotFound {
				return false, nil
			}
			return false, errors.Wrap(err, "finding student by user id")
		}
		return std.ID == studentID, nil

	case user.RoleParent:
		std, err := a.getStudent(ctx, studentID)
		if err != nil || std == nil {
			return false, err
		}
		return std.HasParent(actor.UserID), nil
	}
	return false, nil
}

// CanModifyStudent: admins unconditionally; teachers under the same ownership
// rule as CanViewStudent; everyone else never.
func (a *Authorizer) CanModifyStudent(ctx context.Context, actor Actor, studentID string) (bool, error) {
	switch actor.Role {
	case user.RoleAdmin:
		return true, nil
	case user.RoleTeacher:
		return a.CanViewStudent(ctx, actor, studentID)
	}
	return false, nil
}

// CanManageClass: admins unconditionally; teachers iff the class is among
// their taught classes; everyone else never.
func (a *Authorizer) CanManageClass(ctx context.Context, actor Actor, classID string) (bool, error) {
	switch actor.Role {
	case user.RoleAdmin:
		return true, nil
	case user.RoleTeacher:
		tch, err := a.tchRepo.GetTeacherByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Cause(err) == teacher.ErrNotFound {
				return false, nil
			}
			return false, errors.Wrap(err, "finding teacher by user id")
		}
		return tch.TeachesClass(classID), nil
	}
	return false, nil
}

// Classes returns the classes in the actor's data scope.
func (a *Authorizer) Classes(ctx context.Context, actor Actor) ([]school.Class, error) {
	switch actor.Role {
	case user.RoleAdmin:
		return a.clsRepo.QueryActiveClasses(ctx)

	case user.RoleTeacher:
		tch, err := a.tchRepo.GetTeacherByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Cause(err) == teacher.ErrNotFound {
				return []school.Class{}, nil
			}
			return nil, errors.Wrap(err, "finding teacher by user id")
		}
		return a.clsRepo.QueryClassesByID(ctx, tch.ClassIDs...)

	case user.RoleStudent:
		std, err := a.stdRepo.GetStudentByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Cause(err) == student.ErrNotFound {
				return []school.Class{}, nil
			}
			return nil, errors.Wrap(err, "finding student by user id")
		}
		if std.ClassID == "" {
			return []school.Class{}, nil
		}
		return a.clsRepo.QueryClassesByID(ctx, std.ClassID)
	}
	return []school.Class{}, nil
}

// Students returns the students in the actor's data scope.
func (a *Authorizer) Students(ctx context.Context, actor Actor) ([]student.Student, error) {
	switch actor.Role {
	case user.RoleAdmin:
		return a.stdRepo.QueryActiveStudents(ctx)

	case user.RoleTeacher:
		tch, err := a.tchRepo.GetTeacherByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Cause(err) == teacher.ErrNotFound {
				return []student.Student{}, nil
			}
			return nil, errors.Wrap(err, "finding teacher by user id")
		}
		students := make([]student.Student, 0)
		for _, classID := range tch.ClassIDs {
			classStudents, err := a.stdRepo.QueryStudentsByClass(ctx, classID)
			if err != nil {
				return nil, errors.Wrap(err, "querying students by class")
			}
			students = append(students, classStudents...)
		}
		return students, nil

	case user.RoleStudent:
		std, err := a.stdRepo.GetStudentByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Cause(err) == student.ErrNotFound {
				return []student.Student{}, nil
			}
			return nil, errors.Wrap(err, "finding student by user id")
		}
		return []student.Student{std}, nil

	case user.RoleParent:
		return a.stdRepo.QueryStudentsByParent(ctx, actor.UserID)
	}
	return []student.Student{}, nil
}

func (a *Authorizer) getStudent(ctx context.Context, id string) (*student.Student, error) {
	std, err := a.stdRepo.GetStudentByID(ctx, id)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(err, "finding student by id")
	}
	return &std, nil
}
