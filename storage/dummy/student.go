package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query(match func(student.Student) bool) []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, std := range repo.db.table {
		if match(*std) {
			students = append(students, *std)
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].StudentID < students[j].StudentID })
	return students
}

func (repo *studentRepository) CheckStudentIDUniqueness(ctx context.Context, studentID string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.table {
		if std.StudentID == studentID {
			return student.ErrStudentIDExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	std.ID = uuid.New().String()
	repo.db.table[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.table[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByStudentID(ctx context.Context, studentID string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.table {
		if std.StudentID == studentID {
			return *std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByUserID(ctx context.Context, userID string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, std := range repo.db.table {
		if std.UserID == userID {
			return *std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryActiveStudents(ctx context.Context) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(func(std student.Student) bool { return std.IsActive() }), nil
}

func (repo *studentRepository) QueryStudentsByClass(ctx context.Context, classID string) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(func(std student.Student) bool {
		return std.ClassID == classID && std.IsActive()
	}), nil
}

func (repo *studentRepository) QueryStudentsByParent(ctx context.Context, parentUserID string) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(func(std student.Student) bool {
		return std.HasParent(parentUserID) && std.IsActive()
	}), nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	origStd, ok := repo.db.table[std.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	origStd.ClassID = std.ClassID
	origStd.AdmissionDate = std.AdmissionDate
	origStd.ParentIDs = std.ParentIDs
	origStd.Subjects = std.Subjects
	origStd.Status = std.Status
	origStd.UpdatedAt = std.UpdatedAt

	repo.db.table[std.ID] = origStd
	return *origStd, nil
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
