package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/teacher"
)

type teacherRepository struct {
	db *teacherTable
}

var _ teacher.Repository = (*teacherRepository)(nil)

func NewTeacherRepository(db *DB) teacher.Repository {
	return &teacherRepository{db: db.teacher}
}

func (repo *teacherRepository) query(match func(teacher.Teacher) bool) []teacher.Teacher {
	teachers := make([]teacher.Teacher, 0, len(repo.db.table))
	for _, tch := range repo.db.table {
		if match(*tch) {
			teachers = append(teachers, *tch)
		}
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].TeacherID < teachers[j].TeacherID })
	return teachers
}

func (repo *teacherRepository) CheckTeacherIDUniqueness(ctx context.Context, teacherID string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, tch := range repo.db.table {
		if tch.TeacherID == teacherID {
			return teacher.ErrTeacherIDExists
		}
	}
	return nil
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	tch.ID = uuid.New().String()
	repo.db.table[tch.ID] = &tch
	return tch, nil
}

func (repo *teacherRepository) GetTeacherByID(ctx context.Context, id string) (teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if tch, ok := repo.db.table[id]; ok {
		return *tch, nil
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) GetTeacherByTeacherID(ctx context.Context, teacherID string) (teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, tch := range repo.db.table {
		if tch.TeacherID == teacherID {
			return *tch, nil
		}
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) GetTeacherByUserID(ctx context.Context, userID string) (teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, tch := range repo.db.table {
		if tch.UserID == userID {
			return *tch, nil
		}
	}
	return teacher.Teacher{}, teacher.ErrNotFound
}

func (repo *teacherRepository) QueryActiveTeachers(ctx context.Context) ([]teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(func(tch teacher.Teacher) bool { return tch.Status == teacher.StatusActive }), nil
}

func (repo *teacherRepository) QueryTeachersByClass(ctx context.Context, classID string) ([]teacher.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(func(tch teacher.Teacher) bool {
		return tch.TeachesClass(classID) && tch.Status == teacher.StatusActive
	}), nil
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	origTch, ok := repo.db.table[tch.ID]
	if !ok {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	origTch.Subjects = tch.Subjects
	origTch.HireDate = tch.HireDate
	origTch.ClassIDs = tch.ClassIDs
	origTch.Department = tch.Department
	origTch.Status = tch.Status
	origTch.UpdatedAt = tch.UpdatedAt

	repo.db.table[tch.ID] = origTch
	return *origTch, nil
}

func (repo *teacherRepository) DeleteTeachersByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
