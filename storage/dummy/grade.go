package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/grade"
)

type gradeRepository struct {
	db *gradeTable
}

var _ grade.Repository = (*gradeRepository)(nil)

func NewGradeRepository(db *DB) grade.Repository {
	return &gradeRepository{db: db.grade}
}

func (repo *gradeRepository) GetGrade(ctx context.Context, studentID, assignmentID string) (grade.Grade, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, grd := range repo.db.table {
		if grd.StudentID == studentID && grd.AssignmentID == assignmentID {
			return *grd, nil
		}
	}
	return grade.Grade{}, grade.ErrNotFound
}

func (repo *gradeRepository) UpsertGrade(ctx context.Context, grd grade.Grade) (grade.Grade, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, orig := range repo.db.table {
		if orig.StudentID == grd.StudentID && orig.AssignmentID == grd.AssignmentID {
			orig.PointsEarned = grd.PointsEarned
			orig.MaxPoints = grd.MaxPoints
			orig.Percentage = grd.Percentage
			orig.GradedBy = grd.GradedBy
			orig.Comments = grd.Comments
			orig.GradedAt = grd.GradedAt
			orig.UpdatedAt = grd.UpdatedAt
			return *orig, nil
		}
	}

	grd.ID = uuid.New().String()
	repo.db.table[grd.ID] = &grd
	return grd, nil
}

func (repo *gradeRepository) QueryGradesByStudent(ctx context.Context, studentID string) ([]grade.Grade, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(func(grd grade.Grade) bool { return grd.StudentID == studentID }), nil
}

func (repo *gradeRepository) QueryGradesByAssignment(ctx context.Context, assignmentID string) ([]grade.Grade, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(func(grd grade.Grade) bool { return grd.AssignmentID == assignmentID }), nil
}

func (repo *gradeRepository) StudentAverage(ctx context.Context, studentID string) (float64, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var sum float64
	var count int
	for _, grd := range repo.db.table {
		if grd.StudentID == studentID {
			sum += grd.Percentage
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return sum / float64(count), nil
}

func (repo *gradeRepository) DeleteGradesByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func (repo *gradeRepository) query(match func(grade.Grade) bool) []grade.Grade {
	grades := make([]grade.Grade, 0)
	for _, grd := range repo.db.table {
		if match(*grd) {
			grades = append(grades, *grd)
		}
	}
	sort.Slice(grades, func(i, j int) bool { return grades[i].GradedAt.After(grades[j].GradedAt) })
	return grades
}
