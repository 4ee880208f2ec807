package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/assignment"
)

type assignmentRepository struct {
	db *assignmentTable
}

var _ assignment.Repository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{db: db.assignment}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	asg.ID = uuid.New().String()
	repo.db.table[asg.ID] = &asg
	return asg, nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if asg, ok := repo.db.table[id]; ok {
		return *asg, nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) QueryAssignmentsByClass(ctx context.Context, classID string) ([]assignment.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	assignments := make([]assignment.Assignment, 0)
	for _, asg := range repo.db.table {
		if asg.ClassID == classID && asg.IsActive {
			assignments = append(assignments, *asg)
		}
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].DueDate.Before(assignments[j].DueDate) })
	return assignments, nil
}

func (repo *assignmentRepository) UpdateAssignment(ctx context.Context, asg assignment.Assignment, isActive *bool) (assignment.Assignment, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	origAsg, ok := repo.db.table[asg.ID]
	if !ok {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	if isActive != nil {
		origAsg.IsActive = *isActive
	}
	origAsg.Title = asg.Title
	origAsg.Description = asg.Description
	origAsg.Subject = asg.Subject
	origAsg.DueDate = asg.DueDate
	origAsg.MaxPoints = asg.MaxPoints
	origAsg.Instructions = asg.Instructions
	origAsg.UpdatedAt = asg.UpdatedAt

	repo.db.table[asg.ID] = origAsg
	return *origAsg, nil
}

func (repo *assignmentRepository) DeleteAssignmentsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
