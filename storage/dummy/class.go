package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core/school"
)

type classRepository struct {
	db *classTable
}

var _ school.Repository = (*classRepository)(nil)

func NewClassRepository(db *DB) school.Repository {
	return &classRepository{db: db.class}
}

func (repo *classRepository) CheckClassCodeUniqueness(ctx context.Context, code string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, cls := range repo.db.table {
		if cls.Code == code {
			return school.ErrClassCodeExists
		}
	}
	return nil
}

func (repo *classRepository) CreateClass(ctx context.Context, cls school.Class) (school.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	cls.ID = uuid.New().String()
	repo.db.table[cls.ID] = &cls
	return cls, nil
}

func (repo *classRepository) GetClassByID(ctx context.Context, id string) (school.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cls, ok := repo.db.table[id]; ok {
		return *cls, nil
	}
	return school.Class{}, school.ErrNotFound
}

func (repo *classRepository) GetClassByCode(ctx context.Context, code string) (school.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, cls := range repo.db.table {
		if cls.Code == code {
			return *cls, nil
		}
	}
	return school.Class{}, school.ErrNotFound
}

func (repo *classRepository) QueryActiveClasses(ctx context.Context) ([]school.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]school.Class, 0, len(repo.db.table))
	for _, cls := range repo.db.table {
		if cls.IsActive {
			classes = append(classes, *cls)
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i].Code < classes[j].Code })
	return classes, nil
}

func (repo *classRepository) QueryClassesByID(ctx context.Context, ids ...string) ([]school.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]school.Class, 0, len(ids))
	for _, id := range ids {
		if cls, ok := repo.db.table[id]; ok {
			classes = append(classes, *cls)
		}
	}
	return classes, nil
}

func (repo *classRepository) UpdateClass(ctx context.Context, cls school.Class, isActive *bool) (school.Class, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	origCls, ok := repo.db.table[cls.ID]
	if !ok {
		return school.Class{}, school.ErrNotFound
	}
	if isActive != nil {
		origCls.IsActive = *isActive
	}
	origCls.Name = cls.Name
	origCls.GradeLevel = cls.GradeLevel
	origCls.AcademicYear = cls.AcademicYear
	origCls.MaxStudents = cls.MaxStudents
	origCls.Subjects = cls.Subjects
	origCls.UpdatedAt = cls.UpdatedAt

	repo.db.table[cls.ID] = origCls
	return *origCls, nil
}

func (repo *classRepository) DeleteClassesByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
