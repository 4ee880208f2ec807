package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/shule/core/school"
)

type classRepo struct {
	coll *mongo.Collection
}

var _ school.Repository = (*classRepo)(nil)

func NewClassRepository(db *mongo.Database) school.Repository {
	return &classRepo{coll: db.Collection(classesCollection)}
}

func (repo *classRepo) CheckClassCodeUniqueness(ctx context.Context, code string) error {
	err := repo.coll.FindOne(ctx, bson.M{"class_code": code}).Err()
	if err == nil {
		return school.ErrClassCodeExists
	}
	if err != mongo.ErrNoDocuments {
		return errors.Wrap(err, "checking class code uniqueness")
	}
	return nil
}

func (repo *classRepo) CreateClass(ctx context.Context, cls school.Class) (school.Class, error) {
	if cls.ID == "" {
		cls.ID = primitive.NewObjectID().Hex()
	}
	if _, err := repo.coll.InsertOne(ctx, cls); err != nil {
		if isDupKey(err, "class_code") {
			return school.Class{}, school.ErrClassCodeExists
		}
		return school.Class{}, errors.Wrap(err, "inserting class")
	}
	return cls, nil
}

func (repo *classRepo) GetClassByID(ctx context.Context, id string) (school.Class, error) {
	return repo.get(ctx, bson.M{"_id": id})
}

func (repo *classRepo) GetClassByCode(ctx context.Context, code string) (school.Class, error) {
	return repo.get(ctx, bson.M{"class_code": code})
}

func (repo *classRepo) QueryActiveClasses(ctx context.Context) ([]school.Class, error) {
	return repo.query(ctx, bson.M{"is_active": true})
}

func (repo *classRepo) QueryClassesByID(ctx context.Context, ids ...string) ([]school.Class, error) {
	if len(ids) == 0 {
		return []school.Class{}, nil
	}
	classes, err := repo.query(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	// preserve the order of ids
	byID := make(map[string]school.Class, len(classes))
	for _, cls := range classes {
		byID[cls.ID] = cls
	}
	ordered := make([]school.Class, 0, len(classes))
	for _, id := range ids {
		if cls, ok := byID[id]; ok {
			ordered = append(ordered, cls)
		}
	}
	return ordered, nil
}

func (repo *classRepo) UpdateClass(ctx context.Context, cls school.Class, isActive *bool) (school.Class, error) {
	set := bson.M{
		"class_name":    cls.Name,
		"grade_level":   cls.GradeLevel,
		"academic_year": cls.AcademicYear,
		"max_students":  cls.MaxStudents,
		"subjects":      cls.Subjects,
		"updated_at":    cls.UpdatedAt,
	}
	if isActive != nil {
		set["is_active"] = *isActive
	}
	res := repo.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": cls.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated school.Class
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return school.Class{}, school.ErrNotFound
		}
		return school.Class{}, errors.Wrap(err, "updating class")
	}
	return updated, nil
}

func (repo *classRepo) DeleteClassesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return errors.Wrap(err, "deleting classes")
}

func (repo *classRepo) get(ctx context.Context, filter bson.M) (school.Class, error) {
	var cls school.Class
	if err := repo.coll.FindOne(ctx, filter).Decode(&cls); err != nil {
		if err == mongo.ErrNoDocuments {
			return school.Class{}, school.ErrNotFound
		}
		return school.Class{}, errors.Wrap(err, "getting class")
	}
	return cls, nil
}

func (repo *classRepo) query(ctx context.Context, filter bson.M) ([]school.Class, error) {
	cur, err := repo.coll.Find(ctx, filter, options.Find().SetSort(bson.M{"class_code": 1}))
	if err != nil {
		return nil, errors.Wrap(err, "querying classes")
	}
	classes := make([]school.Class, 0)
	if err = cur.All(ctx, &classes); err != nil {
		return nil, errors.Wrap(err, "decoding classes")
	}
	return classes, nil
}
