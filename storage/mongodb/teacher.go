package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/shule/core/teacher"
)

type teacherRepo struct {
	coll *mongo.Collection
}

var _ teacher.Repository = (*teacherRepo)(nil)

func NewTeacherRepository(db *mongo.Database) teacher.Repository {
	return &teacherRepo{coll: db.Collection(teachersCollection)}
}

func (repo *teacherRepo) CheckTeacherIDUniqueness(ctx context.Context, teacherID string) error {
	err := repo.coll.FindOne(ctx, bson.M{"teacher_id": teacherID}).Err()
	if err == nil {
		return teacher.ErrTeacherIDExists
	}
	if err != mongo.ErrNoDocuments {
		return errors.Wrap(err, "checking teacher id uniqueness")
	}
	return nil
}

func (repo *teacherRepo) CreateTeacher(ctx context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	if tch.ID == "" {
		tch.ID = primitive.NewObjectID().Hex()
	}
	if _, err := repo.coll.InsertOne(ctx, tch); err != nil {
		if isDupKey(err, "teacher_id") {
			return teacher.Teacher{}, teacher.ErrTeacherIDExists
		}
		return teacher.Teacher{}, errors.Wrap(err, "inserting teacher")
	}
	return tch, nil
}

func (repo *teacherRepo) GetTeacherByID(ctx context.Context, id string) (teacher.Teacher, error) {
	return repo.get(ctx, bson.M{"_id": id})
}

func (repo *teacherRepo) GetTeacherByTeacherID(ctx context.Context, teacherID string) (teacher.Teacher, error) {
	return repo.get(ctx, bson.M{"teacher_id": teacherID})
}

func (repo *teacherRepo) GetTeacherByUserID(ctx context.Context, userID string) (teacher.Teacher, error) {
	return repo.get(ctx, bson.M{"user_id": userID})
}

func (repo *teacherRepo) QueryActiveTeachers(ctx context.Context) ([]teacher.Teacher, error) {
	return repo.query(ctx, bson.M{"status": teacher.StatusActive})
}

func (repo *teacherRepo) QueryTeachersByClass(ctx context.Context, classID string) ([]teacher.Teacher, error) {
	return repo.query(ctx, bson.M{"class_ids": classID, "status": teacher.StatusActive})
}

func (repo *teacherRepo) UpdateTeacher(ctx context.Context, tch teacher.Teacher) (teacher.Teacher, error) {
	set := bson.M{
		"subjects":   tch.Subjects,
		"hire_date":  tch.HireDate,
		"class_ids":  tch.ClassIDs,
		"department": tch.Department,
		"status":     tch.Status,
		"updated_at": tch.UpdatedAt,
	}
	res := repo.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": tch.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated teacher.Teacher
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return teacher.Teacher{}, teacher.ErrNotFound
		}
		return teacher.Teacher{}, errors.Wrap(err, "updating teacher")
	}
	return updated, nil
}

func (repo *teacherRepo) DeleteTeachersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return errors.Wrap(err, "deleting teachers")
}

func (repo *teacherRepo) get(ctx context.Context, filter bson.M) (teacher.Teacher, error) {
	var tch teacher.Teacher
	if err := repo.coll.FindOne(ctx, filter).Decode(&tch); err != nil {
		if err == mongo.ErrNoDocuments {
			return teacher.Teacher{}, teacher.ErrNotFound
		}
		return teacher.Teacher{}, errors.Wrap(err, "getting teacher")
	}
	return tch, nil
}

func (repo *teacherRepo) query(ctx context.Context, filter bson.M) ([]teacher.Teacher, error) {
	cur, err := repo.coll.Find(ctx, filter, options.Find().SetSort(bson.M{"teacher_id": 1}))
	if err != nil {
		return nil, errors.Wrap(err, "querying teachers")
	}
	teachers := make([]teacher.Teacher, 0)
	if err = cur.All(ctx, &teachers); err != nil {
		return nil, errors.Wrap(err, "decoding teachers")
	}
	return teachers, nil
}
