package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/shule/core/student"
)

type studentRepo struct {
	coll *mongo.Collection
}

var _ student.Repository = (*studentRepo)(nil)

func NewStudentRepository(db *mongo.Database) student.Repository {
	return &studentRepo{coll: db.Collection(studentsCollection)}
}

func (repo *studentRepo) CheckStudentIDUniqueness(ctx context.Context, studentID string) error {
	err := repo.coll.FindOne(ctx, bson.M{"student_id": studentID}).Err()
	if err == nil {
		return student.ErrStudentIDExists
	}
	if err != mongo.ErrNoDocuments {
		return errors.Wrap(err, "checking student id uniqueness")
	}
	return nil
}

func (repo *studentRepo) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	if std.ID == "" {
		std.ID = primitive.NewObjectID().Hex()
	}
	if _, err := repo.coll.InsertOne(ctx, std); err != nil {
		if isDupKey(err, "student_id") {
			return student.Student{}, student.ErrStudentIDExists
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return std, nil
}

func (repo *studentRepo) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	return repo.get(ctx, bson.M{"_id": id})
}

func (repo *studentRepo) GetStudentByStudentID(ctx context.Context, studentID string) (student.Student, error) {
	return repo.get(ctx, bson.M{"student_id": studentID})
}

func (repo *studentRepo) GetStudentByUserID(ctx context.Context, userID string) (student.Student, error) {
	return repo.get(ctx, bson.M{"user_id": userID})
}

func (repo *studentRepo) QueryActiveStudents(ctx context.Context) ([]student.Student, error) {
	return repo.query(ctx, bson.M{"status": student.StatusActive})
}

func (repo *studentRepo) QueryStudentsByClass(ctx context.Context, classID string) ([]student.Student, error) {
	return repo.query(ctx, bson.M{"class_id": classID, "status": student.StatusActive})
}

func (repo *studentRepo) QueryStudentsByParent(ctx context.Context, parentUserID string) ([]student.Student, error) {
	return repo.query(ctx, bson.M{"parent_ids": parentUserID, "status": student.StatusActive})
}

func (repo *studentRepo) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	set := bson.M{
		"class_id":       std.ClassID,
		"admission_date": std.AdmissionDate,
		"parent_ids":     std.ParentIDs,
		"subjects":       std.Subjects,
		"status":         std.Status,
		"updated_at":     std.UpdatedAt,
	}
	res := repo.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": std.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated student.Student
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "updating student")
	}
	return updated, nil
}

func (repo *studentRepo) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return errors.Wrap(err, "deleting students")
}

func (repo *studentRepo) get(ctx context.Context, filter bson.M) (student.Student, error) {
	var std student.Student
	if err := repo.coll.FindOne(ctx, filter).Decode(&std); err != nil {
		if err == mongo.ErrNoDocuments {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "getting student")
	}
	return std, nil
}

func (repo *studentRepo) query(ctx context.Context, filter bson.M) ([]student.Student, error) {
	cur, err := repo.coll.Find(ctx, filter, options.Find().SetSort(bson.M{"student_id": 1}))
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	students := make([]student.Student, 0)
	if err = cur.All(ctx, &students); err != nil {
		return nil, errors.Wrap(err, "decoding students")
	}
	return students, nil
}
