package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/shule/core/grade"
)

type gradeRepo struct {
	coll *mongo.Collection
}

var _ grade.Repository = (*gradeRepo)(nil)

func NewGradeRepository(db *mongo.Database) grade.Repository {
	return &gradeRepo{coll: db.Collection(gradesCollection)}
}

func (repo *gradeRepo) GetGrade(ctx context.Context, studentID, assignmentID string) (grade.Grade, error) {
	var grd grade.Grade
	filter := bson.M{"student_id": studentID, "assignment_id": assignmentID}
	if err := repo.coll.FindOne(ctx, filter).Decode(&grd); err != nil {
		if err == mongo.ErrNoDocuments {
			return grade.Grade{}, grade.ErrNotFound
		}
		return grade.Grade{}, errors.Wrap(err, "getting grade")
	}
	return grd, nil
}

func (repo *gradeRepo) UpsertGrade(ctx context.Context, grd grade.Grade) (grade.Grade, error) {
	res := repo.coll.FindOneAndUpdate(
		ctx,
		bson.M{"student_id": grd.StudentID, "assignment_id": grd.AssignmentID},
		bson.M{
			"$set": bson.M{
				"points_earned": grd.PointsEarned,
				"max_points":    grd.MaxPoints,
				"percentage":    grd.Percentage,
				"graded_by":     grd.GradedBy,
				"comments":      grd.Comments,
				"graded_at":     grd.GradedAt,
				"updated_at":    grd.UpdatedAt,
			},
			"$setOnInsert": bson.M{
				"_id":        primitive.NewObjectID().Hex(),
				"created_at": grd.CreatedAt,
			},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)
	var upserted grade.Grade
	if err := res.Decode(&upserted); err != nil {
		return grade.Grade{}, errors.Wrap(err, "upserting grade")
	}
	return upserted, nil
}

func (repo *gradeRepo) QueryGradesByStudent(ctx context.Context, studentID string) ([]grade.Grade, error) {
	return repo.query(ctx, bson.M{"student_id": studentID})
}

func (repo *gradeRepo) QueryGradesByAssignment(ctx context.Context, assignmentID string) ([]grade.Grade, error) {
	return repo.query(ctx, bson.M{"assignment_id": assignmentID})
}

func (repo *gradeRepo) StudentAverage(ctx context.Context, studentID string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"student_id": studentID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"average": bson.M{"$avg": "$percentage"},
		}}},
	}
	cur, err := repo.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, errors.Wrap(err, "aggregating student average")
	}
	var results []struct {
		Average float64 `bson:"average"`
	}
	if err = cur.All(ctx, &results); err != nil {
		return 0, errors.Wrap(err, "decoding student average")
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Average, nil
}

func (repo *gradeRepo) DeleteGradesByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return errors.Wrap(err, "deleting grades")
}

func (repo *gradeRepo) query(ctx context.Context, filter bson.M) ([]grade.Grade, error) {
	cur, err := repo.coll.Find(ctx, filter, options.Find().SetSort(bson.M{"graded_at": -1}))
	if err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}
	grades := make([]grade.Grade, 0)
	if err = cur.All(ctx, &grades); err != nil {
		return nil, errors.Wrap(err, "decoding grades")
	}
	return grades, nil
}
