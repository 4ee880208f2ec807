package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/shule/core/assignment"
)

type assignmentRepo struct {
	coll *mongo.Collection
}

var _ assignment.Repository = (*assignmentRepo)(nil)

func NewAssignmentRepository(db *mongo.Database) assignment.Repository {
	return &assignmentRepo{coll: db.Collection(assignmentsCollection)}
}

func (repo *assignmentRepo) CreateAssignment(ctx context.Context, asg assignment.Assignment) (assignment.Assignment, error) {
	if asg.ID == "" {
		asg.ID = primitive.NewObjectID().Hex()
	}
	if _, err := repo.coll.InsertOne(ctx, asg); err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return asg, nil
}

func (repo *assignmentRepo) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	var asg assignment.Assignment
	if err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&asg); err != nil {
		if err == mongo.ErrNoDocuments {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, errors.Wrap(err, "getting assignment")
	}
	return asg, nil
}

func (repo *assignmentRepo) QueryAssignmentsByClass(ctx context.Context, classID string) ([]assignment.Assignment, error) {
	cur, err := repo.coll.Find(
		ctx,
		bson.M{"class_id": classID, "is_active": true},
		options.Find().SetSort(bson.M{"due_date": 1}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	assignments := make([]assignment.Assignment, 0)
	if err = cur.All(ctx, &assignments); err != nil {
		return nil, errors.Wrap(err, "decoding assignments")
	}
	return assignments, nil
}

func (repo *assignmentRepo) UpdateAssignment(ctx context.Context, asg assignment.Assignment, isActive *bool) (assignment.Assignment, error) {
	set := bson.M{
		"title":        asg.Title,
		"description":  asg.Description,
		"subject":      asg.Subject,
		"due_date":     asg.DueDate,
		"max_points":   asg.MaxPoints,
		"instructions": asg.Instructions,
		"updated_at":   asg.UpdatedAt,
	}
	if isActive != nil {
		set["is_active"] = *isActive
	}
	res := repo.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": asg.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated assignment.Assignment
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, errors.Wrap(err, "updating assignment")
	}
	return updated, nil
}

func (repo *assignmentRepo) DeleteAssignmentsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return errors.Wrap(err, "deleting assignments")
}
