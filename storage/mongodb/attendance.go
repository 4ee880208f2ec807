package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/shule/core/attendance"
)

type attendanceRepo struct {
	coll *mongo.Collection
}

var _ attendance.Repository = (*attendanceRepo)(nil)

func NewAttendanceRepository(db *mongo.Database) attendance.Repository {
	return &attendanceRepo{coll: db.Collection(attendanceCollection)}
}

func (repo *attendanceRepo) GetAttendance(ctx context.Context, studentID string, date time.Time) (attendance.Attendance, error) {
	var att attendance.Attendance
	filter := bson.M{"student_id": studentID, "date": attendance.DateOf(date)}
	if err := repo.coll.FindOne(ctx, filter).Decode(&att); err != nil {
		if err == mongo.ErrNoDocuments {
			return attendance.Attendance{}, attendance.ErrNotFound
		}
		return attendance.Attendance{}, errors.Wrap(err, "getting attendance")
	}
	return att, nil
}

func (repo *attendanceRepo) UpsertAttendance(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	res := repo.coll.FindOneAndUpdate(
		ctx,
		bson.M{"student_id": att.StudentID, "date": att.Date},
		bson.M{
			"$set": bson.M{
				"class_id":   att.ClassID,
				"status":     att.Status,
				"remarks":    att.Remarks,
				"marked_by":  att.MarkedBy,
				"updated_at": att.UpdatedAt,
			},
			"$setOnInsert": bson.M{
				"_id":        primitive.NewObjectID().Hex(),
				"created_at": att.CreatedAt,
			},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)
	var upserted attendance.Attendance
	if err := res.Decode(&upserted); err != nil {
		return attendance.Attendance{}, errors.Wrap(err, "upserting attendance")
	}
	return upserted, nil
}

func (repo *attendanceRepo) QueryAttendanceByStudent(ctx context.Context, studentID string, from, to time.Time) ([]attendance.Attendance, error) {
	filter := bson.M{"student_id": studentID}
	if dates := rangeQuery(from, to); len(dates) > 0 {
		filter["date"] = dates
	}
	return repo.query(ctx, filter)
}

func (repo *attendanceRepo) QueryAttendanceByClass(ctx context.Context, classID string, date time.Time) ([]attendance.Attendance, error) {
	return repo.query(ctx, bson.M{"class_id": classID, "date": attendance.DateOf(date)})
}

func (repo *attendanceRepo) DeleteAttendanceByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return errors.Wrap(err, "deleting attendance")
}

func (repo *attendanceRepo) query(ctx context.Context, filter bson.M) ([]attendance.Attendance, error) {
	cur, err := repo.coll.Find(ctx, filter, options.Find().SetSort(bson.M{"date": -1}))
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance")
	}
	records := make([]attendance.Attendance, 0)
	if err = cur.All(ctx, &records); err != nil {
		return nil, errors.Wrap(err, "decoding attendance")
	}
	return records, nil
}
