package mongodb

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/bsonx"

	"github.com/trezcool/shule/core"
)

// Collections
const (
	usersCollection         = "users"
	studentsCollection      = "students"
	teachersCollection      = "teachers"
	classesCollection       = "classes"
	attendanceCollection    = "attendance"
	assignmentsCollection   = "assignments"
	gradesCollection        = "grades"
	announcementsCollection = "announcements"
)

// Open establishes the process-wide database handle; it is constructed once at
// start-up and passed by reference to every repository.
func Open(ctx context.Context, conf *core.Config) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.Database.URI))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}
	if err = ping(ctx, client); err != nil {
		return nil, err
	}
	return client.Database(conf.Database.Name), nil
}

func Close(ctx context.Context, db *mongo.Database) error {
	return db.Client().Disconnect(ctx)
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, client *mongo.Client) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = client.Ping(ctx, readpref.Primary()); err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// EnsureIndexes provisions the unique natural-key and composite-key indexes
// that close the check-then-insert race at the storage layer, plus the
// non-unique indexes backing the scoped queries.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bsonx.Doc{{Key: "username", Value: bsonx.Int32(1)}}, Options: unique},
			{Keys: bsonx.Doc{{Key: "email", Value: bsonx.Int32(1)}}, Options: unique},
			{Keys: bsonx.Doc{{Key: "role", Value: bsonx.Int32(1)}}},
		},
		studentsCollection: {
			{Keys: bsonx.Doc{{Key: "student_id", Value: bsonx.Int32(1)}}, Options: unique},
			{Keys: bsonx.Doc{{Key: "user_id", Value: bsonx.Int32(1)}}},
			{Keys: bsonx.Doc{{Key: "class_id", Value: bsonx.Int32(1)}}},
			{Keys: bsonx.Doc{{Key: "parent_ids", Value: bsonx.Int32(1)}}},
		},
		teachersCollection: {
			{Keys: bsonx.Doc{{Key: "teacher_id", Value: bsonx.Int32(1)}}, Options: unique},
			{Keys: bsonx.Doc{{Key: "user_id", Value: bsonx.Int32(1)}}},
		},
		classesCollection: {
			{Keys: bsonx.Doc{{Key: "class_code", Value: bsonx.Int32(1)}}, Options: unique},
		},
		attendanceCollection: {
			{Keys: bsonx.Doc{{Key: "student_id", Value: bsonx.Int32(1)}, {Key: "date", Value: bsonx.Int32(1)}}, Options: unique},
			{Keys: bsonx.Doc{{Key: "class_id", Value: bsonx.Int32(1)}, {Key: "date", Value: bsonx.Int32(1)}}},
		},
		assignmentsCollection: {
			{Keys: bsonx.Doc{{Key: "class_id", Value: bsonx.Int32(1)}, {Key: "due_date", Value: bsonx.Int32(1)}}},
		},
		gradesCollection: {
			{Keys: bsonx.Doc{{Key: "student_id", Value: bsonx.Int32(1)}, {Key: "assignment_id", Value: bsonx.Int32(1)}}, Options: unique},
		},
		announcementsCollection: {
			{Keys: bsonx.Doc{{Key: "target_audience", Value: bsonx.Int32(1)}, {Key: "created_at", Value: bsonx.Int32(-1)}}},
		},
	}

	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "creating %s indexes", coll)
		}
	}
	return nil
}

// isDupKey reports whether err is a unique-index violation on an index whose
// name contains key.
func isDupKey(err error, key string) bool {
	var wErr mongo.WriteException
	if errors.As(err, &wErr) {
		for _, we := range wErr.WriteErrors {
			if we.Code == 11000 && strings.Contains(we.Message, key) {
				return true
			}
		}
	}
	return false
}
