package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/shule/core/announcement"
	"github.com/trezcool/shule/core/user"
)

type announcementRepo struct {
	coll *mongo.Collection
}

var _ announcement.Repository = (*announcementRepo)(nil)

func NewAnnouncementRepository(db *mongo.Database) announcement.Repository {
	return &announcementRepo{coll: db.Collection(announcementsCollection)}
}

func (repo *announcementRepo) CreateAnnouncement(ctx context.Context, ann announcement.Announcement) (announcement.Announcement, error) {
	if ann.ID == "" {
		ann.ID = primitive.NewObjectID().Hex()
	}
	if _, err := repo.coll.InsertOne(ctx, ann); err != nil {
		return announcement.Announcement{}, errors.Wrap(err, "inserting announcement")
	}
	return ann, nil
}

func (repo *announcementRepo) GetAnnouncementByID(ctx context.Context, id string) (announcement.Announcement, error) {
	var ann announcement.Announcement
	if err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&ann); err != nil {
		if err == mongo.ErrNoDocuments {
			return announcement.Announcement{}, announcement.ErrNotFound
		}
		return announcement.Announcement{}, errors.Wrap(err, "getting announcement")
	}
	return ann, nil
}

func (repo *announcementRepo) QueryAllAnnouncements(ctx context.Context) ([]announcement.Announcement, error) {
	return repo.query(ctx, bson.M{})
}

func (repo *announcementRepo) QueryAnnouncementsForRole(ctx context.Context, role user.Role) ([]announcement.Announcement, error) {
	return repo.query(ctx, bson.M{
		"is_active":       true,
		"target_audience": bson.M{"$in": bson.A{announcement.AudienceAll, string(role)}},
	})
}

func (repo *announcementRepo) UpdateAnnouncement(ctx context.Context, ann announcement.Announcement, isActive *bool) (announcement.Announcement, error) {
	set := bson.M{
		"title":           ann.Title,
		"content":         ann.Content,
		"target_audience": ann.Audience,
		"priority":        ann.Priority,
		"updated_at":      ann.UpdatedAt,
	}
	if isActive != nil {
		set["is_active"] = *isActive
	}
	res := repo.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": ann.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated announcement.Announcement
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return announcement.Announcement{}, announcement.ErrNotFound
		}
		return announcement.Announcement{}, errors.Wrap(err, "updating announcement")
	}
	return updated, nil
}

func (repo *announcementRepo) DeleteAnnouncementsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return errors.Wrap(err, "deleting announcements")
}

func (repo *announcementRepo) query(ctx context.Context, filter bson.M) ([]announcement.Announcement, error) {
	cur, err := repo.coll.Find(ctx, filter, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, errors.Wrap(err, "querying announcements")
	}
	announcements := make([]announcement.Announcement, 0)
	if err = cur.All(ctx, &announcements); err != nil {
		return nil, errors.Wrap(err, "decoding announcements")
	}
	return announcements, nil
}
