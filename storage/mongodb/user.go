package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/shule/core/user"
)

type userRepo struct {
	coll *mongo.Collection
}

var _ user.Repository = (*userRepo)(nil)

func NewUserRepository(db *mongo.Database) user.Repository {
	return &userRepo{coll: db.Collection(usersCollection)}
}

func (repo *userRepo) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	exclIDs := make([]string, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		exclIDs = append(exclIDs, usr.ID)
	}

	filter := bson.M{"username": username}
	if len(exclIDs) > 0 {
		filter["_id"] = bson.M{"$nin": exclIDs}
	}
	if err := repo.coll.FindOne(ctx, filter).Err(); err == nil {
		return user.ErrUsernameExists
	} else if err != mongo.ErrNoDocuments {
		return errors.Wrap(err, "checking username uniqueness")
	}

	filter = bson.M{"email": email}
	if len(exclIDs) > 0 {
		filter["_id"] = bson.M{"$nin": exclIDs}
	}
	if err := repo.coll.FindOne(ctx, filter).Err(); err == nil {
		return user.ErrEmailExists
	} else if err != mongo.ErrNoDocuments {
		return errors.Wrap(err, "checking email uniqueness")
	}
	return nil
}

func (repo *userRepo) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == "" {
		usr.ID = primitive.NewObjectID().Hex()
	}
	if _, err := repo.coll.InsertOne(ctx, usr); err != nil {
		switch {
		case isDupKey(err, "username"):
			return user.User{}, user.ErrUsernameExists
		case isDupKey(err, "email"):
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepo) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	return repo.query(ctx, bson.M{}, options.Find().SetSort(bson.M{"created_at": 1}))
}

func (repo *userRepo) GetUserByID(ctx context.Context, id string) (user.User, error) {
	return repo.get(ctx, bson.M{"_id": id})
}

func (repo *userRepo) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	return repo.get(ctx, bson.M{"username": username})
}

func (repo *userRepo) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.get(ctx, bson.M{"email": email})
}

func (repo *userRepo) GetUserByUsernameOrEmail(ctx context.Context, username string) (user.User, error) {
	return repo.get(ctx, bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": username},
	}})
}

func (repo *userRepo) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	match := bson.M{}
	if filter.Search != "" {
		re := primitive.Regex{Pattern: filter.Search, Options: "i"}
		match["$or"] = bson.A{
			bson.M{"full_name": re},
			bson.M{"username": re},
			bson.M{"email": re},
		}
	}
	if filter.Role != "" {
		match["role"] = filter.Role
	}
	if filter.IsActive != nil {
		match["is_active"] = *filter.IsActive
	}
	if created := rangeQuery(filter.CreatedFrom, filter.CreatedTo); len(created) > 0 {
		match["created_at"] = created
	}
	return repo.query(ctx, match, options.Find().SetSort(bson.M{"created_at": 1}))
}

func (repo *userRepo) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	set := bson.M{
		"full_name":  usr.FullName,
		"username":   usr.Username,
		"email":      usr.Email,
		"role":       usr.Role,
		"profile":    usr.Profile,
		"updated_at": usr.UpdatedAt,
	}
	if len(usr.PasswordHash) > 0 {
		set["password"] = usr.PasswordHash
	}
	if isActive != nil {
		set["is_active"] = *isActive
	}

	res := repo.coll.FindOneAndUpdate(
		ctx,
		bson.M{"_id": usr.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated user.User
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return updated, nil
}

func (repo *userRepo) UpdateOrCreateUser(ctx context.Context, usr user.User) (user.User, error) {
	existing, err := repo.GetUserByUsernameOrEmail(ctx, usr.Username)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return repo.CreateUser(ctx, usr)
		}
		return user.User{}, err
	}
	usr.ID = existing.ID
	usr.CreatedAt = existing.CreatedAt
	return repo.UpdateUser(ctx, usr, &usr.IsActive)
}

func (repo *userRepo) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := repo.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"last_login": at}})
	return errors.Wrap(err, "setting last login")
}

func (repo *userRepo) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := repo.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return errors.Wrap(err, "deleting users")
}

func (repo *userRepo) get(ctx context.Context, filter bson.M) (user.User, error) {
	var usr user.User
	if err := repo.coll.FindOne(ctx, filter).Decode(&usr); err != nil {
		if err == mongo.ErrNoDocuments {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return usr, nil
}

func (repo *userRepo) query(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]user.User, error) {
	cur, err := repo.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0)
	if err = cur.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, "decoding users")
	}
	return users, nil
}

// rangeQuery builds an inclusive time range; zero bounds are left open.
func rangeQuery(from, to time.Time) bson.M {
	rng := bson.M{}
	if !from.IsZero() {
		rng["$gte"] = from
	}
	if !to.IsZero() {
		rng["$lte"] = to
	}
	return rng
}
