package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/andy11223386/akashicConnect/internal/model"
)

// userRepository implements UserRepository on the users collection
type userRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{coll: db.Collection(UsersCollection)}
}

// Create inserts a new user. A duplicate username or email is reported as
// model.ErrUsernameOrEmailTaken.
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	doc := userDocumentFrom(u)
	res, err := r.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return model.ErrUsernameOrEmailTaken
	}
	if err != nil {
		return model.NewStoreError("insert user", err)
	}

	u.ID = insertedID(res)
	u.Followings = doc.Followings
	u.Followers = doc.Followers
	return nil
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return r.findOne(ctx, "get user by id", bson.M{"_id": oid})
}

// GetByUsername retrieves a user by their username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, "get user by username", bson.M{"username": username})
}

// GetByEmail retrieves a user by their email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, "get user by email", bson.M{"email": email})
}

func (r *userRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}}
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, model.NewStoreError("check username or email", err)
	}
	return n > 0, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, username string, req model.UpdateProfileRequest) (*model.User, error) {
	set := bson.M{}
	if req.Nickname != nil {
		set["nickname"] = *req.Nickname
	}
	if req.Bio != nil {
		set["bio"] = *req.Bio
	}
	if req.ProfilePicture != nil {
		set["profilePicture"] = *req.ProfilePicture
	}
	if len(set) == 0 {
		return r.GetByUsername(ctx, username)
	}
	return r.updateOne(ctx, "update profile", username, set)
}

func (r *userRepository) SetProfilePicture(ctx context.Context, username, url, key string) (*model.User, error) {
	return r.updateOne(ctx, "set profile picture", username, bson.M{
		"profilePicture": url,
		"profileKey":     key,
	})
}

func (r *userRepository) findOne(ctx context.Context, op string, filter bson.M) (*model.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if isNoDocuments(err) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, model.NewStoreError(op, err)
	}
	return doc.toModel(), nil
}

func (r *userRepository) updateOne(ctx context.Context, op, username string, set bson.M) (*model.User, error) {
	var doc userDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"username": username},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if isNoDocuments(err) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, model.NewStoreError(op, err)
	}
	return doc.toModel(), nil
}
