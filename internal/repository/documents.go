package repository

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/andy11223386/akashicConnect/internal/model"
)

// Collection names
const (
	UsersCollection    = "users"
	TweetsCollection   = "tweets"
	CommentsCollection = "comments"
)

type userDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Username       string             `bson:"username"`
	Email          string             `bson:"email"`
	Password       string             `bson:"password"`
	Nickname       string             `bson:"nickname"`
	ProfilePicture string             `bson:"profilePicture"`
	ProfileKey     string             `bson:"profileKey,omitempty"`
	Bio            string             `bson:"bio"`
	CreatedAt      time.Time          `bson:"createdAt"`
	Followings     []string           `bson:"followings"`
	Followers      []string           `bson:"followers"`
}

func (d *userDocument) toModel() *model.User {
	return &model.User{
		ID:             d.ID.Hex(),
		Username:       d.Username,
		Email:          d.Email,
		PasswordHash:   d.Password,
		Nickname:       d.Nickname,
		ProfilePicture: d.ProfilePicture,
		ProfileKey:     d.ProfileKey,
		Bio:            d.Bio,
		CreatedAt:      d.CreatedAt,
		Followings:     d.Followings,
		Followers:      d.Followers,
	}
}

func userDocumentFrom(u *model.User) userDocument {
	return userDocument{
		Username:       u.Username,
		Email:          u.Email,
		Password:       u.PasswordHash,
		Nickname:       u.Nickname,
		ProfilePicture: u.ProfilePicture,
		ProfileKey:     u.ProfileKey,
		Bio:            u.Bio,
		CreatedAt:      u.CreatedAt,
		Followings:     nonNil(u.Followings),
		Followers:      nonNil(u.Followers),
	}
}

type tweetDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	CreatedAt time.Time          `bson:"createdAt"`
	Username  string             `bson:"username"`
	Content   string             `bson:"content"`
	ImageURL  *string            `bson:"image,omitempty"`
	Comments  []string           `bson:"comments"`
	Likes     []string           `bson:"likes"`
	Retweets  []string           `bson:"retweets"`
	Views     int64              `bson:"views"`
}

func (d *tweetDocument) toModel() *model.Tweet {
	return &model.Tweet{
		ID:        d.ID.Hex(),
		CreatedAt: d.CreatedAt,
		Username:  d.Username,
		Content:   d.Content,
		ImageURL:  d.ImageURL,
		Comments:  nonNil(d.Comments),
		Likes:     nonNil(d.Likes),
		Retweets:  nonNil(d.Retweets),
		Views:     d.Views,
	}
}

func tweetDocumentFrom(t *model.Tweet) tweetDocument {
	return tweetDocument{
		CreatedAt: t.CreatedAt,
		Username:  t.Username,
		Content:   t.Content,
		ImageURL:  t.ImageURL,
		Comments:  nonNil(t.Comments),
		Likes:     nonNil(t.Likes),
		Retweets:  nonNil(t.Retweets),
		Views:     t.Views,
	}
}

type commentDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ReplyPostID string             `bson:"replyPostId"`
	ReplyTo     *string            `bson:"replyTo,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	Username    string             `bson:"username"`
	Content     string             `bson:"content"`
	Comments    int64              `bson:"comments"`
	Retweets    int64              `bson:"retweets"`
	Likes       int64              `bson:"likes"`
	Views       int64              `bson:"views"`
}

func (d *commentDocument) toModel() *model.Comment {
	return &model.Comment{
		ID:          d.ID.Hex(),
		ReplyPostID: d.ReplyPostID,
		ReplyTo:     d.ReplyTo,
		CreatedAt:   d.CreatedAt,
		Username:    d.Username,
		Content:     d.Content,
		Comments:    d.Comments,
		Retweets:    d.Retweets,
		Likes:       d.Likes,
		Views:       d.Views,
	}
}

func commentDocumentFrom(c *model.Comment) commentDocument {
	return commentDocument{
		ReplyPostID: c.ReplyPostID,
		ReplyTo:     c.ReplyTo,
		CreatedAt:   c.CreatedAt,
		Username:    c.Username,
		Content:     c.Content,
		Comments:    c.Comments,
		Retweets:    c.Retweets,
		Likes:       c.Likes,
		Views:       c.Views,
	}
}

// parseID converts a hex id. Malformed ids cannot match any document, so
// callers report them as not found.
func parseID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	return oid, err == nil
}

func insertedID(res *mongo.InsertOneResult) string {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return ""
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
