package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/andy11223386/akashicConnect/internal/feed"
	"github.com/andy11223386/akashicConnect/internal/model"
)

type tweetRepository struct {
	coll *mongo.Collection
}

func NewTweetRepository(db *mongo.Database) TweetRepository {
	return &tweetRepository{coll: db.Collection(TweetsCollection)}
}

// Create inserts a tweet and fills in its generated ID.
func (r *tweetRepository) Create(ctx context.Context, t *model.Tweet) error {
	doc := tweetDocumentFrom(t)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return model.NewStoreError("insert tweet", err)
	}

	t.ID = insertedID(res)
	t.Comments, t.Likes, t.Retweets = doc.Comments, doc.Likes, doc.Retweets
	return nil
}

func (r *tweetRepository) GetByID(ctx context.Context, id string) (*model.Tweet, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, model.ErrTweetNotFound
	}

	var doc tweetDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if isNoDocuments(err) {
		return nil, model.ErrTweetNotFound
	}
	if err != nil {
		return nil, model.NewStoreError("get tweet", err)
	}
	return doc.toModel(), nil
}

// List returns every tweet, newest first.
func (r *tweetRepository) List(ctx context.Context) ([]model.Tweet, error) {
	return r.find(ctx, "list tweets", bson.M{})
}

// ListByUsername returns the tweets posted by username, newest first.
func (r *tweetRepository) ListByUsername(ctx context.Context, username string) ([]model.Tweet, error) {
	return r.find(ctx, "list tweets by username", bson.M{"username": username})
}

func (r *tweetRepository) AppendComment(ctx context.Context, tweetID, commentID string) error {
	oid, ok := parseID(tweetID)
	if !ok {
		return model.ErrTweetNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$push": bson.M{"comments": commentID}},
	)
	if err != nil {
		return model.NewStoreError("append comment", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrTweetNotFound
	}
	return nil
}

// MutateSet uses $addToSet / $pull so concurrent toggles by different actors
// never overwrite each other.
func (r *tweetRepository) MutateSet(ctx context.Context, tweetID string, kind feed.Kind, op feed.SetOp, actor string) (*model.Tweet, error) {
	oid, ok := parseID(tweetID)
	if !ok {
		return nil, model.ErrTweetNotFound
	}

	operator := "$addToSet"
	if op == feed.SetRemove {
		operator = "$pull"
	}

	var doc tweetDocument
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{operator: bson.M{kind.Field(): actor}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if isNoDocuments(err) {
		return nil, model.ErrTweetNotFound
	}
	if err != nil {
		return nil, model.NewStoreError("mutate "+kind.Field(), err)
	}
	return doc.toModel(), nil
}

func (r *tweetRepository) IncrementViews(ctx context.Context, tweetID string, delta int64) error {
	oid, ok := parseID(tweetID)
	if !ok {
		return model.ErrTweetNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"views": delta}},
	)
	if err != nil {
		return model.NewStoreError("increment views", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrTweetNotFound
	}
	return nil
}

func (r *tweetRepository) find(ctx context.Context, op string, filter bson.M) ([]model.Tweet, error) {
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, model.NewStoreError(op, err)
	}
	defer cur.Close(ctx)

	var docs []tweetDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, model.NewStoreError(op, err)
	}

	tweets := make([]model.Tweet, 0, len(docs))
	for i := range docs {
		tweets = append(tweets, *docs[i].toModel())
	}
	return tweets, nil
}
