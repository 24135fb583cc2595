package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/andy11223386/akashicConnect/internal/model"
)

type commentRepository struct {
	coll *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) CommentRepository {
	return &commentRepository{coll: db.Collection(CommentsCollection)}
}

// Create inserts a new comment. The caller appends the returned ID to the
// parent tweet; the two writes are not transactional.
func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	res, err := r.coll.InsertOne(ctx, commentDocumentFrom(c))
	if err != nil {
		return model.NewStoreError("insert comment", err)
	}
	c.ID = insertedID(res)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	oid, ok := parseID(id)
	if !ok {
		return nil, model.ErrCommentNotFound
	}

	var doc commentDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if isNoDocuments(err) {
		return nil, model.ErrCommentNotFound
	}
	if err != nil {
		return nil, model.NewStoreError("get comment", err)
	}
	return doc.toModel(), nil
}

func (r *commentRepository) IncrementReplies(ctx context.Context, id string, delta int64) error {
	oid, ok := parseID(id)
	if !ok {
		return model.ErrCommentNotFound
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"comments": delta}},
	)
	if err != nil {
		return model.NewStoreError("increment replies", err)
	}
	if res.MatchedCount == 0 {
		return model.ErrCommentNotFound
	}
	return nil
}
