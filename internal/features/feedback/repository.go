package feedback

import (
	"context"
	"time"

	"go-portal/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FeedbackRepository interface {
	Insert(ctx context.Context, msg *Message) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Message, error)
	ListByPortalIDs(ctx context.Context, portalIDs []string) ([]Message, error)
	MarkRead(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error)
	CountUnread(ctx context.Context, portalID string) (int, error)
	EnsureIndexes(ctx context.Context) error
}

type FeedbackRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewFeedbackRepository(mongodb *database.MongodbDB) FeedbackRepository {
	return &FeedbackRepositoryImpl{
		Collection: mongodb.DB.Collection("feedback_messages"),
	}
}

func (r *FeedbackRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "portal_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	return err
}

func (r *FeedbackRepositoryImpl) Insert(ctx context.Context, msg *Message) error {
	_, err := r.Collection.InsertOne(ctx, msg)
	return err
}

func (r *FeedbackRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID) (*Message, error) {
	var msg Message
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *FeedbackRepositoryImpl) ListByPortalIDs(ctx context.Context, portalIDs []string) ([]Message, error) {
	if len(portalIDs) == 0 {
		return []Message{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, bson.M{"portal_id": bson.M{"$in": portalIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead flips the flag only when the message is currently unread so
// the caller knows whether to decrement the portal counter. The filter
// matches every representation legacy writers left behind.
func (r *FeedbackRepositoryImpl) MarkRead(ctx context.Context, id primitive.ObjectID, at time.Time) (bool, error) {
	filter := bson.M{
		"_id":     id,
		"is_read": bson.M{"$in": bson.A{false, "false", 0, nil}},
	}
	update := bson.M{
		"$set": bson.M{"is_read": true, "read_at": at},
	}
	res, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *FeedbackRepositoryImpl) CountUnread(ctx context.Context, portalID string) (int, error) {
	n, err := r.Collection.CountDocuments(ctx, bson.M{
		"portal_id": portalID,
		"is_read":   bson.M{"$in": bson.A{false, "false", 0, nil}},
	})
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
