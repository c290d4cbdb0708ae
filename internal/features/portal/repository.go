package portal

import (
	"context"
	"time"

	"go-portal/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PortalRepository interface {
	Create(ctx context.Context, portal *Portal) error
	FindByID(ctx context.Context, id primitive.ObjectID, userID string) (*Portal, error)
	FindBySlug(ctx context.Context, slug string) (*Portal, error)
	FindByIDAny(ctx context.Context, id primitive.ObjectID) (*Portal, error)
	ListByUser(ctx context.Context, userID string) ([]Portal, error)
	ListAll(ctx context.Context) ([]Portal, error)
	SaveModules(ctx context.Context, id primitive.ObjectID, userID string, version int64, modules ModuleSet) (*Portal, error)
	Delete(ctx context.Context, id primitive.ObjectID, userID string) error
	TouchVisited(ctx context.Context, id primitive.ObjectID, at time.Time) error
	IncInbox(ctx context.Context, id primitive.ObjectID, delta int) error
	SetInbox(ctx context.Context, id primitive.ObjectID, count int) error
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
	EnsureIndexes(ctx context.Context) error
}

type PortalRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewPortalRepository(mongodb *database.MongodbDB) PortalRepository {
	return &PortalRepositoryImpl{
		Collection: mongodb.DB.Collection("portals"),
	}
}

func (r *PortalRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
		},
	})
	return err
}

func (r *PortalRepositoryImpl) Create(ctx context.Context, portal *Portal) error {
	_, err := r.Collection.InsertOne(ctx, portal)
	return err
}

func (r *PortalRepositoryImpl) FindByID(ctx context.Context, id primitive.ObjectID, userID string) (*Portal, error) {
	var p Portal
	// Owner scoping lives in the filter so a foreign id behaves like a miss
	err := r.Collection.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PortalRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*Portal, error) {
	var p Portal
	err := r.Collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByIDAny skips owner scoping. Used by paths that authorize some
// other way (public feedback submit validates the feedback toggle).
func (r *PortalRepositoryImpl) FindByIDAny(ctx context.Context, id primitive.ObjectID) (*Portal, error) {
	var p Portal
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PortalRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]Portal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.Collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var portals []Portal
	if err = cursor.All(ctx, &portals); err != nil {
		return nil, err
	}
	return portals, nil
}

func (r *PortalRepositoryImpl) ListAll(ctx context.Context) ([]Portal, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var portals []Portal
	if err = cursor.All(ctx, &portals); err != nil {
		return nil, err
	}
	return portals, nil
}

// SaveModules replaces the modules subdocument if and only if the
// caller's version matches the stored one, then bumps the version.
// Saving publishes: the portal goes Active in the same write, and the
// housekeeping sweep demotes it again once visits go stale.
// A nil result with mongo.ErrNoDocuments means either a foreign portal
// or a version conflict; the service disambiguates.
func (r *PortalRepositoryImpl) SaveModules(ctx context.Context, id primitive.ObjectID, userID string, version int64, modules ModuleSet) (*Portal, error) {
	filter := bson.M{"_id": id, "user_id": userID, "version": version}
	update := bson.M{
		"$set": bson.M{"modules": modules, "status": StatusActive},
		"$inc": bson.M{"version": 1},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p Portal
	err := r.Collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PortalRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID, userID string) error {
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *PortalRepositoryImpl) TouchVisited(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"last_visited": at},
	})
	return err
}

func (r *PortalRepositoryImpl) IncInbox(ctx context.Context, id primitive.ObjectID, delta int) error {
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"inbox": delta},
	})
	if err != nil {
		return err
	}
	// Counter can briefly go negative when reads race decrements; clamp.
	_, err = r.Collection.UpdateOne(ctx, bson.M{"_id": id, "inbox": bson.M{"$lt": 0}}, bson.M{
		"$set": bson.M{"inbox": 0},
	})
	return err
}

func (r *PortalRepositoryImpl) SetInbox(ctx context.Context, id primitive.ObjectID, count int) error {
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"inbox": count},
	})
	return err
}

func (r *PortalRepositoryImpl) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"status": status},
	})
	return err
}
