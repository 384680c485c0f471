package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/upbhushan/placement-iiitn--sub001/core"
)

// Collections
const (
	usersCollection     = "users"
	profilesCollection  = "profiles"
	templatesCollection = "form_templates"
	responsesCollection = "form_responses"
)

// Open connects to MongoDB, pings the primary and ensures the indexes exist.
func Open(ctx context.Context, conf *core.Config) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(conf.Database.MongoURI).
		SetAppName(conf.AppName).
		SetConnectTimeout(10*time.Second))
	if err != nil {
		return nil, errors.Wrap(err, "connecting to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "pinging mongodb")
	}

	db := client.Database(conf.Database.Name)
	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return db, nil
}

// Close disconnects the client behind `db`.
func Close(ctx context.Context, db *mongo.Database) error {
	return db.Client().Disconnect(ctx)
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	nonEmpty := func(key string) bson.M { return bson.M{key: bson.M{"$gt": ""}} }

	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{
				Keys:    bson.D{{Key: "username", Value: 1}},
				Options: options.Index().SetName("users_username_key").SetUnique(true).SetPartialFilterExpression(nonEmpty("username")),
			},
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("users_email_key").SetUnique(true).SetPartialFilterExpression(nonEmpty("email")),
			},
		},
		templatesCollection: {
			{Keys: bson.D{{Key: "author_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		responsesCollection: {
			{Keys: bson.D{{Key: "template_id", Value: 1}, {Key: "submitted_at", Value: 1}}},
			{Keys: bson.D{{Key: "template_id", Value: 1}, {Key: "respondent_id", Value: 1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "creating %s indexes", coll)
		}
	}
	return nil
}
