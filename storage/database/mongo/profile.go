package mongorepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/upbhushan/placement-iiitn--sub001/core/profile"
)

type profileRepository struct {
	coll *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) profile.Repository {
	return &profileRepository{coll: db.Collection(profilesCollection)}
}

func (repo *profileRepository) GetProfile(ctx context.Context, userID string) (profile.Profile, error) {
	var p profile.Profile
	if err := repo.coll.FindOne(ctx, bson.M{"_id": userID}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return profile.Profile{}, profile.ErrNotFound
		}
		return profile.Profile{}, errors.Wrap(err, "finding profile")
	}
	return p, nil
}

func (repo *profileRepository) GetProfiles(ctx context.Context, userIDs ...string) ([]profile.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	cur, err := repo.coll.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, errors.Wrap(err, "finding profiles")
	}
	profs := make([]profile.Profile, 0, len(userIDs))
	if err := cur.All(ctx, &profs); err != nil {
		return nil, errors.Wrap(err, "decoding profiles")
	}
	return profs, nil
}

func (repo *profileRepository) SaveProfile(ctx context.Context, p profile.Profile) (profile.Profile, error) {
	opts := options.Replace().SetUpsert(true)
	if _, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": p.UserID}, p, opts); err != nil {
		return profile.Profile{}, errors.Wrap(err, "saving profile")
	}
	return p, nil
}

func (repo *profileRepository) DeleteProfiles(ctx context.Context, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	if _, err := repo.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": userIDs}}); err != nil {
		return errors.Wrap(err, "deleting profiles")
	}
	return nil
}
