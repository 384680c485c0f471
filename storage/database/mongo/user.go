package mongorepos

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/upbhushan/placement-iiitn--sub001/core"
	"github.com/upbhushan/placement-iiitn--sub001/core/user"
)

type userDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Username     string    `bson:"username"`
	Email        string    `bson:"email"`
	IsActive     bool      `bson:"is_active"`
	Roles        []string  `bson:"roles"`
	PasswordHash []byte    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
	LastLogin    time.Time `bson:"last_login,omitempty"`
}

func newUserDoc(usr user.User) userDoc {
	return userDoc{
		ID:           usr.ID,
		Name:         usr.Name,
		Username:     usr.Username,
		Email:        usr.Email,
		IsActive:     usr.IsActive,
		Roles:        append([]string{}, usr.Roles...),
		PasswordHash: usr.PasswordHash,
		CreatedAt:    usr.CreatedAt,
		UpdatedAt:    usr.UpdatedAt,
		LastLogin:    usr.LastLogin,
	}
}

func (doc userDoc) user() user.User {
	return user.User{
		ID:           doc.ID,
		Name:         doc.Name,
		Username:     doc.Username,
		Email:        doc.Email,
		IsActive:     doc.IsActive,
		Roles:        doc.Roles,
		PasswordHash: doc.PasswordHash,
		CreatedAt:    doc.CreatedAt.UTC(),
		UpdatedAt:    doc.UpdatedAt.UTC(),
		LastLogin:    doc.LastLogin.UTC(),
	}
}

type userRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) user.Repository {
	return &userRepository{coll: db.Collection(usersCollection)}
}

// duplicateKey maps unique index violations to the user errors.
func duplicateKey(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}
	switch msg := err.Error(); {
	case strings.Contains(msg, "users_username_key"):
		return user.ErrUsernameExists
	case strings.Contains(msg, "users_email_key"):
		return user.ErrEmailExists
	}
	return err
}

func (repo *userRepository) CheckUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	var or bson.A
	if username != "" {
		or = append(or, bson.M{"username": username})
	}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if len(or) == 0 {
		return nil
	}
	excl := make([]string, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		excl = append(excl, usr.ID)
	}

	docs, err := repo.find(ctx, bson.M{"$or": or, "_id": bson.M{"$nin": excl}})
	if err != nil {
		return errors.Wrap(err, "checking user uniqueness")
	}
	for _, doc := range docs {
		if username != "" && doc.Username == username {
			return user.ErrUsernameExists
		}
		if email != "" && doc.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	if usr.ID == "" {
		usr.ID = uuid.NewString()
	}
	if _, err := repo.coll.InsertOne(ctx, newUserDoc(usr)); err != nil {
		return user.User{}, duplicateKey(errors.Wrap(err, "inserting user"))
	}
	return usr, nil
}

func (repo *userRepository) findOne(ctx context.Context, filter interface{}) (user.User, error) {
	var doc userDoc
	if err := repo.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "finding user")
	}
	return doc.user(), nil
}

func (repo *userRepository) find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]userDoc, error) {
	cur, err := repo.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	return repo.findOne(ctx, bson.M{"_id": id})
}

func (repo *userRepository) GetUsersByID(ctx context.Context, ids ...string) ([]user.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	docs, err := repo.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Wrap(err, "finding users")
	}
	users := make([]user.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.user())
	}
	return users, nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	if email == "" {
		return user.User{}, user.ErrNotFound
	}
	return repo.findOne(ctx, bson.M{"email": email})
}

func (repo *userRepository) GetUserByUsernameOrEmail(ctx context.Context, username string) (user.User, error) {
	if username == "" {
		return user.User{}, user.ErrNotFound
	}
	return repo.findOne(ctx, bson.M{"$or": bson.A{bson.M{"username": username}, bson.M{"email": username}}})
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	query := bson.M{}
	if filter.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{bson.M{"name": rx}, bson.M{"username": rx}, bson.M{"email": rx}}
	}
	if len(filter.Roles) > 0 {
		prefixes := make(bson.A, 0, len(filter.Roles))
		for _, role := range filter.Roles {
			prefixes = append(prefixes, primitive.Regex{Pattern: "^" + regexp.QuoteMeta(role)})
		}
		query["roles"] = bson.M{"$in": prefixes}
	}
	if filter.IsActive != nil {
		query["is_active"] = *filter.IsActive
	}
	created := bson.M{}
	if !filter.CreatedFrom.IsZero() {
		created["$gte"] = filter.CreatedFrom
	}
	if !filter.CreatedTo.IsZero() {
		created["$lte"] = filter.CreatedTo
	}
	if len(created) > 0 {
		query["created_at"] = created
	}

	sort := bson.D{}
	for _, ord := range core.ParseOrderings(filter.Ordering, "created_at", "name", "username", "email", "last_login") {
		dir := -1
		if ord.Ascending {
			dir = 1
		}
		sort = append(sort, bson.E{Key: ord.Field, Value: dir})
	}
	if len(sort) == 0 {
		sort = bson.D{{Key: "created_at", Value: 1}}
	}

	docs, err := repo.find(ctx, query, options.Find().SetSort(sort))
	if err != nil {
		return nil, errors.Wrap(err, "filtering users")
	}
	users := make([]user.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.user())
	}
	return users, nil
}

func (repo *userRepository) SaveUser(ctx context.Context, usr user.User) (user.User, error) {
	res, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": usr.ID}, newUserDoc(usr))
	if err != nil {
		return user.User{}, duplicateKey(errors.Wrap(err, "saving user"))
	}
	if res.MatchedCount == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := repo.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return errors.Wrap(err, "deleting users")
	}
	return nil
}
