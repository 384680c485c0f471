package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/upbhushan/placement-iiitn--sub001/core/form"
)

// storedEntry keeps the value variant next to the answer.
type storedEntry struct {
	FieldID    string           `bson:"field_id"`
	FieldLabel string           `bson:"field_label"`
	Value      form.StoredValue `bson:"value"`
}

type responseDoc struct {
	ID           string        `bson:"_id"`
	TemplateID   string        `bson:"template_id"`
	RespondentID string        `bson:"respondent_id"`
	SubmittedAt  time.Time     `bson:"submitted_at"`
	Entries      []storedEntry `bson:"entries"`
}

func newResponseDoc(resp form.Response) responseDoc {
	doc := responseDoc{
		ID:           resp.ID,
		TemplateID:   resp.TemplateID,
		RespondentID: resp.RespondentID,
		SubmittedAt:  resp.SubmittedAt,
		Entries:      make([]storedEntry, 0, len(resp.Entries)),
	}
	for _, e := range resp.Entries {
		doc.Entries = append(doc.Entries, storedEntry{FieldID: e.FieldID, FieldLabel: e.FieldLabel, Value: e.Value.Stored()})
	}
	return doc
}

func (doc responseDoc) response() form.Response {
	resp := form.Response{
		ID:           doc.ID,
		TemplateID:   doc.TemplateID,
		RespondentID: doc.RespondentID,
		SubmittedAt:  doc.SubmittedAt.UTC(),
		Entries:      make([]form.Entry, 0, len(doc.Entries)),
	}
	for _, e := range doc.Entries {
		resp.Entries = append(resp.Entries, form.Entry{FieldID: e.FieldID, FieldLabel: e.FieldLabel, Value: e.Value.Value()})
	}
	return resp
}

func utcTemplate(tmpl form.Template) form.Template {
	tmpl.CreatedAt = tmpl.CreatedAt.UTC()
	tmpl.UpdatedAt = tmpl.UpdatedAt.UTC()
	return tmpl
}

type formRepository struct {
	templates *mongo.Collection
	responses *mongo.Collection
}

func NewFormRepository(db *mongo.Database) form.Repository {
	return &formRepository{
		templates: db.Collection(templatesCollection),
		responses: db.Collection(responsesCollection),
	}
}

func (repo *formRepository) CreateTemplate(ctx context.Context, tmpl form.Template) (form.Template, error) {
	if _, err := repo.templates.InsertOne(ctx, tmpl); err != nil {
		return form.Template{}, errors.Wrap(err, "inserting template")
	}
	return tmpl, nil
}

func (repo *formRepository) GetTemplate(ctx context.Context, id string) (form.Template, error) {
	var tmpl form.Template
	if err := repo.templates.FindOne(ctx, bson.M{"_id": id}).Decode(&tmpl); err != nil {
		if err == mongo.ErrNoDocuments {
			return form.Template{}, form.ErrNotFound
		}
		return form.Template{}, errors.Wrap(err, "finding template")
	}
	return utcTemplate(tmpl), nil
}

func (repo *formRepository) FilterTemplates(ctx context.Context, filter form.TemplateFilter) ([]form.Template, error) {
	query := bson.M{}
	if filter.AuthorID != "" {
		query["author_id"] = filter.AuthorID
	}
	if filter.PublishedOnly {
		query["published"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := repo.templates.Find(ctx, query, opts)
	if err != nil {
		return nil, errors.Wrap(err, "finding templates")
	}
	var tmpls []form.Template
	if err := cur.All(ctx, &tmpls); err != nil {
		return nil, errors.Wrap(err, "decoding templates")
	}
	for i := range tmpls {
		tmpls[i] = utcTemplate(tmpls[i])
	}
	return tmpls, nil
}

func (repo *formRepository) SaveTemplate(ctx context.Context, tmpl form.Template) (form.Template, error) {
	res, err := repo.templates.ReplaceOne(ctx, bson.M{"_id": tmpl.ID}, tmpl)
	if err != nil {
		return form.Template{}, errors.Wrap(err, "saving template")
	}
	if res.MatchedCount == 0 {
		return form.Template{}, form.ErrNotFound
	}
	return tmpl, nil
}

func (repo *formRepository) DeleteTemplate(ctx context.Context, id string) error {
	res, err := repo.templates.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "deleting template")
	}
	if res.DeletedCount == 0 {
		return form.ErrNotFound
	}
	return nil
}

func (repo *formRepository) CreateResponse(ctx context.Context, resp form.Response) (form.Response, error) {
	if _, err := repo.responses.InsertOne(ctx, newResponseDoc(resp)); err != nil {
		return form.Response{}, errors.Wrap(err, "inserting response")
	}
	return resp, nil
}

func (repo *formRepository) findResponses(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]form.Response, error) {
	cur, err := repo.responses.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "finding responses")
	}
	var docs []responseDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding responses")
	}
	resps := make([]form.Response, 0, len(docs))
	for _, doc := range docs {
		resps = append(resps, doc.response())
	}
	return resps, nil
}

func (repo *formRepository) GetResponses(ctx context.Context, templateID string) ([]form.Response, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: 1}, {Key: "_id", Value: 1}})
	return repo.findResponses(ctx, bson.M{"template_id": templateID}, opts)
}

func (repo *formRepository) GetLatestResponse(ctx context.Context, templateID, respondentID string) (form.Response, error) {
	opts := options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}}).SetLimit(1)
	resps, err := repo.findResponses(ctx, bson.M{"template_id": templateID, "respondent_id": respondentID}, opts)
	if err != nil {
		return form.Response{}, err
	}
	if len(resps) == 0 {
		return form.Response{}, form.ErrSubmissionNotFound
	}
	return resps[0], nil
}

func (repo *formRepository) DeleteResponses(ctx context.Context, templateID string) error {
	if _, err := repo.responses.DeleteMany(ctx, bson.M{"template_id": templateID}); err != nil {
		return errors.Wrap(err, "deleting responses")
	}
	return nil
}
