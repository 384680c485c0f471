package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/upbhushan/placement-iiitn--sub001/core/form"
)

const (
	templateColumns = `id, author_id, name, description, fields, color_scheme, published, shared_with, created_at, updated_at`
	responseColumns = `id, template_id, respondent_id, submitted_at, entries`
)

type templateRow struct {
	ID          string         `db:"id"`
	AuthorID    string         `db:"author_id"`
	Name        string         `db:"name"`
	Description string         `db:"description"`
	Fields      []byte         `db:"fields"`
	ColorScheme []byte         `db:"color_scheme"`
	Published   bool           `db:"published"`
	SharedWith  pq.StringArray `db:"shared_with"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func newTemplateRow(tmpl form.Template) (templateRow, error) {
	flds, err := json.Marshal(tmpl.Fields)
	if err != nil {
		return templateRow{}, errors.Wrap(err, "encoding fields")
	}
	cs, err := json.Marshal(tmpl.ColorScheme)
	if err != nil {
		return templateRow{}, errors.Wrap(err, "encoding color scheme")
	}
	return templateRow{
		ID:          tmpl.ID,
		AuthorID:    tmpl.AuthorID,
		Name:        tmpl.Name,
		Description: tmpl.Description,
		Fields:      flds,
		ColorScheme: cs,
		Published:   tmpl.Published,
		SharedWith:  append(pq.StringArray{}, tmpl.SharedWith...),
		CreatedAt:   tmpl.CreatedAt,
		UpdatedAt:   tmpl.UpdatedAt,
	}, nil
}

func (row templateRow) template() (form.Template, error) {
	tmpl := form.Template{
		ID:          row.ID,
		AuthorID:    row.AuthorID,
		Name:        row.Name,
		Description: row.Description,
		Published:   row.Published,
		SharedWith:  []string(row.SharedWith),
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
	if err := json.Unmarshal(row.Fields, &tmpl.Fields); err != nil {
		return form.Template{}, errors.Wrap(err, "decoding fields")
	}
	if err := json.Unmarshal(row.ColorScheme, &tmpl.ColorScheme); err != nil {
		return form.Template{}, errors.Wrap(err, "decoding color scheme")
	}
	return tmpl, nil
}

// storedEntry keeps the value variant next to the answer.
type storedEntry struct {
	FieldID    string           `json:"field_id"`
	FieldLabel string           `json:"field_label"`
	Value      form.StoredValue `json:"value"`
}

type responseRow struct {
	ID           string    `db:"id"`
	TemplateID   string    `db:"template_id"`
	RespondentID string    `db:"respondent_id"`
	SubmittedAt  time.Time `db:"submitted_at"`
	Entries      []byte    `db:"entries"`
}

func (row responseRow) response() (form.Response, error) {
	var stored []storedEntry
	if err := json.Unmarshal(row.Entries, &stored); err != nil {
		return form.Response{}, errors.Wrap(err, "decoding entries")
	}
	resp := form.Response{
		ID:           row.ID,
		TemplateID:   row.TemplateID,
		RespondentID: row.RespondentID,
		SubmittedAt:  row.SubmittedAt.UTC(),
		Entries:      make([]form.Entry, 0, len(stored)),
	}
	for _, e := range stored {
		resp.Entries = append(resp.Entries, form.Entry{FieldID: e.FieldID, FieldLabel: e.FieldLabel, Value: e.Value.Value()})
	}
	return resp, nil
}

type formRepository struct {
	db *sqlx.DB
}

func NewFormRepository(db *sqlx.DB) form.Repository {
	return &formRepository{db: db}
}

func (repo *formRepository) CreateTemplate(ctx context.Context, tmpl form.Template) (form.Template, error) {
	row, err := newTemplateRow(tmpl)
	if err != nil {
		return form.Template{}, err
	}
	q := `INSERT INTO form_templates (` + templateColumns + `) VALUES
		(:id, :author_id, :name, :description, :fields, :color_scheme, :published, :shared_with, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		return form.Template{}, errors.Wrap(err, "inserting template")
	}
	return tmpl, nil
}

func (repo *formRepository) GetTemplate(ctx context.Context, id string) (form.Template, error) {
	if _, err := uuid.Parse(id); err != nil {
		return form.Template{}, form.ErrNotFound
	}
	var row templateRow
	if err := repo.db.GetContext(ctx, &row, `SELECT `+templateColumns+` FROM form_templates WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return form.Template{}, form.ErrNotFound
		}
		return form.Template{}, errors.Wrap(err, "selecting template")
	}
	return row.template()
}

func (repo *formRepository) FilterTemplates(ctx context.Context, filter form.TemplateFilter) ([]form.Template, error) {
	q := `SELECT ` + templateColumns + ` FROM form_templates
		WHERE ($1 = '' OR author_id::text = $1) AND (NOT $2 OR published)
		ORDER BY created_at DESC, id`
	var rows []templateRow
	if err := repo.db.SelectContext(ctx, &rows, q, filter.AuthorID, filter.PublishedOnly); err != nil {
		return nil, errors.Wrap(err, "selecting templates")
	}
	tmpls := make([]form.Template, 0, len(rows))
	for _, row := range rows {
		tmpl, err := row.template()
		if err != nil {
			return nil, err
		}
		tmpls = append(tmpls, tmpl)
	}
	return tmpls, nil
}

func (repo *formRepository) SaveTemplate(ctx context.Context, tmpl form.Template) (form.Template, error) {
	row, err := newTemplateRow(tmpl)
	if err != nil {
		return form.Template{}, err
	}
	q := `UPDATE form_templates SET name = :name, description = :description, fields = :fields,
		color_scheme = :color_scheme, published = :published, shared_with = :shared_with, updated_at = :updated_at
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return form.Template{}, errors.Wrap(err, "updating template")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return form.Template{}, form.ErrNotFound
	}
	return tmpl, nil
}

func (repo *formRepository) DeleteTemplate(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return form.ErrNotFound
	}
	res, err := repo.db.ExecContext(ctx, `DELETE FROM form_templates WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting template")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return form.ErrNotFound
	}
	return nil
}

func (repo *formRepository) CreateResponse(ctx context.Context, resp form.Response) (form.Response, error) {
	stored := make([]storedEntry, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		stored = append(stored, storedEntry{FieldID: e.FieldID, FieldLabel: e.FieldLabel, Value: e.Value.Stored()})
	}
	entries, err := json.Marshal(stored)
	if err != nil {
		return form.Response{}, errors.Wrap(err, "encoding entries")
	}
	q := `INSERT INTO form_responses (` + responseColumns + `) VALUES ($1, $2, $3, $4, $5)`
	if _, err := repo.db.ExecContext(ctx, q, resp.ID, resp.TemplateID, resp.RespondentID, resp.SubmittedAt, entries); err != nil {
		return form.Response{}, errors.Wrap(err, "inserting response")
	}
	return resp, nil
}

func (repo *formRepository) selectResponses(ctx context.Context, q string, args ...interface{}) ([]form.Response, error) {
	var rows []responseRow
	if err := repo.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting responses")
	}
	resps := make([]form.Response, 0, len(rows))
	for _, row := range rows {
		resp, err := row.response()
		if err != nil {
			return nil, err
		}
		resps = append(resps, resp)
	}
	return resps, nil
}

func (repo *formRepository) GetResponses(ctx context.Context, templateID string) ([]form.Response, error) {
	if _, err := uuid.Parse(templateID); err != nil {
		return nil, nil
	}
	return repo.selectResponses(ctx,
		`SELECT `+responseColumns+` FROM form_responses WHERE template_id = $1 ORDER BY submitted_at, id`, templateID)
}

func (repo *formRepository) GetLatestResponse(ctx context.Context, templateID, respondentID string) (form.Response, error) {
	if _, err := uuid.Parse(templateID); err != nil {
		return form.Response{}, form.ErrSubmissionNotFound
	}
	if _, err := uuid.Parse(respondentID); err != nil {
		return form.Response{}, form.ErrSubmissionNotFound
	}
	resps, err := repo.selectResponses(ctx, `SELECT `+responseColumns+` FROM form_responses
		WHERE template_id = $1 AND respondent_id = $2 ORDER BY submitted_at DESC LIMIT 1`, templateID, respondentID)
	if err != nil {
		return form.Response{}, err
	}
	if len(resps) == 0 {
		return form.Response{}, form.ErrSubmissionNotFound
	}
	return resps[0], nil
}

func (repo *formRepository) DeleteResponses(ctx context.Context, templateID string) error {
	if _, err := uuid.Parse(templateID); err != nil {
		return nil
	}
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM form_responses WHERE template_id = $1`, templateID); err != nil {
		return errors.Wrap(err, "deleting responses")
	}
	return nil
}
