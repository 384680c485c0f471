package inmemdb

import (
	"context"
	"sort"

	"github.com/upbhushan/placement-iiitn--sub001/core/form"
)

type formRepository struct {
	db *formTable
}

func NewFormRepository(db *DB) form.Repository {
	return &formRepository{db: db.form}
}

// copyTemplate keeps stored slices out of callers' reach.
func copyTemplate(tmpl form.Template) form.Template {
	tmpl.Fields = append([]form.Field(nil), tmpl.Fields...)
	for i := range tmpl.Fields {
		tmpl.Fields[i].Options = append([]form.Option(nil), tmpl.Fields[i].Options...)
	}
	tmpl.SharedWith = append([]string(nil), tmpl.SharedWith...)
	return tmpl
}

func (repo *formRepository) CreateTemplate(_ context.Context, tmpl form.Template) (form.Template, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	stored := copyTemplate(tmpl)
	repo.db.templates[tmpl.ID] = &stored
	return tmpl, nil
}

func (repo *formRepository) GetTemplate(_ context.Context, id string) (form.Template, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if tmpl, ok := repo.db.templates[id]; ok {
		return copyTemplate(*tmpl), nil
	}
	return form.Template{}, form.ErrNotFound
}

func (repo *formRepository) FilterTemplates(_ context.Context, filter form.TemplateFilter) ([]form.Template, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	tmpls := make([]form.Template, 0)
	for _, tmpl := range repo.db.templates {
		if filter.AuthorID != "" && tmpl.AuthorID != filter.AuthorID {
			continue
		}
		if filter.PublishedOnly && !tmpl.Published {
			continue
		}
		tmpls = append(tmpls, copyTemplate(*tmpl))
	}
	sort.Slice(tmpls, func(i, j int) bool {
		if tmpls[i].CreatedAt.Equal(tmpls[j].CreatedAt) {
			return tmpls[i].ID < tmpls[j].ID
		}
		return tmpls[i].CreatedAt.After(tmpls[j].CreatedAt)
	})
	return tmpls, nil
}

func (repo *formRepository) SaveTemplate(_ context.Context, tmpl form.Template) (form.Template, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.templates[tmpl.ID]; !ok {
		return form.Template{}, form.ErrNotFound
	}
	stored := copyTemplate(tmpl)
	repo.db.templates[tmpl.ID] = &stored
	return tmpl, nil
}

func (repo *formRepository) DeleteTemplate(_ context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.templates[id]; !ok {
		return form.ErrNotFound
	}
	delete(repo.db.templates, id)
	return nil
}

func (repo *formRepository) CreateResponse(_ context.Context, resp form.Response) (form.Response, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	resp.Entries = append([]form.Entry(nil), resp.Entries...)
	repo.db.responses = append(repo.db.responses, resp)
	return resp, nil
}

func (repo *formRepository) GetResponses(_ context.Context, templateID string) ([]form.Response, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	resps := make([]form.Response, 0)
	for _, resp := range repo.db.responses {
		if resp.TemplateID == templateID {
			resps = append(resps, resp)
		}
	}
	sort.SliceStable(resps, func(i, j int) bool { return resps[i].SubmittedAt.Before(resps[j].SubmittedAt) })
	return resps, nil
}

func (repo *formRepository) GetLatestResponse(_ context.Context, templateID, respondentID string) (form.Response, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var (
		latest form.Response
		found  bool
	)
	for _, resp := range repo.db.responses {
		if resp.TemplateID != templateID || resp.RespondentID != respondentID {
			continue
		}
		if !found || !resp.SubmittedAt.Before(latest.SubmittedAt) {
			latest, found = resp, true
		}
	}
	if !found {
		return form.Response{}, form.ErrSubmissionNotFound
	}
	return latest, nil
}

func (repo *formRepository) DeleteResponses(_ context.Context, templateID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	kept := repo.db.responses[:0]
	for _, resp := range repo.db.responses {
		if resp.TemplateID != templateID {
			kept = append(kept, resp)
		}
	}
	repo.db.responses = kept
	return nil
}
