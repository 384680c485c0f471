package form

import (
	"context"
	"time"
)

type (
	// Entry is one answer of a Response. FieldLabel is the label at submission time.
	Entry struct {
		FieldID    string `json:"field_id"`
		FieldLabel string `json:"field_label"`
		Value      Value  `json:"value"`
	}

	// Response is one respondent's answers to one Template.
	Response struct {
		ID           string    `json:"id"`
		TemplateID   string    `json:"template_id"`
		RespondentID string    `json:"respondent_id"`
		SubmittedAt  time.Time `json:"submitted_at"` // UTC
		Entries      []Entry   `json:"responses"`
	}

	// Answer is a submitted value as received from a respondent.
	Answer struct {
		FieldID string `json:"field_id"`
		Value   Value  `json:"value"`
	}

	TemplateFilter struct {
		AuthorID      string
		PublishedOnly bool
	}

	Repository interface {
		CreateTemplate(ctx context.Context, tmpl Template) (Template, error)
		GetTemplate(ctx context.Context, id string) (Template, error)
		// FilterTemplates returns matching templates, newest first.
		FilterTemplates(ctx context.Context, filter TemplateFilter) ([]Template, error)
		// SaveTemplate overwrites every stored attribute of the Template.
		SaveTemplate(ctx context.Context, tmpl Template) (Template, error)
		DeleteTemplate(ctx context.Context, id string) error

		CreateResponse(ctx context.Context, resp Response) (Response, error)
		// GetResponses returns the template's responses, oldest first.
		GetResponses(ctx context.Context, templateID string) ([]Response, error)
		// GetLatestResponse returns the respondent's most recent response to the template.
		GetLatestResponse(ctx context.Context, templateID, respondentID string) (Response, error)
		DeleteResponses(ctx context.Context, templateID string) error
	}
)

// Answers indexes the entries by field id.
func (r *Response) Answers() map[string]Value {
	ans := make(map[string]Value, len(r.Entries))
	for _, e := range r.Entries {
		ans[e.FieldID] = e.Value
	}
	return ans
}
