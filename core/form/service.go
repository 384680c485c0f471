package form

import (
	"bytes"
	"context"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/upbhushan/placement-iiitn--sub001/core"
	"github.com/upbhushan/placement-iiitn--sub001/core/profile"
	"github.com/upbhushan/placement-iiitn--sub001/core/user"
)

type (
	// UserLookup resolves respondent accounts for export rows.
	UserLookup interface {
		GetByIDs(ctx context.Context, ids ...string) ([]user.User, error)
	}

	// RespondentView is a published template as shown to one respondent.
	RespondentView struct {
		Template     PublicTemplate `json:"template"`
		Fields       []ClientField  `json:"fields"`
		HasSubmitted bool           `json:"has_submitted"`
		SubmissionID string         `json:"submission_id,omitempty"`
	}

	// AnsweredField is a current field joined with the respondent's answer.
	AnsweredField struct {
		FieldID string    `json:"field_id"`
		Label   string    `json:"label"`
		Type    FieldType `json:"field_type"`
		Value   Value     `json:"value"`
	}

	SubmissionView struct {
		ID          string          `json:"id"`
		TemplateID  string          `json:"template_id"`
		SubmittedAt time.Time       `json:"submitted_at"`
		Answers     []AnsweredField `json:"answers"`
	}

	Service struct {
		repo      Repository
		profiles  profile.Lookup
		users     UserLookup
		resolver  *Resolver
		schemas   *SchemaGenerator
		validator *SubmissionValidator
		mailSvc   core.EmailService
		logger    core.Logger
		conf      core.FormConfig
		now       func() time.Time // mockable
	}
)

func NewService(
	repo Repository,
	profiles profile.Lookup,
	users UserLookup,
	resolver *Resolver,
	schemas *SchemaGenerator,
	validator *SubmissionValidator,
	mailSvc core.EmailService,
	logger core.Logger,
	conf *core.Config,
) *Service {
	return &Service{
		repo:      repo,
		profiles:  profiles,
		users:     users,
		resolver:  resolver,
		schemas:   schemas,
		validator: validator,
		mailSvc:   mailSvc,
		logger:    logger,
		conf:      conf.Form,
		now:       time.Now,
	}
}

// AutoFillKeys lists the profile keys authors may bind fields to.
func (svc *Service) AutoFillKeys() []string {
	return svc.resolver.Keys()
}

// Authoring

// Create stores a validated definition as a new Template owned by `author`.
func (svc *Service) Create(ctx context.Context, author user.User, nt NewTemplate) (Template, error) {
	if !author.IsAdmin() {
		return Template{}, ErrNotAuthor
	}
	now := svc.now().UTC()
	tmpl := Template{
		ID:        uuid.NewString(),
		AuthorID:  author.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	nt.apply(&tmpl)
	return svc.repo.CreateTemplate(ctx, tmpl)
}

func (svc *Service) Get(ctx context.Context, id string) (Template, error) {
	return svc.repo.GetTemplate(ctx, id)
}

// GetOwned returns the Template when `author` wrote it.
func (svc *Service) GetOwned(ctx context.Context, author user.User, id string) (Template, error) {
	tmpl, err := svc.repo.GetTemplate(ctx, id)
	if err != nil {
		return Template{}, err
	}
	if tmpl.AuthorID != author.ID {
		return Template{}, ErrNotAuthor
	}
	return tmpl, nil
}

// Replace applies a validated definition to `tmpl`; the field list is replaced wholesale.
func (svc *Service) Replace(ctx context.Context, tmpl Template, nt NewTemplate) (Template, error) {
	nt.apply(&tmpl)
	tmpl.UpdatedAt = svc.now().UTC()
	return svc.repo.SaveTemplate(ctx, tmpl)
}

// Delete removes an owned Template; its responses go too when cascade delete is on.
func (svc *Service) Delete(ctx context.Context, author user.User, id string) error {
	tmpl, err := svc.GetOwned(ctx, author, id)
	if err != nil {
		return err
	}
	if err := svc.repo.DeleteTemplate(ctx, tmpl.ID); err != nil {
		return err
	}
	if svc.conf.CascadeDelete {
		if err := svc.repo.DeleteResponses(ctx, tmpl.ID); err != nil {
			return errors.Wrap(err, "deleting responses")
		}
	}
	return nil
}

func (svc *Service) ListOwned(ctx context.Context, author user.User) ([]Template, error) {
	return svc.repo.FilterTemplates(ctx, TemplateFilter{AuthorID: author.ID})
}

// ListVisible returns the published templates `respondentID` may see.
func (svc *Service) ListVisible(ctx context.Context, respondentID string) ([]Template, error) {
	tmpls, err := svc.repo.FilterTemplates(ctx, TemplateFilter{PublishedOnly: true})
	if err != nil {
		return nil, err
	}
	visible := make([]Template, 0, len(tmpls))
	for _, tmpl := range tmpls {
		if tmpl.VisibleTo(respondentID) {
			visible = append(visible, tmpl)
		}
	}
	return visible, nil
}

// Respondents

// getVisible hides unpublished or unshared templates behind ErrNotFound.
func (svc *Service) getVisible(ctx context.Context, respondentID, id string) (Template, error) {
	tmpl, err := svc.repo.GetTemplate(ctx, id)
	if err != nil {
		return Template{}, err
	}
	if !tmpl.VisibleTo(respondentID) {
		return Template{}, ErrNotFound
	}
	return tmpl, nil
}

// GetForRespondent returns the template with auto-fill applied.
// A failing profile lookup only disables auto-fill.
func (svc *Service) GetForRespondent(ctx context.Context, respondent user.User, id string) (RespondentView, error) {
	tmpl, err := svc.getVisible(ctx, respondent.ID, id)
	if err != nil {
		return RespondentView{}, err
	}

	var prof *profile.Profile
	if tmpl.HasAutoFill() {
		prof, err = svc.lookupProfile(ctx, respondent.ID)
		if err != nil {
			svc.logger.Warn("form.GetForRespondent: auto-fill disabled", err, respondent)
			prof = nil
		}
	}

	view := RespondentView{Template: tmpl.Public(), Fields: svc.resolver.Prefill(tmpl, prof)}
	resp, err := svc.repo.GetLatestResponse(ctx, tmpl.ID, respondent.ID)
	switch {
	case err == nil:
		view.HasSubmitted = true
		view.SubmissionID = resp.ID
	case !core.IsNotFound(err):
		return RespondentView{}, err
	}
	return view, nil
}

// lookupProfile returns nil without error when the respondent has no profile yet.
func (svc *Service) lookupProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	prof, err := svc.profiles.Get(ctx, userID)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, nil
		}
		return nil, core.NewExternalServiceError("profile lookup", err)
	}
	return &prof, nil
}

// Schema returns the client schema of a template the viewer may see.
func (svc *Service) Schema(ctx context.Context, viewer user.User, id string) (*Schema, error) {
	tmpl, err := svc.repo.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if tmpl.AuthorID != viewer.ID && !tmpl.VisibleTo(viewer.ID) {
		return nil, ErrNotFound
	}
	return svc.schemas.Generate(tmpl.Fields), nil
}

// Submit validates the answers and stores them as a new Response.
func (svc *Service) Submit(ctx context.Context, respondent user.User, id string, answers []Answer) (Response, error) {
	if !respondent.IsStudent() {
		return Response{}, ErrNotRespondent
	}
	tmpl, err := svc.repo.GetTemplate(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return Response{}, ErrNotFound
		}
		return Response{}, err
	}
	if !tmpl.VisibleTo(respondent.ID) {
		return Response{}, ErrNotFound
	}

	if !svc.conf.AllowMultipleSubmissions {
		_, err := svc.repo.GetLatestResponse(ctx, tmpl.ID, respondent.ID)
		if err == nil {
			return Response{}, ErrAlreadySubmitted
		}
		if !core.IsNotFound(err) {
			return Response{}, err
		}
	}

	var prof *profile.Profile
	if tmpl.HasAutoFill() {
		if prof, err = svc.lookupProfile(ctx, respondent.ID); err != nil {
			return Response{}, err
		}
	}

	narrowed := NarrowAnswers(tmpl, answers)
	if err := svc.validator.Validate(&tmpl, respondent.ID, narrowed, prof); err != nil {
		return Response{}, err
	}

	resp := BuildResponse(tmpl, respondent.ID, narrowed, svc.now())
	resp.ID = uuid.NewString()
	resp, err = svc.repo.CreateResponse(ctx, resp)
	if err != nil {
		return Response{}, err
	}

	if respondent.Email != "" {
		svc.mailSvc.SendMessages(svc.receiptMail(respondent, tmpl, resp))
	}
	return resp, nil
}

func (svc *Service) receiptMail(respondent user.User, tmpl Template, resp Response) *core.EmailMessage {
	type answer struct{ Label, Value string }
	answers := make([]answer, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		answers = append(answers, answer{Label: e.FieldLabel, Value: DisplayValue(e.Value)})
	}
	return &core.EmailMessage{
		To:           []mail.Address{{Name: respondent.Name, Address: respondent.Email}},
		Subject:      "Submission received: " + tmpl.Name,
		TemplateName: "submission_receipt",
		TemplateData: map[string]interface{}{
			"Name":        respondent.Name,
			"FormName":    tmpl.Name,
			"FormID":      tmpl.ID,
			"SubmittedAt": resp.SubmittedAt.Format(SubmittedAtFmt),
			"Answers":     answers,
		},
	}
}

// GetSubmission returns the respondent's latest Response joined with the current fields.
func (svc *Service) GetSubmission(ctx context.Context, respondent user.User, id string) (SubmissionView, error) {
	tmpl, err := svc.getVisible(ctx, respondent.ID, id)
	if err != nil {
		return SubmissionView{}, err
	}
	resp, err := svc.repo.GetLatestResponse(ctx, tmpl.ID, respondent.ID)
	if err != nil {
		if core.IsNotFound(err) {
			return SubmissionView{}, ErrSubmissionNotFound
		}
		return SubmissionView{}, err
	}

	answers := resp.Answers()
	view := SubmissionView{
		ID:          resp.ID,
		TemplateID:  tmpl.ID,
		SubmittedAt: resp.SubmittedAt,
		Answers:     make([]AnsweredField, 0, len(tmpl.Fields)),
	}
	for _, fld := range tmpl.Fields {
		view.Answers = append(view.Answers, AnsweredField{
			FieldID: fld.ID,
			Label:   fld.Label,
			Type:    fld.Type,
			Value:   answers[fld.ID],
		})
	}
	return view, nil
}

// Aggregation

// Responses returns the on-screen table of an owned template.
func (svc *Service) Responses(ctx context.Context, author user.User, id string) (Table, error) {
	tmpl, err := svc.GetOwned(ctx, author, id)
	if err != nil {
		return Table{}, err
	}
	resps, err := svc.repo.GetResponses(ctx, tmpl.ID)
	if err != nil {
		return Table{}, err
	}
	return BuildTable(tmpl, resps, svc.respondents(ctx, resps), DisplayValue), nil
}

// Export builds the spreadsheet of an owned template. No responses is not an error.
func (svc *Service) Export(ctx context.Context, author user.User, id string) (ExportResult, error) {
	tmpl, err := svc.GetOwned(ctx, author, id)
	if err != nil {
		return ExportResult{}, err
	}
	return svc.export(ctx, tmpl)
}

// ExportTemplate is Export without the ownership check, for operators.
func (svc *Service) ExportTemplate(ctx context.Context, id string) (ExportResult, error) {
	tmpl, err := svc.repo.GetTemplate(ctx, id)
	if err != nil {
		return ExportResult{}, err
	}
	return svc.export(ctx, tmpl)
}

func (svc *Service) export(ctx context.Context, tmpl Template) (ExportResult, error) {
	resps, err := svc.repo.GetResponses(ctx, tmpl.ID)
	if err != nil {
		return ExportResult{}, err
	}
	if len(resps) == 0 {
		return ExportResult{NoResponses: true}, nil
	}

	tbl := BuildTable(tmpl, resps, svc.respondents(ctx, resps), FormatValue)
	res := ExportResult{
		Filename: ExportFilename(tmpl.Name, svc.now().UTC().Format(exportDateLayout)),
		Content:  new(bytes.Buffer),
	}
	if err := tbl.WriteXLSX(res.Content); err != nil {
		return ExportResult{}, errors.Wrap(err, "writing spreadsheet")
	}
	return res, nil
}

// respondents collects identity columns from profiles, falling back to accounts.
// Lookup failures leave the columns blank.
func (svc *Service) respondents(ctx context.Context, resps []Response) map[string]Respondent {
	ids := make([]string, 0, len(resps))
	for _, r := range resps {
		if !core.ContainsString(ids, r.RespondentID) {
			ids = append(ids, r.RespondentID)
		}
	}
	who := make(map[string]Respondent, len(ids))

	usrs, err := svc.users.GetByIDs(ctx, ids...)
	if err != nil {
		svc.logger.Warn("form.respondents: user lookup failed", err)
	}
	for _, usr := range usrs {
		who[usr.ID] = Respondent{Name: usr.Name, Email: usr.Email}
	}

	profs, err := svc.profiles.GetMany(ctx, ids...)
	if err != nil {
		svc.logger.Warn("form.respondents: profile lookup failed", err)
	}
	for uid, p := range profs {
		r := who[uid]
		if p.Name != "" {
			r.Name = p.Name
		}
		if p.Email != "" {
			r.Email = p.Email
		}
		r.Branch = p.Branch
		who[uid] = r
	}
	return who
}
