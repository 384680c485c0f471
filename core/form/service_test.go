package form_test

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upbhushan/placement-iiitn--sub001/core"
	"github.com/upbhushan/placement-iiitn--sub001/core/form"
	"github.com/upbhushan/placement-iiitn--sub001/core/profile"
	"github.com/upbhushan/placement-iiitn--sub001/core/user"
	emailsvc "github.com/upbhushan/placement-iiitn--sub001/services/email"
	logsvc "github.com/upbhushan/placement-iiitn--sub001/services/logger"
	inmemdb "github.com/upbhushan/placement-iiitn--sub001/storage/database/inmem"
	testutil "github.com/upbhushan/placement-iiitn--sub001/tests"
)

var errLookupDown = errors.New("connection refused")

// brokenLookup fails every profile & user lookup.
type brokenLookup struct{}

func (brokenLookup) Get(context.Context, string) (profile.Profile, error) {
	return profile.Profile{}, errLookupDown
}

func (brokenLookup) GetMany(context.Context, ...string) (map[string]profile.Profile, error) {
	return nil, errLookupDown
}

func (brokenLookup) GetByIDs(context.Context, ...string) ([]user.User, error) {
	return nil, errLookupDown
}

type serviceFixture struct {
	svc      *form.Service
	forms    form.Repository
	users    user.Repository
	profiles profile.Repository
	mailSvc  *emailsvc.ConsoleServiceMock
	admin    user.User
	student  user.User
}

func newServiceFixture(t *testing.T, opts ...func(*core.Config)) *serviceFixture {
	t.Helper()
	conf := testutil.NewConfig(t)
	for _, opt := range opts {
		opt(conf)
	}
	db := inmemdb.Open()
	fx := &serviceFixture{
		forms:    inmemdb.NewFormRepository(db),
		users:    inmemdb.NewUserRepository(db),
		profiles: inmemdb.NewProfileRepository(db),
	}
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	fx.mailSvc = emailsvc.NewConsoleServiceMock(conf, logger)
	validate, translator, resolver := testutil.NewValidator(t, conf)
	fx.svc = form.NewService(
		fx.forms,
		profile.NewService(fx.profiles),
		user.NewService(fx.users, fx.mailSvc, conf),
		resolver,
		form.NewSchemaGenerator(validate, translator),
		form.NewSubmissionValidator(resolver, validate),
		fx.mailSvc,
		logger,
		conf,
	)
	fx.admin = testutil.CreateAdmin(t, fx.users, "tpo")
	fx.student = testutil.CreateStudent(t, fx.users, "asha")
	return fx
}

// withBrokenLookups rebuilds the service on lookups that always fail.
func (fx *serviceFixture) withBrokenLookups(t *testing.T) *form.Service {
	conf := testutil.NewConfig(t)
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	validate, translator, resolver := testutil.NewValidator(t, conf)
	return form.NewService(
		fx.forms, brokenLookup{}, brokenLookup{}, resolver,
		form.NewSchemaGenerator(validate, translator),
		form.NewSubmissionValidator(resolver, validate),
		fx.mailSvc, logger, conf,
	)
}

func (fx *serviceFixture) create(t *testing.T, fields ...form.Field) form.Template {
	t.Helper()
	tmpl, err := fx.svc.Create(context.Background(), fx.admin, form.NewTemplate{Name: "Campus Drive", Fields: fields, Published: true})
	require.NoError(t, err)
	return tmpl
}

func answer(id string, v form.Value) form.Answer {
	return form.Answer{FieldID: id, Value: v}
}

func TestService_authoring(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()

	_, err := fx.svc.Create(ctx, fx.student, form.NewTemplate{Name: "x"})
	assert.Equal(t, form.ErrNotAuthor, err)

	tmpl := fx.create(t, form.Field{ID: "a", Label: "A", Type: form.FieldText})
	assert.Equal(t, fx.admin.ID, tmpl.AuthorID)
	assert.False(t, tmpl.CreatedAt.IsZero())
	assert.Equal(t, form.DefaultPrimaryColor, tmpl.ColorScheme.PrimaryColor)

	other := testutil.CreateAdmin(t, fx.users, "recruiter")
	_, err = fx.svc.GetOwned(ctx, other, tmpl.ID)
	assert.True(t, core.IsAuthorization(err))
	_, err = fx.svc.GetOwned(ctx, fx.admin, "nope")
	assert.True(t, core.IsNotFound(err))

	owned, err := fx.svc.ListOwned(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, owned)

	updated, err := fx.svc.Replace(ctx, tmpl, form.NewTemplate{Name: "Renamed", Fields: []form.Field{{ID: "b", Label: "B", Type: form.FieldEmail}}})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, tmpl.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.Published)
	require.Len(t, updated.Fields, 1)
	assert.Equal(t, "b", updated.Fields[0].ID)

	visible, err := fx.svc.ListVisible(ctx, fx.student.ID)
	require.NoError(t, err)
	assert.Empty(t, visible, "unpublished templates are hidden")

	assert.True(t, core.IsAuthorization(fx.svc.Delete(ctx, other, tmpl.ID)))
	require.NoError(t, fx.svc.Delete(ctx, fx.admin, tmpl.ID))
	_, err = fx.svc.Get(ctx, tmpl.ID)
	assert.Equal(t, form.ErrNotFound, err)
}

func TestService_Submit(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()
	testutil.SaveProfile(t, fx.profiles, profile.Profile{UserID: fx.student.ID, Name: "Asha Rao", CGPA: testutil.Float(8.5)})
	tmpl := fx.create(t,
		form.Field{ID: "full_name", Label: "Full Name", Type: form.FieldText, Required: true},
		form.Field{ID: "cgpa", Label: "CGPA", Type: form.FieldNumber, AutoFillKey: "cgpa"},
	)

	_, err := fx.svc.Submit(ctx, fx.admin, tmpl.ID, nil)
	assert.Equal(t, form.ErrNotRespondent, err)
	_, err = fx.svc.Submit(ctx, fx.student, "nope", nil)
	assert.Equal(t, form.ErrNotFound, err)

	_, err = fx.svc.Submit(ctx, fx.student, tmpl.ID, []form.Answer{answer("cgpa", form.NumberValue(9.9))})
	var vErr *form.ValidationFailedError
	require.True(t, errors.As(err, &vErr), "err = %v", err)
	require.Len(t, vErr.Violations, 2)
	assert.Equal(t, form.CodeRequired, vErr.Violations[0].Code)
	assert.Equal(t, form.CodeTampered, vErr.Violations[1].Code)
	assert.Empty(t, fx.mailSvc.SentMessages(), "nothing stored, nothing mailed")

	resp, err := fx.svc.Submit(ctx, fx.student, tmpl.ID, []form.Answer{
		answer("full_name", form.TextValue(" Asha ")),
		answer("cgpa", form.TextValue("8.5")),
		answer("unknown", form.TextValue("dropped")),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "Asha", resp.Entries[0].Value.String())
	assert.Equal(t, form.KindNumber, resp.Entries[1].Value.Kind())

	sent := fx.mailSvc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "Submission received: Campus Drive", sent[0].Subject)
	assert.Contains(t, sent[0].TextContent, "CGPA: 8.5")

	view, err := fx.svc.GetForRespondent(ctx, fx.student, tmpl.ID)
	require.NoError(t, err)
	assert.True(t, view.HasSubmitted)
	assert.Equal(t, resp.ID, view.SubmissionID)
	assert.Equal(t, tmpl.Public(), view.Template)

	// labels change, stored answers keep the old one
	renamed := tmpl.Fields
	renamed[0].Label = "Name"
	_, err = fx.svc.Replace(ctx, tmpl, form.NewTemplate{Name: tmpl.Name, Fields: renamed, Published: true})
	require.NoError(t, err)
	stored, err := fx.forms.GetResponses(ctx, tmpl.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Full Name", stored[0].Entries[0].FieldLabel)

	sub, err := fx.svc.GetSubmission(ctx, fx.student, tmpl.ID)
	require.NoError(t, err)
	assert.Equal(t, "Name", sub.Answers[0].Label)
	assert.Equal(t, "Asha", sub.Answers[0].Value.String())

	other := testutil.CreateStudent(t, fx.users, "ravi")
	_, err = fx.svc.GetSubmission(ctx, other, tmpl.ID)
	assert.Equal(t, form.ErrSubmissionNotFound, err)
}

func TestService_SubmitOnce(t *testing.T) {
	fx := newServiceFixture(t, func(conf *core.Config) { conf.Form.AllowMultipleSubmissions = false })
	ctx := context.Background()
	tmpl := fx.create(t, form.Field{ID: "a", Label: "A", Type: form.FieldText})

	_, err := fx.svc.Submit(ctx, fx.student, tmpl.ID, []form.Answer{answer("a", form.TextValue("x"))})
	require.NoError(t, err)
	_, err = fx.svc.Submit(ctx, fx.student, tmpl.ID, []form.Answer{answer("a", form.TextValue("y"))})
	assert.Equal(t, form.ErrAlreadySubmitted, err)
}

func TestService_brokenProfileLookup(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()
	tmpl := fx.create(t,
		form.Field{ID: "name", Label: "Name", Type: form.FieldText, AutoFillKey: "name"},
		form.Field{ID: "why", Label: "Why", Type: form.FieldText},
	)
	svc := fx.withBrokenLookups(t)

	// auto-fill is off, the form still renders
	view, err := svc.GetForRespondent(ctx, fx.student, tmpl.ID)
	require.NoError(t, err)
	require.Len(t, view.Fields, 2)
	assert.Nil(t, view.Fields[0].Value)
	assert.False(t, view.Fields[0].IsReadOnly)

	// a submission cannot be checked for tampering
	_, err = svc.Submit(ctx, fx.student, tmpl.ID, []form.Answer{answer("name", form.TextValue("Asha"))})
	assert.True(t, core.IsExternalService(err), "err = %v", err)

	// templates without auto-fill never look profiles up
	plain := fx.create(t, form.Field{ID: "why", Label: "Why", Type: form.FieldText})
	_, err = svc.Submit(ctx, fx.student, plain.ID, []form.Answer{answer("why", form.TextValue("because"))})
	require.NoError(t, err)

	// identity columns go blank
	tbl, err := svc.Responses(ctx, fx.admin, plain.ID)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, []string{"", "", ""}, tbl.Rows[0][:3])
	assert.Equal(t, "because", tbl.Rows[0][4])
}

func TestService_Export(t *testing.T) {
	fx := newServiceFixture(t)
	ctx := context.Background()
	tmpl := fx.create(t, form.Field{ID: "a", Label: "A", Type: form.FieldText})

	res, err := fx.svc.Export(ctx, fx.admin, tmpl.ID)
	require.NoError(t, err)
	assert.True(t, res.NoResponses)
	assert.Nil(t, res.Content)

	_, err = fx.svc.Submit(ctx, fx.student, tmpl.ID, []form.Answer{answer("a", form.TextValue("x"))})
	require.NoError(t, err)

	res, err = fx.svc.Export(ctx, fx.admin, tmpl.ID)
	require.NoError(t, err)
	assert.False(t, res.NoResponses)
	assert.Equal(t, form.ExportFilename("Campus Drive", time.Now().UTC().Format("2006-01-02")), res.Filename)
	assert.NotZero(t, res.Content.Len())

	tbl, err := fx.svc.Responses(ctx, fx.admin, tmpl.ID)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, []string{fx.student.Name, fx.student.Email, ""}, tbl.Rows[0][:3])

	other := testutil.CreateAdmin(t, fx.users, "recruiter")
	_, err = fx.svc.Export(ctx, other, tmpl.ID)
	assert.Equal(t, form.ErrNotAuthor, err)
	_, err = fx.svc.ExportTemplate(ctx, tmpl.ID)
	assert.NoError(t, err)
}

func TestService_CascadeDelete(t *testing.T) {
	for _, cascade := range []bool{true, false} {
		fx := newServiceFixture(t, func(conf *core.Config) { conf.Form.CascadeDelete = cascade })
		ctx := context.Background()
		tmpl := fx.create(t, form.Field{ID: "a", Label: "A", Type: form.FieldText})
		_, err := fx.svc.Submit(ctx, fx.student, tmpl.ID, []form.Answer{answer("a", form.TextValue("x"))})
		require.NoError(t, err)

		require.NoError(t, fx.svc.Delete(ctx, fx.admin, tmpl.ID))
		resps, err := fx.forms.GetResponses(ctx, tmpl.ID)
		require.NoError(t, err)
		if cascade {
			assert.Empty(t, resps)
		} else {
			assert.Len(t, resps, 1)
		}
	}
}
