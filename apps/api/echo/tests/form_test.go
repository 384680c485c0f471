package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upbhushan/placement-iiitn--sub001/core"
	"github.com/upbhushan/placement-iiitn--sub001/core/form"
	"github.com/upbhushan/placement-iiitn--sub001/core/profile"
	"github.com/upbhushan/placement-iiitn--sub001/core/user"
	testutil "github.com/upbhushan/placement-iiitn--sub001/tests"
)

type formFixture struct {
	app     *testApp
	admin   user.User
	student user.User
}

func newFormFixture(t *testing.T, configure ...func(conf *core.Config)) formFixture {
	app := newTestApp(t, configure...)
	return formFixture{
		app:     app,
		admin:   testutil.CreateAdmin(t, app.repos.Users, "placement"),
		student: testutil.CreateStudent(t, app.repos.Users, "student1"),
	}
}

// createForm posts a published template and returns it.
func (fx formFixture) createForm(t *testing.T, fields ...form.Field) form.Template {
	t.Helper()
	body := marshalObj(t, form.NewTemplate{Name: "Campus Drive", Fields: fields, Published: true})
	rec := fx.app.do(http.MethodPost, "/v1/forms", fx.app.token(t, fx.admin), body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var tmpl form.Template
	decodeObj(t, rec, &tmpl)
	return tmpl
}

func (fx formFixture) submit(t *testing.T, tmplID string, answers map[string]interface{}) *rawResponse {
	t.Helper()
	type answer struct {
		FieldID string      `json:"field_id"`
		Value   interface{} `json:"value"`
	}
	req := struct {
		Responses []answer `json:"responses"`
	}{}
	for id, v := range answers {
		req.Responses = append(req.Responses, answer{FieldID: id, Value: v})
	}
	rec := fx.app.do(http.MethodPost, "/v1/forms/"+tmplID+"/submit", fx.app.token(t, fx.student), marshalObj(t, req))
	return &rawResponse{code: rec.Code, body: rec.Body.Bytes()}
}

type rawResponse struct {
	code int
	body []byte
}

type submissionRejected struct {
	Error      string           `json:"error"`
	Violations []form.Violation `json:"violations"`
}

type clientField struct {
	ID         string      `json:"id"`
	Value      interface{} `json:"value"`
	IsReadOnly bool        `json:"is_read_only"`
}

type respondentView struct {
	Fields       []clientField `json:"fields"`
	HasSubmitted bool          `json:"has_submitted"`
	SubmissionID string        `json:"submission_id"`
}

func (fx formFixture) respondentView(t *testing.T, tmplID string) respondentView {
	t.Helper()
	rec := fx.app.do(http.MethodGet, "/v1/forms/"+tmplID, fx.app.token(t, fx.student))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var view respondentView
	decodeObj(t, rec, &view)
	return view
}

func decodeRaw(t *testing.T, raw *rawResponse, obj interface{}) {
	t.Helper()
	require.NoError(t, jsonUnmarshal(raw.body, obj), string(raw.body))
}

func Test_formApi_permissions(t *testing.T) {
	fx := newFormFixture(t)
	tmpl := fx.createForm(t, form.Field{ID: "full_name", Label: "Full Name", Type: form.FieldText, Required: true})
	other := testutil.CreateAdmin(t, fx.app.repos.Users, "recruiter")
	naughty := testutil.CreateUser(t, fx.app.repos.Users, "N Dog", "ndog", "ndog@iiitn.ac.in", "", []string{user.RoleStudent}, false)
	studentToken := fx.app.token(t, fx.student)
	otherToken := fx.app.token(t, other)
	path := "/v1/forms/" + tmpl.ID

	runHTTPTests(t, fx.app, []httpTest{
		{name: "Auth required", path: "/v1/forms", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{name: "Deactivated", path: "/v1/forms", token: fx.app.token(t, naughty), wantCode: http.StatusForbidden, wantData: marshalObj(t, httpErr{Error: "account deactivated"})},
		{name: "Student cannot create", method: http.MethodPost, path: "/v1/forms", token: studentToken, body: []byte(`{}`), wantCode: http.StatusForbidden, wantData: marshalObj(t, httpErr{Error: "permission denied"})},
		{name: "Student cannot export", path: path + "/export", token: studentToken, wantCode: http.StatusForbidden, wantData: marshalObj(t, httpErr{Error: "permission denied"})},
		{name: "Student cannot list responses", path: path + "/responses", token: studentToken, wantCode: http.StatusForbidden},
		{name: "Admin cannot submit", method: http.MethodPost, path: path + "/submit", token: otherToken, body: []byte(`{"responses":[]}`), wantCode: http.StatusForbidden},
		{name: "Not the author", path: path, token: otherToken, wantCode: http.StatusForbidden, wantData: marshalObj(t, httpErr{Error: form.ErrNotAuthor.Error()})},
		{name: "Not the author: delete", method: http.MethodDelete, path: path, token: otherToken, wantCode: http.StatusForbidden},
		{name: "Not the author: export", path: path + "/export", token: otherToken, wantCode: http.StatusForbidden},
		{name: "Unknown form", path: "/v1/forms/nope", token: studentToken, wantCode: http.StatusNotFound, wantData: marshalObj(t, httpErr{Error: "form not found"})},
		{name: "Other admin lists nothing", path: "/v1/forms", token: otherToken, wantData: []byte(`[]`)},
	})
}

func Test_formApi_create(t *testing.T) {
	fx := newFormFixture(t)
	token := fx.app.token(t, fx.admin)

	t.Run("invalid definition", func(t *testing.T) {
		body := []byte(`{"name":" ","fields":[{"label":"Company","field_type":"dropdown"}],"color_scheme":{"primary_color":"blue"}}`)
		rec := fx.app.do(http.MethodPost, "/v1/forms", token, body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var fldErrs map[string]string
		decodeObj(t, rec, &fldErrs)
		assert.Contains(t, fldErrs, "name")
		assert.Contains(t, fldErrs, "fields[0].field_type")
		assert.Contains(t, fldErrs, "color_scheme.primary_color")
	})

	t.Run("unknown auto-fill key", func(t *testing.T) {
		body := marshalObj(t, form.NewTemplate{Name: "Drive", Fields: []form.Field{{Label: "Salary", Type: form.FieldNumber, AutoFillKey: "salary"}}})
		rec := fx.app.do(http.MethodPost, "/v1/forms", token, body)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var fldErrs map[string]string
		decodeObj(t, rec, &fldErrs)
		assert.Contains(t, fldErrs, "fields[0].auto_fill_key")
	})

	t.Run("no fields", func(t *testing.T) {
		rec := fx.app.do(http.MethodPost, "/v1/forms", token, []byte(`{"name":"Empty"}`))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("created", func(t *testing.T) {
		tmpl := fx.createForm(t,
			form.Field{Label: "<i>Full</i> Name", Type: "TEXT", Required: true},
			form.Field{ID: "branch", Label: "Branch", Type: form.FieldSelect, Options: []form.Option{{Label: "CSE", Value: "cse"}, {Label: "ECE", Value: "ece"}}},
		)
		assert.NotEmpty(t, tmpl.ID)
		assert.Equal(t, fx.admin.ID, tmpl.AuthorID)
		require.Len(t, tmpl.Fields, 2)
		assert.NotEmpty(t, tmpl.Fields[0].ID)
		assert.Equal(t, "Full Name", tmpl.Fields[0].Label)
		assert.Equal(t, form.FieldText, tmpl.Fields[0].Type)
		assert.Equal(t, "branch", tmpl.Fields[1].ID)
		assert.Equal(t, form.DefaultPrimaryColor, tmpl.ColorScheme.PrimaryColor)

		rec := fx.app.do(http.MethodGet, "/v1/forms", token)
		require.Equal(t, http.StatusOK, rec.Code)
		var tmpls []form.Template
		decodeObj(t, rec, &tmpls)
		require.Len(t, tmpls, 1)
		assert.Equal(t, tmpl.ID, tmpls[0].ID)
	})

	t.Run("auto-fill keys", func(t *testing.T) {
		rec := fx.app.do(http.MethodGet, "/v1/forms/autofill-keys", token)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Keys []string `json:"keys"`
		}
		decodeObj(t, rec, &resp)
		assert.Equal(t, form.KnownAutoFillKeys(), resp.Keys)
	})
}

func Test_formApi_updateAndDelete(t *testing.T) {
	fx := newFormFixture(t)
	token := fx.app.token(t, fx.admin)
	tmpl := fx.createForm(t, form.Field{ID: "full_name", Label: "Full Name", Type: form.FieldText, Required: true})
	path := "/v1/forms/" + tmpl.ID

	rec := fx.app.do(http.MethodPut, path, token, []byte(`{"name":"Campus Drive 2026","published":false}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated form.Template
	decodeObj(t, rec, &updated)
	assert.Equal(t, "Campus Drive 2026", updated.Name)
	assert.False(t, updated.Published)
	assert.Len(t, updated.Fields, 1, "absent fields keep their value")

	// unpublished forms are hidden from students
	rec = fx.app.do(http.MethodGet, path, fx.app.token(t, fx.student))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = fx.app.do(http.MethodGet, "/v1/forms", fx.app.token(t, fx.student))
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = fx.app.do(http.MethodPut, path, token, []byte(`{"fields":[]}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = fx.app.do(http.MethodDelete, path, token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = fx.app.do(http.MethodGet, path, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_formApi_sharedWith(t *testing.T) {
	fx := newFormFixture(t)
	other := testutil.CreateStudent(t, fx.app.repos.Users, "student2")

	body := marshalObj(t, form.NewTemplate{
		Name:       "Shortlist",
		Fields:     []form.Field{{ID: "ok", Label: "Attending", Type: form.FieldText}},
		Published:  true,
		SharedWith: []string{fx.student.ID},
	})
	rec := fx.app.do(http.MethodPost, "/v1/forms", fx.app.token(t, fx.admin), body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var tmpl form.Template
	decodeObj(t, rec, &tmpl)

	rec = fx.app.do(http.MethodGet, "/v1/forms/"+tmpl.ID, fx.app.token(t, fx.student))
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Template map[string]interface{} `json:"template"`
	}
	decodeObj(t, rec, &view)
	assert.Equal(t, "Shortlist", view.Template["name"])
	assert.NotContains(t, view.Template, "shared_with")
	assert.NotContains(t, view.Template, "author_id")

	rec = fx.app.do(http.MethodGet, "/v1/forms", fx.app.token(t, fx.student))
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]interface{}
	decodeObj(t, rec, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, tmpl.ID, listed[0]["id"])
	assert.NotContains(t, listed[0], "shared_with")
	assert.NotContains(t, listed[0], "author_id")

	rec = fx.app.do(http.MethodGet, "/v1/forms/"+tmpl.ID, fx.app.token(t, other))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = fx.app.do(http.MethodPost, "/v1/forms/"+tmpl.ID+"/submit", fx.app.token(t, other), []byte(`{"responses":[{"field_id":"ok","value":"yes"}]}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// Full Name is required; blank answers are rejected, real ones stored with the label.
func Test_formApi_requiredField(t *testing.T) {
	fx := newFormFixture(t)
	tmpl := fx.createForm(t, form.Field{ID: "full_name", Label: "Full Name", Type: form.FieldText, Required: true})

	res := fx.submit(t, tmpl.ID, map[string]interface{}{"full_name": ""})
	require.Equal(t, http.StatusBadRequest, res.code, string(res.body))
	var rejected submissionRejected
	decodeRaw(t, res, &rejected)
	assert.Equal(t, "submission rejected", rejected.Error)
	assert.Equal(t, []form.Violation{{FieldID: "full_name", FieldLabel: "Full Name", Code: form.CodeRequired, Message: "this field is required"}}, rejected.Violations)

	res = fx.submit(t, tmpl.ID, map[string]interface{}{"full_name": "Asha"})
	require.Equal(t, http.StatusCreated, res.code, string(res.body))
	var created struct {
		ID          string `json:"id"`
		TemplateID  string `json:"template_id"`
		SubmittedAt string `json:"submitted_at"`
		Responses   []struct {
			FieldID    string      `json:"field_id"`
			FieldLabel string      `json:"field_label"`
			Value      interface{} `json:"value"`
		} `json:"responses"`
	}
	decodeRaw(t, res, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, tmpl.ID, created.TemplateID)
	_, err := time.Parse(form.SubmittedAtFmt, created.SubmittedAt)
	assert.NoError(t, err)
	require.Len(t, created.Responses, 1)
	assert.Equal(t, "full_name", created.Responses[0].FieldID)
	assert.Equal(t, "Full Name", created.Responses[0].FieldLabel)
	assert.Equal(t, "Asha", created.Responses[0].Value)

	// receipt mailed to the respondent
	sent := fx.app.mailSvc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, fx.student.Email, sent[0].To[0].Address)
	assert.Contains(t, sent[0].TextContent, "Full Name: Asha")

	view := fx.respondentView(t, tmpl.ID)
	assert.True(t, view.HasSubmitted)
	assert.Equal(t, created.ID, view.SubmissionID)

	rec := fx.app.do(http.MethodGet, "/v1/forms/"+tmpl.ID+"/submission", fx.app.token(t, fx.student))
	require.Equal(t, http.StatusOK, rec.Code)
	var sub form.SubmissionView
	decodeObj(t, rec, &sub)
	assert.Equal(t, created.ID, sub.ID)
	require.Len(t, sub.Answers, 1)
	assert.Equal(t, "Asha", sub.Answers[0].Value.String())
}

// A bound CGPA field is pre-filled read-only and must not be changed.
func Test_formApi_autoFillTamper(t *testing.T) {
	fx := newFormFixture(t)
	testutil.SaveProfile(t, fx.app.repos.Profiles, profile.Profile{UserID: fx.student.ID, Name: fx.student.Name, CGPA: testutil.Float(8.5)})
	tmpl := fx.createForm(t, form.Field{ID: "cgpa", Label: "CGPA", Type: form.FieldNumber, AutoFillKey: "cgpa"})

	view := fx.respondentView(t, tmpl.ID)
	require.Len(t, view.Fields, 1)
	assert.Equal(t, 8.5, view.Fields[0].Value)
	assert.True(t, view.Fields[0].IsReadOnly)
	assert.False(t, view.HasSubmitted)

	res := fx.submit(t, tmpl.ID, map[string]interface{}{"cgpa": 9.9})
	require.Equal(t, http.StatusBadRequest, res.code, string(res.body))
	var rejected submissionRejected
	decodeRaw(t, res, &rejected)
	require.Len(t, rejected.Violations, 1)
	assert.Equal(t, form.CodeTampered, rejected.Violations[0].Code)
	assert.Equal(t, "CGPA", rejected.Violations[0].FieldLabel)

	res = fx.submit(t, tmpl.ID, map[string]interface{}{"cgpa": 8.5})
	assert.Equal(t, http.StatusCreated, res.code, string(res.body))

	// numeric strings are narrowed before comparison
	res = fx.submit(t, tmpl.ID, map[string]interface{}{"cgpa": "8.50"})
	assert.Equal(t, http.StatusCreated, res.code, string(res.body))
}

// Dates resolve to YYYY-MM-DD and compare in that form.
func Test_formApi_autoFillDate(t *testing.T) {
	fx := newFormFixture(t)
	offer := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	prof := profile.Profile{UserID: fx.student.ID, Name: fx.student.Name}
	prof.Placement.IsPlaced = true
	prof.Placement.OfferDate = &offer
	testutil.SaveProfile(t, fx.app.repos.Profiles, prof)
	tmpl := fx.createForm(t, form.Field{ID: "offer", Label: "Offer Date", Type: form.FieldDate, AutoFillKey: "placement.offerDate"})

	view := fx.respondentView(t, tmpl.ID)
	require.Len(t, view.Fields, 1)
	assert.Equal(t, "2024-03-15", view.Fields[0].Value)
	assert.True(t, view.Fields[0].IsReadOnly)

	res := fx.submit(t, tmpl.ID, map[string]interface{}{"offer": "2024-03-15"})
	assert.Equal(t, http.StatusCreated, res.code, string(res.body))

	res = fx.submit(t, tmpl.ID, map[string]interface{}{"offer": "2024-03-16"})
	assert.Equal(t, http.StatusBadRequest, res.code, string(res.body))
}

// With no profile the bound field is editable.
func Test_formApi_autoFillWithoutProfile(t *testing.T) {
	fx := newFormFixture(t)
	tmpl := fx.createForm(t, form.Field{ID: "cgpa", Label: "CGPA", Type: form.FieldNumber, AutoFillKey: "cgpa", Required: true})

	view := fx.respondentView(t, tmpl.ID)
	require.Len(t, view.Fields, 1)
	assert.Nil(t, view.Fields[0].Value)
	assert.False(t, view.Fields[0].IsReadOnly)

	res := fx.submit(t, tmpl.ID, map[string]interface{}{"cgpa": 7.25})
	assert.Equal(t, http.StatusCreated, res.code, string(res.body))
}

func Test_formApi_singleSubmission(t *testing.T) {
	fx := newFormFixture(t, func(conf *core.Config) { conf.Form.AllowMultipleSubmissions = false })
	tmpl := fx.createForm(t, form.Field{ID: "full_name", Label: "Full Name", Type: form.FieldText})

	res := fx.submit(t, tmpl.ID, map[string]interface{}{"full_name": "Asha"})
	require.Equal(t, http.StatusCreated, res.code, string(res.body))
	res = fx.submit(t, tmpl.ID, map[string]interface{}{"full_name": "Asha again"})
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.JSONEq(t, `{"error":"you have already submitted this form"}`, string(res.body))
}

func Test_formApi_fileReferences(t *testing.T) {
	fx := newFormFixture(t)
	tmpl := fx.createForm(t, form.Field{ID: "resume", Label: "Resume", Type: form.FieldFile, Required: true})

	res := fx.submit(t, tmpl.ID, map[string]interface{}{"resume": "resume.pdf"})
	require.Equal(t, http.StatusBadRequest, res.code, string(res.body))
	var rejected submissionRejected
	decodeRaw(t, res, &rejected)
	require.Len(t, rejected.Violations, 1)
	assert.Equal(t, form.CodeFileRef, rejected.Violations[0].Code)

	for _, ref := range []string{"/uploads/2026/01/02/resume.pdf", "https://files.iiitn.ac.in/resume.pdf"} {
		res = fx.submit(t, tmpl.ID, map[string]interface{}{"resume": ref})
		assert.Equal(t, http.StatusCreated, res.code, string(res.body))
	}
}

func Test_formApi_schema(t *testing.T) {
	fx := newFormFixture(t)
	tmpl := fx.createForm(t,
		form.Field{ID: "email", Label: "Email", Type: form.FieldEmail, Required: true},
		form.Field{ID: "cgpa", Label: "CGPA", Type: form.FieldNumber},
		form.Field{ID: "dob", Label: "Date of Birth", Type: form.FieldDate},
		form.Field{ID: "resume", Label: "Resume", Type: form.FieldFile, Required: true},
	)
	token := fx.app.token(t, fx.student)
	path := "/v1/forms/" + tmpl.ID

	rec := fx.app.do(http.MethodGet, path+"/schema", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var schema struct {
		Fields []form.Rule `json:"fields"`
	}
	decodeObj(t, rec, &schema)
	require.Len(t, schema.Fields, 4)
	assert.Equal(t, "email", schema.Fields[0].Format)
	assert.True(t, schema.Fields[0].Required)
	assert.Equal(t, form.BaseNumber, schema.Fields[1].Base)
	assert.True(t, schema.Fields[1].Optional)
	assert.Equal(t, "date", schema.Fields[2].Format)
	assert.Equal(t, form.BaseFile, schema.Fields[3].Base)

	// same template, same schema
	again := fx.app.do(http.MethodGet, path+"/schema", token)
	assert.JSONEq(t, rec.Body.String(), again.Body.String())

	validate := func(env string, values map[string]interface{}) (bool, []form.Violation) {
		rec := fx.app.do(http.MethodPost, path+"/validate", token, marshalObj(t, map[string]interface{}{"environment": env, "values": values}))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var resp struct {
			Valid      bool             `json:"valid"`
			Violations []form.Violation `json:"violations"`
		}
		decodeObj(t, rec, &resp)
		return resp.Valid, resp.Violations
	}

	valid, violations := validate("server", map[string]interface{}{"email": "asha@iiitn.ac.in", "cgpa": "8.5", "dob": "2003-05-01"})
	assert.True(t, valid, "%v", violations)

	valid, violations = validate("server", map[string]interface{}{"email": "nope", "cgpa": "lots", "dob": "01/05/2003"})
	assert.False(t, valid)
	codes := make([]string, 0, len(violations))
	for _, v := range violations {
		codes = append(codes, v.Code)
	}
	assert.Equal(t, []string{form.CodeEmail, form.CodeNumber, form.CodeDate}, codes)

	valid, violations = validate("browser", map[string]interface{}{"email": "asha@iiitn.ac.in", "resume": []interface{}{}})
	assert.False(t, valid)
	require.Len(t, violations, 1)
	assert.Equal(t, "resume", violations[0].FieldID)
}

func Test_formApi_export(t *testing.T) {
	fx := newFormFixture(t)
	token := fx.app.token(t, fx.admin)
	tmpl := fx.createForm(t,
		form.Field{ID: "full_name", Label: "Full Name", Type: form.FieldText, Required: true},
		form.Field{ID: "cgpa", Label: "CGPA", Type: form.FieldNumber},
	)
	path := "/v1/forms/" + tmpl.ID

	t.Run("no responses", func(t *testing.T) {
		rec := fx.app.do(http.MethodGet, path+"/export", token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"no_responses":true,"message":"This form has no responses yet."}`, rec.Body.String())

		rec = fx.app.do(http.MethodGet, path+"/responses", token)
		require.Equal(t, http.StatusOK, rec.Code)
		var tbl form.Table
		decodeObj(t, rec, &tbl)
		assert.Empty(t, tbl.Rows)
	})

	testutil.SaveProfile(t, fx.app.repos.Profiles, profile.Profile{UserID: fx.student.ID, Name: "Asha Rao", Branch: "CSE"})
	res := fx.submit(t, tmpl.ID, map[string]interface{}{"full_name": "Asha Rao"})
	require.Equal(t, http.StatusCreated, res.code, string(res.body))

	t.Run("responses table", func(t *testing.T) {
		rec := fx.app.do(http.MethodGet, path+"/responses", token)
		require.Equal(t, http.StatusOK, rec.Code)
		var tbl form.Table
		decodeObj(t, rec, &tbl)
		assert.Equal(t, append(append([]string{}, form.MetaHeaders...), "Full Name", "CGPA"), tbl.Headers)
		require.Len(t, tbl.Rows, 1)
		assert.Equal(t, "Asha Rao", tbl.Rows[0][0])
		assert.Equal(t, fx.student.Email, tbl.Rows[0][1])
		assert.Equal(t, "CSE", tbl.Rows[0][2])
		assert.Equal(t, "Asha Rao", tbl.Rows[0][4])
		assert.Equal(t, form.NotAnswered, tbl.Rows[0][5])
	})

	t.Run("spreadsheet", func(t *testing.T) {
		rec := fx.app.do(http.MethodGet, path+"/export", token)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, form.XLSXContentType, rec.Header().Get("Content-Type"))
		want := fmt.Sprintf("attachment; filename=%q", form.ExportFilename(tmpl.Name, time.Now().UTC().Format("2006-01-02")))
		assert.Equal(t, want, rec.Header().Get("Content-Disposition"))
		assert.NotZero(t, rec.Body.Len())
	})

	t.Run("cascade delete", func(t *testing.T) {
		rec := fx.app.do(http.MethodDelete, path, token)
		require.Equal(t, http.StatusNoContent, rec.Code)
		resps, err := fx.app.repos.Forms.GetResponses(context.Background(), tmpl.ID)
		require.NoError(t, err)
		assert.Empty(t, resps)
	})
}
