package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	echoapi "github.com/upbhushan/placement-iiitn--sub001/apps/api/echo"
	"github.com/upbhushan/placement-iiitn--sub001/core"
	"github.com/upbhushan/placement-iiitn--sub001/core/form"
	"github.com/upbhushan/placement-iiitn--sub001/core/profile"
	"github.com/upbhushan/placement-iiitn--sub001/core/user"
	emailsvc "github.com/upbhushan/placement-iiitn--sub001/services/email"
	logsvc "github.com/upbhushan/placement-iiitn--sub001/services/logger"
	uploadsvc "github.com/upbhushan/placement-iiitn--sub001/services/upload"
	"github.com/upbhushan/placement-iiitn--sub001/storage"
	testutil "github.com/upbhushan/placement-iiitn--sub001/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

// testApp is a Server wired on the in-memory storage engine.
type testApp struct {
	*echoapi.Server
	conf    *core.Config
	repos   *storage.Repositories
	mailSvc *emailsvc.ConsoleServiceMock
}

func newTestApp(t *testing.T, configure ...func(conf *core.Config)) *testApp {
	t.Helper()
	conf := testutil.NewConfig(t)
	for _, fn := range configure {
		fn(conf)
	}

	repos, err := storage.Open(context.Background(), conf, false)
	if err != nil {
		t.Fatalf("storage.Open(): %v", err)
	}
	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	validate, translator, resolver := testutil.NewValidator(t, conf)
	uploader, err := uploadsvc.NewUploader(conf)
	if err != nil {
		t.Fatalf("NewUploader(): %v", err)
	}

	usrSvc := user.NewService(repos.Users, mailSvc, conf)
	profSvc := profile.NewService(repos.Profiles)
	formSvc := form.NewService(
		repos.Forms,
		profSvc,
		usrSvc,
		resolver,
		form.NewSchemaGenerator(validate, translator),
		form.NewSubmissionValidator(resolver, validate),
		mailSvc,
		logger,
		conf,
	)

	srv := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Validate:   validate,
		Translator: translator,
		UserSvc:    usrSvc,
		ProfileSvc: profSvc,
		FormSvc:    formSvc,
		Uploader:   uploader,
	})
	return &testApp{Server: srv, conf: conf, repos: repos, mailSvc: mailSvc}
}

// do serves one JSON request.
func (app *testApp) do(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	app.ServeHTTP(rec, req)
	return rec
}

func (app *testApp) token(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := echoapi.GenerateUserToken(app.conf, usr)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj(): %v", err)
	}
	return data
}

func decodeObj(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("decodeObj(): %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app *testApp, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		tt := tt
		if tt.method == "" {
			tt.method = http.MethodGet
		}
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, app.do(tt.method, tt.path, tt.token, tt.body))
		})
	}
}

func jsonUnmarshal(data []byte, obj interface{}) error {
	return json.Unmarshal(data, obj)
}
