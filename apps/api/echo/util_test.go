package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mohan-b-dev/std-dash/apps/views"
	"github.com/Mohan-b-dev/std-dash/core"
	"github.com/Mohan-b-dev/std-dash/core/session"
	"github.com/Mohan-b-dev/std-dash/core/student"
	emailsvc "github.com/Mohan-b-dev/std-dash/services/email"
	logsvc "github.com/Mohan-b-dev/std-dash/services/logger"
	inmemdb "github.com/Mohan-b-dev/std-dash/storage/database/inmem"
	testutil "github.com/Mohan-b-dev/std-dash/tests"
)

var ctxBg = context.Background()

type testApp struct {
	server   *Server
	sessions *session.Service
	accounts session.Repository
	records  student.Repository
}

type fixedInsights struct{}

func (fixedInsights) CourseProgress(rec student.Record) student.CourseProgress {
	return student.CourseProgress{Course: rec.Course, Progress: 50, LastUpdated: "2025-01-01"}
}

func (fixedInsights) UpcomingEvents(student.Record) []student.Event {
	return []student.Event{}
}

func setup() testApp {
	conf := core.NewTestConfig()
	logger := logsvc.NewDiscardLogger()
	db := inmemdb.Open()
	accounts := inmemdb.NewAccountRepository(db)
	records := inmemdb.NewStudentRepository(db)
	validate, translator := testutil.NewValidator()
	sessions := session.NewService(conf, accounts, inmemdb.NewRevoker(db), emailsvc.NewConsoleServiceMock(conf, logger), validate, translator)

	server := NewServer(Deps{
		Conf:       conf,
		Logger:     logger,
		Sessions:   sessions,
		Records:    records,
		Insights:   fixedInsights{},
		Validate:   validate,
		Translator: translator,
	})
	return testApp{server: server, sessions: sessions, accounts: accounts, records: records}
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

// pageResponse mirrors views.Page with the view left raw.
type pageResponse struct {
	Notices  []views.Notice  `json:"notices"`
	Redirect *views.Redirect `json:"redirect"`
	View     json.RawMessage `json:"view"`
	Token    string          `json:"token"`
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

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func (app testApp) do(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	app.server.ServeHTTP(rec, req)
	return rec
}

func (app testApp) getToken(t *testing.T, email string, role session.Role) string {
	testutil.CreateAccount(t, app.accounts, email, "Pass@123", role)
	s, err := app.sessions.Authenticate(ctxBg, session.Credentials{Email: email, Password: "Pass@123"})
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return s.Token
}

func decodePage(t *testing.T, rec *httptest.ResponseRecorder, view interface{}) pageResponse {
	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
	}
	var page pageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("decodePage() failed: %v", err)
	}
	if view != nil {
		if err := json.Unmarshal(page.View, view); err != nil {
			t.Fatalf("decodePage() failed: %v", err)
		}
	}
	return page
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
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
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func messages(page pageResponse) []string {
	msgs := make([]string, 0, len(page.Notices))
	for _, n := range page.Notices {
		msgs = append(msgs, n.Message)
	}
	return msgs
}

func assertRedirect(t *testing.T, page pageResponse, to string) {
	if assert.NotNil(t, page.Redirect) {
		assert.Equal(t, to, page.Redirect.To)
	}
}
