package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"

	"github.com/trezcool/rapor/core/school"
	"github.com/trezcool/rapor/core/session"
	"github.com/trezcool/rapor/core/user"
	inmemdb "github.com/trezcool/rapor/storage/database/inmem"
	testutil "github.com/trezcool/rapor/tests"
)

const testPassword = "Kopi-Susu-2024!"

var (
	errNotAuthenticated = httpErr{Error: "user not authenticated"}
	errPermDenied       = httpErr{Error: "permission denied"}
	errInternal         = httpErr{Error: "Internal Server Error"}
)

type userStore interface {
	user.Repository
	DeleteUser(id string)
}

type testApp struct {
	server  *Server
	db      *inmemdb.DB
	usrRepo userStore
	codec   *session.Codec
	logger  *testLogger
}

func setup(t *testing.T) *testApp {
	t.Helper()

	conf := testutil.NewConfig()
	db := inmemdb.Open()
	usrRepo := inmemdb.NewUserRepository(db)
	validate, translator := testutil.NewValidator()

	codec, err := session.NewCodec(conf.Session.SecretKey, conf.AppName, conf.Session.TTL)
	if err != nil {
		t.Fatalf("NewCodec() failed: %v", err)
	}
	logger := new(testLogger)

	server := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logger,
		UserSvc:        user.NewService(usrRepo, validate),
		SchoolSvc:      school.NewService(inmemdb.NewSchoolRepository(db)),
		Codec:          codec,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})
	return &testApp{server: server, db: db, usrRepo: usrRepo, codec: codec, logger: logger}
}

func (app *testApp) createUser(t *testing.T, name, email string, role user.Role) user.User {
	return testutil.CreateUser(t, app.usrRepo, name, email, testPassword, role)
}

func (app *testApp) getToken(t *testing.T, usr user.User) string {
	token, err := app.codec.Issue(usr.ID, usr.Role)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func (app *testApp) run(t *testing.T, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

// testLogger records the errors logged by the server.
type testLogger struct {
	mu     sync.Mutex
	errors []logEntry
}

type logEntry struct {
	msg  string
	args []interface{}
}

func (l *testLogger) Debug(string, ...interface{}) {}
func (l *testLogger) Info(string, ...interface{})  {}
func (l *testLogger) Warn(string, ...interface{})  {}

func (l *testLogger) Error(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, logEntry{msg: msg, args: args})
}

func (l *testLogger) Fatal(msg string, args ...interface{}) {
	l.Error(msg, args...)
}

func (l *testLogger) Errors() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logEntry(nil), l.errors...)
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
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
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
	t.Helper()

	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, wantCode)
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
