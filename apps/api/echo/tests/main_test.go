package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	. "github.com/alfurqan/portal/apps/api/echo"
	"github.com/alfurqan/portal/apps/container"
	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/registration"
	emailsvc "github.com/alfurqan/portal/services/email"
	logsvc "github.com/alfurqan/portal/services/logger"
	"github.com/alfurqan/portal/services/uploads"
)

var pdfContent = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")

func TestMain(m *testing.M) {
	conf := core.NewTestConfig()
	core.ParseEmailTemplates(conf, logsvc.NewTestLogger(conf))
	os.Exit(m.Run())
}

type testApp struct {
	conf    *core.Config
	server  *Server
	svcs    *container.Services
	storage *container.Storage
	mailSvc *emailsvc.ConsoleServiceMock
}

func setup(t *testing.T, configure ...func(conf *core.Config)) *testApp {
	t.Helper()

	conf := core.NewTestConfig()
	conf.Uploads.Dir = t.TempDir()
	for _, fn := range configure {
		fn(conf)
	}
	logger := logsvc.NewTestLogger(conf)

	// set up DB & repos
	st, _ := container.NewMemoryStorage()

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	files, err := uploads.New(conf.Uploads.Dir, conf.Uploads.MaxBytes)
	require.NoError(t, err)
	notifier := registration.NewNotifierMock(mailSvc, logger)
	svcs := container.NewServices(conf, st, files, notifier, logger)
	require.NoError(t, container.Seed(context.Background(), svcs))

	validate, translator := container.NewValidator()

	// set up server
	server := NewServer(ServerDeps{
		Conf:            conf,
		Logger:          logger,
		Validate:        validate,
		Translator:      translator,
		Files:           files,
		AuthSvc:         svcs.Auth,
		UserSvc:         svcs.User,
		RegistrationSvc: svcs.Registration,
		NoticeSvc:       svcs.Notice,
		AcademicSvc:     svcs.Academic,
		PayrollSvc:      svcs.Payroll,
		FeeSvc:          svcs.Fee,
		ShowcaseSvc:     svcs.Showcase,
		SettingSvc:      svcs.Setting,
		DisableReqLogs:  true,
	})
	return &testApp{conf: conf, server: server, svcs: svcs, storage: st, mailSvc: mailSvc}
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	cookie   *http.Cookie
	wantCode int
}

func newRequest(method, path string, cookie *http.Cookie, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req, httptest.NewRecorder()
}

func (app *testApp) do(method, path string, cookie *http.Cookie, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newRequest(method, path, cookie, data...)
	app.server.ServeHTTP(rec, req)
	return rec
}

// login signs in and returns the session cookie.
func (app *testApp) login(t *testing.T, uniqueID, pwd string) *http.Cookie {
	t.Helper()
	rec := app.do(http.MethodPost, "/api/auth/login", nil, marshalObj(t, LoginRequest{UniqueID: uniqueID, Password: pwd}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return sessionCookie(t, app.conf, rec)
}

func sessionCookie(t *testing.T, conf *core.Config, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == conf.Session.CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", conf.Session.CookieName)
	return nil
}

func (app *testApp) adminCookie(t *testing.T) *http.Cookie {
	return app.login(t, "ADM24001", "Administrator")
}

func (app *testApp) managerCookie(t *testing.T) *http.Cookie {
	return app.login(t, "MGT24001", "Manager")
}

func (app *testApp) staffCookie(t *testing.T) *http.Cookie {
	return app.login(t, "STF24001", "Teacher")
}

func (app *testApp) studentCookie(t *testing.T) *http.Cookie {
	return app.login(t, "STU24001", "Student")
}

type multipartFile struct {
	field    string
	filename string
	content  []byte
}

func newMultipartRequest(t *testing.T, path string, cookie *http.Cookie, fields map[string]string, files ...multipartFile) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := w.CreateFormFile(f.field, f.filename)
		require.NoError(t, err)
		_, err = fw.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req, httptest.NewRecorder()
}

func (app *testApp) doMultipart(t *testing.T, path string, cookie *http.Cookie, fields map[string]string, files ...multipartFile) *httptest.ResponseRecorder {
	req, rec := newMultipartRequest(t, path, cookie, fields, files...)
	app.server.ServeHTTP(rec, req)
	return rec
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj(): %v", err)
	}
	return data
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type httpErr struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) httpErr {
	t.Helper()
	var herr httpErr
	decode(t, rec, &herr)
	return herr
}
