package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	. "github.com/trezcool/darasa/api/echo"
	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/chat"
	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/notification"
	"github.com/trezcool/darasa/core/social"
	"github.com/trezcool/darasa/core/user"
	emailsvc "github.com/trezcool/darasa/services/email"
	dummydb "github.com/trezcool/darasa/storage/database/dummy"
	testutil "github.com/trezcool/darasa/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	conf   *core.Config
	db     *dummydb.DB
	app    Server
	logger *testutil.Logger

	usrRepo    user.Repository
	courseRepo course.Repository
	notifRepo  notification.Repository

	usrSvc  *user.Service
	chatSvc *chat.Service
	hub     *chat.Hub
}

// setup wires a fresh in-memory application; each test gets its own state.
func setup(t *testing.T) *testApp {
	t.Helper()

	conf := testutil.NewConfig()
	conf.Debug = false // keep production-shaped error responses
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open(): %v", err)
	}
	logger := testutil.NewLogger()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	usrRepo := dummydb.NewUserRepository(db)
	courseRepo := dummydb.NewCourseRepository(db)
	notifRepo := dummydb.NewNotificationRepository(db)

	usrSvc := user.NewService(db, usrRepo, mailSvc, conf)
	notifEngine := notification.NewEngine(db, notifRepo, courseRepo, logger)
	courseSvc := course.NewService(db, courseRepo, notifEngine)
	notifSvc := notification.NewService(db, notifRepo)
	chatSvc := chat.NewService(db, dummydb.NewChatRepository(db))
	socialSvc := social.NewService(db, dummydb.NewSocialRepository(db))
	hub := chat.NewHub()

	app := NewServer(Deps{
		Conf:           conf,
		Logger:         logger,
		DisableReqLogs: true,
		UserSvc:        usrSvc,
		CourseSvc:      courseSvc,
		NotifSvc:       notifSvc,
		ChatSvc:        chatSvc,
		SocialSvc:      socialSvc,
		Hub:            hub,
	})

	return &testApp{
		conf:       conf,
		db:         db,
		app:        app,
		logger:     logger,
		usrRepo:    usrRepo,
		courseRepo: courseRepo,
		notifRepo:  notifRepo,
		usrSvc:     usrSvc,
		chatSvc:    chatSvc,
		hub:        hub,
	}
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
	extra    interface{}
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

func getToken(t *testing.T, ta *testApp, usr user.User) string {
	claims := GetUserClaims(ta.conf, usr)
	token, err := GenerateToken(ta.conf, claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
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
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return false, nil
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
