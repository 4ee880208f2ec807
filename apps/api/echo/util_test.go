package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/announcement"
	"github.com/trezcool/shule/core/assignment"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/auth"
	"github.com/trezcool/shule/core/grade"
	"github.com/trezcool/shule/core/school"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/teacher"
	"github.com/trezcool/shule/core/user"
	emailsvc "github.com/trezcool/shule/services/email"
	dummydb "github.com/trezcool/shule/storage/dummy"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type testFixture struct {
	conf *core.Config

	usrRepo user.Repository
	stdRepo student.Repository
	tchRepo teacher.Repository
	clsRepo school.Repository
	annRepo announcement.Repository

	usrSvc user.Service
}

func newTestServer(t *testing.T) (Server, *testFixture) {
	t.Helper()

	conf := &core.Config{
		TestMode:                  true,
		AppName:                   "Shule",
		SecretKey:                 "secret",
		SessionTimeout:            10 * time.Minute,
		MaxLoginAttempts:          3,
		LockoutDuration:           15 * time.Minute,
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
		Server: core.ServerConfig{
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	fix := &testFixture{
		conf:    conf,
		usrRepo: dummydb.NewUserRepository(db),
		stdRepo: dummydb.NewStudentRepository(db),
		tchRepo: dummydb.NewTeacherRepository(db),
		clsRepo: dummydb.NewClassRepository(db),
		annRepo: dummydb.NewAnnouncementRepository(db),
	}
	attRepo := dummydb.NewAttendanceRepository(db)
	asgRepo := dummydb.NewAssignmentRepository(db)
	grdRepo := dummydb.NewGradeRepository(db)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	fix.usrSvc = user.NewService(conf, fix.usrRepo, mailSvc)
	logger := nopLogger{}

	srv := NewServer(ServerDeps{
		Conf:            conf,
		Logger:          logger,
		UserSvc:         fix.usrSvc,
		StudentSvc:      student.NewService(fix.stdRepo),
		TeacherSvc:      teacher.NewService(fix.tchRepo),
		ClassSvc:        school.NewService(fix.clsRepo),
		AttendanceSvc:   attendance.NewService(conf, attRepo, fix.stdRepo, fix.usrRepo, mailSvc),
		AssignmentSvc:   assignment.NewService(asgRepo),
		GradeSvc:        grade.NewService(conf, grdRepo, fix.stdRepo, fix.usrRepo, asgRepo, mailSvc),
		AnnouncementSvc: announcement.NewService(conf, fix.annRepo, fix.usrRepo, mailSvc),
		Authenticator:   auth.NewAuthenticator(conf, fix.usrSvc, logger),
		Authorizer:      auth.NewAuthorizer(fix.stdRepo, fix.tchRepo, fix.clsRepo),
	})
	return srv, fix
}

func (fix *testFixture) createUser(t *testing.T, uname, email, pwd string, role user.Role, isActive bool) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		FullName:  uname,
		Username:  uname,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword() failed, %v", err)
	}
	usr, err := fix.usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed, %v", err)
	}
	return usr
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()

	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed, %v", err)
	}
	return token
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

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed, %v", err)
	}
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decodeBody() failed, %v; body: %s", err, rec.Body.String())
	}
}
