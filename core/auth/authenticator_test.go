package auth

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
	dummydb "github.com/trezcool/shule/storage/dummy"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

var _ core.Logger = nopLogger{}

func testConfig() *core.Config {
	return &core.Config{
		TestMode:                  true,
		AppName:                   "Shule",
		SecretKey:                 "secret",
		MaxLoginAttempts:          3,
		LockoutDuration:           15 * time.Minute,
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
	}
}

func createUser(t *testing.T, repo user.Repository, uname, email, pwd string, role user.Role, isActive bool) user.User {
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
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed, %v", err)
	}
	return usr
}

func TestAuthenticator_Authenticate(t *testing.T) {
	ctx := context.Background()
	conf := testConfig()
	db, _ := dummydb.Open()
	usrRepo := dummydb.NewUserRepository(db)
	usrSvc := user.NewService(conf, usrRepo, nil)
	authn := NewAuthenticator(conf, usrSvc, nopLogger{})

	createUser(t, usrRepo, "awe", "awe@test.cd", "LolC@t123", user.RoleStudent, true)
	createUser(t, usrRepo, "inactive", "inactive@test.cd", "LolC@t123", user.RoleStudent, false)

	tests := []struct {
		name    string
		uname   string
		pwd     string
		wantErr error
	}{
		{name: "unknown user", uname: "lol", pwd: "LolC@t123", wantErr: ErrAuthenticationFailed},
		{name: "inactive user", uname: "inactive", pwd: "LolC@t123", wantErr: ErrAuthenticationFailed},
		{name: "wrong password", uname: "awe", pwd: "nope", wantErr: ErrAuthenticationFailed},
		{name: "login with username", uname: "awe", pwd: "LolC@t123"},
		{name: "login with email", uname: "awe@test.cd", pwd: "LolC@t123"},
		{name: "username is case-insensitive", uname: "AWE", pwd: "LolC@t123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := authn.Authenticate(ctx, tt.uname, tt.pwd)
			if err != tt.wantErr {
				t.Fatalf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				if usr.PasswordHash != nil {
					t.Error("Authenticate() leaked the password hash")
				}
				if usr.LastLogin.IsZero() {
					t.Error("Authenticate() did not stamp last login")
				}
			}
		})
	}
}

func TestAuthenticator_lockout(t *testing.T) {
	ctx := context.Background()
	conf := testConfig()
	db, _ := dummydb.Open()
	usrRepo := dummydb.NewUserRepository(db)
	usrSvc := user.NewService(conf, usrRepo, nil)
	authn := NewAuthenticator(conf, usrSvc, nopLogger{})

	createUser(t, usrRepo, "awe", "awe@test.cd", "LolC@t123", user.RoleStudent, true)

	for i := 0; i < conf.MaxLoginAttempts; i++ {
		if _, err := authn.Authenticate(ctx, "awe", "nope"); err != ErrAuthenticationFailed {
			t.Fatalf("Authenticate() error = %v, want %v", err, ErrAuthenticationFailed)
		}
	}

	// locked: even the correct password is denied
	if _, err := authn.Authenticate(ctx, "awe", "LolC@t123"); err != ErrAuthenticationFailed {
		t.Fatalf("Authenticate() on locked account error = %v, want %v", err, ErrAuthenticationFailed)
	}

	// lockout window elapses
	authn.nowFunc = func() time.Time { return time.Now().Add(conf.LockoutDuration + time.Minute) }
	if _, err := authn.Authenticate(ctx, "awe", "LolC@t123"); err != nil {
		t.Fatalf("Authenticate() after lockout elapsed error = %v", err)
	}
	authn.nowFunc = time.Now

	// success reset the counter: a single failure does not lock again
	if _, err := authn.Authenticate(ctx, "awe", "nope"); err != ErrAuthenticationFailed {
		t.Fatalf("Authenticate() error = %v, want %v", err, ErrAuthenticationFailed)
	}
	if _, err := authn.Authenticate(ctx, "awe", "LolC@t123"); err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	h1, err := HashPassword("LolC@t123")
	if err != nil {
		t.Fatalf("HashPassword() failed, %v", err)
	}
	h2, err := HashPassword("LolC@t123")
	if err != nil {
		t.Fatalf("HashPassword() failed, %v", err)
	}
	if h1 == h2 {
		t.Error("HashPassword() is deterministic; want salted digests")
	}
	if !VerifyPassword("LolC@t123", h1) {
		t.Error("VerifyPassword() rejected the matching password")
	}
	if VerifyPassword("nope", h1) {
		t.Error("VerifyPassword() accepted a wrong password")
	}
	if VerifyPassword("LolC@t123", "not-a-digest") {
		t.Error("VerifyPassword() accepted a malformed digest")
	}
}
