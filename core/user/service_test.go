package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
	emailsvc "github.com/trezcool/shule/services/email"
	dummydb "github.com/trezcool/shule/storage/dummy"
)

func newTestService() user.Service {
	conf := &core.Config{
		TestMode:                  true,
		AppName:                   "Shule",
		SecretKey:                 "secret",
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
	}
	db, _ := dummydb.Open()
	return user.NewService(conf, dummydb.NewUserRepository(db), emailsvc.NewConsoleServiceMock(conf))
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	emailsvc.SentMessages = nil

	usr, err := svc.Create(ctx, user.NewUser{
		FullName: "John Smith",
		Username: "jsmith",
		Email:    "jsmith@test.cd",
		Role:     user.RoleStudent,
		Password: "LolC@t123",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if usr.ID == "" {
		t.Error("Create() did not assign an id")
	}
	if !usr.IsActive {
		t.Error("Create() user is not active")
	}
	if err = usr.CheckPassword("LolC@t123"); err != nil {
		t.Errorf("CheckPassword() error = %v", err)
	}
	if len(emailsvc.SentMessages) != 1 {
		t.Errorf("Create() sent %d mails, want 1 welcome mail", len(emailsvc.SentMessages))
	}
}

func TestService_CheckUniqueness(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if _, err := svc.Create(ctx, user.NewUser{
		FullName: "John Smith",
		Username: "jsmith",
		Email:    "jsmith@test.cd",
		Role:     user.RoleStudent,
		Password: "LolC@t123",
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tests := []struct {
		name      string
		uname     string
		email     string
		wantField string
	}{
		{name: "duplicate username", uname: "jsmith", email: "other@test.cd", wantField: "username"},
		{name: "duplicate email", uname: "other", email: "jsmith@test.cd", wantField: "email"},
		{name: "all clear", uname: "other", email: "other@test.cd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.CheckUniqueness(ctx, tt.uname, tt.email)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("CheckUniqueness() error = %v", err)
				}
				return
			}
			var confErr *core.ConflictError
			if !errors.As(err, &confErr) {
				t.Fatalf("CheckUniqueness() error = %v, want *core.ConflictError", err)
			}
			if confErr.Field != tt.wantField {
				t.Errorf("CheckUniqueness() field = %s, want %s", confErr.Field, tt.wantField)
			}
		})
	}
}

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if _, err := svc.Create(ctx, user.NewUser{
		FullName: "John Smith",
		Username: "jsmith",
		Email:    "jsmith@test.cd",
		Role:     user.RoleStudent,
		Password: "LolC@t123",
	}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var valErr *core.ValidationError
	if err := svc.ChangePassword(ctx, "jsmith", "nope", "NewC@t456"); !errors.As(err, &valErr) {
		t.Fatalf("ChangePassword() with wrong old password error = %v, want *core.ValidationError", err)
	}

	if err := svc.ChangePassword(ctx, "jsmith", "LolC@t123", "NewC@t456"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	usr, err := svc.GetByUsername(ctx, "jsmith")
	if err != nil {
		t.Fatalf("GetByUsername() error = %v", err)
	}
	if err = usr.CheckPassword("NewC@t456"); err != nil {
		t.Errorf("CheckPassword() with new password error = %v", err)
	}
	if err = usr.CheckPassword("LolC@t123"); err == nil {
		t.Error("CheckPassword() with old password succeeded")
	}
}

func TestService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	emailsvc.SentMessages = nil

	usr, err := svc.Create(ctx, user.NewUser{
		FullName: "John Smith",
		Username: "jsmith",
		Email:    "jsmith@test.cd",
		Role:     user.RoleStudent,
		Password: "LolC@t123",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err = svc.RequestPasswordReset(ctx, "jsmith@test.cd"); err != nil {
		t.Fatalf("RequestPasswordReset() error = %v", err)
	}
	if len(emailsvc.SentMessages) != 2 { // welcome + reset
		t.Fatalf("RequestPasswordReset() mail count = %d, want 2", len(emailsvc.SentMessages))
	}

	if err = svc.ResetPassword(ctx, user.ResetUserPassword{
		UID:      user.EncodeUID(usr),
		Token:    "lolol",
		Password: "NewC@t456",
	}); err == nil {
		t.Error("ResetPassword() with a bogus token succeeded")
	}
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	usr, err := svc.Create(ctx, user.NewUser{
		FullName: "John Smith",
		Username: "jsmith",
		Email:    "jsmith@test.cd",
		Role:     user.RoleStudent,
		Password: "LolC@t123",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	isActive := false
	updated, err := svc.Update(ctx, usr.ID, user.UpdateUser{
		FullName: "John A. Smith",
		Username: usr.Username,
		Email:    usr.Email,
		Role:     usr.Role,
		IsActive: &isActive,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.FullName != "John A. Smith" {
		t.Errorf("Update() full name = %s, want John A. Smith", updated.FullName)
	}
	if updated.IsActive {
		t.Error("Update() did not deactivate the user")
	}

	if _, err = svc.Update(ctx, "nope", user.UpdateUser{FullName: "X"}); errors.Cause(err) != user.ErrNotFound {
		t.Errorf("Update() on unknown id error = %v, want %v", err, user.ErrNotFound)
	}
}

func TestNewUser_passwordPolicy(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	tests := []struct {
		name    string
		pwd     string
		wantTag string
	}{
		{name: "too short", pwd: "Lol@1", wantTag: "pwdminlen"},
		{name: "whitespace", pwd: "LolC@t 123", wantTag: "pwdnospace"},
		{name: "all numeric", pwd: "126345078846", wantTag: "pwdnotallnum"},
		{name: "missing complexity", pwd: "lolcat123", wantTag: "pwdcplx"},
		{name: "too common", pwd: "P@ssw0rd", wantTag: "pwdnocommon"},
		{name: "acceptable", pwd: "G00d&Plenty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := user.NewUser{
				FullName:        "John Smith",
				Username:        "jsmith",
				Email:           "jsmith@test.cd",
				Role:            user.RoleStudent,
				Password:        tt.pwd,
				PasswordConfirm: tt.pwd,
			}
			err := nu.Validate(ctx, svc)
			if tt.wantTag == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}

			var vErrs validator.ValidationErrors
			if !errors.As(err, &vErrs) {
				t.Fatalf("Validate() error = %v, want validator.ValidationErrors", err)
			}
			if len(vErrs) != 1 {
				t.Fatalf("Validate() returned %d field errors, want 1: %v", len(vErrs), vErrs)
			}
			if vErrs[0].Tag() != tt.wantTag {
				t.Errorf("Validate() tag = %s, want %s", vErrs[0].Tag(), tt.wantTag)
			}
		})
	}
}
