package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/trezcool/shule/core/user"
	dummydb "github.com/trezcool/shule/storage/dummy"
)

var usrRepo user.Repository

func setup(t *testing.T) *commandLine {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	usrRepo = dummydb.NewUserRepository(db)

	// start CLI
	return &commandLine{
		usrRepo: usrRepo,
	}
}

func createUser(t *testing.T, uname, email, pwd string, role user.Role) user.User {
	t.Helper()

	now := time.Now().UTC()
	usr := user.User{
		FullName:  uname,
		Username:  uname,
		Email:     email,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword() failed, %v", err)
	}
	usr, err := usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed, %v", err)
	}
	return usr
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "username but no email", args: []string{"adduser", "-username", "awe"}, wantErr: errHelp},
		{name: "no password", args: []string{"adduser", "-username", "awe", "-email", "awe@test.cd"}, wantErr: errHelp},
		{name: "invalid role", args: []string{"adduser", "-username", "awe", "-email", "awe@test.cd", "-role", "lol"},
			extra: extra{pwd: "lol"}, wantErrStr: `invalid role "lol"`},
		{name: "create admin", args: []string{"adduser", "-username", "awe", "-email", "awe@test.cd"}, extra: extra{pwd: "lol"}},
		{name: "create teacher", args: []string{"adduser", "-username", "mrsmith", "-email", "smith@test.cd", "-role", "teacher"},
			extra: extra{pwd: "lol"}},
		{name: "update existing user", args: []string{"adduser", "-username", "awe", "-email", "awe@test.cd", "-role", "parent"},
			extra: extra{pwd: "lmao"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				uname := args[3]
				usr, err := usrRepo.GetUserByUsername(context.Background(), uname)
				if err != nil {
					t.Fatalf("GetUserByUsername() failed, %v", err)
				}
				if !usr.IsActive {
					t.Error("user is not active")
				}
				if err = usr.CheckPassword(tt.extra.(extra).pwd); err != nil {
					t.Errorf("CheckPassword() failed, %v", err)
				}
			} else if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			} else if tt.wantErrStr != "" {
				if err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
				}
			} else {
				t.Errorf("cli.run() unexpected error = %v", err)
			}
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	usr := createUser(t, "awe", "awe@test.cd", "mdr", user.RoleStudent)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"resetpassword", "-username", "lol"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-username", "lol"}, extra: extra{pwd: "lol"}, wantErr: user.ErrNotFound},
		{name: "reset with username", args: []string{"resetpassword", "-username", usr.Username}, extra: extra{pwd: "lol"}},
		{name: "reset with email", args: []string{"resetpassword", "-username", usr.Email}, extra: extra{pwd: "lmao"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshedUsr, err := usrRepo.GetUserByID(context.Background(), usr.ID)
				if err != nil {
					t.Fatalf("GetUserByID() failed, %v", err)
				}
				if bytes.Equal(refreshedUsr.PasswordHash, usr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
