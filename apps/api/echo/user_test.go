package echoapi

import (
	"net/http"
	"reflect"
	"testing"

	"github.com/trezcool/shule/core/auth"
	"github.com/trezcool/shule/core/user"
)

func Test_userApi_login(t *testing.T) {
	srv, fix := newTestServer(t)

	admin := fix.createUser(t, "admin", "admin@test.cd", "LolC@t123", user.RoleAdmin, true)
	fix.createUser(t, "sleeper", "sleeper@test.cd", "LolC@t123", user.RoleStudent, false)

	tests := []struct {
		name     string
		body     interface{}
		wantCode int
		wantErr  string
	}{
		{name: "empty body", body: LoginRequest{}, wantCode: http.StatusBadRequest},
		{name: "unknown user", body: LoginRequest{Username: "lol", Password: "LolC@t123"},
			wantCode: http.StatusBadRequest, wantErr: "authentication failed"},
		{name: "wrong password", body: LoginRequest{Username: "admin", Password: "nope"},
			wantCode: http.StatusBadRequest, wantErr: "authentication failed"},
		{name: "inactive user", body: LoginRequest{Username: "sleeper", Password: "LolC@t123"},
			wantCode: http.StatusBadRequest, wantErr: "authentication failed"},
		{name: "login with username", body: LoginRequest{Username: "admin", Password: "LolC@t123"}, wantCode: http.StatusOK},
		{name: "login with email", body: LoginRequest{Username: "admin@test.cd", Password: "LolC@t123"}, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", marshallObj(t, tt.body))
			srv.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("login code = %d, want %d; body: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantErr != "" {
				var body map[string]string
				decodeBody(t, rec, &body)
				if body["error"] != tt.wantErr {
					t.Errorf("login error = %q, want %q", body["error"], tt.wantErr)
				}
			}
			if tt.wantCode == http.StatusOK {
				var body LoginResponse
				decodeBody(t, rec, &body)
				if body.Token == "" {
					t.Error("login returned no token")
				}
				if body.User == nil || body.User.ID != admin.ID {
					t.Errorf("login user = %+v, want id %s", body.User, admin.ID)
				}
				if !reflect.DeepEqual(body.Pages, auth.Pages(user.RoleAdmin)) {
					t.Errorf("login pages = %v, want %v", body.Pages, auth.Pages(user.RoleAdmin))
				}
			}
		})
	}
}

func Test_userApi_query(t *testing.T) {
	srv, fix := newTestServer(t)

	admin := fix.createUser(t, "admin", "admin@test.cd", "LolC@t123", user.RoleAdmin, true)
	std := fix.createUser(t, "jsmith", "jsmith@test.cd", "LolC@t123", user.RoleStudent, true)

	tests := []struct {
		name     string
		token    string
		path     string
		wantCode int
		wantLen  int
	}{
		{name: "no token", path: "/v1/users", wantCode: http.StatusUnauthorized},
		{name: "student is forbidden", token: getToken(t, std), path: "/v1/users", wantCode: http.StatusForbidden},
		{name: "admin lists all", token: getToken(t, admin), path: "/v1/users", wantCode: http.StatusOK, wantLen: 2},
		{name: "admin filters by role", token: getToken(t, admin), path: "/v1/users?role=student", wantCode: http.StatusOK, wantLen: 1},
		{name: "admin searches", token: getToken(t, admin), path: "/v1/users?search=jsmith", wantCode: http.StatusOK, wantLen: 1},
		{name: "no match", token: getToken(t, admin), path: "/v1/users?search=nope", wantCode: http.StatusOK, wantLen: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			srv.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("query code = %d, want %d; body: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantCode == http.StatusOK {
				var users []user.User
				decodeBody(t, rec, &users)
				if len(users) != tt.wantLen {
					t.Errorf("query returned %d users, want %d", len(users), tt.wantLen)
				}
			}
		})
	}
}

func Test_userApi_retrieve(t *testing.T) {
	srv, fix := newTestServer(t)

	admin := fix.createUser(t, "admin", "admin@test.cd", "LolC@t123", user.RoleAdmin, true)
	std := fix.createUser(t, "jsmith", "jsmith@test.cd", "LolC@t123", user.RoleStudent, true)
	other := fix.createUser(t, "other", "other@test.cd", "LolC@t123", user.RoleStudent, true)

	tests := []struct {
		name     string
		token    string
		path     string
		wantCode int
	}{
		{name: "own record", token: getToken(t, std), path: "/v1/users/" + std.ID, wantCode: http.StatusOK},
		{name: "someone else's record", token: getToken(t, std), path: "/v1/users/" + other.ID, wantCode: http.StatusNotFound},
		{name: "admin reads anyone", token: getToken(t, admin), path: "/v1/users/" + other.ID, wantCode: http.StatusOK},
		{name: "admin on unknown id", token: getToken(t, admin), path: "/v1/users/nope", wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			srv.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("retrieve code = %d, want %d; body: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func Test_userApi_changePassword(t *testing.T) {
	srv, fix := newTestServer(t)

	std := fix.createUser(t, "jsmith", "jsmith@test.cd", "LolC@t123", user.RoleStudent, true)
	token := getToken(t, std)

	body := marshallObj(t, PasswordChangeRequest{OldPassword: "nope", NewPassword: "NewC@t456"})
	req, rec := newAuthRequest(http.MethodPost, "/v1/users/password-change", token, body)
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("password-change with wrong old password code = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	body = marshallObj(t, PasswordChangeRequest{OldPassword: "LolC@t123", NewPassword: "NewC@t456"})
	req, rec = newAuthRequest(http.MethodPost, "/v1/users/password-change", token, body)
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("password-change code = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	// the new password logs in
	body = marshallObj(t, LoginRequest{Username: "jsmith", Password: "NewC@t456"})
	req, rec = newRequest(http.MethodPost, "/v1/users/login", body)
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login with new password code = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func Test_userApi_destroy(t *testing.T) {
	srv, fix := newTestServer(t)

	admin := fix.createUser(t, "admin", "admin@test.cd", "LolC@t123", user.RoleAdmin, true)
	std := fix.createUser(t, "jsmith", "jsmith@test.cd", "LolC@t123", user.RoleStudent, true)
	token := getToken(t, admin)

	// self-deletion is blocked
	req, rec := newAuthRequest(http.MethodDelete, "/v1/users/"+admin.ID, token)
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("self destroy code = %d, want %d", rec.Code, http.StatusForbidden)
	}

	req, rec = newAuthRequest(http.MethodDelete, "/v1/users/"+std.ID, token)
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("destroy code = %d, want %d; body: %s", rec.Code, http.StatusNoContent, rec.Body.String())
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/users/"+std.ID, token)
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("retrieve after destroy code = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
