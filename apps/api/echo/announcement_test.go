package echoapi

import (
	"net/http"
	"testing"

	"github.com/trezcool/shule/core/announcement"
	"github.com/trezcool/shule/core/user"
)

func Test_announcementApi(t *testing.T) {
	srv, fix := newTestServer(t)

	admin := fix.createUser(t, "admin", "admin@test.cd", "LolC@t123", user.RoleAdmin, true)
	tch := fix.createUser(t, "mrsmith", "smith@test.cd", "LolC@t123", user.RoleTeacher, true)
	std := fix.createUser(t, "jsmith", "jsmith@test.cd", "LolC@t123", user.RoleStudent, true)
	adminToken := getToken(t, admin)

	// students cannot publish
	body := marshallObj(t, announcement.NewAnnouncement{Title: "psst", Content: "free pizza", Audience: announcement.AudienceAll})
	req, rec := newAuthRequest(http.MethodPost, "/v1/announcements", getToken(t, std), body)
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("create code = %d, want %d", rec.Code, http.StatusForbidden)
	}

	var deactivated announcement.Announcement
	for _, na := range []announcement.NewAnnouncement{
		{Title: "Welcome Back", Content: "School reopens Monday.", Audience: announcement.AudienceAll},
		{Title: "Staff Meeting", Content: "Friday at 15:00.", Audience: "teacher", Priority: "high"},
		{Title: "Exam Schedule", Content: "Posted on the board.", Audience: "student"},
	} {
		req, rec = newAuthRequest(http.MethodPost, "/v1/announcements", adminToken, marshallObj(t, na))
		srv.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create code = %d, want %d; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var ann announcement.Announcement
		decodeBody(t, rec, &ann)
		if ann.CreatedBy != admin.ID {
			t.Errorf("create set created_by = %s, want %s", ann.CreatedBy, admin.ID)
		}
		deactivated = ann
	}

	// the student feed drops the inactive one once deactivated
	req, rec = newAuthRequest(http.MethodPost, "/v1/announcements/"+deactivated.ID+"/deactivate", adminToken)
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate code = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	tests := []struct {
		name    string
		token   string
		path    string
		wantLen int
	}{
		{name: "teacher feed", token: getToken(t, tch), path: "/v1/announcements", wantLen: 2},
		{name: "student feed", token: getToken(t, std), path: "/v1/announcements", wantLen: 1},
		{name: "admin feed", token: adminToken, path: "/v1/announcements", wantLen: 1},
		{name: "admin history keeps inactive", token: adminToken, path: "/v1/announcements/all", wantLen: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			srv.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("query code = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
			}
			var anns []announcement.Announcement
			decodeBody(t, rec, &anns)
			if len(anns) != tt.wantLen {
				t.Errorf("query returned %d announcements, want %d", len(anns), tt.wantLen)
			}
		})
	}
}
