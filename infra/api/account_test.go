package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/CrestNiraj12/skillfeed/app"
	"github.com/CrestNiraj12/skillfeed/domain"
)

func TestAccountService_Endpoints_RequestShapeAndMapping(t *testing.T) {
	profile := map[string]any{
		"id": "42", "name": "User 42", "email": "u@x", "bio": "about",
		"skills": []string{"go"}, "followedUsers": []string{"u1"}, "followingUsers": []string{},
	}
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/user/profile/42":
			_ = json.NewEncoder(w).Encode(profile)
		case r.Method == http.MethodPut && r.URL.Path == "/api/user/profile/42":
			raw, _ := io.ReadAll(r.Body)
			var body map[string]any
			_ = json.Unmarshal(raw, &body)
			if body["name"] != "New Name" || body["bio"] != "New Bio" {
				t.Fatalf("unexpected profile update: %s", raw)
			}
			_ = json.NewEncoder(w).Encode(profile)
		case r.Method == http.MethodPost && r.URL.Path == "/api/user/42/follow":
			if r.URL.Query().Get("followerId") != "u1" {
				t.Fatalf("missing followerId")
			}
		case r.Method == http.MethodPost && r.URL.Path == "/api/user/42/unfollow":
			if r.URL.Query().Get("followerId") != "u1" {
				t.Fatalf("missing followerId")
			}
		case r.Method == http.MethodGet && r.URL.Path == "/api/user/batch":
			if r.URL.Query().Get("ids") != "a,b" {
				t.Fatalf("expected unique ids, got %q", r.URL.Query().Get("ids"))
			}
			_ = json.NewEncoder(w).Encode([]map[string]any{{"id": "a", "name": "A"}, {"id": "b", "name": "B"}})
		case r.Method == http.MethodGet && r.URL.Path == "/api/user/42/post/count":
			_, _ = w.Write([]byte(`{"totalPosts":5}`))
		default:
			t.Fatalf("unexpected req: %s %s?%s", r.Method, r.URL.Path, r.URL.RawQuery)
		}
	})
	svc := NewAccountService(newTestClient(h))
	ctx := context.Background()

	p, err := svc.Profile(ctx, "42")
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if p.Name != "User 42" || !p.IsFollowedBy("u1") || len(p.Skills) != 1 {
		t.Fatalf("unexpected profile: %#v", p)
	}
	if _, err := svc.UpdateProfile(ctx, "42", app.ProfileUpdate{Name: " New Name ", Bio: "New Bio"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if err := svc.Follow(ctx, "42", "u1"); err != nil {
		t.Fatalf("follow failed: %v", err)
	}
	if err := svc.Unfollow(ctx, "42", "u1"); err != nil {
		t.Fatalf("unfollow failed: %v", err)
	}
	users, err := svc.UsersByIDs(ctx, []string{"a", "b", "a", ""})
	if err != nil || len(users) != 2 {
		t.Fatalf("batch failed: users=%v err=%v", users, err)
	}
	n, err := svc.TotalPostCount(ctx, "42")
	if err != nil || n != 5 {
		t.Fatalf("count failed: n=%d err=%v", n, err)
	}
}

func TestAccountService_GuardsWithoutCallingServer(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected req: %s %s", r.Method, r.URL.Path)
	})
	svc := NewAccountService(newTestClient(h))
	ctx := context.Background()

	if err := svc.Follow(ctx, "42", ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated follow, got %v", err)
	}
	if _, err := svc.UpdateProfile(ctx, "42", app.ProfileUpdate{Name: "  "}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if users, err := svc.UsersByIDs(ctx, nil); err != nil || users != nil {
		t.Fatalf("empty batch must short-circuit, got %v %v", users, err)
	}
}
