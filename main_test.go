package main

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/CrestNiraj12/skillfeed/app"
	"github.com/CrestNiraj12/skillfeed/domain"
	"github.com/CrestNiraj12/skillfeed/infra/api"
	"github.com/CrestNiraj12/skillfeed/infra/auth"
	"github.com/CrestNiraj12/skillfeed/infra/config"
	"github.com/CrestNiraj12/skillfeed/infra/logging"
	"github.com/CrestNiraj12/skillfeed/infra/mockapi"
)

func TestParseCLIArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    cliOptions
		wantErr string
	}{
		{name: "run default", args: nil, want: cliOptions{}},
		{name: "version long", args: []string{"--version"}, want: cliOptions{version: true}},
		{name: "version short", args: []string{"-v"}, want: cliOptions{version: true}},
		{name: "help long", args: []string{"--help"}, want: cliOptions{help: true}},
		{name: "help short", args: []string{"-h"}, want: cliOptions{help: true}},
		{
			name: "flags and command",
			args: []string{"--demo", "--kind", "progress", "--base-url", "http://x/api", "list"},
			want: cliOptions{demo: true, kind: "progress", baseURL: "http://x/api", args: []string{"list"}},
		},
		{
			name: "comment text after command keeps dashes",
			args: []string{"comment", "p1", "--", "-not", "a", "flag"},
			want: cliOptions{args: []string{"comment", "p1", "--", "-not", "a", "flag"}},
		},
		{
			name: "config and log file",
			args: []string{"--config", "/etc/sf.yaml", "--log-file", "/tmp/sf.log"},
			want: cliOptions{configPath: "/etc/sf.yaml", logFile: "/tmp/sf.log"},
		},
		{name: "unknown flag", args: []string{"--bogus"}, wantErr: "unknown flag: --bogus"},
		{name: "bad kind", args: []string{"--kind", "video"}, wantErr: `invalid --kind "video"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseCLIArgs(tc.args)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.configPath != tc.want.configPath || got.baseURL != tc.want.baseURL ||
				got.kind != tc.want.kind || got.logFile != tc.want.logFile ||
				got.demo != tc.want.demo || got.version != tc.want.version || got.help != tc.want.help {
				t.Fatalf("options mismatch: got %+v want %+v", got, tc.want)
			}
			if strings.Join(got.args, " ") != strings.Join(tc.want.args, " ") {
				t.Fatalf("args mismatch: got %q want %q", got.args, tc.want.args)
			}
		})
	}
}

func TestResolveVersionInfo(t *testing.T) {
	v, c, d := resolveVersionInfo("dev", "none", "unknown", "v1.2.0", map[string]string{
		"vcs.revision": "0123456789abcdef",
		"vcs.time":     "2026-03-01T12:00:00Z",
	})
	if v != "v1.2.0" || c != "0123456789ab" || d != "2026-03-01T12:00:00Z" {
		t.Fatalf("unexpected version info: %s %s %s", v, c, d)
	}

	v, c, d = resolveVersionInfo("v2.0.0", "abc", "today", "(devel)", nil)
	if v != "v2.0.0" || c != "abc" || d != "today" {
		t.Fatalf("ldflags values must win: %s %s %s", v, c, d)
	}
}

type testEnv struct {
	*cliEnv
	backend *mockapi.Server
	out     *bytes.Buffer
	errOut  *bytes.Buffer
}

// newTestEnv points a cliEnv at a seeded in-memory backend. The session
// store lives in a temp dir and is the token provider, as in a real run.
func newTestEnv(t *testing.T, user domain.User, confirm bool) testEnv {
	t.Helper()
	srv := mockapi.New()
	if err := srv.Seed(mockapi.DefaultSeed()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	store := auth.NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	if user.Authenticated() {
		if err := store.Save(auth.Session{UserID: user.ID, UserName: user.Name, Token: "tok"}); err != nil {
			t.Fatalf("save session: %v", err)
		}
	}
	client := api.NewClient(ts.URL+"/api", store)

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	env := &cliEnv{
		cfg:     config.Config{Kind: domain.KindPost},
		log:     logging.Discard(),
		user:    user,
		session: store,
		content: map[domain.Kind]app.ContentService{},
		account: api.NewAccountService(client),
		confirm: app.ConfirmFunc(func(context.Context, app.Prompt) (bool, error) { return confirm, nil }),
		now:     func() time.Time { return time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC) },
		out:     out,
		errOut:  errOut,
	}
	for _, k := range domain.Kinds {
		env.content[k] = api.NewContentService(client, k)
	}
	return testEnv{cliEnv: env, backend: srv, out: out, errOut: errOut}
}

func TestDispatch_UnknownAndMissingArgs(t *testing.T) {
	env := newTestEnv(t, demoUser, true)
	if err := env.dispatch(context.Background(), []string{"dance"}); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
	if err := env.dispatch(context.Background(), []string{"comment", "p1"}); err == nil || !strings.Contains(err.Error(), "usage: skillfeed comment") {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestList_PrintsNewestFirst(t *testing.T) {
	env := newTestEnv(t, demoUser, true)
	if err := env.dispatch(context.Background(), []string{"list"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	out := env.out.String()
	p3, p1 := strings.Index(out, "p3"), strings.Index(out, "p1")
	if p3 < 0 || p1 < 0 || p3 > p1 {
		t.Fatalf("expected p3 before p1:\n%s", out)
	}
	if !strings.Contains(out, "Grace Hopper") || !strings.Contains(out, "1♥") {
		t.Fatalf("expected author and liked marker:\n%s", out)
	}
	if !strings.Contains(out, "3 posts") {
		t.Fatalf("expected total line:\n%s", out)
	}
}

func TestLike_TogglesOnBackend(t *testing.T) {
	env := newTestEnv(t, demoUser, true)
	ctx := context.Background()

	if err := env.dispatch(ctx, []string{"like", "p2"}); err != nil {
		t.Fatalf("like: %v", err)
	}
	if !strings.HasPrefix(env.out.String(), "Liked") {
		t.Fatalf("unexpected output %q", env.out.String())
	}
	env.out.Reset()
	if err := env.dispatch(ctx, []string{"like", "p2"}); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if !strings.HasPrefix(env.out.String(), "Unliked") {
		t.Fatalf("unexpected output %q", env.out.String())
	}
}

func TestLike_FailureIsReturned(t *testing.T) {
	env := newTestEnv(t, demoUser, true)
	env.backend.FailNext("POST", "/posts/p2/likes", 500)
	err := env.dispatch(context.Background(), []string{"like", "p2"})
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestLike_RequiresLogin(t *testing.T) {
	env := newTestEnv(t, domain.User{}, true)
	err := env.dispatch(context.Background(), []string{"like", "p2"})
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestComment_JoinsWords(t *testing.T) {
	env := newTestEnv(t, demoUser, true)
	if err := env.dispatch(context.Background(), []string{"comment", "p2", "nice", "notes"}); err != nil {
		t.Fatalf("comment: %v", err)
	}
	it, err := env.content[domain.KindPost].Get(context.Background(), "p2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(it.Comments) != 1 || it.Comments[0].Content != "nice notes" {
		t.Fatalf("unexpected comments: %#v", it.Comments)
	}
}

func TestComment_BlankRejected(t *testing.T) {
	env := newTestEnv(t, demoUser, true)
	err := env.dispatch(context.Background(), []string{"comment", "p2", "   "})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDelete_OwnItemConfirmed(t *testing.T) {
	env := newTestEnv(t, demoUser, true)
	if err := env.dispatch(context.Background(), []string{"delete", "p2"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(env.errOut.String(), "Post deleted successfully") {
		t.Fatalf("expected success notice, got %q", env.errOut.String())
	}
	if _, err := env.content[domain.KindPost].Get(context.Background(), "p2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected p2 gone, got %v", err)
	}
}

func TestDelete_DeclinedKeepsItem(t *testing.T) {
	env := newTestEnv(t, demoUser, false)
	if err := env.dispatch(context.Background(), []string{"delete", "p2"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(env.out.String(), "Cancelled") {
		t.Fatalf("expected cancel message, got %q", env.out.String())
	}
	if _, err := env.content[domain.KindPost].Get(context.Background(), "p2"); err != nil {
		t.Fatalf("p2 must survive: %v", err)
	}
}

func TestDelete_OthersItemForbidden(t *testing.T) {
	env := newTestEnv(t, demoUser, true)
	err := env.dispatch(context.Background(), []string{"delete", "p3"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestPost_CreatesAndPrintsID(t *testing.T) {
	env := newTestEnv(t, demoUser, true)
	if err := env.dispatch(context.Background(), []string{"post", "hello", "world"}); err != nil {
		t.Fatalf("post: %v", err)
	}
	id := strings.TrimSpace(env.out.String())
	it, err := env.content[domain.KindPost].Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get %q: %v", id, err)
	}
	if it.Post.Description != "hello world" || it.AuthorID != demoUser.ID {
		t.Fatalf("unexpected post: %#v", it)
	}

	// post always shares a post, and flags end at the text.
	env.cfg.Kind = domain.KindPlan
	env.out.Reset()
	if err := env.dispatch(context.Background(), []string{"post", "--media", "https://example.test/a.png", "see", "--attached"}); err != nil {
		t.Fatalf("post with media: %v", err)
	}
	id = strings.TrimSpace(env.out.String())
	it, err = env.content[domain.KindPost].Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get %q: %v", id, err)
	}
	if it.Post.Description != "see --attached" || len(it.Post.MediaURLs) != 1 || it.Post.MediaTypes[0] != "image" {
		t.Fatalf("unexpected post: %#v", it.Post)
	}
}

func TestProgress_CreatesFromTemplate(t *testing.T) {
	env := newTestEnv(t, demoUser, true)
	ctx := context.Background()
	err := env.dispatch(ctx, []string{"progress", "--template", "tutorial", "--title", "Go tour",
		"--tutorial", "A Tour of Go", "--status", "completed"})
	if err != nil {
		t.Fatalf("progress: %v", err)
	}
	id := strings.TrimSpace(env.out.String())
	it, err := env.content[domain.KindProgress].Get(ctx, id)
	if err != nil {
		t.Fatalf("get %q: %v", id, err)
	}
	p := it.Progress
	if p.TemplateType != "tutorial" || p.TutorialName != "A Tour of Go" || p.Status != domain.StatusCompleted {
		t.Fatalf("unexpected progress: %#v", p)
	}
}

func TestProgress_Validation(t *testing.T) {
	env := newTestEnv(t, demoUser, true)
	ctx := context.Background()

	// The general template also needs a description.
	if err := env.dispatch(ctx, []string{"progress", "--title", "x"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected missing description, got %v", err)
	}
	err := env.dispatch(ctx, []string{"progress", "--template", "tutorial", "--title", "x", "--tutorial", "y", "--project", "z"})
	if !errors.Is(err, domain.ErrValidation) || !strings.Contains(err.Error(), "--project does not apply") {
		t.Fatalf("expected field outside template rejected, got %v", err)
	}
	if err := env.dispatch(ctx, []string{"progress", "--template", "essay", "--title", "x"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected unknown template rejected, got %v", err)
	}
	if err := env.dispatch(ctx, []string{"progress", "--color", "red"}); err == nil || !strings.Contains(err.Error(), "unknown flag") {
		t.Fatalf("expected flag error, got %v", err)
	}
}

func TestPlan_Creates(t *testing.T) {
	env := newTestEnv(t, demoUser, true)
	ctx := context.Background()
	err := env.dispatch(ctx, []string{"plan", "--title", "Rust", "--description", "ownership first", "--topics", "borrowing"})
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	it, err := env.content[domain.KindPlan].Get(ctx, strings.TrimSpace(env.out.String()))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if it.Plan.Title != "Rust" || it.Plan.Topics != "borrowing" || it.AuthorID != demoUser.ID {
		t.Fatalf("unexpected plan: %#v", it)
	}
	if err := env.dispatch(ctx, []string{"plan", "--title", "no description"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEdit_ChangesOnlyGivenFields(t *testing.T) {
	env := newTestEnv(t, demoUser, true)
	env.cfg.Kind = domain.KindPlan
	ctx := context.Background()

	if err := env.dispatch(ctx, []string{"edit", "l1", "--topics", "generics"}); err != nil {
		t.Fatalf("edit: %v", err)
	}
	it, err := env.content[domain.KindPlan].Get(ctx, "l1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if it.Plan.Topics != "generics" || it.Plan.Title != "Go in 30 days" || it.Plan.Resources != "go.dev/tour, Effective Go" {
		t.Fatalf("unexpected plan after edit: %#v", it.Plan)
	}
	if !strings.Contains(env.out.String(), `Updated "Go in 30 days"`) {
		t.Fatalf("unexpected output %q", env.out.String())
	}

	if err := env.dispatch(ctx, []string{"edit", "l1", "--tutorial", "x"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected field outside plan rejected, got %v", err)
	}
	if err := env.dispatch(ctx, []string{"edit", "nope", "--title", "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestEdit_OthersItemForbidden(t *testing.T) {
	env := newTestEnv(t, demoUser, true)
	env.cfg.Kind = domain.KindProgress
	ctx := context.Background()

	// g1 belongs to Grace.
	if err := env.dispatch(ctx, []string{"edit", "g1", "--title", "mine"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if err := env.dispatch(ctx, []string{"edit", "g2", "--status", "completed"}); err != nil {
		t.Fatalf("edit own progress: %v", err)
	}
	it, _ := env.content[domain.KindProgress].Get(ctx, "g2")
	if it.Progress.Status != domain.StatusCompleted || it.Progress.ProjectName != "skillfeed" {
		t.Fatalf("unexpected progress after edit: %#v", it.Progress)
	}
}

func TestProfileEdit_KeepsUnsetFields(t *testing.T) {
	env := newTestEnv(t, demoUser, true)
	ctx := context.Background()

	if err := env.dispatch(ctx, []string{"profile", "edit", "--bio", "Poet of numbers", "--skill", "go,rust", "--skill", "math"}); err != nil {
		t.Fatalf("profile edit: %v", err)
	}
	p, err := env.account.Profile(ctx, demoUser.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.Name != "Ada Lovelace" || p.Bio != "Poet of numbers" || strings.Join(p.Skills, ",") != "go,rust,math" {
		t.Fatalf("unexpected profile: %#v", p)
	}
	if err := env.dispatch(ctx, []string{"profile", "edit"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected nothing-to-change error, got %v", err)
	}

	anon := newTestEnv(t, domain.User{}, true)
	if err := anon.dispatch(ctx, []string{"profile", "edit", "--name", "x"}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected login required, got %v", err)
	}
}

func TestProfile_ShowsCountsAndFollowers(t *testing.T) {
	env := newTestEnv(t, demoUser, true)
	if err := env.dispatch(context.Background(), []string{"profile"}); err != nil {
		t.Fatalf("profile: %v", err)
	}
	out := env.out.String()
	for _, want := range []string{"Ada Lovelace (u1)", "skills: math, go", "1 follower", "followed by: Grace Hopper"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestFollow_RoundTrip(t *testing.T) {
	env := newTestEnv(t, demoUser, true)
	ctx := context.Background()
	if err := env.dispatch(ctx, []string{"follow", "u2"}); err != nil {
		t.Fatalf("follow: %v", err)
	}
	p, _ := env.account.Profile(ctx, "u2")
	if !p.IsFollowedBy(demoUser.ID) {
		t.Fatalf("expected u1 to follow u2: %#v", p)
	}
	if err := env.dispatch(ctx, []string{"unfollow", "u2"}); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	p, _ = env.account.Profile(ctx, "u2")
	if p.IsFollowedBy(demoUser.ID) {
		t.Fatalf("expected unfollow: %#v", p)
	}
	if err := env.dispatch(ctx, []string{"follow", demoUser.ID}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected self-follow rejected, got %v", err)
	}
}

func TestLoginLogout(t *testing.T) {
	env := newTestEnv(t, domain.User{}, true)
	ctx := context.Background()

	if err := env.dispatch(ctx, []string{"login", "u2", "secret"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	sess, err := env.session.Load()
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if sess.UserID != "u2" || sess.UserName != "Grace Hopper" || sess.Token != "secret" {
		t.Fatalf("unexpected session: %#v", sess)
	}

	if err := env.dispatch(ctx, []string{"logout"}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if sess, _ := env.session.Load(); sess.UserID != "" {
		t.Fatalf("expected empty session, got %#v", sess)
	}
}

func TestLogin_UnknownUserClearsSession(t *testing.T) {
	env := newTestEnv(t, domain.User{}, true)
	err := env.dispatch(context.Background(), []string{"login", "nobody", "secret"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if sess, _ := env.session.Load(); sess.Token != "" {
		t.Fatalf("failed login must not leave a token behind")
	}
}

func TestSessionCommandsUnavailableInDemo(t *testing.T) {
	env := newTestEnv(t, demoUser, true)
	env.session = nil
	if err := env.dispatch(context.Background(), []string{"logout"}); !errors.Is(err, errNoSession) {
		t.Fatalf("expected errNoSession, got %v", err)
	}
}

func TestLoadConfig_FlagsOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	for _, k := range []string{config.EnvConfig, config.EnvBaseURL, config.EnvKind, config.EnvLog, config.EnvTimeout, config.EnvLevel, config.EnvToken, config.EnvSession} {
		t.Setenv(k, "")
	}

	cfg, err := loadConfig(cliOptions{baseURL: "https://api.example.test/api/", kind: "plans", logFile: "/tmp/sf.log"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.BaseURL != "https://api.example.test/api" || cfg.Kind != domain.KindPlan || cfg.LogPath != "/tmp/sf.log" {
		t.Fatalf("flags not applied: %#v", cfg)
	}

	if _, err := loadConfig(cliOptions{baseURL: "ftp://nope"}); err == nil {
		t.Fatalf("expected invalid base URL to fail")
	}
}
