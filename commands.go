package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/pflag"

	"github.com/CrestNiraj12/skillfeed/app"
	"github.com/CrestNiraj12/skillfeed/domain"
	"github.com/CrestNiraj12/skillfeed/infra/auth"
	"github.com/CrestNiraj12/skillfeed/infra/config"
	"github.com/CrestNiraj12/skillfeed/infra/prompt"
	"github.com/CrestNiraj12/skillfeed/reconcile"
	"github.com/CrestNiraj12/skillfeed/tui/common"
)

// cliEnv is everything a one-shot command needs.
type cliEnv struct {
	cfg     config.Config
	log     *slog.Logger
	user    domain.User
	session *auth.SessionStore // nil in demo mode
	content map[domain.Kind]app.ContentService
	account app.AccountService
	confirm app.Confirmer // nil means a terminal prompt
	now     func() time.Time
	out     io.Writer
	errOut  io.Writer
}

type command struct {
	usage string
	args  int // minimum positional arguments
	run   func(e *cliEnv, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"list":     {usage: "list", run: (*cliEnv).list},
	"like":     {usage: "like <id>", args: 1, run: (*cliEnv).like},
	"comment":  {usage: "comment <id> <text...>", args: 2, run: (*cliEnv).comment},
	"delete":   {usage: "delete <id>", args: 1, run: (*cliEnv).deleteItem},
	"post":     {usage: "post [--media url...] <text...>", args: 1, run: (*cliEnv).post},
	"progress": {usage: "progress --template general|tutorial|project --title ... [field flags]", args: 1, run: (*cliEnv).progress},
	"plan":     {usage: "plan --title ... --description ... [--topics ...] [--resources ...]", args: 1, run: (*cliEnv).plan},
	"edit":     {usage: "edit <id> [field flags]", args: 2, run: (*cliEnv).edit},
	"profile":  {usage: "profile [user-id] | profile edit [--name] [--bio] [--skill...]", run: (*cliEnv).profile},
	"follow":   {usage: "follow <user-id>", args: 1, run: (*cliEnv).follow},
	"unfollow": {usage: "unfollow <user-id>", args: 1, run: (*cliEnv).unfollow},
	"login":    {usage: "login <user-id> <token>", args: 2, run: (*cliEnv).login},
	"logout":   {usage: "logout", run: (*cliEnv).logout},
}

func (e *cliEnv) dispatch(ctx context.Context, args []string) error {
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q (see --help)", args[0])
	}
	if len(args)-1 < cmd.args {
		return fmt.Errorf("usage: skillfeed %s", cmd.usage)
	}
	e.log.Debug("running command", "command", args[0], "kind", e.cfg.Kind)
	return cmd.run(e, ctx, args[1:])
}

// Notify prints progress notices. Failures come back as errors instead, so
// error notices only go to the log.
func (e *cliEnv) Notify(n app.Notice) {
	if n.Level == app.NoticeError {
		e.log.Debug("notice", "text", n.Text)
		return
	}
	fmt.Fprintln(e.errOut, n.Text)
}

func (e *cliEnv) clock() time.Time {
	if e.now != nil {
		return e.now()
	}
	return time.Now()
}

// reconciler loads the configured kind's collection.
func (e *cliEnv) reconciler(ctx context.Context) (*reconcile.Reconciler, error) {
	return e.reconcilerFor(ctx, e.cfg.Kind)
}

func (e *cliEnv) reconcilerFor(ctx context.Context, kind domain.Kind) (*reconcile.Reconciler, error) {
	svc, ok := e.content[kind]
	if !ok {
		return nil, fmt.Errorf("no service for kind %q", kind)
	}
	confirm := e.confirm
	if confirm == nil {
		confirm = prompt.NewTerminal()
	}
	rec := reconcile.New(svc,
		reconcile.WithNotifier(e),
		reconcile.WithConfirmer(confirm),
		reconcile.WithLogger(e.log),
	)
	if err := rec.Load(ctx); err != nil {
		return nil, err
	}
	rec.SetTotal(rec.Len())
	return rec, nil
}

func (e *cliEnv) requireUser(verb string) error {
	if !e.user.Authenticated() {
		return fmt.Errorf("please log in to %s: %w", verb, domain.ErrUnauthenticated)
	}
	return nil
}

func (e *cliEnv) list(ctx context.Context, _ []string) error {
	rec, err := e.reconciler(ctx)
	if err != nil {
		return err
	}
	items := rec.Snapshot()
	if len(items) == 0 {
		fmt.Fprintf(e.out, "No %ss yet.\n", e.cfg.Kind.Label())
		return nil
	}

	now := e.clock()
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		liked := ""
		if it.LikedBy(e.user.ID) {
			liked = "♥"
		}
		rows = append(rows, []string{
			it.ID,
			common.Truncate(it.AuthorName, 20),
			common.Truncate(common.SingleLine(it.Title()), 48),
			fmt.Sprintf("%d%s", len(it.Likes), liked),
			fmt.Sprint(len(it.Comments)),
			common.RelativeTime(it.CreatedAt, now),
		})
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).BorderBottom(false).BorderLeft(false).BorderRight(false).
		BorderHeader(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return common.LabelStyle.PaddingRight(1)
			}
			return lipgloss.NewStyle().PaddingRight(1)
		}).
		Headers("ID", "AUTHOR", "TITLE", "LIKES", "COMMENTS", "CREATED").
		Rows(rows...)
	fmt.Fprintln(e.out, t.Render())
	fmt.Fprintln(e.out, common.Plural(rec.Total(), e.cfg.Kind.Label()))
	return nil
}

func (e *cliEnv) like(ctx context.Context, args []string) error {
	rec, err := e.reconciler(ctx)
	if err != nil {
		return err
	}
	if err := rec.ToggleLike(ctx, e.user, args[0]); err != nil {
		return err
	}
	it, _ := rec.Item(args[0])
	verb := "Unliked"
	if it.LikedBy(e.user.ID) {
		verb = "Liked"
	}
	fmt.Fprintf(e.out, "%s %q (%s)\n", verb, common.Truncate(it.Title(), 48), common.Plural(len(it.Likes), "like"))
	return nil
}

func (e *cliEnv) comment(ctx context.Context, args []string) error {
	rec, err := e.reconciler(ctx)
	if err != nil {
		return err
	}
	it, err := rec.AddComment(ctx, e.user, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Comment added (%s)\n", common.Plural(len(it.Comments), "comment"))
	return nil
}

func (e *cliEnv) deleteItem(ctx context.Context, args []string) error {
	if err := e.requireUser("delete"); err != nil {
		return err
	}
	rec, err := e.reconciler(ctx)
	if err != nil {
		return err
	}
	label := e.cfg.Kind.Label()
	it, ok := rec.Item(args[0])
	if !ok {
		return fmt.Errorf("%s %s: %w", label, args[0], domain.ErrNotFound)
	}
	if !it.OwnedBy(e.user.ID) {
		return fmt.Errorf("you can only delete your own %ss: %w", label, domain.ErrForbidden)
	}
	deleted, err := rec.DeleteItem(ctx, e.user, it.ID)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(e.out, "Cancelled")
	}
	return nil
}

// post shares a post whatever --kind says. Flags end at the first word of
// the text.
func (e *cliEnv) post(ctx context.Context, args []string) error {
	f := newItemFlags("post", domain.FieldMedia)
	f.fs.SetInterspersed(false)
	if err := f.fs.Parse(args); err != nil {
		return fmt.Errorf("post: %w", err)
	}
	values := f.changed()
	values[domain.FieldDescription] = strings.Join(f.fs.Args(), " ")
	return e.create(ctx, domain.KindPost, values)
}

func (e *cliEnv) progress(ctx context.Context, args []string) error {
	f := newItemFlags("progress", domain.FieldTemplate, domain.FieldStatus,
		domain.FieldTitle, domain.FieldDescription, domain.FieldTutorialName, domain.FieldProjectName,
		domain.FieldSkillsLearned, domain.FieldChallenges, domain.FieldNextSteps)
	if err := f.parse(args); err != nil {
		return err
	}
	values := f.changed()
	if _, ok := values[domain.FieldTemplate]; !ok {
		values[domain.FieldTemplate] = domain.ProgressTemplates[0].ID
	}
	if _, ok := domain.TemplateByID(values[domain.FieldTemplate]); !ok {
		return &domain.ValidationError{Field: domain.FieldTemplate, Reason: "unknown template " + values[domain.FieldTemplate]}
	}
	if err := checkFields(domain.KindProgress, values[domain.FieldTemplate], values); err != nil {
		return err
	}
	return e.create(ctx, domain.KindProgress, values)
}

func (e *cliEnv) plan(ctx context.Context, args []string) error {
	f := newItemFlags("plan", domain.EditableFields(domain.KindPlan, "")...)
	if err := f.parse(args); err != nil {
		return err
	}
	return e.create(ctx, domain.KindPlan, f.changed())
}

func (e *cliEnv) create(ctx context.Context, kind domain.Kind, values map[string]string) error {
	rec, err := e.reconcilerFor(ctx, kind)
	if err != nil {
		return err
	}
	it, err := rec.Create(ctx, e.user, domain.Item{}.WithFields(kind, values))
	if err != nil {
		return err
	}
	fmt.Fprintln(e.out, it.ID)
	return nil
}

// edit changes only the fields whose flags were given.
func (e *cliEnv) edit(ctx context.Context, args []string) error {
	if err := e.requireUser("edit"); err != nil {
		return err
	}
	f := newItemFlags("edit", domain.FieldStatus, domain.FieldTitle, domain.FieldDescription,
		domain.FieldTutorialName, domain.FieldProjectName, domain.FieldSkillsLearned, domain.FieldChallenges,
		domain.FieldNextSteps, domain.FieldTopics, domain.FieldResources, domain.FieldMedia)
	if err := f.parse(args); err != nil {
		return err
	}
	if f.fs.NArg() != 1 {
		return errors.New("usage: skillfeed edit <id> [field flags]")
	}
	values := f.changed()
	if len(values) == 0 {
		return fmt.Errorf("nothing to change: give at least one field flag: %w", domain.ErrValidation)
	}

	rec, err := e.reconciler(ctx)
	if err != nil {
		return err
	}
	id := f.fs.Arg(0)
	it, ok := rec.Item(id)
	if !ok {
		return fmt.Errorf("%s %s: %w", e.cfg.Kind.Label(), id, domain.ErrNotFound)
	}
	template := ""
	if it.Progress != nil {
		template = it.Progress.TemplateType
	}
	if err := checkFields(it.Kind, template, values); err != nil {
		return err
	}
	updated, err := rec.Update(ctx, e.user, it.WithFields(it.Kind, values))
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Updated %q\n", common.Truncate(updated.Title(), 48))
	return nil
}

// flagNames maps field names to their command-line flags.
var flagNames = map[string]string{
	domain.FieldTemplate:      "template",
	domain.FieldStatus:        "status",
	domain.FieldTitle:         "title",
	domain.FieldDescription:   "description",
	domain.FieldTutorialName:  "tutorial",
	domain.FieldProjectName:   "project",
	domain.FieldSkillsLearned: "skills",
	domain.FieldChallenges:    "challenges",
	domain.FieldNextSteps:     "next-steps",
	domain.FieldTopics:        "topics",
	domain.FieldResources:     "resources",
	domain.FieldMedia:         "media",
}

// itemFlags is a flag set with one string flag per item field.
type itemFlags struct {
	fs     *pflag.FlagSet
	values map[string]*string
}

func newItemFlags(name string, fields ...string) *itemFlags {
	f := &itemFlags{
		fs:     pflag.NewFlagSet(name, pflag.ContinueOnError),
		values: make(map[string]*string, len(fields)),
	}
	f.fs.SetOutput(io.Discard)
	for _, field := range fields {
		usage := strings.ToLower(domain.FieldLabels[field])
		switch field {
		case domain.FieldTemplate:
			usage = "progress template: general, tutorial or project"
		case domain.FieldStatus:
			usage = "not_started, in_progress or completed"
		case domain.FieldMedia:
			usage = "attachment URLs, space-separated"
		}
		f.values[field] = f.fs.String(flagNames[field], "", usage)
	}
	return f
}

func (f *itemFlags) parse(args []string) error {
	if err := f.fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w", f.fs.Name(), err)
	}
	return nil
}

// changed returns the fields whose flags were given, even when empty.
func (f *itemFlags) changed() map[string]string {
	out := make(map[string]string, len(f.values))
	for field, v := range f.values {
		if f.fs.Changed(flagNames[field]) {
			out[field] = *v
		}
	}
	return out
}

// checkFields rejects values for fields the kind, or the progress template,
// does not have.
func checkFields(kind domain.Kind, template string, values map[string]string) error {
	allowed := domain.EditableFields(kind, template)
	for field := range values {
		if field == domain.FieldTemplate || slices.Contains(allowed, field) {
			continue
		}
		what := kind.Label() + "s"
		if kind == domain.KindProgress {
			what = template + " progress updates"
		}
		return &domain.ValidationError{Field: field, Reason: fmt.Sprintf("--%s does not apply to %s", flagNames[field], what)}
	}
	return nil
}

func (e *cliEnv) profile(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "edit" {
		return e.editProfile(ctx, args[1:])
	}
	id := e.user.ID
	if len(args) > 0 {
		id = args[0]
	}
	if id == "" {
		return fmt.Errorf("no user given and not logged in: %w", domain.ErrUnauthenticated)
	}
	p, err := e.account.Profile(ctx, id)
	if err != nil {
		return err
	}
	posts, err := e.account.TotalPostCount(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.out, "%s (%s)\n", p.Name, p.ID)
	if p.Bio != "" {
		fmt.Fprintln(e.out, p.Bio)
	}
	if len(p.Skills) > 0 {
		fmt.Fprintf(e.out, "skills: %s\n", strings.Join(p.Skills, ", "))
	}
	fmt.Fprintf(e.out, "%s • %d following • %s\n",
		common.Plural(posts, "post"), len(p.Following), common.Plural(len(p.Followers), "follower"))
	if e.user.Authenticated() && id != e.user.ID && p.IsFollowedBy(e.user.ID) {
		fmt.Fprintln(e.out, "✓ you follow them")
	}

	if len(p.Followers) > 0 {
		followers, err := e.account.UsersByIDs(ctx, p.Followers)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(followers))
		for _, f := range followers {
			names = append(names, f.Name)
		}
		fmt.Fprintf(e.out, "followed by: %s\n", strings.Join(names, ", "))
	}
	return nil
}

// editProfile changes the given profile fields and keeps the rest.
func (e *cliEnv) editProfile(ctx context.Context, args []string) error {
	if err := e.requireUser("edit your profile"); err != nil {
		return err
	}
	fs := pflag.NewFlagSet("profile edit", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "display name")
	bio := fs.String("bio", "", "short bio")
	skills := fs.StringSlice("skill", nil, "a skill; repeat or comma-separate")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("profile edit: %w", err)
	}
	if fs.NFlag() == 0 {
		return fmt.Errorf("nothing to change: give --name, --bio or --skill: %w", domain.ErrValidation)
	}

	cur, err := e.account.Profile(ctx, e.user.ID)
	if err != nil {
		return err
	}
	u := app.ProfileUpdate{Name: cur.Name, Bio: cur.Bio, Skills: cur.Skills}
	if fs.Changed("name") {
		u.Name = *name
	}
	if fs.Changed("bio") {
		u.Bio = strings.TrimSpace(*bio)
	}
	if fs.Changed("skill") {
		u.Skills = u.Skills[:0:0]
		for _, s := range *skills {
			if s = strings.TrimSpace(s); s != "" {
				u.Skills = append(u.Skills, s)
			}
		}
	}
	p, err := e.account.UpdateProfile(ctx, e.user.ID, u)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Profile updated: %s\n", p.Name)
	return nil
}

func (e *cliEnv) follow(ctx context.Context, args []string) error {
	return e.setFollow(ctx, args[0], true)
}

func (e *cliEnv) unfollow(ctx context.Context, args []string) error {
	return e.setFollow(ctx, args[0], false)
}

func (e *cliEnv) setFollow(ctx context.Context, target string, on bool) error {
	if err := e.requireUser("follow users"); err != nil {
		return err
	}
	if target == e.user.ID {
		return fmt.Errorf("you cannot follow yourself: %w", domain.ErrValidation)
	}
	if on {
		if err := e.account.Follow(ctx, target, e.user.ID); err != nil {
			return err
		}
		fmt.Fprintf(e.out, "Following %s\n", target)
		return nil
	}
	if err := e.account.Unfollow(ctx, target, e.user.ID); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "Unfollowed %s\n", target)
	return nil
}

var errNoSession = errors.New("sessions are not used with --demo")

// login stores the token first so the profile lookup is authenticated, then
// records the user's display name. A failed lookup removes the session.
func (e *cliEnv) login(ctx context.Context, args []string) error {
	if e.session == nil {
		return errNoSession
	}
	sess := auth.Session{UserID: strings.TrimSpace(args[0]), Token: strings.TrimSpace(args[1])}
	if sess.UserID == "" || sess.Token == "" {
		return fmt.Errorf("user id and token are required: %w", domain.ErrValidation)
	}
	if err := e.session.Save(sess); err != nil {
		return err
	}
	p, err := e.account.Profile(ctx, sess.UserID)
	if err != nil {
		if cerr := e.session.Clear(); cerr != nil {
			e.log.Warn("clearing session after failed login", "err", cerr)
		}
		return fmt.Errorf("login: %w", err)
	}
	sess.UserName = p.Name
	if err := e.session.Save(sess); err != nil {
		return err
	}
	e.user = sess.User()
	fmt.Fprintf(e.out, "Signed in as %s\n", p.Name)
	return nil
}

func (e *cliEnv) logout(context.Context, []string) error {
	if e.session == nil {
		return errNoSession
	}
	if err := e.session.Clear(); err != nil {
		return err
	}
	fmt.Fprintln(e.out, "Signed out")
	return nil
}
