package tui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/skillfeed/app"
	"github.com/CrestNiraj12/skillfeed/domain"
	"github.com/CrestNiraj12/skillfeed/infra/config"
	"github.com/CrestNiraj12/skillfeed/reconcile"
	"github.com/CrestNiraj12/skillfeed/tui/common"
	"github.com/CrestNiraj12/skillfeed/tui/compose"
	"github.com/CrestNiraj12/skillfeed/tui/feed"
	"github.com/CrestNiraj12/skillfeed/tui/form"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Content    map[domain.Kind]app.ContentService
	Account    app.AccountService
	Editor     compose.Editor
	User       domain.User
	Kind       domain.Kind // initial tab
	ShowDetail bool        // reopen the detail pane on start
	StatePath  string      // empty disables UI state persistence
	Logger     *slog.Logger
}

type activeView int

const (
	feedView activeView = iota
	composeView
	formView
)

// App is the root Bubble Tea model. It owns one feed per content kind and
// routes between the feeds, the comment composer and the edit forms.
type App struct {
	deps    Deps
	active  activeView
	kinds   []domain.Kind
	tab     int
	feeds   []feed.Model
	compose compose.Model
	form    form.Model
	keys    common.KeyMap

	composeTab int // feed the open composer writes to
	formTab    int // feed the open item form writes to

	gate    *Gate
	notices *Notices
	confirm *confirmRequest

	status  app.Notice
	profile domain.Profile
	posts   int // user's published items across kinds

	width  int
	height int
}

// NewApp creates the root model with all dependencies wired. Kinds without
// a content service get no tab.
func NewApp(deps Deps) App {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	a := App{
		deps:    deps,
		active:  feedView,
		keys:    common.DefaultKeyMap(),
		gate:    NewGate(),
		notices: NewNotices(),
	}
	for _, k := range domain.Kinds {
		svc, ok := deps.Content[k]
		if !ok {
			continue
		}
		rec := reconcile.New(svc,
			reconcile.WithNotifier(a.notices),
			reconcile.WithConfirmer(a.gate),
			reconcile.WithLogger(deps.Logger),
		)
		a.kinds = append(a.kinds, k)
		a.feeds = append(a.feeds, feed.New(rec, deps.User, a.notices))
	}
	if i := slices.Index(a.kinds, deps.Kind); i >= 0 {
		a.tab = i
	}
	if deps.ShowDetail && len(a.feeds) > 0 {
		a.feeds[a.tab] = a.feeds[a.tab].WithDetail(true)
	}
	return a
}

// Init loads the first tab and starts the notice and confirmation listeners.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.gate.Listen(), a.notices.Listen(), a.loadProfile()}
	if len(a.feeds) > 0 {
		cmds = append(cmds, a.feeds[a.tab].Init())
	}
	return tea.Batch(cmds...)
}

type profileLoadedMsg struct {
	profile domain.Profile
	posts   int
	err     error
}

type profileSavedMsg struct {
	profile domain.Profile
	err     error
}

type followDoneMsg struct {
	name      string
	following bool
	err       error
}

func (a App) loadProfile() tea.Cmd {
	account, user := a.deps.Account, a.deps.User
	if account == nil || !user.Authenticated() {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		p, err := account.Profile(ctx, user.ID)
		if err != nil {
			return profileLoadedMsg{err: err}
		}
		n, err := account.TotalPostCount(ctx, user.ID)
		return profileLoadedMsg{profile: p, posts: n, err: err}
	}
}

func (a App) follow(req feed.FollowMsg) tea.Cmd {
	account, user := a.deps.Account, a.deps.User
	if account == nil {
		return nil
	}
	following := slices.Contains(a.profile.Following, req.AuthorID)
	return func() tea.Msg {
		var err error
		if following {
			err = account.Unfollow(context.Background(), req.AuthorID, user.ID)
		} else {
			err = account.Follow(context.Background(), req.AuthorID, user.ID)
		}
		return followDoneMsg{name: req.AuthorName, following: !following, err: err}
	}
}

func (a App) profileForm() form.Model {
	p := a.profile
	if p.Name == "" {
		p.Name = a.deps.User.Name
	}
	return form.New(form.Target{Profile: true, Title: "Edit Profile"}, []form.Field{
		{Name: "name", Label: "Name", Value: p.Name, Required: true},
		{Name: "bio", Label: "Bio", Value: p.Bio},
		{Name: "skills", Label: "Skills", Value: strings.Join(p.Skills, ", "), Placeholder: "comma-separated"},
	})
}

func (a App) saveProfile(values map[string]string) tea.Cmd {
	account, user := a.deps.Account, a.deps.User
	if account == nil {
		return nil
	}
	u := app.ProfileUpdate{Name: values["name"], Bio: values["bio"], Skills: splitSkills(values["skills"])}
	return func() tea.Msg {
		p, err := account.UpdateProfile(context.Background(), user.ID, u)
		return profileSavedMsg{profile: p, err: err}
	}
}

func splitSkills(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		cmds := make([]tea.Cmd, len(a.feeds))
		for i := range a.feeds {
			a.feeds[i], cmds[i] = a.feeds[i].Update(msg)
		}
		return a, tea.Batch(cmds...)

	case confirmRequestMsg:
		req := confirmRequest(msg)
		a.confirm = &req
		return a, nil

	case noticeMsg:
		a.status = app.Notice(msg)
		return a, a.notices.Listen()

	case profileLoadedMsg:
		if msg.err != nil {
			a.deps.Logger.Warn("loading profile failed", "err", msg.err)
			return a, nil
		}
		a.profile, a.posts = msg.profile, msg.posts
		for i := range a.feeds {
			a.feeds[i] = a.feeds[i].SetFollowing(a.profile.Following)
		}
		return a, nil

	case profileSavedMsg:
		if msg.err != nil {
			a.deps.Logger.Warn("updating profile failed", "err", msg.err)
			a.status = app.Notice{Level: app.NoticeError, Text: "Failed to update profile"}
			return a, nil
		}
		a.profile.Name, a.profile.Bio, a.profile.Skills = msg.profile.Name, msg.profile.Bio, msg.profile.Skills
		a.status = app.Notice{Level: app.NoticeSuccess, Text: "Profile updated"}
		return a, a.loadProfile()

	case followDoneMsg:
		if msg.err != nil {
			a.status = app.Notice{Level: app.NoticeError, Text: "Failed to update follow status"}
			return a, nil
		}
		verb := "Unfollowed"
		if msg.following {
			verb = "Following"
		}
		a.status = app.Notice{Level: app.NoticeSuccess, Text: fmt.Sprintf("%s %s", verb, msg.name)}
		return a, a.loadProfile()

	case spinner.TickMsg:
		var cmds []tea.Cmd
		for i := range a.feeds {
			var cmd tea.Cmd
			a.feeds[i], cmd = a.feeds[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case feed.ComposeMsg:
		a.active = composeView
		if msg.UseEditor {
			a.compose = compose.NewEditor(a.deps.Editor, msg.Target, msg.Initial)
		} else {
			a.compose = compose.NewInline(msg.Target, msg.Initial)
		}
		a.composeTab = slices.Index(a.kinds, msg.Kind)
		return a, a.compose.Init()

	case compose.DoneMsg:
		a.active = feedView
		if a.composeTab < 0 || a.composeTab >= len(a.feeds) {
			return a, nil
		}
		var cmd tea.Cmd
		a.feeds[a.composeTab], cmd = a.feeds[a.composeTab].Update(msg)
		return a, cmd

	case feed.FormMsg:
		a.active = formView
		a.form = form.New(msg.Target, msg.Fields)
		a.formTab = slices.Index(a.kinds, msg.Target.Kind)
		return a, a.form.Init()

	case form.DoneMsg:
		a.active = feedView
		if msg.Target.Profile {
			if msg.Cancelled {
				return a, nil
			}
			return a, a.saveProfile(msg.Values)
		}
		if a.formTab < 0 || a.formTab >= len(a.feeds) {
			return a, nil
		}
		var cmd tea.Cmd
		a.feeds[a.formTab], cmd = a.feeds[a.formTab].Update(msg)
		return a, cmd

	case feed.FollowMsg:
		return a, a.follow(msg)

	case feed.DeleteDoneMsg:
		var cmd tea.Cmd
		a, cmd = a.routeKinded(msg)
		if msg.Deleted {
			a.posts = max(a.posts-1, 0)
		}
		return a, cmd

	case feed.SavedMsg:
		var cmd tea.Cmd
		a, cmd = a.routeKinded(msg)
		if msg.Created {
			a.posts++
		}
		return a, cmd

	case feed.KindedMsg:
		return a.routeKinded(msg)

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a.delegate(msg)
}

func (a App) routeKinded(msg feed.KindedMsg) (App, tea.Cmd) {
	i := slices.Index(a.kinds, msg.MsgKind())
	if i < 0 {
		return a, nil
	}
	var cmd tea.Cmd
	a.feeds[i], cmd = a.feeds[i].Update(msg)
	return a, cmd
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.ForceQuit) {
		a.answer(false)
		a.saveState()
		return a, tea.Quit
	}

	if a.confirm != nil {
		switch {
		case key.Matches(msg, a.keys.Yes):
			a.answer(true)
			return a, a.gate.Listen()
		case key.Matches(msg, a.keys.No):
			a.answer(false)
			return a, a.gate.Listen()
		}
		return a, nil
	}

	if a.active == composeView || a.active == formView {
		return a.delegate(msg)
	}

	if len(a.feeds) == 0 {
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
		return a, nil
	}

	cur := a.feeds[a.tab]
	if !cur.Busy() {
		switch {
		case key.Matches(msg, a.keys.Quit) && !cur.IsInDetailView():
			a.saveState()
			return a, tea.Quit
		case key.Matches(msg, a.keys.NextTab):
			return a.switchTab(a.tab + 1)
		case key.Matches(msg, a.keys.PrevTab):
			return a.switchTab(a.tab - 1)
		case key.Matches(msg, a.keys.EditProfile):
			if !a.deps.User.Authenticated() || a.deps.Account == nil {
				a.status = app.Notice{Level: app.NoticeError, Text: "Please log in to edit your profile"}
				return a, nil
			}
			a.active = formView
			a.form = a.profileForm()
			return a, a.form.Init()
		}
	}
	return a.delegate(msg)
}

func (a *App) answer(ok bool) {
	if a.confirm == nil {
		return
	}
	a.confirm.answer <- ok
	a.confirm = nil
}

func (a App) switchTab(i int) (tea.Model, tea.Cmd) {
	n := len(a.feeds)
	a.tab = ((i % n) + n) % n
	a.status = app.Notice{}
	a.saveState()
	if !a.feeds[a.tab].Loaded() && !a.feeds[a.tab].Loading() {
		return a, a.feeds[a.tab].Init()
	}
	return a, nil
}

func (a App) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch a.active {
	case feedView:
		if len(a.feeds) == 0 {
			return a, nil
		}
		var cmd tea.Cmd
		a.feeds[a.tab], cmd = a.feeds[a.tab].Update(msg)
		return a, cmd
	case composeView:
		var cmd tea.Cmd
		a.compose, cmd = a.compose.Update(msg)
		return a, cmd
	case formView:
		var cmd tea.Cmd
		a.form, cmd = a.form.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) saveState() {
	if a.deps.StatePath == "" || len(a.feeds) == 0 {
		return
	}
	st := config.UIState{
		Kind:       string(a.kinds[a.tab]),
		ShowDetail: a.feeds[a.tab].IsInDetailView(),
	}
	if err := config.SaveUIState(a.deps.StatePath, st); err != nil {
		a.deps.Logger.Warn("saving ui state failed", "err", err)
	}
}

// View renders the header, the active sub-view and the status bar.
func (a App) View() string {
	switch a.active {
	case composeView:
		return a.compose.View()
	case formView:
		return a.form.View()
	}

	var b strings.Builder
	b.WriteString(common.AppTitleStyle.Render("skillfeed"))
	b.WriteString(a.renderTabs())
	b.WriteString("\n")
	b.WriteString(common.TaglineStyle.Render(a.renderUser()))
	b.WriteString("\n")
	if len(a.feeds) > 0 {
		b.WriteString(a.feeds[a.tab].View())
	}

	switch {
	case a.confirm != nil:
		p := a.confirm.prompt
		b.WriteString("\n" + common.ConfirmStyle.Render(fmt.Sprintf("%s: %s", p.Title, p.Message)))
		b.WriteString("\n" + common.StatusBarStyle.Render(fmt.Sprintf("  y: %s • n: %s", strings.ToLower(p.ConfirmText), strings.ToLower(p.CancelText))))
	case a.status.Text != "":
		style := common.StatusBarStyle
		switch a.status.Level {
		case app.NoticeError:
			style = common.ErrorStyle.PaddingTop(1)
		case app.NoticeSuccess:
			style = common.SuccessStyle.PaddingTop(1)
		}
		b.WriteString("\n" + style.Render(a.status.Text))
	}
	return b.String()
}

func (a App) renderTabs() string {
	parts := make([]string, 0, len(a.kinds))
	for i, k := range a.kinds {
		label := tabLabel(k)
		if i == a.tab {
			label = fmt.Sprintf("%s (%d)", label, a.feeds[i].Total())
			parts = append(parts, common.TabActiveStyle.Render(label))
		} else {
			parts = append(parts, common.TabInactiveStyle.Render(label))
		}
	}
	return " " + strings.Join(parts, " ")
}

func tabLabel(k domain.Kind) string {
	switch k {
	case domain.KindPost:
		return "Posts"
	case domain.KindProgress:
		return "Progress"
	case domain.KindPlan:
		return "Plans"
	}
	return string(k)
}

func (a App) renderUser() string {
	if !a.deps.User.Authenticated() {
		return "browsing anonymously • set a session to like and comment"
	}
	name := a.deps.User.Name
	if a.profile.Name != "" {
		name = a.profile.Name
	}
	if a.profile.ID == "" {
		return "signed in as " + name
	}
	return fmt.Sprintf("signed in as %s • %s • %d following • %d followers",
		name, common.Plural(a.posts, "post"), len(a.profile.Following), len(a.profile.Followers))
}
