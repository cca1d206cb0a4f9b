package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/CrestNiraj12/skillfeed/app"
	"github.com/CrestNiraj12/skillfeed/domain"
	"github.com/CrestNiraj12/skillfeed/infra/api"
	"github.com/CrestNiraj12/skillfeed/infra/auth"
	"github.com/CrestNiraj12/skillfeed/infra/config"
	"github.com/CrestNiraj12/skillfeed/infra/editor"
	"github.com/CrestNiraj12/skillfeed/infra/logging"
	"github.com/CrestNiraj12/skillfeed/infra/mockapi"
	"github.com/CrestNiraj12/skillfeed/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// demoUser is the seeded account the --demo backend signs in as.
var demoUser = domain.User{ID: "u1", Name: "Ada Lovelace"}

type cliOptions struct {
	configPath string
	baseURL    string
	kind       string
	logFile    string
	demo       bool
	version    bool
	help       bool
	args       []string
}

func newFlagSet(opts *cliOptions) *pflag.FlagSet {
	fs := pflag.NewFlagSet("skillfeed", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file (default: $"+config.EnvConfig+")")
	fs.StringVar(&opts.baseURL, "base-url", "", "API base URL")
	fs.StringVarP(&opts.kind, "kind", "k", "", "content kind: post, progress or plan")
	fs.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	fs.BoolVar(&opts.demo, "demo", false, "run against an in-process demo backend")
	fs.BoolVarP(&opts.version, "version", "v", false, "print version and exit")
	fs.BoolVarP(&opts.help, "help", "h", false, "show help")
	// Flags end at the command so comment text may start with a dash.
	fs.SetInterspersed(false)
	return fs
}

func parseCLIArgs(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := newFlagSet(&opts)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			opts.help = true
			return opts, nil
		}
		return opts, err
	}
	opts.args = fs.Args()
	if opts.kind != "" {
		if _, ok := domain.ParseKind(opts.kind); !ok {
			return opts, fmt.Errorf("invalid --kind %q: want post, progress or plan", opts.kind)
		}
	}
	return opts, nil
}

func printHelp(w io.Writer) {
	var opts cliOptions
	fs := newFlagSet(&opts)
	fmt.Fprintf(w, `skillfeed: browse and interact with a skill-sharing feed.

Usage:
  skillfeed [flags] [command]

Commands:
  (none)                   open the terminal UI
  list                     print the items of --kind
  like <id>                toggle your like on an item
  comment <id> <text...>   add a comment
  delete <id>              delete one of your items (asks first)
  post [--media url] <text...>
                           share a post
  progress [field flags]   share a progress update (--template general,
                           tutorial or project; --title, --status, ...)
  plan [field flags]       share a learning plan (--title, --description,
                           --topics, --resources)
  edit <id> [field flags]  change fields of one of your items of --kind
  profile [user-id]        show a profile (default: you)
  profile edit [--name n] [--bio b] [--skill s...]
                           update your profile
  follow <user-id>         follow a user
  unfollow <user-id>       stop following a user
  login <user-id> <token>  save a session
  logout                   remove the saved session

Flags:
%s`, fs.FlagUsages())
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "skillfeed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := parseCLIArgs(args)
	if err != nil {
		return fmt.Errorf("%w (see --help)", err)
	}
	if opts.help {
		printHelp(os.Stdout)
		return nil
	}
	if opts.version {
		v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
		fmt.Printf("skillfeed %s\ncommit: %s\nbuilt: %s\n", v, c, d)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load config: defaults, file, environment, then flags.
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(logging.Options{Path: cfg.LogPath, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer closeLog()

	// 2. Build infrastructure.
	env, err := setup(ctx, cfg, opts.demo, logger)
	if err != nil {
		return err
	}

	// 3. Run a one-shot command, or the TUI.
	if len(opts.args) > 0 {
		return env.dispatch(ctx, opts.args)
	}
	return runTUI(env, opts.kind != "")
}

func loadConfig(opts cliOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	if opts.baseURL != "" {
		cfg.BaseURL = opts.baseURL
	}
	if opts.kind != "" {
		cfg.Kind = domain.Kind(opts.kind)
	}
	if opts.logFile != "" {
		cfg.LogPath = opts.logFile
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// setup wires the API client and services. In demo mode the client talks to
// a seeded in-process backend as demoUser; otherwise the saved session
// provides the user and, unless a token file is configured, the token.
func setup(ctx context.Context, cfg config.Config, demo bool, logger *slog.Logger) (*cliEnv, error) {
	env := &cliEnv{
		cfg:    cfg,
		log:    logger,
		out:    os.Stdout,
		errOut: os.Stderr,
	}

	var tokens auth.TokenProvider
	baseURL := cfg.BaseURL
	if demo {
		srv := mockapi.New(mockapi.WithLogger(logger))
		if err := srv.Seed(mockapi.DefaultSeed()); err != nil {
			return nil, fmt.Errorf("seeding demo backend: %w", err)
		}
		u, err := srv.Serve(ctx, "127.0.0.1:0")
		if err != nil {
			return nil, fmt.Errorf("starting demo backend: %w", err)
		}
		baseURL = u
		tokens = auth.StaticToken("demo")
		env.user = demoUser
		logger.Info("demo backend started", "base_url", baseURL)
	} else {
		env.session = auth.NewSessionStore(cfg.SessionPath)
		sess, err := env.session.Load()
		if err != nil {
			return nil, err
		}
		env.user = sess.User()
		tokens = env.session
		if cfg.TokenPath != "" {
			tokens = auth.NewFileTokenProvider(cfg.TokenPath)
		}
	}

	client := api.NewClient(baseURL, tokens,
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(logger),
	)
	env.content = make(map[domain.Kind]app.ContentService, len(domain.Kinds))
	for _, k := range domain.Kinds {
		env.content[k] = api.NewContentService(client, k)
	}
	env.account = api.NewAccountService(client)
	return env, nil
}

// runTUI restores the last tab and detail pane. An explicit --kind wins over
// the saved tab.
func runTUI(env *cliEnv, kindFlag bool) error {
	state, err := config.LoadUIState(env.cfg.StatePath)
	if err != nil {
		env.log.Warn("ignoring saved UI state", "err", err)
	}
	kind := env.cfg.Kind
	if k, ok := domain.ParseKind(string(state.Kind)); ok && !kindFlag {
		kind = k
	}

	rootModel := tui.NewApp(tui.Deps{
		Content:    env.content,
		Account:    env.account,
		Editor:     editor.NewEnvEditor(),
		User:       env.user,
		Kind:       kind,
		ShowDetail: state.ShowDetail,
		StatePath:  env.cfg.StatePath,
		Logger:     env.log,
	})

	p := tea.NewProgram(rootModel, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
