// Command talentctl is a terminal client for the talent administration API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/semanticsaas/talentctl/internal/api"
	"github.com/semanticsaas/talentctl/internal/config"
	"github.com/semanticsaas/talentctl/internal/model"
	"github.com/semanticsaas/talentctl/internal/session"
	"github.com/semanticsaas/talentctl/internal/store"
	"github.com/semanticsaas/talentctl/internal/token"
	"github.com/semanticsaas/talentctl/internal/tui"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, `talentctl
Usage:
  talentctl [--api URL] [--token-file FILE] [--log-level LEVEL] <cmd> [args]

Commands:
  version
  register  --company NAME --first NAME --last NAME --email ADDR   (prompts for password)
  login     --email ADDR                                           (prompts, saves token)
  logout                                                           (local only)
  whoami
  ui                                                               (interactive dashboard)

  talent list   [--page N] [--size N] [--sort FIELD] [--dir asc|desc]
  talent search --q KEYWORD [--page N] [--size N]
  talent get    --id N
  talent add    --first NAME --last NAME --email ADDR [--phone ...] [--skills ...] [--location ...]
  talent edit   --id N [field flags as for add]
  talent rm     --id N
  talent count

  user list     [--customer N]
  user get      --id N
  user add      --username NAME --email ADDR --first NAME --last NAME [--roles ADMIN,USER] [--customer N]
  user edit     --id N [field flags as for add] [--disable]
  user rm       --id N
`)
	os.Exit(2)
}

type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	tokens  token.Store
	client  *api.Client
	session *session.Store
	talents *store.Talents
	users   *store.Users
}

func newApp(ctx context.Context, apiURL, tokenFile, logLevel string) *app {
	cfg, err := config.Load(ctx)
	if err != nil {
		fail(err)
	}
	// flags win over environment
	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if tokenFile != "" {
		cfg.TokenFile = tokenFile
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger := newLogger(cfg.LogLevel)
	tokens := token.NewFileStore(cfg.TokenFile)

	// The hook closes over the session store, which is built from the client
	// it configures; bind it late.
	var sess *session.Store
	client, err := api.Open(cfg.APIURL, tokens,
		api.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		api.WithLogger(logger),
		api.WithUnauthorizedHook(func() {
			if sess != nil {
				sess.Invalidate()
			}
		}),
	)
	if err != nil {
		fail(err)
	}
	sess = session.New(client, tokens, logger)

	return &app{
		cfg:     cfg,
		logger:  logger,
		tokens:  tokens,
		client:  client,
		session: sess,
		talents: store.NewTalents(client),
		users:   store.NewUsers(client),
	}
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// requireAuth settles the session from the persisted token and exits when it
// comes up anonymous.
func (a *app) requireAuth(ctx context.Context) {
	snap := a.session.Initialize(ctx)
	if !snap.IsAuthenticated() {
		fail(errors.New("not signed in (run: talentctl login)"))
	}
}

func promptPassword(label string) string {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fail(err)
	}
	return string(b)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func fail(err error) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.RequestID != "" {
		fmt.Fprintf(os.Stderr, "error: %s (request %s)\n", apiErr.Message, apiErr.RequestID)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

func main() {
	flags := pflag.NewFlagSet("talentctl", pflag.ExitOnError)
	apiURL := flags.String("api", "", "API base URL (overrides TALENT_API_URL)")
	tokenFile := flags.String("token-file", "", "token file path (overrides TALENT_TOKEN_FILE)")
	logLevel := flags.String("log-level", "", "zap log level (overrides LOG_LEVEL)")
	flags.Usage = usage
	_ = flags.Parse(os.Args[1:])

	if flags.NArg() < 1 {
		usage()
	}
	cmd := flags.Arg(0)
	rest := flags.Args()[1:]

	if cmd == "version" {
		fmt.Printf("talentctl %s (%s)\n", version, buildDate)
		return
	}

	ctx := context.Background()
	a := newApp(ctx, *apiURL, *tokenFile, *logLevel)
	defer a.logger.Sync() //nolint:errcheck

	switch cmd {
	case "register":
		a.cmdRegister(ctx, rest)
	case "login":
		a.cmdLogin(ctx, rest)
	case "logout":
		a.session.Logout()
		fmt.Println("signed out")
	case "whoami":
		a.cmdWhoami(ctx)
	case "ui":
		a.cmdUI(ctx)
	case "talent":
		a.cmdTalent(ctx, rest)
	case "user":
		a.cmdUser(ctx, rest)
	default:
		usage()
	}
}

func (a *app) cmdRegister(ctx context.Context, args []string) {
	fs := pflag.NewFlagSet("register", pflag.ExitOnError)
	company := fs.String("company", "", "company name")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	email := fs.String("email", "", "email address")
	_ = fs.Parse(args)
	if *company == "" || *first == "" || *last == "" || *email == "" {
		fail(errors.New("need --company --first --last --email"))
	}

	password := promptPassword("password")
	ack, err := a.client.Register(ctx, api.RegisterRequest{
		CompanyName: *company,
		FirstName:   *first,
		LastName:    *last,
		Email:       *email,
		Password:    password,
	})
	if err != nil {
		fail(err)
	}
	fmt.Println(ack.Message)
}

func (a *app) cmdLogin(ctx context.Context, args []string) {
	fs := pflag.NewFlagSet("login", pflag.ExitOnError)
	email := fs.String("email", "", "email address")
	_ = fs.Parse(args)
	if *email == "" {
		fail(errors.New("need --email"))
	}

	password := promptPassword("password")
	identity, err := a.session.Login(ctx, *email, password)
	if err != nil {
		fail(err)
	}
	fmt.Printf("signed in as %s (roles: %s)\n", identity.Username, strings.Join(identity.Roles, ","))
}

func (a *app) cmdWhoami(ctx context.Context) {
	a.requireAuth(ctx)
	printJSON(a.session.Snapshot().Identity)
}

func (a *app) cmdUI(ctx context.Context) {
	a.session.Initialize(ctx)
	err := tui.Run(tui.Deps{Session: a.session, Talents: a.talents, Users: a.users})
	if err != nil {
		fail(err)
	}
}

// ---- talent subcommands ----

func (a *app) cmdTalent(ctx context.Context, args []string) {
	if len(args) < 1 {
		usage()
	}
	sub, rest := args[0], args[1:]
	a.requireAuth(ctx)

	switch sub {
	case "list":
		fs := pflag.NewFlagSet("talent list", pflag.ExitOnError)
		page := fs.Int("page", 0, "page number (0-based)")
		size := fs.Int("size", 10, "page size")
		sortBy := fs.String("sort", "id", "sort field")
		sortDir := fs.String("dir", "asc", "sort direction")
		_ = fs.Parse(rest)
		if err := a.talents.List(ctx, *page, *size, *sortBy, *sortDir); err != nil {
			fail(err)
		}
		printJSON(a.talents.Snapshot())

	case "search":
		fs := pflag.NewFlagSet("talent search", pflag.ExitOnError)
		q := fs.String("q", "", "search keyword")
		page := fs.Int("page", 0, "page number (0-based)")
		size := fs.Int("size", 10, "page size")
		_ = fs.Parse(rest)
		if *q == "" {
			fail(errors.New("need --q"))
		}
		if err := a.talents.Search(ctx, *q, *page, *size); err != nil {
			fail(err)
		}
		printJSON(a.talents.Snapshot())

	case "get":
		fs := pflag.NewFlagSet("talent get", pflag.ExitOnError)
		id := fs.Int64("id", 0, "talent id")
		_ = fs.Parse(rest)
		if *id <= 0 {
			fail(errors.New("need --id"))
		}
		if err := a.talents.Get(ctx, *id); err != nil {
			fail(err)
		}
		printJSON(a.talents.Snapshot().Current)

	case "add":
		t, fs := talentFlags()
		_ = fs.Parse(rest)
		form := store.TalentForm{FirstName: t.FirstName, LastName: t.LastName, Email: t.Email}
		if err := form.Validate(); err != nil {
			fail(err)
		}
		created, err := a.talents.Create(ctx, *t)
		if err != nil {
			fail(err)
		}
		printJSON(created)

	case "edit":
		t, fs := talentFlags()
		id := fs.Int64("id", 0, "talent id")
		_ = fs.Parse(rest)
		if *id <= 0 {
			fail(errors.New("need --id"))
		}
		// The update is a wholesale PUT, so fetch the record first and merge
		// only the flags that were actually set.
		if err := a.talents.Get(ctx, *id); err != nil {
			fail(err)
		}
		merged := mergeTalentFlags(fs, *t, *a.talents.Snapshot().Current)
		form := store.TalentForm{FirstName: merged.FirstName, LastName: merged.LastName, Email: merged.Email}
		if err := form.Validate(); err != nil {
			fail(err)
		}
		updated, err := a.talents.Update(ctx, *id, merged)
		if err != nil {
			fail(err)
		}
		printJSON(updated)

	case "rm":
		fs := pflag.NewFlagSet("talent rm", pflag.ExitOnError)
		id := fs.Int64("id", 0, "talent id")
		_ = fs.Parse(rest)
		if *id <= 0 {
			fail(errors.New("need --id"))
		}
		if err := a.talents.Delete(ctx, *id); err != nil {
			fail(err)
		}
		fmt.Println("deleted")

	case "count":
		n, err := a.talents.Count(ctx)
		if err != nil {
			fail(err)
		}
		fmt.Println(n)

	default:
		usage()
	}
}

func talentFlags() (*model.Talent, *pflag.FlagSet) {
	fs := pflag.NewFlagSet("talent", pflag.ExitOnError)
	var t model.Talent
	fs.StringVar(&t.FirstName, "first", "", "first name")
	fs.StringVar(&t.LastName, "last", "", "last name")
	fs.StringVar(&t.Email, "email", "", "email address")
	fs.StringVar(&t.Phone, "phone", "", "phone number")
	fs.StringVar(&t.Skills, "skills", "", "skills summary")
	fs.StringVar(&t.Experience, "experience", "", "experience summary")
	fs.StringVar(&t.Education, "education", "", "education summary")
	fs.StringVar(&t.Location, "location", "", "location")
	fs.StringVar(&t.LinkedinURL, "linkedin", "", "LinkedIn URL")
	fs.StringVar(&t.GithubURL, "github", "", "GitHub URL")
	fs.StringVar(&t.CurrentPosition, "position", "", "current position")
	fs.StringVar(&t.DesiredPosition, "desired", "", "desired position")
	fs.Float64Var(&t.SalaryExpectation, "salary", 0, "salary expectation")
	fs.StringVar(&t.Availability, "availability", "", "availability")
	fs.StringVar(&t.Notes, "notes", "", "notes")
	return &t, fs
}

// mergeTalentFlags overlays the flags the user actually set onto the fetched
// record, leaving every other field as the server last returned it.
func mergeTalentFlags(fs *pflag.FlagSet, parsed, base model.Talent) model.Talent {
	out := base
	set := func(name string, dst *string, src string) {
		if fs.Changed(name) {
			*dst = src
		}
	}
	set("first", &out.FirstName, parsed.FirstName)
	set("last", &out.LastName, parsed.LastName)
	set("email", &out.Email, parsed.Email)
	set("phone", &out.Phone, parsed.Phone)
	set("skills", &out.Skills, parsed.Skills)
	set("experience", &out.Experience, parsed.Experience)
	set("education", &out.Education, parsed.Education)
	set("location", &out.Location, parsed.Location)
	set("linkedin", &out.LinkedinURL, parsed.LinkedinURL)
	set("github", &out.GithubURL, parsed.GithubURL)
	set("position", &out.CurrentPosition, parsed.CurrentPosition)
	set("desired", &out.DesiredPosition, parsed.DesiredPosition)
	set("availability", &out.Availability, parsed.Availability)
	set("notes", &out.Notes, parsed.Notes)
	if fs.Changed("salary") {
		out.SalaryExpectation = parsed.SalaryExpectation
	}
	return out
}

// ---- user subcommands ----

func (a *app) cmdUser(ctx context.Context, args []string) {
	if len(args) < 1 {
		usage()
	}
	sub, rest := args[0], args[1:]
	a.requireAuth(ctx)

	switch sub {
	case "list":
		fs := pflag.NewFlagSet("user list", pflag.ExitOnError)
		customer := fs.Int64("customer", 0, "filter by customer id")
		_ = fs.Parse(rest)
		var err error
		if *customer > 0 {
			err = a.users.ListByCustomer(ctx, *customer)
		} else {
			err = a.users.List(ctx)
		}
		if err != nil {
			fail(err)
		}
		printJSON(a.users.Snapshot().Items)

	case "get":
		fs := pflag.NewFlagSet("user get", pflag.ExitOnError)
		id := fs.Int64("id", 0, "user id")
		_ = fs.Parse(rest)
		if *id <= 0 {
			fail(errors.New("need --id"))
		}
		if err := a.users.Get(ctx, *id); err != nil {
			fail(err)
		}
		printJSON(a.users.Snapshot().Current)

	case "add":
		form, fs := userFlags()
		_ = fs.Parse(rest)
		form.NewAccount = true
		form.Password = promptPassword("password")
		if err := form.Validate(); err != nil {
			fail(err)
		}
		created, err := a.users.Create(ctx, form.User())
		if err != nil {
			fail(err)
		}
		printJSON(created)

	case "edit":
		form, fs := userFlags()
		id := fs.Int64("id", 0, "user id")
		newPassword := fs.Bool("new-password", false, "prompt for a new password")
		disable := fs.Bool("disable", false, "disable the account")
		_ = fs.Parse(rest)
		if *id <= 0 {
			fail(errors.New("need --id"))
		}
		if *newPassword {
			form.Password = promptPassword("new password")
		}
		form.Enabled = !*disable
		if err := form.Validate(); err != nil {
			fail(err)
		}
		updated, err := a.users.Update(ctx, *id, form.User())
		if err != nil {
			fail(err)
		}
		printJSON(updated)

	case "rm":
		fs := pflag.NewFlagSet("user rm", pflag.ExitOnError)
		id := fs.Int64("id", 0, "user id")
		_ = fs.Parse(rest)
		if *id <= 0 {
			fail(errors.New("need --id"))
		}
		if err := a.users.Delete(ctx, *id); err != nil {
			fail(err)
		}
		fmt.Println("deleted")

	default:
		usage()
	}
}

func userFlags() (*store.UserForm, *pflag.FlagSet) {
	fs := pflag.NewFlagSet("user", pflag.ExitOnError)
	var f store.UserForm
	f.Enabled = true
	fs.StringVar(&f.Username, "username", "", "login name")
	fs.StringVar(&f.Email, "email", "", "email address")
	fs.StringVar(&f.FirstName, "first", "", "first name")
	fs.StringVar(&f.LastName, "last", "", "last name")
	fs.StringSliceVar(&f.Roles, "roles", []string{"USER"}, "roles (comma separated)")
	fs.Int64Var(&f.CustomerID, "customer", 0, "customer id")
	return &f, fs
}
