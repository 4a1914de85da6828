package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/example/photoedit/internal/config"
	"github.com/example/photoedit/internal/editor"
	"github.com/example/photoedit/internal/notify"
	"github.com/example/photoedit/internal/raster"
	"github.com/example/photoedit/internal/render"
	"github.com/example/photoedit/internal/theme"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs          *flag.FlagSet
	program     string
	notifier    *notify.Notifier
	config      *config.Config
	loadAlerts  bool
	saveAlerts  bool
	copyAlerts  bool
	debug       bool
	themeName   string
	activeTheme *theme.Theme
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("photoedit", flag.ExitOnError),
		program:  "photoedit",
		notifier: notify.New(prefs),
		config:   cfg,
	}
	r.fs.BoolVar(&r.loadAlerts, "notify-load", cfg.Notify.Load, "show a desktop notification after opening an image")
	r.fs.BoolVar(&r.saveAlerts, "notify-save", cfg.Notify.Save, "show a desktop notification after saving an image")
	r.fs.BoolVar(&r.copyAlerts, "notify-copy", cfg.Notify.Copy, "show a desktop notification after copying to the clipboard")
	r.fs.BoolVar(&r.debug, "debug", false, "log editing operations to stderr")

	// Precedence: CLI > Env > Config > Default
	r.fs.StringVar(&r.themeName, "theme", "", "color theme to use (default, dark, high_contrast)")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventLoad, r.loadAlerts)
		r.notifier.Enable(notify.EventSave, r.saveAlerts)
		r.notifier.Enable(notify.EventCopy, r.copyAlerts)
	}
	if r.debug {
		editor.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	r.activeTheme = r.loadTheme()

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch cmdName {
	case "edit":
		cmd, err = parseEditCmd(subArgs, r)
	case "apply":
		cmd, err = parseApplyCmd(subArgs, r)
	case "generate":
		cmd, err = parseGenerateCmd(subArgs, r)
	case "list":
		cmd, err = parseListCmd(subArgs, r)
	case "filters":
		cmd = &filtersCmd{cmdBase: cmdBase{r: r, name: "filters"}}
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{cmdBase: cmdBase{r: r, name: "version"}}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func (r *root) loadTheme() *theme.Theme {
	name := r.themeName
	if name == "" {
		name = os.Getenv("PHOTOEDIT_THEME")
	}
	if name == "" {
		name = r.config.Theme
	}
	t, err := r.config.ThemeLoader().Load(name)
	if err != nil {
		if name != "" && !strings.EqualFold(name, "default") {
			fmt.Fprintf(os.Stderr, "warning: failed to load theme '%s': %v. using default.\n", name, err)
		}
		return theme.Default()
	}
	return t
}

// sessionOptions applies the configured viewport, history limit and text
// preset.
func (r *root) sessionOptions() []editor.Option {
	return []editor.Option{
		editor.WithViewport(r.config.Viewport),
		editor.WithHistoryLimit(r.config.HistoryLimit),
		editor.WithTextDefaults(r.config.TextDefaults()),
	}
}

// outputOptions is the configured save encoding.
func (r *root) outputOptions() (render.Options, error) {
	opts := render.DefaultOptions()
	f, err := raster.ParseFormat(r.config.Format)
	if err != nil {
		return opts, fmt.Errorf("config format: %w", err)
	}
	opts.Format = f
	if r.config.Quality > 0 {
		opts.Quality = r.config.Quality
	}
	return opts, nil
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cmdBase carries what every subcommand shares.
type cmdBase struct {
	r    *root
	fs   *flag.FlagSet
	name string
}

func (c *cmdBase) Program() string {
	program := "photoedit"
	if c.r != nil {
		program = c.r.program
	}
	return strings.TrimSpace(program + " " + c.name)
}

func (c *cmdBase) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *cmdBase) Template() string {
	return c.name + ".txt"
}

func (c *cmdBase) notifySave(path string) {
	if c.r == nil || c.r.notifier == nil {
		return
	}
	c.r.notifier.Save(path)
}

func (c *cmdBase) notifyCopy(detail string) {
	if c.r == nil || c.r.notifier == nil {
		return
	}
	c.r.notifier.Copy(detail)
}
